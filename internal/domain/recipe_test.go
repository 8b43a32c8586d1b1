package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pourover/internal/domain"
)

func TestSortPoints(t *testing.T) {
	in := []domain.WeightPoint{{Time: 90, Weight: 200}, {Time: 0, Weight: 0}, {Time: 30, Weight: 60}, {Time: 30, Weight: 61}}
	got := domain.SortPoints(in)
	assert.Equal(t, []domain.WeightPoint{{Time: 0, Weight: 0}, {Time: 30, Weight: 60}, {Time: 30, Weight: 61}, {Time: 90, Weight: 200}}, got)
	assert.Equal(t, 90.0, in[0].Time, "input must not be reordered")
}

func TestRecipeScaled(t *testing.T) {
	r := domain.Recipe{ID: 3, Name: "V60", TotalTime: 180, TargetPoints: v60}
	s := r.Scaled(0.5)
	assert.Equal(t, int64(3), s.ID)
	assert.Equal(t, 150.0, s.MaxWeight())
	assert.Equal(t, 300.0, r.MaxWeight())
}

func TestRecipeInput(t *testing.T) {
	r := domain.Recipe{ID: 1, Name: "n", Description: "d", TotalTime: 10, TargetPoints: v60}
	in := r.Input()
	in.TargetPoints[0].Weight = 99
	assert.Equal(t, 0.0, r.TargetPoints[0].Weight)
	assert.Equal(t, "d", in.Description)
}

func TestSnapshot(t *testing.T) {
	r := domain.Recipe{TotalTime: 180, TargetPoints: v60}

	s, err := domain.Snapshot(r, 105)
	require.NoError(t, err)
	assert.InDelta(t, 180, s.Target, 1e-9)
	assert.Equal(t, "1:45", s.Clock)
	assert.InDelta(t, 58.333, s.Progress, 0.001)
	assert.False(t, s.Done)

	s, err = domain.Snapshot(r, 400)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.Progress)
	assert.True(t, s.Done)
	assert.Equal(t, 300.0, s.Target)

	s, err = domain.Snapshot(r, -3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Elapsed)

	_, err = domain.Snapshot(domain.Recipe{TotalTime: 10}, 1)
	assert.ErrorIs(t, err, domain.ErrNoPoints)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", domain.FormatClock(0))
	assert.Equal(t, "0:09", domain.FormatClock(9.99))
	assert.Equal(t, "3:00", domain.FormatClock(180))
	assert.Equal(t, "12:05", domain.FormatClock(725))
	assert.Equal(t, "0:00", domain.FormatClock(-1))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimer(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	tm := domain.NewTimer(clk.now)

	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())

	tm.Start()
	clk.advance(10 * time.Second)
	assert.True(t, tm.Running())
	assert.Equal(t, 10*time.Second, tm.Elapsed())

	tm.Pause()
	clk.advance(time.Minute)
	assert.Equal(t, 10*time.Second, tm.Elapsed())

	// Resume continues from the paused value.
	tm.Start()
	tm.Start()
	clk.advance(5 * time.Second)
	assert.Equal(t, 15*time.Second, tm.Elapsed())

	tm.Reset()
	assert.False(t, tm.Running())
	assert.Zero(t, tm.Elapsed())

	tm.Pause()
	assert.Zero(t, tm.Elapsed())
}
