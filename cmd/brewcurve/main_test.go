package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pourover/internal/domain"
)

func classic(t *testing.T) domain.Recipe {
	t.Helper()
	r, err := loadRecipe(context.Background(), "classic v60", "")
	require.NoError(t, err)
	return *r
}

func TestLoadRecipe_Preset(t *testing.T) {
	r := classic(t)
	assert.Equal(t, "Classic V60", r.Name)
	assert.Equal(t, 180, r.TotalTime)

	_, err := loadRecipe(context.Background(), "french press", "")
	assert.ErrorContains(t, err, "no preset")
}

func TestLoadRecipe_File(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
name: Unsorted
total_time: 60
target_points: [{time: 60, weight: 100}, {time: 0, weight: 0}]
`), 0o600))

	r, err := loadRecipe(context.Background(), "", good)
	require.NoError(t, err)
	assert.Equal(t, []domain.WeightPoint{{Time: 0, Weight: 0}, {Time: 60, Weight: 100}}, r.TargetPoints)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: Broken\ntotal_time: 0\n"), 0o600))
	_, err = loadRecipe(context.Background(), "", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totalTime must be greater than 0")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, classic(t), 60))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Classic V60 (3:00, max 300 g)")
	assert.Contains(t, lines[3], "1:00")
	assert.Contains(t, lines[3], "95.0")
	assert.Contains(t, lines[5], "3:00")
	assert.Contains(t, lines[5], "300.0")

	assert.Error(t, printTable(&buf, classic(t), 0))
}

func TestPrintTable_RejectsNonFiniteStep(t *testing.T) {
	r := classic(t)
	for _, step := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5} {
		var buf bytes.Buffer
		assert.Error(t, printTable(&buf, r, step), "step %v", step)
	}
}

func TestPrintTable_UnevenStep(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, classic(t), 70))
	out := buf.String()
	assert.Contains(t, out, "2:20")
	assert.Contains(t, out, "3:00", "the last row is always the total time")
}

func TestFollow_RunsUntilDone(t *testing.T) {
	base := time.Unix(0, 0)
	calls := 0
	clock := func() time.Time {
		now := base.Add(time.Duration(calls) * 100 * time.Second)
		calls++
		return now
	}

	var buf bytes.Buffer
	follow(context.Background(), &buf, classic(t), domain.NewTimer(clock), time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "1:40")
	assert.Contains(t, out, "done")
}

func TestFollow_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	timer := domain.NewTimer(nil)
	follow(ctx, &buf, classic(t), timer, time.Hour)

	assert.Contains(t, buf.String(), "stopped at 0:00")
	assert.False(t, timer.Running())
}
