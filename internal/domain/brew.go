package domain

import (
	"fmt"
	"math"
)

// BrewSnapshot describes where a brew stands at a given elapsed time.
type BrewSnapshot struct {
	Elapsed  float64 `json:"elapsed"`
	Clock    string  `json:"clock"`
	Target   float64 `json:"target"`
	Progress float64 `json:"progress"`
	Done     bool    `json:"done"`
}

// Snapshot computes the brew state of r after elapsed seconds. Progress is
// the share of TotalTime elapsed, as a percentage capped at 100.
func Snapshot(r Recipe, elapsed float64) (BrewSnapshot, error) {
	if elapsed < 0 {
		elapsed = 0
	}
	target, err := TargetWeight(r.TargetPoints, elapsed)
	if err != nil {
		return BrewSnapshot{}, err
	}
	var progress float64
	if r.TotalTime > 0 {
		progress = math.Min(elapsed/float64(r.TotalTime)*100, 100)
	}
	return BrewSnapshot{
		Elapsed:  elapsed,
		Clock:    FormatClock(elapsed),
		Target:   target,
		Progress: progress,
		Done:     r.TotalTime > 0 && elapsed >= float64(r.TotalTime),
	}, nil
}

// FormatClock renders seconds as m:ss, truncating fractions.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	s := int64(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
