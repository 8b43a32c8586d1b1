package domain

import "errors"

// ErrNoPoints is returned when a target weight is requested from an empty
// curve.
var ErrNoPoints = errors.New("curve has no points")

// TargetWeight returns the target weight at t seconds on the curve described
// by points, which must be sorted by ascending time. Before the first point
// and after the last the curve is flat; in between it is linear between the
// first adjacent pair a, b with a.Time <= t < b.Time.
//
// The result for unsorted points is unspecified.
func TargetWeight(points []WeightPoint, t float64) (float64, error) {
	if len(points) == 0 {
		return 0, ErrNoPoints
	}
	first, last := points[0], points[len(points)-1]
	if t <= first.Time {
		return first.Weight, nil
	}
	if t >= last.Time {
		return last.Weight, nil
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.Time <= t && t < b.Time {
			ratio := (t - a.Time) / (b.Time - a.Time)
			return a.Weight + ratio*(b.Weight-a.Weight), nil
		}
	}
	// Only reachable for unsorted input.
	return last.Weight, nil
}

// Scale returns a new curve with every weight multiplied by factor. Times are
// copied unchanged. factor is not validated.
func Scale(points []WeightPoint, factor float64) []WeightPoint {
	out := make([]WeightPoint, len(points))
	for i, p := range points {
		out[i] = WeightPoint{Time: p.Time, Weight: p.Weight * factor}
	}
	return out
}
