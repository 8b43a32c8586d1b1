package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pourover/internal/domain"
)

// ErrInvalidScale is returned for scale factors that are not finite positive
// numbers.
var ErrInvalidScale = errors.New("scale must be a positive number")

const (
	defaultChartStep = 5
	maxChartSamples  = 1000
)

// BrewService answers the live questions of a running brew: where the
// target weight is now, and what the curve looks like.
type BrewService struct {
	recipes domain.RecipeRepository
}

// NewBrewService creates a BrewService backed by the given repository.
func NewBrewService(recipes domain.RecipeRepository) *BrewService {
	return &BrewService{recipes: recipes}
}

// Chart is the data needed to draw a recipe's target curve and the current
// position on it.
type Chart struct {
	RecipeID  int64                `json:"recipeId"`
	TotalTime int                  `json:"totalTime"`
	Scale     float64              `json:"scale"`
	MaxWeight float64              `json:"maxWeight"`
	Curve     []domain.WeightPoint `json:"curve"`
	Samples   []domain.WeightPoint `json:"samples"`
	Cursor    *domain.WeightPoint  `json:"cursor"`
}

// ParseScale parses a user supplied scale factor. An empty string means 1.
func ParseScale(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidScale
	}
	if err := checkScale(f); err != nil {
		return 0, err
	}
	return f, nil
}

func checkScale(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return ErrInvalidScale
	}
	return nil
}

// Scaled returns recipe id with its weights multiplied by factor.
func (s *BrewService) Scaled(ctx context.Context, id int64, factor float64) (*domain.Recipe, error) {
	if err := checkScale(factor); err != nil {
		return nil, err
	}
	r, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	scaled := r.Scaled(factor)
	for _, p := range scaled.TargetPoints {
		if math.IsInf(p.Weight, 0) || math.IsNaN(p.Weight) {
			return nil, fmt.Errorf("%w: weights overflow at scale %g", ErrInvalidScale, factor)
		}
	}
	return &scaled, nil
}

// Target returns the brew state of recipe id, scaled by factor, after
// elapsed seconds.
func (s *BrewService) Target(ctx context.Context, id int64, elapsed, factor float64) (domain.BrewSnapshot, error) {
	r, err := s.Scaled(ctx, id, factor)
	if err != nil {
		return domain.BrewSnapshot{}, err
	}
	return domain.Snapshot(*r, elapsed)
}

// Chart samples the scaled curve of recipe id every step seconds across its
// total time. The cursor marks elapsed when it is positive.
func (s *BrewService) Chart(ctx context.Context, id int64, elapsed, factor, step float64) (*Chart, error) {
	r, err := s.Scaled(ctx, id, factor)
	if err != nil {
		return nil, err
	}
	if len(r.TargetPoints) == 0 {
		return nil, domain.ErrNoPoints
	}

	total := float64(r.TotalTime)
	if total <= 0 {
		total = r.TargetPoints[len(r.TargetPoints)-1].Time
	}
	if step <= 0 || math.IsNaN(step) {
		step = defaultChartStep
	}
	if minStep := total / maxChartSamples; step < minStep {
		step = minStep
	}

	samples := make([]domain.WeightPoint, 0, min(int(total/step), maxChartSamples)+1)
	for i := 0; i < maxChartSamples; i++ {
		at := float64(i) * step
		if at >= total {
			break
		}
		w, _ := domain.TargetWeight(r.TargetPoints, at)
		samples = append(samples, domain.WeightPoint{Time: at, Weight: w})
	}
	w, _ := domain.TargetWeight(r.TargetPoints, total)
	samples = append(samples, domain.WeightPoint{Time: total, Weight: w})

	chart := &Chart{
		RecipeID:  r.ID,
		TotalTime: r.TotalTime,
		Scale:     factor,
		MaxWeight: r.MaxWeight(),
		Curve:     r.TargetPoints,
		Samples:   samples,
	}
	if elapsed > 0 {
		w, _ := domain.TargetWeight(r.TargetPoints, elapsed)
		chart.Cursor = &domain.WeightPoint{Time: elapsed, Weight: w}
	}
	return chart, nil
}
