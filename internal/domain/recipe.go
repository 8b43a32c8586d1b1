// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"slices"
)

// ErrRecipeNotFound is returned by repositories when no recipe has the
// requested ID.
var ErrRecipeNotFound = errors.New("recipe not found")

// WeightPoint is a single sample of a target curve: the scale should read
// Weight grams once Time seconds have elapsed.
type WeightPoint struct {
	Time   float64 `json:"time" yaml:"time" validate:"gte=0,finite"`
	Weight float64 `json:"weight" yaml:"weight" validate:"gte=0,finite"`
}

// Recipe is a named target weight-over-time curve.
type Recipe struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	TotalTime    int           `json:"totalTime"`
	TargetPoints []WeightPoint `json:"targetPoints"`
}

// RecipeInput carries the user-editable fields of a recipe for create and
// update.
type RecipeInput struct {
	Name         string        `json:"name" validate:"required,max=120"`
	Description  string        `json:"description" validate:"max=2000"`
	TotalTime    int           `json:"totalTime" validate:"gt=0"`
	TargetPoints []WeightPoint `json:"targetPoints" validate:"min=2,dive"`
}

// Input returns the editable fields of r.
func (r Recipe) Input() RecipeInput {
	return RecipeInput{
		Name:         r.Name,
		Description:  r.Description,
		TotalTime:    r.TotalTime,
		TargetPoints: slices.Clone(r.TargetPoints),
	}
}

// Scaled returns a copy of r with every target weight multiplied by factor.
func (r Recipe) Scaled(factor float64) Recipe {
	r.TargetPoints = Scale(r.TargetPoints, factor)
	return r
}

// MaxWeight returns the largest target weight of r, or 0 without points.
func (r Recipe) MaxWeight() float64 {
	var m float64
	for _, p := range r.TargetPoints {
		if p.Weight > m {
			m = p.Weight
		}
	}
	return m
}

// SortPoints returns a copy of points ordered by ascending time. Points with
// equal times keep their relative order.
func SortPoints(points []WeightPoint) []WeightPoint {
	out := slices.Clone(points)
	slices.SortStableFunc(out, func(a, b WeightPoint) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return out
}

// RecipeRepository is the port for recipe persistence.
type RecipeRepository interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*Recipe, error)
	CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, in RecipeInput) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	CountRecipes(ctx context.Context) (int, error)
}
