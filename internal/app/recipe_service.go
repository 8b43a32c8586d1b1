package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pourover/internal/domain"
)

// ErrInvalidRecipe wraps every recipe validation failure.
var ErrInvalidRecipe = errors.New("invalid recipe data")

// RecipeService encapsulates the recipe catalogue use cases.
type RecipeService struct {
	repo domain.RecipeRepository
}

// NewRecipeService creates a RecipeService backed by the given repository.
func NewRecipeService(repo domain.RecipeRepository) *RecipeService {
	return &RecipeService{repo: repo}
}

// List returns every recipe in the catalogue.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	return s.repo.ListRecipes(ctx)
}

// Get returns a single recipe or domain.ErrRecipeNotFound.
func (s *RecipeService) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	return s.repo.GetRecipe(ctx, id)
}

// Create validates in and stores it as a new recipe with its points sorted
// by time.
func (s *RecipeService) Create(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateRecipe(ctx, in)
}

// Update replaces the editable fields of recipe id, producing a new snapshot.
func (s *RecipeService) Update(ctx context.Context, id int64, in domain.RecipeInput) (*domain.Recipe, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateRecipe(ctx, id, in)
}

// Delete removes recipe id.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRecipe(ctx, id)
}

// Import validates every input first and only then stores them, so a file
// with one bad recipe adds nothing.
func (s *RecipeService) Import(ctx context.Context, ins []domain.RecipeInput) ([]domain.Recipe, error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("%w: file contains no recipes", ErrInvalidRecipe)
	}
	clean := make([]domain.RecipeInput, len(ins))
	for i, in := range ins {
		n, err := normalize(in)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i+1, err)
		}
		clean[i] = n
	}
	out := make([]domain.Recipe, 0, len(clean))
	for _, in := range clean {
		r, err := s.repo.CreateRecipe(ctx, in)
		if err != nil {
			return out, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// SeedPresets stores presets when the catalogue is empty and returns how many
// recipes were created.
func (s *RecipeService) SeedPresets(ctx context.Context, presets []domain.RecipeInput) (int, error) {
	n, err := s.repo.CountRecipes(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, p := range presets {
		if _, err := s.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed %q: %w", p.Name, err)
		}
		created++
	}
	return created, nil
}

func normalize(in domain.RecipeInput) (domain.RecipeInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return in, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}
	in.TargetPoints = domain.SortPoints(in.TargetPoints)
	return in, nil
}
