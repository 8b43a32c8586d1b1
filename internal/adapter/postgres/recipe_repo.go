// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pourover/internal/domain"
)

const recipeColumns = "id, name, description, total_time, target_points"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		r   domain.Recipe
		raw []byte
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.TotalTime, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &r.TargetPoints); err != nil {
		return nil, fmt.Errorf("recipe %d: decode target_points: %w", r.ID, err)
	}
	return &r, nil
}

func encodePoints(points []domain.WeightPoint) (string, error) {
	if points == nil {
		points = []domain.WeightPoint{}
	}
	b, err := json.Marshal(points)
	return string(b), err
}

// ListRecipes returns all recipes ordered by ID.
func (d *DB) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+recipeColumns+" FROM recipes ORDER BY id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRecipe retrieves a recipe by ID.
func (d *DB) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	r, err := scanRecipe(d.sql.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = $1;", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecipeNotFound
	}
	return r, err
}

// CreateRecipe inserts a new recipe.
func (d *DB) CreateRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	points, err := encodePoints(in.TargetPoints)
	if err != nil {
		return nil, err
	}
	return scanRecipe(d.sql.QueryRowContext(ctx,
		"INSERT INTO recipes (name, description, total_time, target_points) VALUES ($1, $2, $3, $4::jsonb) RETURNING "+recipeColumns+";",
		in.Name, in.Description, in.TotalTime, points,
	))
}

// UpdateRecipe replaces the editable fields of a recipe.
func (d *DB) UpdateRecipe(ctx context.Context, id int64, in domain.RecipeInput) (*domain.Recipe, error) {
	points, err := encodePoints(in.TargetPoints)
	if err != nil {
		return nil, err
	}
	r, err := scanRecipe(d.sql.QueryRowContext(ctx,
		"UPDATE recipes SET name = $2, description = $3, total_time = $4, target_points = $5::jsonb, updated_at = now() WHERE id = $1 RETURNING "+recipeColumns+";",
		id, in.Name, in.Description, in.TotalTime, points,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecipeNotFound
	}
	return r, err
}

// DeleteRecipe removes a recipe by ID.
func (d *DB) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1;", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

// CountRecipes returns the number of stored recipes.
func (d *DB) CountRecipes(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes;").Scan(&n)
	return n, err
}
