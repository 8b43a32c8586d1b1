// Package sqlite implements the domain repositories on an embedded SQLite
// file, for single-host installs without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pourover/internal/domain"

	_ "modernc.org/sqlite"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var (
	_ domain.RecipeRepository  = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// Open opens (creating if needed) the database file at path and runs
// migrations.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	s, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			total_time INTEGER NOT NULL CHECK(total_time > 0),
			target_points TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// --- RecipeRepository ---

const recipeColumns = "id, name, description, total_time, target_points"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		r   domain.Recipe
		raw string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.TotalTime, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &r.TargetPoints); err != nil {
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
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ?;", id))
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
		"INSERT INTO recipes (name, description, total_time, target_points) VALUES (?, ?, ?, ?) RETURNING "+recipeColumns+";",
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
		"UPDATE recipes SET name = ?, description = ?, total_time = ?, target_points = ? WHERE id = ? RETURNING "+recipeColumns+";",
		in.Name, in.Description, in.TotalTime, points, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecipeNotFound
	}
	return r, err
}

// DeleteRecipe removes a recipe by ID.
func (d *DB) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?;", id)
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
