// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"pourover/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	recipes  map[int64]domain.Recipe
	users    []*domain.User
	sessions map[string]*domain.Session

	recipeIDCounter int64
	userIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		recipes:  make(map[int64]domain.Recipe),
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.RecipeRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// Close is a no-op; it lets DB stand in for the SQL stores.
func (db *DB) Close() error { return nil }

// --- RecipeRepository ---

// ListRecipes returns all recipes ordered by ID.
func (db *DB) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Recipe, 0, len(db.recipes))
	for _, r := range db.recipes {
		out = append(out, clone(r))
	}
	slices.SortFunc(out, func(a, b domain.Recipe) int {
		return int(a.ID - b.ID)
	})
	return out, nil
}

// GetRecipe returns a copy of the recipe with the given ID.
func (db *DB) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	r = clone(r)
	return &r, nil
}

// CreateRecipe stores a new recipe and assigns it the next ID.
func (db *DB) CreateRecipe(ctx context.Context, in domain.RecipeInput) (*domain.Recipe, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.recipeIDCounter++
	r := fromInput(db.recipeIDCounter, in)
	db.recipes[r.ID] = r
	r = clone(r)
	return &r, nil
}

// UpdateRecipe replaces the recipe with the given ID.
func (db *DB) UpdateRecipe(ctx context.Context, id int64, in domain.RecipeInput) (*domain.Recipe, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.recipes[id]; !ok {
		return nil, domain.ErrRecipeNotFound
	}
	r := fromInput(id, in)
	db.recipes[id] = r
	r = clone(r)
	return &r, nil
}

// DeleteRecipe removes the recipe with the given ID.
func (db *DB) DeleteRecipe(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.recipes[id]; !ok {
		return domain.ErrRecipeNotFound
	}
	delete(db.recipes, id)
	return nil
}

// CountRecipes returns the number of stored recipes.
func (db *DB) CountRecipes(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.recipes), nil
}

func fromInput(id int64, in domain.RecipeInput) domain.Recipe {
	return domain.Recipe{
		ID:           id,
		Name:         in.Name,
		Description:  in.Description,
		TotalTime:    in.TotalTime,
		TargetPoints: slices.Clone(in.TargetPoints),
	}
}

// Stored recipes never share their point slices with callers.
func clone(r domain.Recipe) domain.Recipe {
	r.TargetPoints = slices.Clone(r.TargetPoints)
	return r
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
