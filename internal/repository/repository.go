package repository

import (
	"context"
	"time"

	"github.com/forkful/api/internal/domain"
)

// SessionRepository reads the external session store.
type SessionRepository interface {
	// GetLiveSession returns the session for the token iff it expires after
	// now. A missing row and an expired row both return ErrNotFound; the
	// distinction must not leak to callers.
	GetLiveSession(ctx context.Context, sessionKey string, now time.Time) (*domain.Session, error)
}

// RecipeRepository reads recipes and their related rows.
type RecipeRepository interface {
	// SelectVisibleRecipeID picks one recipe id out of the user's visibility
	// scope (owned directly, or via an active team membership), applying the
	// selection policy inside the query so the scope is never materialized.
	// Returns ErrNotFound when the scope is empty.
	SelectVisibleRecipeID(ctx context.Context, userID int64, sel domain.RecipeSelection) (int64, error)

	// FetchRecipeBundle loads the recipe rows plus all six related row sets
	// for the given recipe ids from one consistent snapshot. Every query
	// filters soft-deleted rows independently.
	FetchRecipeBundle(ctx context.Context, recipeIDs []int64) (*domain.RecipeBundle, error)
}
