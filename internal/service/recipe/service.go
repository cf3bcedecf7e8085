package recipe

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/forkful/api/internal/domain"
	"github.com/forkful/api/internal/repository"
)

// ErrNoRecipeAvailable means the user authenticated but has nothing to see:
// no owned recipe and no recipe reachable through an active team membership.
// It is a legitimate terminal state, not a failure.
var ErrNoRecipeAvailable = errors.New("recipe: no recipe available")

// ErrInconsistent means a fetch returned no rows for an id the scope query
// just produced: a lost race with a concurrent deletion, or a storage
// anomaly. The request fails whole; it is never papered over with a partial
// document, and it is not retried here since blind retries can mask a real
// integrity bug.
var ErrInconsistent = errors.New("recipe: inconsistent read")

// SessionValidator resolves a session token to a user id at a fixed instant.
type SessionValidator interface {
	Validate(ctx context.Context, token string, now time.Time) (int64, error)
}

// Service assembles the authenticated recipe detail view.
type Service struct {
	sessions  SessionValidator
	recipes   repository.RecipeRepository
	selection domain.RecipeSelection
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs a Service with the given selection policy.
func New(sessions SessionValidator, recipes repository.RecipeRepository, selection domain.RecipeSelection, logger *slog.Logger) Service {
	if selection.Policy == "" {
		selection.Policy = domain.SelectRandom
	}
	return Service{
		sessions:  sessions,
		recipes:   recipes,
		selection: selection,
		logger:    logger,
		now:       time.Now,
	}
}

// View runs the whole read path: validate the token, pick a recipe from the
// user's visibility scope, fetch the related rows from one snapshot, and
// merge them into the nested document. Any failure aborts the assembly;
// no partially populated document is ever returned.
func (s Service) View(ctx context.Context, token string) (*domain.RecipeDocument, error) {
	now := s.now().UTC()

	userID, err := s.sessions.Validate(ctx, token, now)
	if err != nil {
		return nil, err
	}

	recipeID, err := s.recipes.SelectVisibleRecipeID(ctx, userID, s.selection)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoRecipeAvailable
		}
		return nil, err
	}

	bundle, err := s.recipes.FetchRecipeBundle(ctx, []int64{recipeID})
	if err != nil {
		return nil, err
	}

	doc, err := assembleDocument(recipeID, bundle)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe view assembled",
		"user_id", userID,
		"recipe_id", recipeID,
		"ingredients", len(doc.Ingredients),
		"steps", len(doc.Steps),
		"timeline", len(doc.Timeline),
	)
	return doc, nil
}
