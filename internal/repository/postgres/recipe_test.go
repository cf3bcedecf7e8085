package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forkful/api/internal/domain"
	"github.com/forkful/api/internal/repository"
)

// The soft-delete contract lives in the query text: every table with a
// deleted_at column filters its own tombstones, independent of any filter
// on a joined table.
func TestEachFetchFiltersItsOwnTombstones(t *testing.T) {
	cases := []struct {
		table  string
		query  string
		filter string
	}{
		{"recipes", recipeSelect, "deleted_at IS NULL"},
		{"ingredients", ingredientSelect, "deleted_at IS NULL"},
		{"sections", sectionSelect, "deleted_at IS NULL"},
		{"steps", stepSelect, "deleted_at IS NULL"},
		{"notes", noteSelect, "n.deleted_at IS NULL"},
		{"reactions", reactionSelect, "rx.deleted_at IS NULL"},
		{"timeline_events", timelineEventSelect, "e.deleted_at IS NULL"},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			if !strings.Contains(tc.query, tc.filter) {
				t.Fatalf("%s fetch does not filter its own tombstones:\n%s", tc.table, tc.query)
			}
		})
	}
}

func TestReactionFetchAlsoExcludesDeletedNotes(t *testing.T) {
	// A live reaction on a tombstoned note must not surface.
	if !strings.Contains(reactionSelect, "n.deleted_at IS NULL") {
		t.Fatalf("reaction fetch does not filter tombstoned notes:\n%s", reactionSelect)
	}
}

func TestVisibleScopeExcludesDeletedRecipes(t *testing.T) {
	if !strings.Contains(visibleRecipeSelect, "r.deleted_at IS NULL") {
		t.Fatalf("scope query does not filter tombstoned recipes:\n%s", visibleRecipeSelect)
	}
}

func TestVisibleScopeRequiresActiveMembership(t *testing.T) {
	// Team-owned recipes are reachable only through the membership subquery,
	// and that subquery admits active memberships only. Flipping is_active on
	// a row is what moves its team's recipes in and out of the scope.
	if !strings.Contains(visibleRecipeSelect, "m.user_id = $1 AND m.is_active") {
		t.Fatalf("membership subquery does not require an active membership:\n%s", visibleRecipeSelect)
	}
	if !strings.Contains(visibleRecipeSelect, "t.id IN (") {
		t.Fatalf("team ownership does not route through the membership subquery:\n%s", visibleRecipeSelect)
	}
}

func TestSelectVisibleRecipeIDRejectsUnknownPolicy(t *testing.T) {
	repo := New(nil)
	_, err := repo.SelectVisibleRecipeID(context.Background(), 1, domain.RecipeSelection{Policy: "newest_first"})
	if !errors.Is(err, repository.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown policy, got %v", err)
	}
}
