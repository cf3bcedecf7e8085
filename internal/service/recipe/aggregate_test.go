package recipe

import (
	"errors"
	"testing"
	"time"

	"github.com/forkful/api/internal/domain"
)

func TestMergeIngredientItemsInterleavesSections(t *testing.T) {
	ingredients := []domain.Ingredient{
		{ID: 11, Position: "1.5", Name: "flour", RecipeID: 42},
		{ID: 12, Position: "2", Name: "sugar", RecipeID: 42},
	}
	sections := []domain.Section{
		{ID: 21, Position: "1", Title: "Dry", RecipeID: 42},
	}

	items := mergeIngredientItems(ingredients, sections)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if sec, ok := items[0].(domain.Section); !ok || sec.ID != 21 {
		t.Fatalf("expected section 21 first, got %#v", items[0])
	}
	if ing, ok := items[1].(domain.Ingredient); !ok || ing.ID != 11 {
		t.Fatalf("expected ingredient 11 second, got %#v", items[1])
	}
	if ing, ok := items[2].(domain.Ingredient); !ok || ing.ID != 12 {
		t.Fatalf("expected ingredient 12 last, got %#v", items[2])
	}
}

func TestMergeIngredientItemsStableOnEqualPositions(t *testing.T) {
	ingredients := []domain.Ingredient{{ID: 1, Position: "1"}}
	sections := []domain.Section{{ID: 2, Position: "1"}}

	items := mergeIngredientItems(ingredients, sections)
	if _, ok := items[0].(domain.Ingredient); !ok {
		t.Fatalf("expected ingredient to keep precedence at equal position, got %#v", items[0])
	}
}

func TestGroupReactionsEmptyGroupForQuietNote(t *testing.T) {
	notes := []domain.Note{{ID: 1}, {ID: 2}}
	reactions := []domain.Reaction{
		{ID: 10, NoteID: 1, Emoji: "🔥"},
		{ID: 11, NoteID: 1, Emoji: "👍"},
		{ID: 12, NoteID: 99, Emoji: "🥲"},
	}

	groups := groupReactions(notes, reactions)
	if got := groups[1]; len(got) != 2 || got[0].ID != 10 || got[1].ID != 11 {
		t.Fatalf("expected reactions [10 11] in arrival order, got %#v", got)
	}
	group, ok := groups[2]
	if !ok {
		t.Fatalf("expected an entry for the reaction-less note")
	}
	if group == nil || len(group) != 0 {
		t.Fatalf("expected empty (non-nil) group, got %#v", group)
	}
	if _, ok := groups[99]; ok {
		t.Fatalf("did not expect a group for a note outside the document")
	}
}

func TestMergeTimelineOrdersDescendingAcrossVariants(t *testing.T) {
	at := func(sec int) time.Time {
		return time.Date(2025, time.March, 1, 0, 0, sec, 0, time.UTC)
	}
	events := []domain.TimelineEvent{{ID: 1, Action: "created", CreatedAt: at(7)}}
	notes := []domain.Note{
		{ID: 2, CreatedAt: at(5)},
		{ID: 3, CreatedAt: at(3)},
	}

	timeline := mergeTimeline(events, notes)
	if len(timeline) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(timeline))
	}
	if ev, ok := timeline[0].(domain.TimelineEvent); !ok || ev.ID != 1 {
		t.Fatalf("expected event first, got %#v", timeline[0])
	}
	if note, ok := timeline[1].(domain.Note); !ok || note.ID != 2 {
		t.Fatalf("expected note 2 second, got %#v", timeline[1])
	}
	if note, ok := timeline[2].(domain.Note); !ok || note.ID != 3 {
		t.Fatalf("expected note 3 last, got %#v", timeline[2])
	}
}

func TestMergeTimelineEventWinsTies(t *testing.T) {
	ts := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.TimelineEvent{{ID: 1, CreatedAt: ts}}
	notes := []domain.Note{{ID: 2, CreatedAt: ts}}

	timeline := mergeTimeline(events, notes)
	if _, ok := timeline[0].(domain.TimelineEvent); !ok {
		t.Fatalf("expected event before note at equal timestamps, got %#v", timeline[0])
	}
}

func TestAssembleDocumentMissingRecipeIsInconsistent(t *testing.T) {
	bundle := &domain.RecipeBundle{
		Recipes: []domain.Recipe{{ID: 7}},
	}
	if _, err := assembleDocument(42, bundle); !errors.Is(err, ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}
}

func TestAssembleDocumentFiltersByRecipeID(t *testing.T) {
	bundle := &domain.RecipeBundle{
		Recipes: []domain.Recipe{{ID: 42, Name: "bread", Tags: []string{"baking"}}},
		Ingredients: []domain.Ingredient{
			{ID: 1, Position: "1", RecipeID: 42},
			{ID: 2, Position: "1", RecipeID: 7},
		},
		Steps: []domain.Step{
			{ID: 3, Position: "1", RecipeID: 42},
			{ID: 4, Position: "2", RecipeID: 7},
		},
		Notes: []domain.Note{
			{ID: 5, RecipeID: 42, CreatedAt: time.Unix(100, 0)},
			{ID: 6, RecipeID: 7, CreatedAt: time.Unix(200, 0)},
		},
	}

	doc, err := assembleDocument(42, bundle)
	if err != nil {
		t.Fatalf("assembleDocument returned error: %v", err)
	}
	if len(doc.Ingredients) != 1 {
		t.Fatalf("expected 1 ingredient, got %d", len(doc.Ingredients))
	}
	if len(doc.Steps) != 1 || doc.Steps[0].ID != 3 {
		t.Fatalf("expected only step 3, got %#v", doc.Steps)
	}
	if len(doc.Timeline) != 1 {
		t.Fatalf("expected 1 timeline entry, got %d", len(doc.Timeline))
	}
	note, ok := doc.Timeline[0].(domain.Note)
	if !ok || note.ID != 5 {
		t.Fatalf("expected note 5 on the timeline, got %#v", doc.Timeline[0])
	}
	if note.Reactions == nil || len(note.Reactions) != 0 {
		t.Fatalf("expected empty reaction list on note, got %#v", note.Reactions)
	}
}

func TestAssembleDocumentNormalizesNilTags(t *testing.T) {
	bundle := &domain.RecipeBundle{Recipes: []domain.Recipe{{ID: 1}}}
	doc, err := assembleDocument(1, bundle)
	if err != nil {
		t.Fatalf("assembleDocument returned error: %v", err)
	}
	if doc.Tags == nil || len(doc.Tags) != 0 {
		t.Fatalf("expected empty tags slice, got %#v", doc.Tags)
	}
}
