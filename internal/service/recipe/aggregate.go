package recipe

import (
	"fmt"
	"sort"

	"github.com/forkful/api/internal/domain"
)

// assembleDocument joins the flat row sets of a bundle into the nested
// document for one recipe. The bundle is keyed by a recipe id set, so every
// row is filtered by recipe id here; with today's singleton selection the
// filters are pass-throughs.
func assembleDocument(recipeID int64, bundle *domain.RecipeBundle) (*domain.RecipeDocument, error) {
	var recipe *domain.Recipe
	for i := range bundle.Recipes {
		if bundle.Recipes[i].ID == recipeID {
			recipe = &bundle.Recipes[i]
			break
		}
	}
	if recipe == nil {
		// The scope query produced this id moments ago.
		return nil, fmt.Errorf("%w: recipe %d vanished between selection and fetch", ErrInconsistent, recipeID)
	}

	ingredients := filterByRecipe(bundle.Ingredients, recipeID, func(i domain.Ingredient) int64 { return i.RecipeID })
	sections := filterByRecipe(bundle.Sections, recipeID, func(s domain.Section) int64 { return s.RecipeID })
	steps := filterByRecipe(bundle.Steps, recipeID, func(s domain.Step) int64 { return s.RecipeID })
	notes := filterByRecipe(bundle.Notes, recipeID, func(n domain.Note) int64 { return n.RecipeID })
	events := filterByRecipe(bundle.TimelineEvents, recipeID, func(e domain.TimelineEvent) int64 { return e.RecipeID })

	groups := groupReactions(notes, bundle.Reactions)
	for i := range notes {
		notes[i].Reactions = groups[notes[i].ID]
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []string{}
	}

	return &domain.RecipeDocument{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Author:      recipe.Author,
		Source:      recipe.Source,
		Time:        recipe.Time,
		Servings:    recipe.Servings,
		Tags:        tags,
		ArchivedAt:  recipe.ArchivedAt,
		CreatedAt:   recipe.CreatedAt,
		Ingredients: mergeIngredientItems(ingredients, sections),
		Steps:       steps,
		Timeline:    mergeTimeline(events, notes),
	}, nil
}

// mergeIngredientItems interleaves ingredient rows and section headings into
// a single sequence ordered by position across both variants, so a section
// can sit between two ingredients. At equal positions the stable sort keeps
// ingredients ahead of sections.
func mergeIngredientItems(ingredients []domain.Ingredient, sections []domain.Section) []domain.IngredientItem {
	items := make([]domain.IngredientItem, 0, len(ingredients)+len(sections))
	for _, ing := range ingredients {
		items = append(items, ing)
	}
	for _, sec := range sections {
		items = append(items, sec)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return itemPosition(items[i]) < itemPosition(items[j])
	})
	return items
}

func itemPosition(item domain.IngredientItem) string {
	switch v := item.(type) {
	case domain.Ingredient:
		return v.Position
	case domain.Section:
		return v.Position
	default:
		return ""
	}
}

// groupReactions partitions reactions by note id, preserving their arrival
// order (already newest-first). Every note resolves to a slice, so a note
// with no reactions carries an empty list rather than a missing key.
func groupReactions(notes []domain.Note, reactions []domain.Reaction) map[int64][]domain.Reaction {
	groups := make(map[int64][]domain.Reaction, len(notes))
	for _, note := range notes {
		groups[note.ID] = []domain.Reaction{}
	}
	for _, rx := range reactions {
		if _, ok := groups[rx.NoteID]; !ok {
			// Reaction on a note outside this document.
			continue
		}
		groups[rx.NoteID] = append(groups[rx.NoteID], rx)
	}
	return groups
}

// mergeTimeline zips two sequences that each arrive sorted by created_at
// descending into one, in linear time. At equal timestamps the event comes
// first; within a variant the database order (newest id first) stands.
func mergeTimeline(events []domain.TimelineEvent, notes []domain.Note) []domain.TimelineEntry {
	merged := make([]domain.TimelineEntry, 0, len(events)+len(notes))
	i, j := 0, 0
	for i < len(events) && j < len(notes) {
		if !events[i].CreatedAt.Before(notes[j].CreatedAt) {
			merged = append(merged, events[i])
			i++
		} else {
			merged = append(merged, notes[j])
			j++
		}
	}
	for ; i < len(events); i++ {
		merged = append(merged, events[i])
	}
	for ; j < len(notes); j++ {
		merged = append(merged, notes[j])
	}
	return merged
}

func filterByRecipe[T any](rows []T, recipeID int64, key func(T) int64) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if key(row) == recipeID {
			out = append(out, row)
		}
	}
	return out
}
