package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/forkful/api/internal/domain"
	"github.com/forkful/api/internal/repository"
)

// visibleRecipeSelect resolves the polymorphic owner reference against both
// branches and admits a recipe when the user owns it directly or belongs,
// actively, to the owning team. Inactive memberships never grant access; a
// recipe whose owner resolves to neither branch is never visible.
const visibleRecipeSelect = `SELECT r.id
	FROM recipes r
	LEFT JOIN users u ON r.owner_kind = 'user' AND r.owner_id = u.id
	LEFT JOIN teams t ON r.owner_kind = 'team' AND r.owner_id = t.id
	WHERE r.deleted_at IS NULL
		AND (u.id = $1 OR t.id IN (
			SELECT m.team_id FROM team_memberships m
			WHERE m.user_id = $1 AND m.is_active))`

// SelectVisibleRecipeID picks one recipe id from the user's visibility scope.
// The selection policy is applied inside the query, so the scope is never
// loaded into memory regardless of how many recipes the user can see.
func (r *Repository) SelectVisibleRecipeID(ctx context.Context, userID int64, sel domain.RecipeSelection) (int64, error) {
	var (
		query string
		args  []any
	)
	switch sel.Policy {
	case domain.SelectRandom, "":
		query = visibleRecipeSelect + `
	ORDER BY random()
	LIMIT 1`
		args = []any{userID}
	case domain.SelectMostRecent:
		query = visibleRecipeSelect + `
	ORDER BY r.created_at DESC
	LIMIT 1`
		args = []any{userID}
	case domain.SelectByID:
		query = visibleRecipeSelect + `
		AND r.id = $2
	LIMIT 1`
		args = []any{userID, sel.RecipeID}
	default:
		return 0, fmt.Errorf("%w: unknown selection policy %q", repository.ErrInvalidArgument, sel.Policy)
	}

	var recipeID int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&recipeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return recipeID, nil
}

const (
	recipeSelect = `SELECT id, name, author, source, time, servings, tags, owner_kind, owner_id, created_at, archived_at
	FROM recipes
	WHERE deleted_at IS NULL AND id = ANY($1)`

	ingredientSelect = `SELECT id, position, quantity, name, description, recipe_id
	FROM ingredients
	WHERE deleted_at IS NULL AND recipe_id = ANY($1)
	ORDER BY position ASC, id ASC`

	sectionSelect = `SELECT id, title, position, recipe_id
	FROM sections
	WHERE deleted_at IS NULL AND recipe_id = ANY($1)
	ORDER BY position ASC, id ASC`

	stepSelect = `SELECT id, position, text, recipe_id
	FROM steps
	WHERE deleted_at IS NULL AND recipe_id = ANY($1)
	ORDER BY position ASC, id ASC`

	// The creator join is inner: a note without a resolvable creator is a
	// data-integrity violation and is excluded. The modifier columns are
	// part of the read contract but never surfaced.
	noteSelect = `SELECT n.id, n.text, n.created_at, n.modified_at, n.recipe_id,
		creator.email, creator.name,
		modifier.email, modifier.name
	FROM notes n
	INNER JOIN users creator ON n.created_by_id = creator.id
	LEFT JOIN users modifier ON n.modified_by_id = modifier.id
	WHERE n.deleted_at IS NULL AND n.recipe_id = ANY($1)
	ORDER BY n.created_at DESC, n.id DESC`

	// Reactions carry no recipe reference of their own; they reach the
	// recipe through their note.
	reactionSelect = `SELECT rx.id, rx.emoji, rx.created_by_id, rx.created_at, rx.note_id
	FROM reactions rx
	INNER JOIN notes n ON rx.note_id = n.id
	WHERE rx.deleted_at IS NULL AND n.deleted_at IS NULL AND n.recipe_id = ANY($1)
	ORDER BY rx.created_at DESC, rx.id DESC`

	timelineEventSelect = `SELECT e.id, e.action, e.created_at, e.created_by_id, u.email, e.recipe_id
	FROM timeline_events e
	LEFT JOIN users u ON e.created_by_id = u.id
	WHERE e.deleted_at IS NULL AND e.recipe_id = ANY($1)
	ORDER BY e.created_at DESC, e.id DESC`
)

// FetchRecipeBundle loads the recipe rows and all six related row sets for
// the given ids. Every query runs on one read-only REPEATABLE READ
// transaction, so the whole bundle reflects a single snapshot and a write
// landing between two of the reads cannot produce a torn document.
func (r *Repository) FetchRecipeBundle(ctx context.Context, recipeIDs []int64) (*domain.RecipeBundle, error) {
	if len(recipeIDs) == 0 {
		return nil, fmt.Errorf("%w: no recipe ids", repository.ErrInvalidArgument)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin bundle read: %w", err)
	}
	defer tx.Rollback(ctx)

	bundle := &domain.RecipeBundle{}

	if bundle.Recipes, err = fetchRecipes(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.Ingredients, err = fetchIngredients(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.Sections, err = fetchSections(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.Steps, err = fetchSteps(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.Notes, err = fetchNotes(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.Reactions, err = fetchReactions(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}
	if bundle.TimelineEvents, err = fetchTimelineEvents(ctx, tx, recipeIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit bundle read: %w", err)
	}
	return bundle, nil
}

func fetchRecipes(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Recipe, error) {
	rows, err := tx.Query(ctx, recipeSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]domain.Recipe, 0, len(recipeIDs))
	for rows.Next() {
		var (
			recipe     domain.Recipe
			ownerKind  string
			archivedAt sql.NullTime
		)
		if err := rows.Scan(
			&recipe.ID,
			&recipe.Name,
			&recipe.Author,
			&recipe.Source,
			&recipe.Time,
			&recipe.Servings,
			&recipe.Tags,
			&ownerKind,
			&recipe.OwnerID,
			&recipe.CreatedAt,
			&archivedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipe.OwnerKind = domain.OwnerKind(ownerKind)
		if archivedAt.Valid {
			value := archivedAt.Time
			recipe.ArchivedAt = &value
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func fetchIngredients(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Ingredient, error) {
	rows, err := tx.Query(ctx, ingredientSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]domain.Ingredient, 0)
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Position, &ing.Quantity, &ing.Name, &ing.Description, &ing.RecipeID); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func fetchSections(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Section, error) {
	rows, err := tx.Query(ctx, sectionSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	sections := make([]domain.Section, 0)
	for rows.Next() {
		var sec domain.Section
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Position, &sec.RecipeID); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func fetchSteps(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Step, error) {
	rows, err := tx.Query(ctx, stepSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := make([]domain.Step, 0)
	for rows.Next() {
		var step domain.Step
		if err := rows.Scan(&step.ID, &step.Position, &step.Text, &step.RecipeID); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func fetchNotes(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Note, error) {
	rows, err := tx.Query(ctx, noteSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var (
			note          domain.Note
			creatorName   sql.NullString
			modifierEmail sql.NullString
			modifierName  sql.NullString
		)
		if err := rows.Scan(
			&note.ID,
			&note.Text,
			&note.CreatedAt,
			&note.ModifiedAt,
			&note.RecipeID,
			&note.Email,
			&creatorName,
			&modifierEmail,
			&modifierName,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if creatorName.Valid {
			value := creatorName.String
			note.Name = &value
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func fetchReactions(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.Reaction, error) {
	rows, err := tx.Query(ctx, reactionSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query reactions: %w", err)
	}
	defer rows.Close()

	reactions := make([]domain.Reaction, 0)
	for rows.Next() {
		var rx domain.Reaction
		if err := rows.Scan(&rx.ID, &rx.Emoji, &rx.CreatedByID, &rx.CreatedAt, &rx.NoteID); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, rx)
	}
	return reactions, rows.Err()
}

func fetchTimelineEvents(ctx context.Context, tx pgx.Tx, recipeIDs []int64) ([]domain.TimelineEvent, error) {
	rows, err := tx.Query(ctx, timelineEventSelect, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("query timeline events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			event       domain.TimelineEvent
			createdBy   sql.NullInt64
			createdName sql.NullString
		)
		if err := rows.Scan(&event.ID, &event.Action, &event.CreatedAt, &createdBy, &createdName, &event.RecipeID); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		if createdBy.Valid {
			value := createdBy.Int64
			event.CreatedByID = &value
		}
		if createdName.Valid {
			value := createdName.String
			event.CreatedByName = &value
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
