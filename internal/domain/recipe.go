package domain

import "time"

// OwnerKind discriminates the polymorphic recipe owner reference.
type OwnerKind string

const (
	OwnerUser OwnerKind = "user"
	OwnerTeam OwnerKind = "team"
)

// Recipe is the base row of a recipe detail view. Ownership is polymorphic:
// OwnerID resolves against users or teams depending on OwnerKind, never both.
type Recipe struct {
	ID         int64
	Name       string
	Author     string
	Source     string
	Time       string
	Servings   string
	Tags       []string
	OwnerKind  OwnerKind
	OwnerID    int64
	CreatedAt  time.Time
	ArchivedAt *time.Time
}

// Ingredient is a single ingredient line. Position is an opaque, totally
// ordered string token so lines can be reordered without renumbering.
type Ingredient struct {
	ID          int64  `json:"id"`
	Position    string `json:"position"`
	Quantity    string `json:"quantity"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RecipeID    int64  `json:"-"`
}

// Section is a heading interleaved between ingredient lines.
type Section struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position string `json:"position"`
	RecipeID int64  `json:"-"`
}

// Step is one instruction in a recipe, ordered by position.
type Step struct {
	ID       int64  `json:"id"`
	Position string `json:"position"`
	Text     string `json:"text"`
	RecipeID int64  `json:"-"`
}

// Reaction is an emoji response attached to a note.
type Reaction struct {
	ID          int64     `json:"id"`
	Emoji       string    `json:"emoji"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	NoteID      int64     `json:"-"`
}

// Note is a user comment on a recipe. The creator is required (email); the
// creator's display name is optional. A note owns its reactions.
type Note struct {
	ID         int64      `json:"id"`
	Text       string     `json:"text"`
	Email      string     `json:"email"`
	Name       *string    `json:"name"`
	ModifiedAt time.Time  `json:"modified_at"`
	CreatedAt  time.Time  `json:"created_at"`
	Reactions  []Reaction `json:"reactions"`
	RecipeID   int64      `json:"-"`
}

// TimelineEvent records a free-text action taken on a recipe.
type TimelineEvent struct {
	ID            int64     `json:"id"`
	Action        string    `json:"action"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByID   *int64    `json:"created_by_id"`
	CreatedByName *string   `json:"created_by_name"`
	RecipeID      int64     `json:"-"`
}

// IngredientItem is the ingredient-list variant: an Ingredient row or a
// Section heading. The merged list is ordered by position across both.
type IngredientItem interface {
	ingredientItem()
}

func (Ingredient) ingredientItem() {}
func (Section) ingredientItem()    {}

// TimelineEntry is the timeline variant: a TimelineEvent or a Note. The
// merged timeline is ordered by created_at descending across both.
type TimelineEntry interface {
	timelineEntry()
}

func (TimelineEvent) timelineEntry() {}
func (Note) timelineEntry()          {}

// RecipeDocument is the assembled detail view: the recipe row plus its
// ordered ingredient-like, step, and timeline sequences. It is the only
// value this service exposes; field names are the wire contract.
type RecipeDocument struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Author      string           `json:"author"`
	Source      string           `json:"source"`
	Time        string           `json:"time"`
	Servings    string           `json:"servings"`
	Tags        []string         `json:"tags"`
	ArchivedAt  *time.Time       `json:"archived_at"`
	CreatedAt   time.Time        `json:"created_at"`
	Ingredients []IngredientItem `json:"ingredients"`
	Steps       []Step           `json:"steps"`
	Timeline    []TimelineEntry  `json:"timeline"`
}

// RecipeBundle carries the raw related rows for a set of recipes, each slice
// independently soft-delete filtered and pre-sorted at the database:
// ingredients and steps by position ascending, notes, reactions and timeline
// events by created_at descending.
type RecipeBundle struct {
	Recipes        []Recipe
	Ingredients    []Ingredient
	Sections       []Section
	Steps          []Step
	Notes          []Note
	Reactions      []Reaction
	TimelineEvents []TimelineEvent
}

// SelectionPolicy names a strategy for picking one recipe out of a user's
// visibility scope.
type SelectionPolicy string

const (
	SelectRandom     SelectionPolicy = "random"
	SelectMostRecent SelectionPolicy = "most_recent"
	SelectByID       SelectionPolicy = "by_id"
)

// RecipeSelection is a selection request: the policy plus, for by_id, the
// requested recipe. Selection always stays inside the visibility scope.
type RecipeSelection struct {
	Policy   SelectionPolicy
	RecipeID int64
}
