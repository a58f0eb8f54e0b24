package types

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recipe is one model-suggested recipe for a leftover-ingredients photo.
// Transient: produced per request and never persisted.
type Recipe struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Time           int        `json:"time"` // minutes
	Servings       int        `json:"servings"`
	Difficulty     Difficulty `json:"difficulty"`
	Calories       int        `json:"calories"`
	Sustainability int        `json:"sustainability"` // 0-100
	Ingredients    []string   `json:"ingredients"`
	Instructions   []string   `json:"instructions"`
}

// RecipeSuggestions is the decoded gateway payload: the ingredients the
// model detected plus 3-5 candidate recipes.
type RecipeSuggestions struct {
	Ingredients []string `json:"ingredients"`
	Recipes     []Recipe `json:"recipes"`
}
