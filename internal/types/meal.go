package types

import (
	"time"

	"github.com/google/uuid"
)

// Meal is one append-only diary entry. LoggedAt is server-assigned and used
// for day bucketing; rows are never updated or deleted.
type Meal struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Calories    int       `json:"calories"`
	Protein     float64   `json:"protein"` // grams
	Carbs       float64   `json:"carbs"`   // grams
	Fat         float64   `json:"fat"`     // grams
	Fiber       float64   `json:"fiber"`   // grams
	ServingSize string    `json:"serving_size"`
	ImageURL    string    `json:"image_url,omitempty"`
	LoggedAt    time.Time `json:"logged_at"`
}

// CreateMealParams is the write shape for POST /meals. The client sends the
// confirmed analysis projection; calories-vs-macros consistency is not
// enforced.
type CreateMealParams struct {
	Name        string  `json:"name"`
	Calories    int     `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	ServingSize string  `json:"serving_size"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// MealFromAnalysis projects a confirmed AnalysisResult into the persisted
// meal shape: macro amounts map to flat gram columns and fiber comes from
// the nutrient list.
func MealFromAnalysis(a *AnalysisResult, imageURL string) CreateMealParams {
	return CreateMealParams{
		Name:        a.Name,
		Calories:    a.Calories,
		Protein:     a.Macros.Protein.Amount,
		Carbs:       a.Macros.Carbs.Amount,
		Fat:         a.Macros.Fats.Amount,
		Fiber:       a.FiberGrams(),
		ServingSize: a.ServingSize,
		ImageURL:    imageURL,
	}
}

// MacroProgress pairs a consumed total with its fixed goal, both in grams.
type MacroProgress struct {
	Current float64 `json:"current"`
	Goal    float64 `json:"goal"`
}

// DailySummary is the dashboard aggregation for one local calendar day.
// Remaining may be negative and Progress may exceed 100; clamping is a
// display concern.
type DailySummary struct {
	Date        string        `json:"date"` // local calendar date, 2006-01-02
	DailyGoal   int           `json:"daily_goal"`
	Consumed    int           `json:"consumed"`
	Remaining   int           `json:"remaining"`
	Progress    float64       `json:"progress"`
	Protein     MacroProgress `json:"protein"`
	Carbs       MacroProgress `json:"carbs"`
	Fats        MacroProgress `json:"fats"`
	MealsLogged int           `json:"meals_logged"`
}
