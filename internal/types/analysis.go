package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reference daily values, in grams, that the model is instructed to compute
// macro percentages against. Kept here so legacy bare-number responses can be
// normalized with the same constants.
const (
	RefDailyProteinGrams = 50.0
	RefDailyCarbsGrams   = 300.0
	RefDailyFatsGrams    = 70.0
)

// MacroEntry is one macro's estimate: grams plus percentage of the reference
// daily value. The model sometimes returns a bare number instead of the
// object shape; UnmarshalJSON accepts both and rejects anything else.
type MacroEntry struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`

	bare bool // set when decoded from the legacy bare-number shape
}

func (m *MacroEntry) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		type entry MacroEntry // avoid recursing into this method
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("macro object shape: %w", err)
		}
		*m = MacroEntry(e)
		return nil
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("macro value %q is neither an object nor a number: %w", trimmed, ErrMalformedResponse)
	}
	*m = MacroEntry{Amount: amount, bare: true}
	return nil
}

// MarshalJSON keeps the wire shape symmetric with the documented schema.
func (m MacroEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount     float64 `json:"amount"`
		Percentage float64 `json:"percentage"`
	}{m.Amount, m.Percentage})
}

type Macros struct {
	Protein MacroEntry `json:"protein"`
	Carbs   MacroEntry `json:"carbs"`
	Fats    MacroEntry `json:"fats"`
}

// Nutrient is one row of the model's nutrient list. Amount keeps its unit
// ("8g", "420mg"); Daily is the percentage of the daily recommended value.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount string  `json:"amount"`
	Daily  float64 `json:"daily"`
}

// AnalysisResult is the structured nutrition estimate for one food photo.
// Transient: it exists for one capture session and is projected into a Meal
// on save.
type AnalysisResult struct {
	Name        string     `json:"name"`
	ServingSize string     `json:"servingSize"`
	Calories    int        `json:"calories"`
	Macros      Macros     `json:"macros"`
	Nutrients   []Nutrient `json:"nutrients"`
	Ingredients []string   `json:"ingredients"`
	HealthScore int        `json:"healthScore"`
}

// Normalize derives percentages for macros that arrived in the legacy
// bare-number shape, using the reference daily values the prompt pins.
func (a *AnalysisResult) Normalize() {
	normalize := func(m *MacroEntry, ref float64) {
		if m.bare {
			m.Percentage = m.Amount / ref * 100
			m.bare = false
		}
	}
	normalize(&a.Macros.Protein, RefDailyProteinGrams)
	normalize(&a.Macros.Carbs, RefDailyCarbsGrams)
	normalize(&a.Macros.Fats, RefDailyFatsGrams)
}

// FiberGrams finds the nutrient whose name contains "fiber"
// (case-insensitive) and returns the numeric prefix of its amount.
// Returns 0 when no such nutrient is present or the amount has no
// parseable number.
func (a *AnalysisResult) FiberGrams() float64 {
	for _, n := range a.Nutrients {
		if !strings.Contains(strings.ToLower(n.Name), "fiber") {
			continue
		}
		return numericPrefix(n.Amount)
	}
	return 0
}

func numericPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
