package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhhbai/nutriSnap/internal/types"
)

const sampleAnalysisJSON = `{
  "name": "Grilled Chicken Salad",
  "servingSize": "1 bowl (350g)",
  "calories": 420,
  "macros": {
    "protein": {"amount": 38, "percentage": 76},
    "carbs": {"amount": 22, "percentage": 7.3},
    "fats": {"amount": 18, "percentage": 25.7}
  },
  "nutrients": [
    {"name": "Fiber", "amount": "6g", "daily": 21},
    {"name": "Vitamin C", "amount": "45mg", "daily": 50}
  ],
  "ingredients": ["chicken breast", "romaine", "olive oil"],
  "healthScore": 8
}`

func TestParseAnalysis(t *testing.T) {
	t.Run("bare JSON", func(t *testing.T) {
		result, err := parseAnalysis(sampleAnalysisJSON)
		require.NoError(t, err)
		assert.Equal(t, "Grilled Chicken Salad", result.Name)
		assert.Equal(t, 420, result.Calories)
		assert.Equal(t, 38.0, result.Macros.Protein.Amount)
		assert.Len(t, result.Ingredients, 3)
		assert.Equal(t, 8, result.HealthScore)
	})

	t.Run("fenced JSON parses to the same result", func(t *testing.T) {
		bare, err := parseAnalysis(sampleAnalysisJSON)
		require.NoError(t, err)

		fenced, err := parseAnalysis("```json\n" + sampleAnalysisJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, bare, fenced)

		noLang, err := parseAnalysis("```\n" + sampleAnalysisJSON + "\n```")
		require.NoError(t, err)
		assert.Equal(t, bare, noLang)
	})

	t.Run("fence with surrounding prose", func(t *testing.T) {
		text := "Here is the analysis:\n```json\n" + sampleAnalysisJSON + "\n```\nLet me know if you need more."
		result, err := parseAnalysis(text)
		require.NoError(t, err)
		assert.Equal(t, "Grilled Chicken Salad", result.Name)
	})

	t.Run("non-JSON reply", func(t *testing.T) {
		_, err := parseAnalysis("I cannot identify any food in this image.")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrMalformedResponse))
	})

	t.Run("missing food name", func(t *testing.T) {
		_, err := parseAnalysis(`{"calories": 100}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrMalformedResponse))
	})

	t.Run("bare-number macros get derived percentages", func(t *testing.T) {
		legacy := `{
			"name": "Oatmeal",
			"servingSize": "1 cup",
			"calories": 150,
			"macros": {"protein": 5, "carbs": 27, "fats": 2.5},
			"nutrients": [],
			"ingredients": ["oats"],
			"healthScore": 7
		}`
		result, err := parseAnalysis(legacy)
		require.NoError(t, err)
		assert.Equal(t, 5.0, result.Macros.Protein.Amount)
		assert.InDelta(t, 5.0/types.RefDailyProteinGrams*100, result.Macros.Protein.Percentage, 0.001)
		assert.InDelta(t, 27.0/types.RefDailyCarbsGrams*100, result.Macros.Carbs.Percentage, 0.001)
		assert.InDelta(t, 2.5/types.RefDailyFatsGrams*100, result.Macros.Fats.Percentage, 0.001)
	})

	t.Run("macro with wrong JSON type", func(t *testing.T) {
		_, err := parseAnalysis(`{
			"name": "Mystery",
			"macros": {"protein": "lots", "carbs": 1, "fats": 1}
		}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrMalformedResponse))
	})
}

func TestFiberGrams(t *testing.T) {
	result, err := parseAnalysis(sampleAnalysisJSON)
	require.NoError(t, err)
	assert.Equal(t, 6.0, result.FiberGrams())

	t.Run("case insensitive name match", func(t *testing.T) {
		r := &types.AnalysisResult{
			Nutrients: []types.Nutrient{{Name: "Dietary fiber", Amount: "4.5g", Daily: 16}},
		}
		assert.Equal(t, 4.5, r.FiberGrams())
	})

	t.Run("defaults to zero when absent", func(t *testing.T) {
		r := &types.AnalysisResult{
			Nutrients: []types.Nutrient{{Name: "Iron", Amount: "2mg", Daily: 11}},
		}
		assert.Equal(t, 0.0, r.FiberGrams())
	})
}
