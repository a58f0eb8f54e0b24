package recipes

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/uhhbai/nutriSnap/internal/types"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

func extractJSON(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// parseSuggestions decodes the model reply. An empty recipe list is treated
// as malformed: the prompt demands 3-5 and the client has nothing to render
// otherwise.
func parseSuggestions(text string) (*types.RecipeSuggestions, error) {
	var result types.RecipeSuggestions
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipe suggestions: %v: %w", err, types.ErrMalformedResponse)
	}
	if len(result.Recipes) == 0 {
		return nil, fmt.Errorf("model returned no recipes: %w", types.ErrMalformedResponse)
	}
	for i := range result.Recipes {
		if result.Recipes[i].Name == "" {
			return nil, fmt.Errorf("recipe %d is missing a name: %w", i, types.ErrMalformedResponse)
		}
	}
	return &result, nil
}
