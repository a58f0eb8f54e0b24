package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/uhhbai/nutriSnap/internal/types"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON returns the JSON payload of a model reply, stripping a
// markdown code fence when present. A fenced payload must parse to the same
// object as its bare equivalent.
func extractJSON(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// parseAnalysis decodes the model's reply into an AnalysisResult and
// normalizes legacy bare-number macro shapes. Any decode failure is a
// terminal parse error for the request.
func parseAnalysis(text string) (*types.AnalysisResult, error) {
	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse nutrition data: %v: %w", err, types.ErrMalformedResponse)
	}
	if result.Name == "" {
		return nil, fmt.Errorf("analysis is missing a food name: %w", types.ErrMalformedResponse)
	}
	result.Normalize()
	return &result, nil
}
