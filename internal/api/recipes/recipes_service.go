package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/uhhbai/nutriSnap/internal/api/ai"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service turns a photo of leftovers into recipe suggestions.
type Service interface {
	SuggestFromImage(ctx context.Context, imageDataURI string) (*types.RecipeSuggestions, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient ai.Client
}

func NewRecipesService(aiClient ai.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
	}
}

func (s *ServiceImpl) SuggestFromImage(ctx context.Context, imageDataURI string) (*types.RecipeSuggestions, error) {
	ctx, span := otel.Tracer("RecipesService").Start(ctx, "SuggestFromImage")
	defer span.End()

	l := s.logger.With(slog.String("method", "SuggestFromImage"))

	if !strings.HasPrefix(imageDataURI, "data:image/") {
		span.SetStatus(codes.Error, "Invalid image payload")
		return nil, fmt.Errorf("imageBase64 must be an image data URI: %w", types.ErrBadRequest)
	}

	raw, err := s.aiClient.CompleteVision(ctx, "", suggestPrompt, imageDataURI)
	if err != nil {
		l.ErrorContext(ctx, "Gateway vision completion failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Gateway failed")
		return nil, err
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse recipe suggestions", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parse failed")
		return nil, err
	}

	l.InfoContext(ctx, "Recipes suggested", slog.Int("count", len(suggestions.Recipes)))
	span.SetAttributes(attribute.Int("recipes.count", len(suggestions.Recipes)))
	span.SetStatus(codes.Ok, "Recipes suggested")
	return suggestions, nil
}
