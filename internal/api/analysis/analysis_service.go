package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/uhhbai/nutriSnap/internal/api/ai"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service analyzes one food photo into a structured nutrition estimate.
type Service interface {
	AnalyzeImage(ctx context.Context, imageDataURI string) (*types.AnalysisResult, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient ai.Client
}

func NewAnalysisService(aiClient ai.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
	}
}

func (s *ServiceImpl) AnalyzeImage(ctx context.Context, imageDataURI string) (*types.AnalysisResult, error) {
	ctx, span := otel.Tracer("AnalysisService").Start(ctx, "AnalyzeImage")
	defer span.End()

	l := s.logger.With(slog.String("method", "AnalyzeImage"))

	if !strings.HasPrefix(imageDataURI, "data:image/") {
		return nil, fmt.Errorf("image must be an image data URI: %w", types.ErrBadRequest)
	}

	l.InfoContext(ctx, "Starting food analysis")
	text, err := s.aiClient.CompleteVision(ctx, systemPrompt, userPrompt, imageDataURI)
	if err != nil {
		l.ErrorContext(ctx, "Gateway analysis call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Gateway call failed")
		return nil, fmt.Errorf("error analyzing food image: %w", err)
	}

	result, err := parseAnalysis(text)
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse analysis response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Parse failed")
		return nil, err
	}

	l.InfoContext(ctx, "Food analysis completed", slog.String("food", result.Name), slog.Int("calories", result.Calories))
	span.SetStatus(codes.Ok, "Analysis completed")
	return result, nil
}
