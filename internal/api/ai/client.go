package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/uhhbai/nutriSnap/app/observability/metrics"
	"github.com/uhhbai/nutriSnap/config"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Client = (*GatewayClient)(nil)

// Client is the minimal surface the feature services need from the hosted
// AI gateway. Implementations classify failures into the shared sentinels
// so callers branch with errors.Is instead of inspecting transport errors.
type Client interface {
	// Complete sends a plain two-role text exchange and returns the
	// assistant's reply text.
	Complete(ctx context.Context, system, message string) (string, error)

	// CompleteVision sends a multimodal request: a text instruction plus an
	// image data URI.
	CompleteVision(ctx context.Context, system, userText, imageDataURI string) (string, error)
}

// GatewayClient talks to an OpenAI-compatible chat-completions endpoint.
type GatewayClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

// NewGatewayClient builds a client for the configured gateway. The API key
// is read from the environment by the caller and passed in explicitly.
func NewGatewayClient(cfg config.GatewayConfig, apiKey string, logger *slog.Logger) (*GatewayClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai gateway api key is not configured")
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &GatewayClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (g *GatewayClient) Complete(ctx context.Context, system, message string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	return g.send(ctx, "Complete", req)
}

func (g *GatewayClient) CompleteVision(ctx context.Context, system, userText, imageDataURI string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: userText},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI},
				},
			},
		},
	}
	if system != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
		}, messages...)
	}
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	return g.send(ctx, "CompleteVision", req)
}

func (g *GatewayClient) send(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	ctx, span := otel.Tracer("GatewayClient").Start(ctx, op, trace.WithAttributes(
		attribute.String("gen_ai.request.model", g.model),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", op), slog.String("model", g.model))
	l.DebugContext(ctx, "Sending gateway request")

	m := metrics.Get()
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	m.GatewayDurationSeconds.Record(ctx, time.Since(start).Seconds())
	m.GatewayRequestsTotal.Add(ctx, 1)

	if err != nil {
		classified := classifyGatewayError(err)
		l.ErrorContext(ctx, "Gateway request failed", slog.Any("error", classified))
		span.RecordError(classified)
		span.SetStatus(codes.Error, "Gateway request failed")
		m.GatewayErrorsTotal.Add(ctx, 1)
		return "", classified
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		l.ErrorContext(ctx, "Gateway returned no completion")
		span.SetStatus(codes.Error, "Empty completion")
		m.GatewayErrorsTotal.Add(ctx, 1)
		return "", types.ErrEmptyCompletion
	}

	span.SetStatus(codes.Ok, "Completion received")
	return resp.Choices[0].Message.Content, nil
}

// classifyGatewayError maps gateway HTTP statuses onto the shared sentinel
// errors. 429 and 402 are surfaced distinctly so the client can show
// different notices; everything else stays a generic wrapped error.
func classifyGatewayError(err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", types.ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", types.ErrQuotaExhausted, err)
	default:
		return fmt.Errorf("ai gateway error: %w", err)
	}
}
