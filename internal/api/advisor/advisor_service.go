package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/uhhbai/nutriSnap/internal/api/ai"
	"github.com/uhhbai/nutriSnap/internal/api/profile"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service answers free-text nutrition questions grounded in the user's
// saved profile.
type Service interface {
	// Chat returns ErrProfileIncomplete, without contacting the gateway,
	// when the user has not saved height and weight yet.
	Chat(ctx context.Context, userID uuid.UUID, message string) (string, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	aiClient    ai.Client
	profileRepo profile.Repository
	// promptCache holds assembled system prompts per user so chat turns in
	// quick succession skip the profile queries. Entries are short-lived;
	// a profile save within the TTL is served slightly stale context.
	promptCache *cache.Cache
}

const promptCacheTTL = 2 * time.Minute

func NewAdvisorService(aiClient ai.Client, profileRepo profile.Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		profileRepo: profileRepo,
		promptCache: cache.New(promptCacheTTL, 5*time.Minute),
	}
}

func (s *ServiceImpl) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	ctx, span := otel.Tracer("AdvisorService").Start(ctx, "Chat")
	defer span.End()

	l := s.logger.With(slog.String("method", "Chat"), slog.String("userID", userID.String()))

	if strings.TrimSpace(message) == "" {
		span.SetStatus(codes.Error, "Empty message")
		return "", fmt.Errorf("message must not be empty: %w", types.ErrBadRequest)
	}

	systemPrompt, err := s.systemPromptFor(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrProfileIncomplete) {
			l.WarnContext(ctx, "Profile incomplete, rejecting chat")
			span.SetStatus(codes.Error, "Profile incomplete")
			return "", err
		}
		l.ErrorContext(ctx, "Failed to build advisor context", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Context build failed")
		return "", err
	}

	reply, err := s.aiClient.Complete(ctx, systemPrompt, message)
	if err != nil {
		l.ErrorContext(ctx, "Gateway completion failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Gateway failed")
		return "", err
	}

	span.SetAttributes(attribute.Int("advisor.reply_chars", len(reply)))
	span.SetStatus(codes.Ok, "Chat answered")
	return reply, nil
}

func (s *ServiceImpl) systemPromptFor(ctx context.Context, userID uuid.UUID) (string, error) {
	key := userID.String()
	if cached, found := s.promptCache.Get(key); found {
		if prompt, ok := cached.(string); ok {
			return prompt, nil
		}
	}

	var (
		p *types.Profile
		g *types.Goal
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		prof, err := s.profileRepo.GetProfile(egCtx, userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil
			}
			return err
		}
		p = prof
		return nil
	})
	eg.Go(func() error {
		goal, err := s.profileRepo.GetGoal(egCtx, userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil
			}
			return err
		}
		g = goal
		return nil
	})
	if err := eg.Wait(); err != nil {
		return "", err
	}

	if !p.HasMinimum() {
		return "", fmt.Errorf("profile needs height and weight before chatting: %w", types.ErrProfileIncomplete)
	}

	prompt := BuildSystemPrompt(p, g)
	s.promptCache.Set(key, prompt, cache.DefaultExpiration)
	return prompt, nil
}
