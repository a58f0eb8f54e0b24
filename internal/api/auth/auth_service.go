package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/uhhbai/nutriSnap/config"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for authentication.
type Service interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshSession(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	jwtCfg config.JWTConfig
}

func NewAuthService(repo Repository, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: cfg.JWT,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("username and a valid email are required: %w", types.ErrBadRequest)
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters: %w", types.ErrBadRequest)
	}

	hash, err := HashPassword(password)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	userID, err := s.repo.CreateUser(ctx, username, email, hash)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User creation failed")
		return "", fmt.Errorf("error registering user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", userID))
	span.SetStatus(codes.Ok, "User registered")
	return userID, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		l.WarnContext(ctx, "Login for unknown user", slog.Any("error", err))
		span.SetStatus(codes.Error, "User lookup failed")
		return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	if !CheckPassword(user.Password, password) {
		l.WarnContext(ctx, "Password mismatch")
		span.SetStatus(codes.Error, "Invalid credentials")
		return "", "", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	return s.issueTokens(ctx, span, user.ID, user.Username, user.Email)
}

func (s *ServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, expiresAt, revokedAt, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "Refresh token lookup failed")
		return "", "", fmt.Errorf("invalid refresh token: %w", types.ErrUnauthenticated)
	}
	if time.Now().After(expiresAt) || revokedAt != nil {
		l.WarnContext(ctx, "Refresh token expired or revoked", slog.String("userID", userID))
		span.SetStatus(codes.Error, "Refresh token expired or revoked")
		return "", "", fmt.Errorf("refresh token expired or revoked: %w", types.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return "", "", fmt.Errorf("error refreshing session: %w", err)
	}

	// Rotate: revoke the presented token before issuing a new pair.
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		l.WarnContext(ctx, "Failed to revoke old refresh token", slog.Any("error", err))
	}

	return s.issueTokens(ctx, span, user.ID, user.Username, user.Email)
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		return fmt.Errorf("error logging out: %w", err)
	}
	span.SetStatus(codes.Ok, "Logged out")
	return nil
}

func (s *ServiceImpl) issueTokens(ctx context.Context, span trace.Span, userID, username, email string) (string, string, error) {
	accessToken, err := s.generateAccessToken(userID, username, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Access token generation failed")
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(time.Duration(s.jwtCfg.RefreshExpiryDays) * 24 * time.Hour)
	if err := s.repo.StoreRefreshToken(ctx, userID, refreshToken, expiresAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refresh token store failed")
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", userID))
	span.SetStatus(codes.Ok, "Tokens issued")
	return accessToken, refreshToken, nil
}

func (s *ServiceImpl) generateAccessToken(userID, username, email string) (string, error) {
	if s.jwtCfg.SecretKey == "" {
		return "", errors.New("jwt secret key is not configured")
	}

	now := time.Now()
	claims := types.Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
