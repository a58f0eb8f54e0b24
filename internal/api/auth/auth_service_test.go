package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uhhbai/nutriSnap/config"
	"github.com/uhhbai/nutriSnap/internal/types"
)

// MockAuthRepository is a mock implementation of Repository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepository) GetUserByID(ctx context.Context, userID string) (*types.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockAuthRepository) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepository) GetRefreshToken(ctx context.Context, token string) (string, time.Time, *time.Time, error) {
	args := m.Called(ctx, token)
	var revokedAt *time.Time
	if args.Get(2) != nil {
		revokedAt = args.Get(2).(*time.Time)
	}
	return args.String(0), args.Get(1).(time.Time), revokedAt, args.Error(3)
}

func (m *MockAuthRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:         "test-secret-key-for-signing",
		Issuer:            "nutrisnap-api",
		Audience:          "nutrisnap-app",
		AccessExpiry:      30 * time.Minute,
		RefreshExpiryDays: 7,
	}
}

func setupAuthServiceTest() (*ServiceImpl, *MockAuthRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepository)
	cfg := &config.Config{JWT: testJWTConfig()}
	service := NewAuthService(mockRepo, cfg, logger)
	return service, mockRepo
}

func TestAuthServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		newID := uuid.NewString()
		mockRepo.On("CreateUser", mock.Anything, "sam", "sam@example.com", mock.AnythingOfType("string")).
			Return(newID, nil).Once()

		userID, err := service.Register(ctx, "sam", "Sam@Example.com", "long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, newID, userID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("stores a bcrypt hash, not the password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		var storedHash string
		mockRepo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { storedHash = args.String(3) }).
			Return(uuid.NewString(), nil).Once()

		_, err := service.Register(ctx, "sam", "sam@example.com", "long-enough-password")
		require.NoError(t, err)
		assert.NotEqual(t, "long-enough-password", storedHash)
		assert.True(t, CheckPassword(storedHash, "long-enough-password"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		_, err := service.Register(ctx, "sam", "sam@example.com", "short")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrBadRequest))
		mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		service, _ := setupAuthServiceTest()
		_, err := service.Register(ctx, "sam", "not-an-email", "long-enough-password")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrBadRequest))
	})

	t.Run("duplicate email propagates", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		repoErr := errors.New("email already registered")
		mockRepo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", repoErr).Once()

		_, err := service.Register(ctx, "sam", "sam@example.com", "long-enough-password")
		require.Error(t, err)
		assert.True(t, errors.Is(err, repoErr))
	})
}

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)

	user := &types.UserAuth{ID: userID, Username: "sam", Email: "sam@example.com", Password: hash}

	t.Run("success issues both tokens", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "sam@example.com").Return(user, nil).Once()
		mockRepo.On("StoreRefreshToken", mock.Anything, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, refreshToken, err := service.Login(ctx, "sam@example.com", "correct-horse-battery")
		require.NoError(t, err)
		assert.NotEmpty(t, refreshToken)

		claims := &types.Claims{}
		parsed, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(testJWTConfig().SecretKey), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "nutrisnap-api", claims.Issuer)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, types.ErrNotFound).Once()

		_, _, err := service.Login(ctx, "ghost@example.com", "whatever-password")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "sam@example.com").Return(user, nil).Once()

		_, _, err := service.Login(ctx, "sam@example.com", "wrong-password")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
		mockRepo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthServiceImpl_RefreshSession(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &types.UserAuth{ID: userID, Username: "sam", Email: "sam@example.com"}

	t.Run("rotates the refresh token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		oldToken := uuid.NewString()

		mockRepo.On("GetRefreshToken", mock.Anything, oldToken).
			Return(userID, time.Now().Add(time.Hour), nil, nil).Once()
		mockRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil).Once()
		mockRepo.On("RevokeRefreshToken", mock.Anything, oldToken).Return(nil).Once()
		mockRepo.On("StoreRefreshToken", mock.Anything, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		accessToken, newToken, err := service.RefreshSession(ctx, oldToken)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEqual(t, oldToken, newToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("expired token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		token := uuid.NewString()
		mockRepo.On("GetRefreshToken", mock.Anything, token).
			Return(userID, time.Now().Add(-time.Hour), nil, nil).Once()

		_, _, err := service.RefreshSession(ctx, token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
		mockRepo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("revoked token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		token := uuid.NewString()
		revokedAt := time.Now().Add(-time.Minute)
		mockRepo.On("GetRefreshToken", mock.Anything, token).
			Return(userID, time.Now().Add(time.Hour), &revokedAt, nil).Once()

		_, _, err := service.RefreshSession(ctx, token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
	})

	t.Run("unknown token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		token := uuid.NewString()
		mockRepo.On("GetRefreshToken", mock.Anything, token).
			Return("", time.Time{}, nil, types.ErrNotFound).Once()

		_, _, err := service.RefreshSession(ctx, token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
	})
}

func TestAuthServiceImpl_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		token := uuid.NewString()
		mockRepo.On("RevokeRefreshToken", mock.Anything, token).Return(nil).Once()

		require.NoError(t, service.Logout(ctx, token))
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		token := uuid.NewString()
		repoErr := errors.New("connection refused")
		mockRepo.On("RevokeRefreshToken", mock.Anything, token).Return(repoErr).Once()

		err := service.Logout(ctx, token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, repoErr))
	})
}
