package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uhhbai/nutriSnap/internal/types"
)

// MockAIClient is a mock implementation of ai.Client
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Complete(ctx context.Context, system, message string) (string, error) {
	args := m.Called(ctx, system, message)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) CompleteVision(ctx context.Context, system, userText, imageDataURI string) (string, error) {
	args := m.Called(ctx, system, userText, imageDataURI)
	return args.String(0), args.Error(1)
}

// MockProfileRepository is a mock implementation of profile.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetGoal(ctx context.Context, userID uuid.UUID) (*types.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Goal), args.Error(1)
}

func (m *MockProfileRepository) UpsertProfile(ctx context.Context, p *types.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) UpsertGoal(ctx context.Context, g *types.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func setupAdvisorServiceTest() (*ServiceImpl, *MockAIClient, *MockProfileRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockAI := new(MockAIClient)
	mockRepo := new(MockProfileRepository)
	service := NewAdvisorService(mockAI, mockRepo, logger)
	return service, mockAI, mockRepo
}

func TestAdvisorServiceImpl_Chat(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	completeProfile := &types.Profile{
		UserID:           userID,
		Height:           floatPtr(175),
		Weight:           floatPtr(70),
		DailyCalorieGoal: 2000,
	}

	t.Run("success with full context", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()
		goal := &types.Goal{UserID: userID, WeeklyWorkoutDays: 3}

		mockRepo.On("GetProfile", mock.Anything, userID).Return(completeProfile, nil).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(goal, nil).Once()

		expectedPrompt := BuildSystemPrompt(completeProfile, goal)
		mockAI.On("Complete", mock.Anything, expectedPrompt, "What should I eat after a run?").
			Return("Have some protein within 30 minutes.", nil).Once()

		reply, err := service.Chat(ctx, userID, "What should I eat after a run?")
		require.NoError(t, err)
		assert.Equal(t, "Have some protein within 30 minutes.", reply)
		mockAI.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing profile rejects before contacting the gateway", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()
		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()

		_, err := service.Chat(ctx, userID, "hello")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrProfileIncomplete))
		mockAI.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("profile without weight rejects", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()
		partial := &types.Profile{UserID: userID, Height: floatPtr(175), DailyCalorieGoal: 2000}
		mockRepo.On("GetProfile", mock.Anything, userID).Return(partial, nil).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()

		_, err := service.Chat(ctx, userID, "hello")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrProfileIncomplete))
		mockAI.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty message rejects without touching the repo", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()

		_, err := service.Chat(ctx, userID, "   ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrBadRequest))
		mockAI.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
	})

	t.Run("cached prompt skips profile queries on second turn", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()
		mockRepo.On("GetProfile", mock.Anything, userID).Return(completeProfile, nil).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()
		mockAI.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("ok", nil).Twice()

		_, err := service.Chat(ctx, userID, "first")
		require.NoError(t, err)
		_, err = service.Chat(ctx, userID, "second")
		require.NoError(t, err)

		mockRepo.AssertNumberOfCalls(t, "GetProfile", 1)
		mockRepo.AssertNumberOfCalls(t, "GetGoal", 1)
	})

	t.Run("gateway failure propagates sentinel", func(t *testing.T) {
		service, mockAI, mockRepo := setupAdvisorServiceTest()
		mockRepo.On("GetProfile", mock.Anything, userID).Return(completeProfile, nil).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()
		mockAI.On("Complete", mock.Anything, mock.Anything, mock.Anything).
			Return("", types.ErrRateLimited).Once()

		_, err := service.Chat(ctx, userID, "hello")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrRateLimited))
	})
}
