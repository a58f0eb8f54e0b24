package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uhhbai/nutriSnap/internal/types"
)

// MockProfileRepository is a mock implementation of Repository
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

func setupProfileServiceTest() (*ServiceImpl, *MockProfileRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockProfileRepository)
	service := NewProfileService(mockRepo, logger)
	return service, mockRepo
}

func floatPtr(v float64) *float64                       { return &v }
func intPtr(v int) *int                                 { return &v }
func strPtr(v string) *string                           { return &v }
func genderPtr(v types.Gender) *types.Gender            { return &v }
func activityPtr(v types.ActivityLevel) *types.ActivityLevel { return &v }

func TestProfileServiceImpl_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns empty result for a fresh user", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()

		result, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, result.Profile)
		assert.Nil(t, result.Goal)
		mockRepo.AssertExpectations(t)
	})

	t.Run("returns both halves when present", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		p := &types.Profile{UserID: userID, Height: floatPtr(170), Weight: floatPtr(65), DailyCalorieGoal: 2000}
		g := &types.Goal{UserID: userID, WeeklyWorkoutDays: 4}
		mockRepo.On("GetProfile", mock.Anything, userID).Return(p, nil).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(g, nil).Once()

		result, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, p, result.Profile)
		assert.Equal(t, g, result.Goal)
	})

	t.Run("database error propagates", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		dbErr := errors.New("connection refused")
		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, dbErr).Once()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Maybe()

		_, err := service.Get(ctx, userID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbErr))
	})
}

func TestProfileServiceImpl_Upsert(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first save applies defaults", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		params := types.UpsertProfileParams{Height: floatPtr(170), Weight: floatPtr(65)}

		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound).Twice()
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Once()
		mockRepo.On("UpsertProfile", mock.Anything, mock.MatchedBy(func(p *types.Profile) bool {
			return p.UserID == userID &&
				p.Height != nil && *p.Height == 170 &&
				p.Weight != nil && *p.Weight == 65 &&
				p.DailyCalorieGoal == types.DefaultDailyCalorieGoal
		})).Return(nil).Once()

		result, err := service.Upsert(ctx, userID, params)
		require.NoError(t, err)
		assert.Nil(t, result.Goal)
		mockRepo.AssertNotCalled(t, "UpsertGoal", mock.Anything, mock.Anything)
	})

	t.Run("partial update keeps unmentioned fields", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		existing := &types.Profile{
			UserID:           userID,
			Height:           floatPtr(170),
			Weight:           floatPtr(65),
			Age:              intPtr(30),
			DailyCalorieGoal: 2200,
		}
		params := types.UpsertProfileParams{Weight: floatPtr(63)}

		mockRepo.On("GetProfile", mock.Anything, userID).Return(existing, nil)
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound).Maybe()
		mockRepo.On("UpsertProfile", mock.Anything, mock.MatchedBy(func(p *types.Profile) bool {
			return *p.Weight == 63 && *p.Height == 170 && *p.Age == 30 && p.DailyCalorieGoal == 2200
		})).Return(nil).Once()

		_, err := service.Upsert(ctx, userID, params)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("goal fields create a goal row with defaults", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		params := types.UpsertProfileParams{
			Height:       floatPtr(170),
			Weight:       floatPtr(65),
			TargetWeight: floatPtr(60),
			TargetDate:   strPtr("2026-12-31"),
		}

		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound)
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound)
		mockRepo.On("UpsertProfile", mock.Anything, mock.Anything).Return(nil).Once()
		mockRepo.On("UpsertGoal", mock.Anything, mock.MatchedBy(func(g *types.Goal) bool {
			wantDate := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
			return g.UserID == userID &&
				g.TargetWeight != nil && *g.TargetWeight == 60 &&
				g.TargetDate != nil && g.TargetDate.Equal(wantDate) &&
				g.WeeklyWorkoutDays == types.DefaultWeeklyWorkoutDays
		})).Return(nil).Once()

		_, err := service.Upsert(ctx, userID, params)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		cases := map[string]types.UpsertProfileParams{
			"negative height":       {Height: floatPtr(-1)},
			"zero weight":           {Weight: floatPtr(0)},
			"age out of range":      {Age: intPtr(200)},
			"unknown gender":        {Gender: genderPtr("droid")},
			"unknown activity":      {ActivityLevel: activityPtr("hyperactive")},
			"zero calorie goal":     {DailyCalorieGoal: intPtr(0)},
			"workout days too high": {WeeklyWorkoutDays: intPtr(8)},
			"workout days too low":  {WeeklyWorkoutDays: intPtr(0)},
		}
		for name, params := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := service.Upsert(ctx, userID, params)
				require.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrBadRequest))
			})
		}
		mockRepo.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything)
	})

	t.Run("malformed target date", func(t *testing.T) {
		service, mockRepo := setupProfileServiceTest()
		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, types.ErrNotFound)
		mockRepo.On("GetGoal", mock.Anything, userID).Return(nil, types.ErrNotFound)
		mockRepo.On("UpsertProfile", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := service.Upsert(ctx, userID, types.UpsertProfileParams{
			Height:     floatPtr(170),
			TargetDate: strPtr("eventually"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrBadRequest))
		mockRepo.AssertNotCalled(t, "UpsertGoal", mock.Anything, mock.Anything)
	})
}
