package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes read and write access to a user's profile and goal.
type Service interface {
	// Get returns whatever exists; a user who never saved anything gets
	// an empty ProfileWithGoal, not an error.
	Get(ctx context.Context, userID uuid.UUID) (*types.ProfileWithGoal, error)

	Upsert(ctx context.Context, userID uuid.UUID, params types.UpsertProfileParams) (*types.ProfileWithGoal, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewProfileService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*types.ProfileWithGoal, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "Get")
	defer span.End()

	l := s.logger.With(slog.String("method", "Get"), slog.String("userID", userID.String()))

	var (
		profile *types.Profile
		goal    *types.Goal
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.GetProfile(gCtx, userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil
			}
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		gl, err := s.repo.GetGoal(gCtx, userID)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return nil
			}
			return err
		}
		goal = gl
		return nil
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to fetch profile and goal", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &types.ProfileWithGoal{Profile: profile, Goal: goal}, nil
}

func (s *ServiceImpl) Upsert(ctx context.Context, userID uuid.UUID, params types.UpsertProfileParams) (*types.ProfileWithGoal, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "Upsert")
	defer span.End()

	l := s.logger.With(slog.String("method", "Upsert"), slog.String("userID", userID.String()))

	if err := validateParams(params); err != nil {
		l.WarnContext(ctx, "Rejected invalid profile payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	profile, err := s.mergeProfile(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile merge failed")
		return nil, err
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile upsert failed")
		return nil, err
	}

	goal, err := s.mergeGoal(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Goal merge failed")
		return nil, err
	}
	if goal != nil {
		if err := s.repo.UpsertGoal(ctx, goal); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Goal upsert failed")
			return nil, err
		}
	}

	l.InfoContext(ctx, "Profile saved")
	span.SetAttributes(attribute.Bool("profile.goal_updated", goal != nil))
	span.SetStatus(codes.Ok, "Profile saved")
	return s.Get(ctx, userID)
}

// mergeProfile loads the existing row (if any) and overlays the provided
// fields, so a partial PUT never clears fields it did not mention.
func (s *ServiceImpl) mergeProfile(ctx context.Context, userID uuid.UUID, params types.UpsertProfileParams) (*types.Profile, error) {
	existing, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		existing = &types.Profile{
			UserID:           userID,
			DailyCalorieGoal: types.DefaultDailyCalorieGoal,
		}
	}

	if params.Height != nil {
		existing.Height = params.Height
	}
	if params.Weight != nil {
		existing.Weight = params.Weight
	}
	if params.Age != nil {
		existing.Age = params.Age
	}
	if params.Gender != nil {
		existing.Gender = params.Gender
	}
	if params.ActivityLevel != nil {
		existing.ActivityLevel = params.ActivityLevel
	}
	if params.DailyCalorieGoal != nil {
		existing.DailyCalorieGoal = *params.DailyCalorieGoal
	}
	return existing, nil
}

// mergeGoal returns nil when the payload touches no goal field, so PUTs
// that only change the profile never create a goal row.
func (s *ServiceImpl) mergeGoal(ctx context.Context, userID uuid.UUID, params types.UpsertProfileParams) (*types.Goal, error) {
	if params.TargetWeight == nil && params.TargetDate == nil && params.WeeklyWorkoutDays == nil {
		return nil, nil
	}

	existing, err := s.repo.GetGoal(ctx, userID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		existing = &types.Goal{
			UserID:            userID,
			WeeklyWorkoutDays: types.DefaultWeeklyWorkoutDays,
		}
	}

	if params.TargetWeight != nil {
		existing.TargetWeight = params.TargetWeight
	}
	if params.TargetDate != nil {
		d, err := time.Parse("2006-01-02", *params.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("invalid target_date %q: %w", *params.TargetDate, types.ErrBadRequest)
		}
		existing.TargetDate = &d
	}
	if params.WeeklyWorkoutDays != nil {
		existing.WeeklyWorkoutDays = *params.WeeklyWorkoutDays
	}
	return existing, nil
}

func validateParams(p types.UpsertProfileParams) error {
	if p.Height != nil && *p.Height <= 0 {
		return fmt.Errorf("height must be positive: %w", types.ErrBadRequest)
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return fmt.Errorf("weight must be positive: %w", types.ErrBadRequest)
	}
	if p.Age != nil && (*p.Age <= 0 || *p.Age > 130) {
		return fmt.Errorf("age out of range: %w", types.ErrBadRequest)
	}
	if p.Gender != nil {
		switch *p.Gender {
		case types.GenderMale, types.GenderFemale, types.GenderOther:
		default:
			return fmt.Errorf("unknown gender %q: %w", *p.Gender, types.ErrBadRequest)
		}
	}
	if p.ActivityLevel != nil {
		switch *p.ActivityLevel {
		case types.ActivitySedentary, types.ActivityLight, types.ActivityModerate,
			types.ActivityActive, types.ActivityVeryActive:
		default:
			return fmt.Errorf("unknown activity_level %q: %w", *p.ActivityLevel, types.ErrBadRequest)
		}
	}
	if p.DailyCalorieGoal != nil && *p.DailyCalorieGoal <= 0 {
		return fmt.Errorf("daily_calorie_goal must be positive: %w", types.ErrBadRequest)
	}
	if p.TargetWeight != nil && *p.TargetWeight <= 0 {
		return fmt.Errorf("target_weight must be positive: %w", types.ErrBadRequest)
	}
	if p.WeeklyWorkoutDays != nil && (*p.WeeklyWorkoutDays < 1 || *p.WeeklyWorkoutDays > 7) {
		return fmt.Errorf("weekly_workout_days must be between 1 and 7: %w", types.ErrBadRequest)
	}
	return nil
}
