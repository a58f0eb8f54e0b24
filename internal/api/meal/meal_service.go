package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/uhhbai/nutriSnap/config"
	"github.com/uhhbai/nutriSnap/internal/api/profile"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the meal diary plus the daily dashboard aggregation.
type Service interface {
	LogMeal(ctx context.Context, userID uuid.UUID, params types.CreateMealParams) (*types.Meal, error)
	ListMeals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.Meal, error)

	// DailySummary aggregates the meals of one local calendar day against
	// the user's calorie goal and the fixed macro targets.
	DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*types.DailySummary, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	repo        Repository
	profileRepo profile.Repository
	goals       config.GoalsConfig
}

func NewMealService(repo Repository, profileRepo profile.Repository, goals config.GoalsConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		profileRepo: profileRepo,
		goals:       goals,
	}
}

func (s *ServiceImpl) LogMeal(ctx context.Context, userID uuid.UUID, params types.CreateMealParams) (*types.Meal, error) {
	ctx, span := otel.Tracer("MealService").Start(ctx, "LogMeal")
	defer span.End()

	l := s.logger.With(slog.String("method", "LogMeal"), slog.String("userID", userID.String()))

	if err := validateMeal(params); err != nil {
		l.WarnContext(ctx, "Rejected invalid meal", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	meal, err := s.repo.CreateMeal(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return nil, err
	}

	l.InfoContext(ctx, "Meal logged", slog.String("mealID", meal.ID.String()), slog.Int("calories", meal.Calories))
	span.SetStatus(codes.Ok, "Meal logged")
	return meal, nil
}

func (s *ServiceImpl) ListMeals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.Meal, error) {
	ctx, span := otel.Tracer("MealService").Start(ctx, "ListMeals")
	defer span.End()

	if !to.After(from) {
		span.SetStatus(codes.Error, "Invalid range")
		return nil, fmt.Errorf("to must be after from: %w", types.ErrBadRequest)
	}

	meals, err := s.repo.ListMeals(ctx, userID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Meals listed")
	return meals, nil
}

func (s *ServiceImpl) DailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*types.DailySummary, error) {
	ctx, span := otel.Tracer("MealService").Start(ctx, "DailySummary")
	defer span.End()

	l := s.logger.With(slog.String("method", "DailySummary"), slog.String("userID", userID.String()))

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	meals, err := s.repo.ListMeals(ctx, userID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}

	goal := types.DefaultDailyCalorieGoal
	p, err := s.profileRepo.GetProfile(ctx, userID)
	switch {
	case err == nil:
		if p.DailyCalorieGoal > 0 {
			goal = p.DailyCalorieGoal
		}
	case errors.Is(err, types.ErrNotFound):
		// No profile yet; the default goal applies.
	default:
		l.ErrorContext(ctx, "Failed to fetch profile for summary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile fetch failed")
		return nil, err
	}

	summary := &types.DailySummary{
		Date:      from.Format("2006-01-02"),
		DailyGoal: goal,
		Protein:   types.MacroProgress{Goal: s.goals.ProteinGrams},
		Carbs:     types.MacroProgress{Goal: s.goals.CarbsGrams},
		Fats:      types.MacroProgress{Goal: s.goals.FatsGrams},
	}
	for _, m := range meals {
		summary.Consumed += m.Calories
		summary.Protein.Current += m.Protein
		summary.Carbs.Current += m.Carbs
		summary.Fats.Current += m.Fat
	}
	summary.MealsLogged = len(meals)
	summary.Remaining = goal - summary.Consumed
	if goal > 0 {
		summary.Progress = float64(summary.Consumed) / float64(goal) * 100
	}

	span.SetAttributes(
		attribute.Int("summary.meals", summary.MealsLogged),
		attribute.Int("summary.consumed", summary.Consumed),
	)
	span.SetStatus(codes.Ok, "Summary built")
	return summary, nil
}

func validateMeal(p types.CreateMealParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("meal name must not be empty: %w", types.ErrBadRequest)
	}
	if p.Calories < 0 {
		return fmt.Errorf("calories must not be negative: %w", types.ErrBadRequest)
	}
	if p.Protein < 0 || p.Carbs < 0 || p.Fat < 0 || p.Fiber < 0 {
		return fmt.Errorf("macro grams must not be negative: %w", types.ErrBadRequest)
	}
	return nil
}
