package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Repository = (*PostgresProfileRepo)(nil)

// Repository persists the per-user profile and goal rows.
type Repository interface {
	// GetProfile returns ErrNotFound when the user has never saved one.
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)

	// GetGoal returns ErrNotFound when the user has never saved one.
	GetGoal(ctx context.Context, userID uuid.UUID) (*types.Goal, error)

	UpsertProfile(ctx context.Context, p *types.Profile) error
	UpsertGoal(ctx context.Context, g *types.Goal) error
}

type PostgresProfileRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresProfileRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "GetProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "profiles"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetProfile"), slog.String("userID", userID.String()))

	query := `
		SELECT user_id, height, weight, age, gender, activity_level,
		       daily_calorie_goal, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p types.Profile
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Height,
		&p.Weight,
		&p.Age,
		&p.Gender,
		&p.ActivityLevel,
		&p.DailyCalorieGoal,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.DebugContext(ctx, "Profile not found")
			span.SetStatus(codes.Error, "Profile not found")
			return nil, fmt.Errorf("profile not found: %w", types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to query profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &p, nil
}

func (r *PostgresProfileRepo) GetGoal(ctx context.Context, userID uuid.UUID) (*types.Goal, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "GetGoal", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_goals"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetGoal"), slog.String("userID", userID.String()))

	query := `
		SELECT user_id, target_weight, target_date, weekly_workout_days,
		       created_at, updated_at
		FROM user_goals
		WHERE user_id = $1
	`

	var g types.Goal
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&g.UserID,
		&g.TargetWeight,
		&g.TargetDate,
		&g.WeeklyWorkoutDays,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.DebugContext(ctx, "Goal not found")
			span.SetStatus(codes.Error, "Goal not found")
			return nil, fmt.Errorf("goal not found: %w", types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to query goal", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching goal: %w", err)
	}

	span.SetStatus(codes.Ok, "Goal fetched")
	return &g, nil
}

func (r *PostgresProfileRepo) UpsertProfile(ctx context.Context, p *types.Profile) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpsertProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "profiles"),
		attribute.String("db.user.id", p.UserID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpsertProfile"), slog.String("userID", p.UserID.String()))

	query := `
		INSERT INTO profiles (user_id, height, weight, age, gender, activity_level, daily_calorie_goal, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			daily_calorie_goal = EXCLUDED.daily_calorie_goal,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pgpool.Exec(ctx, query,
		p.UserID, p.Height, p.Weight, p.Age, p.Gender, p.ActivityLevel, p.DailyCalorieGoal, time.Now())
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return fmt.Errorf("database error upserting profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile upserted")
	return nil
}

func (r *PostgresProfileRepo) UpsertGoal(ctx context.Context, g *types.Goal) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpsertGoal", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "user_goals"),
		attribute.String("db.user.id", g.UserID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpsertGoal"), slog.String("userID", g.UserID.String()))

	query := `
		INSERT INTO user_goals (user_id, target_weight, target_date, weekly_workout_days, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			target_weight = EXCLUDED.target_weight,
			target_date = EXCLUDED.target_date,
			weekly_workout_days = EXCLUDED.weekly_workout_days,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pgpool.Exec(ctx, query,
		g.UserID, g.TargetWeight, g.TargetDate, g.WeeklyWorkoutDays, time.Now())
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert goal", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return fmt.Errorf("database error upserting goal: %w", err)
	}

	span.SetStatus(codes.Ok, "Goal upserted")
	return nil
}
