package meal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/uhhbai/nutriSnap/app/observability/metrics"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Repository = (*PostgresMealRepo)(nil)

// Repository persists the append-only meal diary.
type Repository interface {
	CreateMeal(ctx context.Context, userID uuid.UUID, params types.CreateMealParams) (*types.Meal, error)

	// ListMeals returns the user's meals with logged_at in [from, to),
	// newest first.
	ListMeals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.Meal, error)
}

// DBPool is the slice of pgxpool.Pool the repository uses. Narrowed to an
// interface so tests can substitute a mock pool.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresMealRepo struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewPostgresMealRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresMealRepo {
	return &PostgresMealRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresMealRepo) CreateMeal(ctx context.Context, userID uuid.UUID, params types.CreateMealParams) (*types.Meal, error) {
	ctx, span := otel.Tracer("MealRepo").Start(ctx, "CreateMeal", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "meals"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateMeal"), slog.String("userID", userID.String()))

	query := `
		INSERT INTO meals (user_id, name, calories, protein, carbs, fat, fiber, serving_size, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, name, calories, protein, carbs, fat, fiber, serving_size, image_url, logged_at
	`

	var m types.Meal
	err := r.pgpool.QueryRow(ctx, query,
		userID, params.Name, params.Calories, params.Protein, params.Carbs,
		params.Fat, params.Fiber, params.ServingSize, params.ImageURL,
	).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Calories, &m.Protein, &m.Carbs,
		&m.Fat, &m.Fiber, &m.ServingSize, &m.ImageURL, &m.LoggedAt,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert meal", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("table", "meals"), attribute.String("operation", "insert")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error inserting meal: %w", err)
	}

	metrics.Get().MealsLoggedTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "Meal inserted")
	return &m, nil
}

func (r *PostgresMealRepo) ListMeals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.Meal, error) {
	ctx, span := otel.Tracer("MealRepo").Start(ctx, "ListMeals", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "meals"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListMeals"), slog.String("userID", userID.String()))

	query := `
		SELECT id, user_id, name, calories, protein, carbs, fat, fiber, serving_size, image_url, logged_at
		FROM meals
		WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at DESC
	`

	rows, err := r.pgpool.Query(ctx, query, userID, from, to)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query meals", slog.Any("error", err))
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("table", "meals"), attribute.String("operation", "select")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing meals: %w", err)
	}
	defer rows.Close()

	meals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Meal, error) {
		var m types.Meal
		err := row.Scan(
			&m.ID, &m.UserID, &m.Name, &m.Calories, &m.Protein, &m.Carbs,
			&m.Fat, &m.Fiber, &m.ServingSize, &m.ImageURL, &m.LoggedAt,
		)
		return m, err
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to scan meal rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, fmt.Errorf("database error scanning meals: %w", err)
	}

	span.SetAttributes(attribute.Int("meals.count", len(meals)))
	span.SetStatus(codes.Ok, "Meals listed")
	return meals, nil
}
