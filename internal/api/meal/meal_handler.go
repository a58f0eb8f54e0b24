package meal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/uhhbai/nutriSnap/internal/api"
	"github.com/uhhbai/nutriSnap/internal/api/auth"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	LogMeal(w http.ResponseWriter, r *http.Request)
	ListMeals(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewMealHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func (h *HandlerImpl) LogMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "LogMeal"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	var params types.CreateMealParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	meal, err := h.service.LogMeal(ctx, userID, params)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			l.WarnContext(ctx, "Invalid meal payload", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to log meal", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log meal")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, meal)
}

// ListMeals returns meals with logged_at in [from, to). Both bounds accept
// RFC 3339 timestamps or bare calendar dates; a bare `to` date is treated
// as inclusive of that day. Defaults cover the current local day.
func (h *HandlerImpl) ListMeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListMeals"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		l.WarnContext(ctx, "Invalid time range", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	meals, err := h.service.ListMeals(ctx, userID, from, to)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to list meals", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list meals")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"meals": meals})
}

// DailySummary aggregates one local day; `date` defaults to today.
func (h *HandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DailySummary"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			l.WarnContext(ctx, "Invalid date parameter", slog.String("date", raw))
			api.ErrorResponse(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.service.DailySummary(ctx, userID, day)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build daily summary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build daily summary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summary)
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if raw := q.Get("from"); raw != "" {
		t, _, err := parseBound(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from parameter %q", raw)
		}
		from = t
	}
	if raw := q.Get("to"); raw != "" {
		t, dateOnly, err := parseBound(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to parameter %q", raw)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		to = t
	}
	return from, to, nil
}

func parseBound(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}
