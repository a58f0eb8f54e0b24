package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/uhhbai/nutriSnap/internal/api"
	"github.com/uhhbai/nutriSnap/internal/api/auth"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	UpsertProfile(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewProfileHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetProfile"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	result, err := h.service.Get(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpsertProfile"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	var params types.UpsertProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Upsert(ctx, userID, params)
	if err != nil {
		if errors.Is(err, types.ErrBadRequest) {
			l.WarnContext(ctx, "Invalid profile payload", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to save profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
