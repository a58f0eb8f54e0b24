package advisor

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
	Chat(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewAdvisorHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Chat accepts `{ "message": string }`. A user without height and weight on
// file gets 412 so the client can route them to profile setup.
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Chat"))

	userID, ok := auth.RequireUserID(w, r, l)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.service.Chat(ctx, userID, req.Message)
	if err != nil {
		l.ErrorContext(ctx, "Advisor chat failed", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Message must not be empty")
		case errors.Is(err, types.ErrProfileIncomplete):
			api.ErrorResponse(w, r, http.StatusPreconditionFailed, "Complete your profile (height and weight) before chatting with the advisor")
		case errors.Is(err, types.ErrRateLimited):
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
		case errors.Is(err, types.ErrQuotaExhausted):
			api.ErrorResponse(w, r, http.StatusPaymentRequired, "AI credits exhausted. Please add credits to continue.")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Advisor is unavailable right now")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.ChatResponse{Response: reply})
}
