package analysis

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/uhhbai/nutriSnap/internal/api"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	AnalyzeFood(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewAnalysisHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// AnalyzeFood accepts `{ "image": dataURI }` and returns the structured
// estimate. Rate-limit (429) and quota (402) gateway failures keep their
// statuses so the client can show distinct notices.
func (h *HandlerImpl) AnalyzeFood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AnalyzeFood"))

	var req types.AnalyzeRequest
	if err := api.DecodeImageJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.AnalyzeImage(ctx, req.Image)
	if err != nil {
		l.ErrorContext(ctx, "Food analysis failed", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Image must be a supported image data URI")
		case errors.Is(err, types.ErrRateLimited):
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
		case errors.Is(err, types.ErrQuotaExhausted):
			api.ErrorResponse(w, r, http.StatusPaymentRequired, "AI credits exhausted. Please add credits to continue.")
		case errors.Is(err, types.ErrMalformedResponse):
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to parse nutrition data from AI")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Food analysis failed")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.AnalyzeResponse{Analysis: result})
}
