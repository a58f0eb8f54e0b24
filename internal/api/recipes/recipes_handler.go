package recipes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/uhhbai/nutriSnap/internal/api"
	"github.com/uhhbai/nutriSnap/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SuggestRecipes(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewRecipesHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// SuggestRecipes accepts `{ "imageBase64": dataURI }` and returns detected
// ingredients plus 3-5 recipe ideas.
func (h *HandlerImpl) SuggestRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SuggestRecipes"))

	var req types.SuggestRecipesRequest
	if err := api.DecodeImageJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SuggestFromImage(ctx, req.ImageBase64)
	if err != nil {
		l.ErrorContext(ctx, "Recipe suggestion failed", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "imageBase64 must be a supported image data URI")
		case errors.Is(err, types.ErrRateLimited):
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again in a moment.")
		case errors.Is(err, types.ErrQuotaExhausted):
			api.ErrorResponse(w, r, http.StatusPaymentRequired, "AI credits exhausted. Please add credits to continue.")
		case errors.Is(err, types.ErrMalformedResponse):
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to parse recipe suggestions from AI")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Recipe suggestion failed")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
