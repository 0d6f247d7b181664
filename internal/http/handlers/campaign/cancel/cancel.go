package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Cancel(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP переводит кампанию в статус Cancelled. Только для администраторов.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), id); err != nil {
		log.Error("failed to cancel campaign", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to cancel campaign", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"success": true,
	}))
}
