package remove

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
	Delete(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error("failed to delete vehicle", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to delete vehicle", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "vehicle deleted",
	}))
}
