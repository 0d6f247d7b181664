package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Cancel(ctx context.Context, id, userUID string, isAdmin bool) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP отменяет подписку текущего пользователя и освобождает автомобиль.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	if err := h.service.Cancel(r.Context(), id, userUID, role == "admin"); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to cancel subscription", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
