package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListMine(ctx context.Context, userUID string) ([]*models.SubscriptionInfo, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает подписки текущего пользователя с данными автомобилей.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ListMine(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("list subscriptions", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"subscriptions": res,
	}))
}
