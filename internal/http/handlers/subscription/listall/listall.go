// Package listall реализует HTTP-обработчик административного списка
// подписок всех пользователей.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler обрабатывает запросы на список всех подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка всех подписок.
type Service interface {
	ListAll(ctx context.Context) ([]*models.SubscriptionInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список всех подписок
// @Description Возвращает подписки всех пользователей с данными автомобилей и владельцев. Только для администраторов.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Требуется роль администратора"
// @Router /subscriptions/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list all subscriptions", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("list all subscriptions", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"subscriptions": res,
	}))
}
