// Package read реализует HTTP-обработчик для получения подписки по ID.
//
// Handler извлекает ID из URL-параметров и идентификатор пользователя
// из контекста; чужую подписку может прочитать только администратор.
package read

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
	"github.com/cartanga/cartanga/internal/models"
)

// Handler обрабатывает запросы на получение подписки по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Get(ctx context.Context, id, userUID string, isAdmin bool) (*models.SubscriptionInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить подписку
// @Description Возвращает подписку с данными автомобиля и владельца. Чужая подписка доступна только администратору.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "ID подписки"
// @Success 200 {object} map[string]any "Данные подписки"
// @Failure 401 {object} response.ErrorResponse "Подписка другого пользователя"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /subscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

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

	res, err := h.service.Get(r.Context(), id, userUID, role == "admin")
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to read subscription", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": res,
	}))
}
