// Package payment реализует HTTP-обработчик обновления статуса оплаты подписки.
//
// Статус перезаписывается значением вызывающего без проверки по enum.
package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Request — входные данные для обновления статуса оплаты.
type Request struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

// Handler управляет HTTP-запросами на обновление статуса оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оплаты подписки.
type Service interface {
	UpdatePayment(ctx context.Context, id, userUID string, isAdmin bool, status string) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить статус оплаты
// @Description Перезаписывает статус оплаты подписки. Чужая подписка доступна только администратору.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "ID подписки"
// @Param request body Request true "Новый статус оплаты"
// @Success 200 {object} map[string]any "Обновлённая подписка"
// @Failure 401 {object} response.ErrorResponse "Подписка другого пользователя"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /subscriptions/{id}/payment [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.payment"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	sub, err := h.service.UpdatePayment(r.Context(), id, userUID, role == "admin", req.PaymentStatus)
	if err != nil {
		log.Error("failed to update payment status", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("payment status updated",
		slog.String("id", id),
		slog.String("status", req.PaymentStatus))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}
