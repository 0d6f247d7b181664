// Package create реализует HTTP-обработчик оформления подписки на автомобиль.
//
// Handler принимает JSON-запрос с данными подписки, валидирует их, извлекает
// идентификатор пользователя из контекста, вызывает бизнес-логику оформления
// и возвращает созданную подписку в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler управляет HTTP-запросами на оформление подписок.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для оформления подписки,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, error)
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
// @Summary Оформить подписку
// @Description Оформляет подписку текущего пользователя на свободный автомобиль.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "Данные новой подписки"
// @Success 201 {object} map[string]any "Созданная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый автомобиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("succes to create subscription", slog.String("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}
