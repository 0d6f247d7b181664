// Package create реализует HTTP-обработчик добавления автомобиля в автопарк.
//
// Handler принимает JSON-запрос с данными автомобиля, валидирует их,
// вызывает бизнес-логику создания и возвращает созданную запись.
// Доступно только администраторам, проверка роли — в middleware.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler управляет HTTP-запросами на добавление автомобилей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания автомобиля.
type Service interface {
	Create(ctx context.Context, req models.DummyVehicle) (*models.Vehicle, error)
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
// @Summary Добавить автомобиль
// @Description Добавляет новый автомобиль в автопарк. Только для администраторов.
// @Tags Vehicles
// @Accept  json
// @Produce  json
// @Param request body models.DummyVehicle true "Данные автомобиля"
// @Success 201 {object} map[string]any "Созданный автомобиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Требуется роль администратора"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Router /vehicles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyVehicle
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

	vehicle, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create vehicle", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to create vehicle", slog.String("id", vehicle.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vehicle": vehicle,
	}))
}
