// Package maintenance реализует HTTP-обработчик добавления записи
// в историю обслуживания автомобиля.
package maintenance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler управляет HTTP-запросами на добавление записей обслуживания.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики истории обслуживания.
type Service interface {
	AppendMaintenance(ctx context.Context, id string, rec models.MaintenanceRecord) (*models.Vehicle, error)
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
// @Summary Добавить запись обслуживания
// @Description Дописывает запись в историю обслуживания автомобиля. Только для администраторов.
// @Tags Vehicles
// @Accept  json
// @Produce  json
// @Param id path string true "ID автомобиля"
// @Param request body models.MaintenanceRecord true "Запись обслуживания"
// @Success 200 {object} map[string]any "Автомобиль с обновлённой историей"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Router /vehicles/{id}/maintenance [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.maintenance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var rec models.MaintenanceRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(rec); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	vehicle, err := h.service.AppendMaintenance(r.Context(), id, rec)
	if err != nil {
		log.Error("failed to append maintenance record", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("maintenance record added", slog.String("vehicle_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vehicle": vehicle,
	}))
}
