// Package update реализует HTTP-обработчик частичного обновления автомобиля.
//
// Patch-структура перечисляет разрешённые поля явно; неизвестные поля
// в теле запроса отклоняются, а не молча игнорируются.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler управляет HTTP-запросами на обновление автомобилей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления автомобиля.
type Service interface {
	Update(ctx context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить автомобиль
// @Description Частично обновляет поля автомобиля. Неизвестные поля отклоняются. Только для администраторов.
// @Tags Vehicles
// @Accept  json
// @Produce  json
// @Param id path string true "ID автомобиля"
// @Param request body models.VehiclePatch true "Обновляемые поля"
// @Success 200 {object} map[string]any "Обновлённый автомобиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестное поле"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Router /vehicles/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var patch models.VehiclePatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded")

	vehicle, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		log.Error("failed to update vehicle", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to update vehicle", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vehicle": vehicle,
	}))
}
