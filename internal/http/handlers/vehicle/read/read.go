// Package read реализует HTTP-обработчик для получения автомобиля по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/response"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// Handler обрабатывает запросы на получение автомобиля по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения автомобиля.
type Service interface {
	Get(ctx context.Context, id string) (*models.Vehicle, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить автомобиль
// @Description Возвращает автомобиль по идентификатору.
// @Tags Vehicles
// @Produce  json
// @Param id path string true "ID автомобиля"
// @Success 200 {object} map[string]any "Данные автомобиля"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Router /vehicles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read vehicle", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to read vehicle", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"vehicle": res,
	}))
}
