package list

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

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	List(ctx context.Context) ([]*models.Vehicle, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список автомобилей
// @Description Возвращает все автомобили автопарка, включая занятые.
// @Tags Vehicles
// @Produce  json
// @Success 200 {object} map[string]any "Список автомобилей"
// @Failure 400 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /vehicles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vehicle.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list vehicles", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("list vehicles", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"vehicles":   res,
	}))
}
