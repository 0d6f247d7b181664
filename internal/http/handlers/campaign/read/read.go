// Package read реализует HTTP-обработчик для получения кампании по ID.
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

// Handler обрабатывает запросы на получение кампании по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения кампании.
type Service interface {
	Get(ctx context.Context, id string) (*models.CampaignInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить кампанию
// @Description Возвращает кампанию вместе с созданным из неё автомобилем, если кампания завершена.
// @Tags Campaigns
// @Produce  json
// @Param id path string true "ID кампании"
// @Success 200 {object} map[string]any "Данные кампании"
// @Failure 404 {object} response.ErrorResponse "Кампания не найдена"
// @Router /campaigns/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read campaign", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to read campaign", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"campaign": res,
	}))
}
