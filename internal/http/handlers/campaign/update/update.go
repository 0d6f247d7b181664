// Package update реализует HTTP-обработчик частичного обновления кампании.
//
// Patch-структура перечисляет разрешённые поля явно; неизвестные поля
// в теле запроса отклоняются. Счетчики и статус кампании через это API
// недоступны, их меняют только взносы и отмена.
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

// Handler управляет HTTP-запросами на обновление кампаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления кампании.
type Service interface {
	Update(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить кампанию
// @Description Частично обновляет поля кампании. Неизвестные поля отклоняются. Только для администраторов.
// @Tags Campaigns
// @Accept  json
// @Produce  json
// @Param id path string true "ID кампании"
// @Param request body models.CampaignPatch true "Обновляемые поля"
// @Success 200 {object} map[string]any "Обновлённая кампания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестное поле"
// @Failure 404 {object} response.ErrorResponse "Кампания не найдена"
// @Router /campaigns/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var patch models.CampaignPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded")

	campaign, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		log.Error("failed to update campaign", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("success to update campaign", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"campaign": campaign,
	}))
}
