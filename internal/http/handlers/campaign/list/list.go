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
	ListActive(ctx context.Context) ([]*models.Campaign, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список активных кампаний
// @Description Возвращает краудфандинговые кампании со статусом Active.
// @Tags Campaigns
// @Produce  json
// @Success 200 {object} map[string]any "Список кампаний"
// @Failure 400 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /campaigns [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error("failed to list campaigns", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("list campaigns", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"campaigns":  res,
	}))
}
