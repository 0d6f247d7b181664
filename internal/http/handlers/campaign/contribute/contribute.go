// Package contribute реализует HTTP-обработчик взноса в краудфандинговую кампанию.
//
// Handler принимает JSON-запрос с суммой взноса, извлекает идентификатор
// пользователя из контекста и вызывает бизнес-логику взноса. Добавление
// взноса и возможное завершение кампании выполняются атомарно.
package contribute

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

// Request — входные данные для взноса.
type Request struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Handler управляет HTTP-запросами на взносы в кампании.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики взноса.
type Service interface {
	Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error)
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
// @Summary Внести взнос в кампанию
// @Description Добавляет взнос текущего пользователя в активную кампанию. При достижении цели кампания завершается и для неё создается автомобиль.
// @Tags Campaigns
// @Accept  json
// @Produce  json
// @Param id path string true "ID кампании"
// @Param request body Request true "Сумма взноса"
// @Success 200 {object} map[string]any "Кампания после взноса"
// @Failure 400 {object} response.ErrorResponse "Неположительная сумма или неактивная кампания"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Кампания не найдена"
// @Router /campaigns/{id}/contribute [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.campaign.contribute"

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

	campaign, err := h.service.Contribute(r.Context(), id, userUID, req.Amount)
	if err != nil {
		log.Error("failed to contribute", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("contribution accepted",
		slog.String("campaign_id", id),
		slog.Float64("amount", req.Amount))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"campaign": campaign,
	}))
}
