// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Handler принимает JSON-запрос с данными нового пользователя, валидирует их,
// делегирует регистрацию сервису аутентификации и возвращает профиль
// и JWT-токен. Занятый email считается ошибкой запроса, а не сервера.
package register

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

// Request — входные данные для регистрации.
type Request struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Phone          string `json:"phone"`
	DrivingLicense string `json:"drivingLicense"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, name, email, rawPassword, phone, drivingLicense string) (*models.User, string, error)
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
// @Summary Регистрация пользователя
// @Description Создает нового пользователя и возвращает профиль вместе с JWT-токеном.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый email"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone, req.DrivingLicense)
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.DomainError(w, r, err)
		return
	}

	log.Info("user registered", slog.String("uid", user.UID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
