package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/cartanga/cartanga/internal/http/response"
)

// AdminMiddleware пропускает дальше только запросы пользователей с ролью admin.
// Ставится после JWTMiddleware, роль берется из контекста запроса.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("admin role required", slog.String("role", role))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
