package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartanga/cartanga/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken("u1", "Demo", "user")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "валидный токен",
			authHeader:     "Bearer " + token,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "нет заголовка",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "не Bearer схема",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "мусорный токен",
			authHeader:     "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				uid, _ := r.Context().Value(UserUID).(string)
				role, _ := r.Context().Value(Role).(string)
				assert.Equal(t, "u1", uid)
				assert.Equal(t, "user", role)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{name: "admin проходит", role: "admin", expectedStatus: http.StatusOK},
		{name: "обычный пользователь отклоняется", role: "user", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken("u1", "Demo", tt.role)
			require.NoError(t, err)

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			// Цепочка как в боевых маршрутах: сначала JWT, затем проверка роли.
			chain := JWTMiddleware(maker, newNoopLogger())(AdminMiddleware(newNoopLogger())(next))

			req := httptest.NewRequest(http.MethodPost, "/vehicles", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			chain.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
