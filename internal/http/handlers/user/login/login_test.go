package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cartanga/cartanga/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная авторизация",
			body: `{"email":"demo@cartanga.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{UID: "u1", Name: "Demo", Email: "demo@cartanga.com"}
				m.On("Login", mock.Anything, "demo@cartanga.com", "secret123").
					Return(user, "jwt-token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name: "неверные учетные данные",
			body: `{"email":"demo@cartanga.com","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "demo@cartanga.com", "wrongpass").
					Return(nil, "", errors.New("invalid credentials"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{email}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
