package register

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, rawPassword, phone, drivingLicense string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, rawPassword, phone, drivingLicense)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"name":"New User","email":"new@cartanga.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{UID: "u1", Name: "New User", Email: "new@cartanga.com"}
				m.On("Register", mock.Anything, "New User", "new@cartanga.com", "secret123", "", "").
					Return(user, "jwt-token", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name:           "некорректный email",
			body:           `{"name":"New User","email":"not-an-email","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email must be a valid email`,
		},
		{
			name:           "короткий пароль",
			body:           `{"name":"New User","email":"new@cartanga.com","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Password is too short`,
		},
		{
			name: "занятый email",
			body: `{"name":"New User","email":"taken@cartanga.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "New User", "taken@cartanga.com", "secret123", "", "").
					Return(nil, "", fmt.Errorf("user already exists: %w", apperr.ErrValidation))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `user already exists`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
