package cancel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cartanga/cartanga/internal/lib/apperr"
)

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCancelHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная отмена",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "c1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"success":true`,
		},
		{
			name: "кампания не найдена",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "c1").
					Return(fmt.Errorf("campaign not found: %w", apperr.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `campaign not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/campaigns/c1/cancel", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "c1")
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
