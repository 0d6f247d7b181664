package contribute

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

	"github.com/cartanga/cartanga/internal/http/middlewarectx"
	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

// MockService реализует интерфейс contribute.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error) {
	args := m.Called(ctx, id, userUID, amount)
	if res := args.Get(0); res != nil {
		return res.(*models.Campaign), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestContributeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный взнос",
			body:    `{"amount": 150}`,
			userUID: "u1",
			setupMock: func(m *MockService) {
				campaign := &models.Campaign{
					ID:            "c1",
					Title:         "Electric van",
					CurrentAmount: 150,
					Status:        models.CampaignActive,
				}
				m.On("Contribute", mock.Anything, "c1", "u1", 150.0).Return(campaign, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"currentAmount":150`,
		},
		{
			name:           "некорректный JSON",
			body:           `{amount}`,
			userUID:        "u1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "нулевая сумма",
			body:           `{"amount": 0}`,
			userUID:        "u1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Amount is a required field`,
		},
		{
			name:           "отрицательная сумма",
			body:           `{"amount": -5}`,
			userUID:        "u1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Amount must be greater than 0`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"amount": 150}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "кампания не найдена",
			body:    `{"amount": 150}`,
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Contribute", mock.Anything, "c1", "u1", 150.0).
					Return(nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `campaign not found`,
		},
		{
			name:    "неактивная кампания",
			body:    `{"amount": 150}`,
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Contribute", mock.Anything, "c1", "u1", 150.0).
					Return(nil, fmt.Errorf("campaign is not active: %w", apperr.ErrInvalidState))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `campaign is not active`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/campaigns/c1/contribute", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "c1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
