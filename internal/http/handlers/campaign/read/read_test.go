package read

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
	"github.com/cartanga/cartanga/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id string) (*models.CampaignInfo, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.CampaignInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение кампании",
			id:   "c1",
			setupMock: func(m *MockService) {
				info := &models.CampaignInfo{
					Campaign: models.Campaign{
						ID:           "c1",
						Title:        "Electric van",
						TargetAmount: 25000,
						Status:       models.CampaignActive,
					},
				}
				m.On("Get", mock.Anything, "c1").Return(info, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Electric van"`,
		},
		{
			name: "кампания не найдена",
			id:   "zzz",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, "zzz").
					Return(nil, fmt.Errorf("campaign not found: %w", apperr.ErrNotFound))
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

			req := httptest.NewRequest(http.MethodGet, "/campaigns/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
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
