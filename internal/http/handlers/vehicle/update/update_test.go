package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cartanga/cartanga/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error) {
	args := m.Called(ctx, id, patch)
	if res := args.Get(0); res != nil {
		return res.(*models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное обновление локации",
			body: `{"location":"Airport"}`,
			setupMock: func(m *MockService) {
				vehicle := &models.Vehicle{ID: "v1", Location: "Airport"}
				m.On("Update", mock.Anything, "v1", mock.MatchedBy(func(p models.VehiclePatch) bool {
					return p.Location != nil && *p.Location == "Airport"
				})).Return(vehicle, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"location":"Airport"`,
		},
		{
			name:           "неизвестное поле отклоняется",
			body:           `{"location":"Airport","vin":"XYZ"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "переключение доступности",
			body: `{"availability":false}`,
			setupMock: func(m *MockService) {
				vehicle := &models.Vehicle{ID: "v1", Availability: false}
				m.On("Update", mock.Anything, "v1", mock.MatchedBy(func(p models.VehiclePatch) bool {
					return p.Availability != nil && !*p.Availability
				})).Return(vehicle, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"availability":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/vehicles/v1", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "v1")
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
