package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCampaign(ctx context.Context, c models.Campaign) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) ReadCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}
func (m *RepoMock) ListActiveCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Campaign), args.Error(1)
}
func (m *RepoMock) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}
func (m *RepoMock) Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error) {
	args := m.Called(ctx, id, userUID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}
func (m *RepoMock) LinkVehicle(ctx context.Context, id, vehicleID string) error {
	return m.Called(ctx, id, vehicleID).Error(0)
}
func (m *RepoMock) CancelCampaign(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type VehicleRepoMock struct{ mock.Mock }

func (m *VehicleRepoMock) CreateVehicle(ctx context.Context, v models.Vehicle) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}
func (m *VehicleRepoMock) ReadVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func activeCampaign(current float64) *models.Campaign {
	return &models.Campaign{
		ID:            "c1",
		Title:         "Electric van",
		VehicleSpec:   models.VehicleSpec{Make: "Ford", Model: "E-Transit", Year: 2024, Category: "Van"},
		TargetAmount:  1000,
		CurrentAmount: current,
		Status:        models.CampaignActive,
		Contributions: []models.Contribution{},
	}
}

func TestCampaignService_Contribute(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		setupMocks  func(r *RepoMock, v *VehicleRepoMock, c *CacheMock)
		wantErr     error
		wantStatus  string
		wantVehicle bool
	}{
		{
			name:   "successful contribution below target",
			amount: 150,
			setupMocks: func(r *RepoMock, _ *VehicleRepoMock, c *CacheMock) {
				after := activeCampaign(150)
				after.Contributions = []models.Contribution{{UserUID: "u1", Amount: 150}}
				r.On("Contribute", mock.Anything, "c1", "u1", 150.0).Return(after, nil).Once()
				c.On("Invalidate", "campaign:c1").Return(nil).Once()
			},
			wantStatus: models.CampaignActive,
		},
		{
			name:   "contribution reaches target and creates vehicle",
			amount: 100,
			setupMocks: func(r *RepoMock, v *VehicleRepoMock, c *CacheMock) {
				after := activeCampaign(1000)
				after.Status = models.CampaignCompleted
				r.On("Contribute", mock.Anything, "c1", "u1", 100.0).Return(after, nil).Once()
				// Вторая инвалидация — после привязки автомобиля, иначе в кеше
				// останется завершённая кампания без vehicleId.
				c.On("Invalidate", "campaign:c1").Return(nil).Times(2)
				v.On("CreateVehicle", mock.Anything, mock.MatchedBy(func(veh models.Vehicle) bool {
					return veh.Make == "Ford" && veh.Model == "E-Transit" &&
						veh.Availability && *veh.CampaignID == "c1"
				})).Return("v9", nil).Once()
				r.On("LinkVehicle", mock.Anything, "c1", "v9").Return(nil).Once()
			},
			wantStatus:  models.CampaignCompleted,
			wantVehicle: true,
		},
		{
			name:   "vehicle creation failure keeps contribution",
			amount: 100,
			setupMocks: func(r *RepoMock, v *VehicleRepoMock, c *CacheMock) {
				after := activeCampaign(1000)
				after.Status = models.CampaignCompleted
				r.On("Contribute", mock.Anything, "c1", "u1", 100.0).Return(after, nil).Once()
				c.On("Invalidate", "campaign:c1").Return(nil).Once()
				v.On("CreateVehicle", mock.Anything, mock.Anything).
					Return("", assert.AnError).Once()
			},
			wantStatus: models.CampaignCompleted,
		},
		{
			name:   "contribution to completed campaign",
			amount: 50,
			setupMocks: func(r *RepoMock, _ *VehicleRepoMock, _ *CacheMock) {
				r.On("Contribute", mock.Anything, "c1", "u1", 50.0).
					Return(nil, apperr.ErrInvalidState).Once()
				done := activeCampaign(1000)
				done.Status = models.CampaignCompleted
				r.On("ReadCampaign", mock.Anything, "c1").Return(done, nil).Once()
			},
			wantErr: apperr.ErrInvalidState,
		},
		{
			name:   "contribution to missing campaign",
			amount: 50,
			setupMocks: func(r *RepoMock, _ *VehicleRepoMock, _ *CacheMock) {
				r.On("Contribute", mock.Anything, "c1", "u1", 50.0).
					Return(nil, apperr.ErrInvalidState).Once()
				r.On("ReadCampaign", mock.Anything, "c1").
					Return(nil, apperr.ErrNotFound).Once()
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:       "non-positive amount is rejected",
			amount:     0,
			setupMocks: func(_ *RepoMock, _ *VehicleRepoMock, _ *CacheMock) {},
			wantErr:    apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			vehicles := new(VehicleRepoMock)
			cacheMock := new(CacheMock)
			tt.setupMocks(repo, vehicles, cacheMock)

			svc := NewCampaignService(repo, vehicles, cacheMock, newNoopLogger())
			campaign, err := svc.Contribute(context.Background(), "c1", "u1", tt.amount)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, campaign.Status)
				if tt.wantVehicle {
					require.NotNil(t, campaign.VehicleID)
					assert.Equal(t, "v9", *campaign.VehicleID)
				}
			}
			repo.AssertExpectations(t)
			vehicles.AssertExpectations(t)
			cacheMock.AssertExpectations(t)
		})
	}
}

func TestCampaignService_Get(t *testing.T) {
	t.Run("cache miss reads storage and attaches vehicle", func(t *testing.T) {
		repo := new(RepoMock)
		vehicles := new(VehicleRepoMock)
		cacheMock := new(CacheMock)

		vid := "v9"
		campaign := activeCampaign(1000)
		campaign.Status = models.CampaignCompleted
		campaign.VehicleID = &vid

		cacheMock.On("Get", "campaign:c1", mock.Anything).Return(false, nil).Once()
		repo.On("ReadCampaign", mock.Anything, "c1").Return(campaign, nil).Once()
		cacheMock.On("Set", "campaign:c1", campaign, time.Hour).Return(nil).Once()
		vehicles.On("ReadVehicle", mock.Anything, "v9").
			Return(&models.Vehicle{ID: "v9", Make: "Ford"}, nil).Once()

		svc := NewCampaignService(repo, vehicles, cacheMock, newNoopLogger())
		info, err := svc.Get(context.Background(), "c1")

		require.NoError(t, err)
		require.NotNil(t, info.Vehicle)
		assert.Equal(t, "v9", info.Vehicle.ID)
		repo.AssertExpectations(t)
	})

	t.Run("missing campaign", func(t *testing.T) {
		repo := new(RepoMock)
		cacheMock := new(CacheMock)

		cacheMock.On("Get", "campaign:zzz", mock.Anything).Return(false, nil).Once()
		repo.On("ReadCampaign", mock.Anything, "zzz").Return(nil, apperr.ErrNotFound).Once()

		svc := NewCampaignService(repo, new(VehicleRepoMock), cacheMock, newNoopLogger())
		_, err := svc.Get(context.Background(), "zzz")

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestCampaignService_Create(t *testing.T) {
	req := models.DummyCampaign{
		Title:        "Electric van",
		Description:  "Van for the fleet",
		VehicleSpec:  &models.VehicleSpec{Make: "Ford", Model: "E-Transit", Year: 2024, Category: "Van"},
		TargetAmount: 1000,
		StartDate:    "2026-01-01",
		EndDate:      "2026-06-01",
	}

	t.Run("success create", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateCampaign", mock.Anything, mock.MatchedBy(func(c models.Campaign) bool {
			return c.Status == models.CampaignActive &&
				c.CurrentAmount == 0 &&
				len(c.Contributions) == 0
		})).Return("c1", nil).Once()

		svc := NewCampaignService(repo, new(VehicleRepoMock), new(CacheMock), newNoopLogger())
		campaign, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "c1", campaign.ID)
		repo.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		bad := req
		bad.StartDate = "01-01-2026"

		svc := NewCampaignService(new(RepoMock), new(VehicleRepoMock), new(CacheMock), newNoopLogger())
		_, err := svc.Create(context.Background(), bad)

		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCampaignService_Cancel(t *testing.T) {
	t.Run("success cancel", func(t *testing.T) {
		repo := new(RepoMock)
		cacheMock := new(CacheMock)
		repo.On("CancelCampaign", mock.Anything, "c1").Return(1, nil).Once()
		cacheMock.On("Invalidate", "campaign:c1").Return(nil).Once()

		svc := NewCampaignService(repo, new(VehicleRepoMock), cacheMock, newNoopLogger())
		err := svc.Cancel(context.Background(), "c1")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing campaign", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CancelCampaign", mock.Anything, "zzz").Return(0, nil).Once()

		svc := NewCampaignService(repo, new(VehicleRepoMock), new(CacheMock), newNoopLogger())
		err := svc.Cancel(context.Background(), "zzz")

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
