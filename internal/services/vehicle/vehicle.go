// Package services содержит бизнес-логику каталога автомобилей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cartanga/cartanga/internal/cache"
	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// VehicleRepository определяет методы для работы с автомобилями в хранилище.
type VehicleRepository interface {
	// CreateVehicle добавляет автомобиль и возвращает его ID.
	CreateVehicle(ctx context.Context, v models.Vehicle) (string, error)
	// ReadVehicle возвращает автомобиль по ID или apperr.ErrNotFound.
	ReadVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	// ListVehicles возвращает все автомобили автопарка.
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	// UpdateVehicle применяет patch к автомобилю.
	UpdateVehicle(ctx context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error)
	// DeleteVehicle удаляет автомобиль, возвращает число удалённых строк.
	DeleteVehicle(ctx context.Context, id string) (int, error)
	// AppendMaintenanceRecord дописывает запись в историю обслуживания.
	AppendMaintenanceRecord(ctx context.Context, id string, rec models.MaintenanceRecord) (*models.Vehicle, error)
}

// VehicleService реализует бизнес-логику каталога автомобилей
// с кешированием чтений по ID.
type VehicleService struct {
	repo  VehicleRepository
	cache cache.Cache
	log   *slog.Logger
}

// NewVehicleService создает новый экземпляр VehicleService.
func NewVehicleService(repo VehicleRepository, c cache.Cache, log *slog.Logger) *VehicleService {
	return &VehicleService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// List возвращает все автомобили автопарка, без фильтрации по доступности.
func (s *VehicleService) List(ctx context.Context) ([]*models.Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

// Get возвращает автомобиль по ID, используя кеш чтения.
func (s *VehicleService) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	var vehicle *models.Vehicle
	cacheKey := fmt.Sprintf("vehicle:%s", id)
	found, err := s.cache.Get(cacheKey, &vehicle)
	if err == nil && found {
		return vehicle, nil
	}

	vehicle, err = s.repo.ReadVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, vehicle, time.Hour); err != nil {
		s.log.Warn("failed to cache vehicle", slog.String("key", cacheKey), sl.Err(err))
	}
	return vehicle, nil
}

// Create добавляет автомобиль в автопарк. Новый автомобиль доступен
// для подписки, история обслуживания пустая.
func (s *VehicleService) Create(ctx context.Context, req models.DummyVehicle) (*models.Vehicle, error) {
	images := req.Images
	if images == nil {
		images = []string{}
	}
	specs := req.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	vehicle := models.Vehicle{
		Make:               req.Make,
		Model:              req.Model,
		Year:               req.Year,
		Category:           req.Category,
		Images:             images,
		Description:        req.Description,
		Specifications:     specs,
		Location:           req.Location,
		Availability:       true,
		MaintenanceHistory: []models.MaintenanceRecord{},
	}
	id, err := s.repo.CreateVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	s.log.Info("vehicle added to fleet", slog.String("id", id))
	return &vehicle, nil
}

// Update применяет patch к автомобилю и инвалидирует кеш.
func (s *VehicleService) Update(ctx context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error) {
	vehicle, err := s.repo.UpdateVehicle(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return vehicle, nil
}

// Delete удаляет автомобиль из автопарка.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	count, err := s.repo.DeleteVehicle(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
	}
	s.invalidate(id)
	s.log.Info("vehicle removed from fleet", slog.String("id", id))
	return nil
}

// AppendMaintenance дописывает запись в историю обслуживания автомобиля.
func (s *VehicleService) AppendMaintenance(ctx context.Context, id string, rec models.MaintenanceRecord) (*models.Vehicle, error) {
	vehicle, err := s.repo.AppendMaintenanceRecord(ctx, id, rec)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return vehicle, nil
}

func (s *VehicleService) invalidate(id string) {
	cacheKey := fmt.Sprintf("vehicle:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate vehicle cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
