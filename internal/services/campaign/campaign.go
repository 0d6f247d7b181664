// Package services содержит бизнес-логику краудфандинговых кампаний:
// листинг, создание, взносы, завершение и создание автомобиля
// из завершённой кампании.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cartanga/cartanga/internal/cache"
	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/lib/sl"
	"github.com/cartanga/cartanga/internal/models"
)

// CampaignRepository определяет методы для работы с кампаниями в хранилище.
type CampaignRepository interface {
	// CreateCampaign добавляет новую кампанию и возвращает её ID.
	CreateCampaign(ctx context.Context, c models.Campaign) (string, error)
	// ReadCampaign возвращает кампанию по ID.
	ReadCampaign(ctx context.Context, id string) (*models.Campaign, error)
	// ListActiveCampaigns возвращает кампании со статусом Active.
	ListActiveCampaigns(ctx context.Context) ([]*models.Campaign, error)
	// UpdateCampaign применяет patch к кампании.
	UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error)
	// Contribute атомарно добавляет взнос и при достижении цели
	// переводит кампанию в Completed.
	Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error)
	// LinkVehicle привязывает созданный автомобиль к кампании, не более одного раза.
	LinkVehicle(ctx context.Context, id, vehicleID string) error
	// CancelCampaign переводит кампанию в Cancelled, возвращает число изменённых строк.
	CancelCampaign(ctx context.Context, id string) (int, error)
}

// VehicleRepository — порт автомобилей, нужный кампании для создания
// и чтения связанного автомобиля.
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, v models.Vehicle) (string, error)
	ReadVehicle(ctx context.Context, id string) (*models.Vehicle, error)
}

// CampaignService реализует бизнес-логику кампаний, включая кеширование чтений.
type CampaignService struct {
	repo     CampaignRepository
	vehicles VehicleRepository
	cache    cache.Cache
	log      *slog.Logger
}

// NewCampaignService создает новый экземпляр CampaignService.
func NewCampaignService(repo CampaignRepository, vehicles VehicleRepository, c cache.Cache, log *slog.Logger) *CampaignService {
	return &CampaignService{
		repo:     repo,
		vehicles: vehicles,
		cache:    c,
		log:      log,
	}
}

// ListActive возвращает все кампании со статусом Active.
func (s *CampaignService) ListActive(ctx context.Context) ([]*models.Campaign, error) {
	return s.repo.ListActiveCampaigns(ctx)
}

// Get возвращает кампанию вместе с созданным из неё автомобилем
// (nil, пока кампания не завершена). Использует кеш чтения.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.CampaignInfo, error) {
	var campaign *models.Campaign
	cacheKey := fmt.Sprintf("campaign:%s", id)
	found, err := s.cache.Get(cacheKey, &campaign)
	if err != nil || !found {
		campaign, err = s.repo.ReadCampaign(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, campaign, time.Hour); err != nil {
			s.log.Warn("failed to cache campaign", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	info := &models.CampaignInfo{Campaign: *campaign}
	if campaign.VehicleID != nil {
		vehicle, err := s.vehicles.ReadVehicle(ctx, *campaign.VehicleID)
		if err != nil {
			s.log.Warn("failed to read campaign vehicle", slog.String("campaign_id", id), sl.Err(err))
		} else {
			info.Vehicle = vehicle
		}
	}
	return info, nil
}

// Create создает новую кампанию: собранная сумма 0, статус Active,
// пустой список взносов.
func (s *CampaignService) Create(ctx context.Context, req models.DummyCampaign) (*models.Campaign, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", apperr.ErrValidation)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", apperr.ErrValidation)
	}

	rewards := req.Rewards
	if rewards == nil {
		rewards = []models.RewardTier{}
	}
	campaign := models.Campaign{
		Title:         req.Title,
		Description:   req.Description,
		VehicleSpec:   *req.VehicleSpec,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: 0,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        models.CampaignActive,
		Contributions: []models.Contribution{},
		Rewards:       rewards,
	}
	id, err := s.repo.CreateCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}
	campaign.ID = id
	s.log.Info("created new campaign", slog.String("id", id))
	return &campaign, nil
}

// Update применяет patch к кампании и инвалидирует кеш.
// Значения полей записываются как есть, без дополнительной валидации.
func (s *CampaignService) Update(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	campaign, err := s.repo.UpdateCampaign(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return campaign, nil
}

// Contribute добавляет взнос пользователя в кампанию.
//
// Сумма должна быть положительной, кампания — существовать и быть Active.
// Добавление взноса, инкремент суммы и переход в Completed выполняются
// одной атомарной операцией хранилища. Если кампания при этом завершилась
// и автомобиль для неё ещё не создан, автомобиль создается из целевой
// спецификации и привязывается к кампании. Ошибка создания автомобиля
// логируется, но не откатывает взнос: взнос считается зафиксированным.
func (s *CampaignService) Contribute(ctx context.Context, id, userUID string, amount float64) (*models.Campaign, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("contribution amount must be positive: %w", apperr.ErrValidation)
	}

	campaign, err := s.repo.Contribute(ctx, id, userUID, amount)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			// Условный UPDATE не различает отсутствующую и неактивную кампанию.
			if _, readErr := s.repo.ReadCampaign(ctx, id); readErr != nil {
				return nil, readErr
			}
			return nil, fmt.Errorf("campaign is not active: %w", apperr.ErrInvalidState)
		}
		return nil, err
	}
	s.invalidate(id)
	s.log.Info("contribution accepted",
		slog.String("campaign_id", id),
		slog.Float64("amount", amount),
		slog.Float64("current_amount", campaign.CurrentAmount))

	if campaign.Status == models.CampaignCompleted && campaign.VehicleID == nil {
		s.createCampaignVehicle(ctx, campaign)
	}
	return campaign, nil
}

// createCampaignVehicle создает автомобиль из целевой спецификации
// завершённой кампании и привязывает его обратно. Выполняется по принципу
// best-effort: любая ошибка логируется, взнос при этом уже зафиксирован.
func (s *CampaignService) createCampaignVehicle(ctx context.Context, campaign *models.Campaign) {
	vehicle := models.Vehicle{
		Make:               campaign.VehicleSpec.Make,
		Model:              campaign.VehicleSpec.Model,
		Year:               campaign.VehicleSpec.Year,
		Category:           campaign.VehicleSpec.Category,
		Images:             []string{},
		Description:        fmt.Sprintf("Vehicle created from campaign: %s", campaign.Title),
		Specifications:     map[string]string{},
		Location:           "Main Location",
		Availability:       true,
		MaintenanceHistory: []models.MaintenanceRecord{},
		CampaignID:         &campaign.ID,
	}
	vehicleID, err := s.vehicles.CreateVehicle(ctx, vehicle)
	if err != nil {
		s.log.Error("failed to create vehicle for completed campaign",
			slog.String("campaign_id", campaign.ID), sl.Err(err))
		return
	}
	if err := s.repo.LinkVehicle(ctx, campaign.ID, vehicleID); err != nil {
		s.log.Error("failed to link vehicle to campaign",
			slog.String("campaign_id", campaign.ID),
			slog.String("vehicle_id", vehicleID), sl.Err(err))
		return
	}
	campaign.VehicleID = &vehicleID
	// Привязка меняет кампанию после инвалидации при взносе, сбрасываем ещё раз.
	s.invalidate(campaign.ID)
	s.log.Info("campaign completed, vehicle created",
		slog.String("campaign_id", campaign.ID),
		slog.String("vehicle_id", vehicleID))
}

// Cancel безусловно переводит кампанию в статус Cancelled.
// Отмена уже завершённой или отменённой кампании молча успешна.
func (s *CampaignService) Cancel(ctx context.Context, id string) error {
	count, err := s.repo.CancelCampaign(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("campaign not found: %w", apperr.ErrNotFound)
	}
	s.invalidate(id)
	return nil
}

func (s *CampaignService) invalidate(id string) {
	cacheKey := fmt.Sprintf("campaign:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate campaign cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
