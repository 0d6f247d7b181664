// Package services содержит бизнес-логику подписок: создание подписки
// с захватом автомобиля, оплата, отмена и списочные выдачи.
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

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription сохраняет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// ReadSubscription возвращает подписку по ID или apperr.ErrNotFound.
	ReadSubscription(ctx context.Context, id string) (*models.Subscription, error)
	// ListSubscriptions возвращает подписки пользователя.
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает подписки всех пользователей.
	ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error)
	// UpdatePaymentStatus перезаписывает статус оплаты подписки.
	UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Subscription, error)
	// DeactivateSubscription помечает подписку неактивной.
	DeactivateSubscription(ctx context.Context, id string) error
}

// VehicleRepository — порт автомобилей для захвата и освобождения
// автомобиля подпиской.
type VehicleRepository interface {
	ReadVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	// ClaimVehicle атомарно занимает свободный автомобиль.
	// Возвращает false, если автомобиль отсутствует или уже занят.
	ClaimVehicle(ctx context.Context, id string) (bool, error)
	SetCurrentSubscription(ctx context.Context, vehicleID, subscriptionID string) error
	// ReleaseVehicle возвращает автомобиль в свободное состояние.
	ReleaseVehicle(ctx context.Context, id string) error
}

// UserRepository — порт пользователей для поддержания ссылки
// на активную подписку.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetActiveSubscription(ctx context.Context, userUID, subscriptionID string) error
	// ClearActiveSubscription сбрасывает ссылку, только если она
	// указывает на переданную подписку.
	ClearActiveSubscription(ctx context.Context, userUID, subscriptionID string) error
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo     SubscriptionRepository
	vehicles VehicleRepository
	users    UserRepository
	cache    cache.Cache
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, vehicles VehicleRepository, users UserRepository, c cache.Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		vehicles: vehicles,
		users:    users,
		cache:    c,
		log:      log,
	}
}

// ListMine возвращает подписки пользователя с данными автомобилей.
// Недоступность отдельного автомобиля не срывает выдачу списка.
func (s *SubscriptionService) ListMine(ctx context.Context, userUID string) ([]*models.SubscriptionInfo, error) {
	subs, err := s.repo.ListSubscriptions(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, subs, false), nil
}

// Get возвращает подписку с данными автомобиля и пользователя.
// Чужую подписку может читать только администратор.
func (s *SubscriptionService) Get(ctx context.Context, id, userUID string, isAdmin bool) (*models.SubscriptionInfo, error) {
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserUID != userUID && !isAdmin {
		return nil, fmt.Errorf("subscription belongs to another user: %w", apperr.ErrNotAuthorized)
	}

	info := &models.SubscriptionInfo{Subscription: *sub}
	if vehicle, err := s.vehicles.ReadVehicle(ctx, sub.VehicleID); err != nil {
		s.log.Warn("failed to read subscription vehicle", slog.String("subscription_id", id), sl.Err(err))
	} else {
		info.Vehicle = vehicle
	}
	if user, err := s.users.GetUser(ctx, sub.UserUID); err != nil {
		s.log.Warn("failed to read subscription user", slog.String("subscription_id", id), sl.Err(err))
	} else {
		info.User = user
	}
	return info, nil
}

// Create оформляет подписку на автомобиль.
//
// Автомобиль занимается атомарно до записи подписки: проигравший гонку
// запрос получает ошибку, осиротевшая подписка не создается. Обратные
// ссылки (подписка в автомобиле, активная подписка пользователя)
// записываются по принципу best-effort: их сбой логируется, но подписка
// считается оформленной.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", apperr.ErrValidation)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", apperr.ErrValidation)
	}

	vehicle, err := s.vehicles.ReadVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Availability {
		return nil, fmt.Errorf("vehicle is not available: %w", apperr.ErrInvalidState)
	}

	claimed, err := s.vehicles.ClaimVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("vehicle is not available: %w", apperr.ErrInvalidState)
	}
	// Автомобиль занят, кешированная запись с availability=true устарела.
	// Инвалидация на выходе покрывает и обратные записи ниже.
	defer s.invalidateVehicle(req.VehicleID)

	accessDays := req.AccessDays
	if len(accessDays) == 0 {
		accessDays = models.AllWeekdays
	}
	sub := models.Subscription{
		UserUID:       userUID,
		VehicleID:     req.VehicleID,
		Tier:          req.Tier,
		StartDate:     startDate,
		EndDate:       endDate,
		AccessDays:    accessDays,
		Price:         req.Price,
		PaymentStatus: models.PaymentPending,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		// Автомобиль уже занят, возвращаем его, чтобы не потерять из оборота.
		if relErr := s.vehicles.ReleaseVehicle(ctx, req.VehicleID); relErr != nil {
			s.log.Error("failed to release vehicle after create failure",
				slog.String("vehicle_id", req.VehicleID), sl.Err(relErr))
		}
		return nil, err
	}
	sub.ID = id

	if err := s.vehicles.SetCurrentSubscription(ctx, req.VehicleID, id); err != nil {
		s.log.Error("failed to link subscription to vehicle",
			slog.String("subscription_id", id),
			slog.String("vehicle_id", req.VehicleID), sl.Err(err))
	}
	if err := s.users.SetActiveSubscription(ctx, userUID, id); err != nil {
		s.log.Error("failed to set active subscription for user",
			slog.String("subscription_id", id),
			slog.String("user_uid", userUID), sl.Err(err))
	}
	s.log.Info("subscription created",
		slog.String("id", id),
		slog.String("vehicle_id", req.VehicleID))
	return &sub, nil
}

// UpdatePayment перезаписывает статус оплаты подписки значением вызывающего.
// Чужую подписку может менять только администратор.
func (s *SubscriptionService) UpdatePayment(ctx context.Context, id, userUID string, isAdmin bool, status string) (*models.Subscription, error) {
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserUID != userUID && !isAdmin {
		return nil, fmt.Errorf("subscription belongs to another user: %w", apperr.ErrNotAuthorized)
	}
	return s.repo.UpdatePaymentStatus(ctx, id, status)
}

// Cancel помечает подписку неактивной и освобождает автомобиль.
//
// Деактивация подписки — основная запись. Освобождение автомобиля и сброс
// активной подписки пользователя выполняются best-effort; сброс условный,
// чтобы не затереть ссылку на более новую подписку.
func (s *SubscriptionService) Cancel(ctx context.Context, id, userUID string, isAdmin bool) error {
	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return err
	}
	if sub.UserUID != userUID && !isAdmin {
		return fmt.Errorf("subscription belongs to another user: %w", apperr.ErrNotAuthorized)
	}

	if err := s.repo.DeactivateSubscription(ctx, id); err != nil {
		return err
	}
	if err := s.vehicles.ReleaseVehicle(ctx, sub.VehicleID); err != nil {
		s.log.Error("failed to release vehicle on cancel",
			slog.String("subscription_id", id),
			slog.String("vehicle_id", sub.VehicleID), sl.Err(err))
	}
	if err := s.users.ClearActiveSubscription(ctx, sub.UserUID, id); err != nil {
		s.log.Error("failed to clear active subscription",
			slog.String("subscription_id", id),
			slog.String("user_uid", sub.UserUID), sl.Err(err))
	}
	s.invalidateVehicle(sub.VehicleID)
	s.log.Info("subscription cancelled", slog.String("id", id))
	return nil
}

func (s *SubscriptionService) invalidateVehicle(id string) {
	cacheKey := fmt.Sprintf("vehicle:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate vehicle cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

// ListAll возвращает подписки всех пользователей с данными автомобилей
// и владельцев. Только для администраторов, проверка роли — в обработчике.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]*models.SubscriptionInfo, error) {
	subs, err := s.repo.ListAllSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, subs, true), nil
}

// attach дополняет подписки данными автомобилей и, опционально, пользователей.
func (s *SubscriptionService) attach(ctx context.Context, subs []*models.Subscription, withUsers bool) []*models.SubscriptionInfo {
	result := make([]*models.SubscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		info := &models.SubscriptionInfo{Subscription: *sub}
		if vehicle, err := s.vehicles.ReadVehicle(ctx, sub.VehicleID); err != nil {
			s.log.Warn("failed to read subscription vehicle",
				slog.String("subscription_id", sub.ID), sl.Err(err))
		} else {
			info.Vehicle = vehicle
		}
		if withUsers {
			if user, err := s.users.GetUser(ctx, sub.UserUID); err != nil {
				s.log.Warn("failed to read subscription user",
					slog.String("subscription_id", sub.ID), sl.Err(err))
			} else {
				info.User = user
			}
		}
		result = append(result, info)
	}
	return result
}
