// Package memory реализует хранилище в памяти с той же сигнатурой портов,
// что и PostgreSQL-репозиторий. Используется как демо-режим без базы данных
// и как заглушка хранилища в тестах. Все операции сериализуются мьютексом,
// поэтому инварианты взносов и занятости автомобилей сохраняются
// и при параллельных запросах.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

// Store — потокобезопасное хранилище всех сущностей в памяти.
type Store struct {
	mu            sync.Mutex
	users         map[string]*models.User
	vehicles      map[string]*models.Vehicle
	subscriptions map[string]*models.Subscription
	campaigns     map[string]*models.Campaign
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		vehicles:      make(map[string]*models.Vehicle),
		subscriptions: make(map[string]*models.Subscription),
		campaigns:     make(map[string]*models.Campaign),
	}
}

// --- users ---

// RegisterUser сохраняет нового пользователя и возвращает его ID.
// Повторный email отклоняется, как и уникальный индекс в базе.
func (s *Store) RegisterUser(_ context.Context, user models.User) (string, error) {
	const op = "memory.RegisterUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return "", fmt.Errorf("%s: duplicate key value violates unique constraint on email", op)
		}
	}
	user.UID = uuid.NewString()
	stored := user
	s.users[user.UID] = &stored
	return user.UID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	const op = "memory.GetUserByEmail"
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
}

// GetUser возвращает пользователя по UID.
func (s *Store) GetUser(_ context.Context, userUID string) (*models.User, error) {
	const op = "memory.GetUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

// SetActiveSubscription записывает активную подписку пользователя.
func (s *Store) SetActiveSubscription(_ context.Context, userUID, subscriptionID string) error {
	const op = "memory.SetActiveSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	u.ActiveSubscription = &subscriptionID
	return nil
}

// ClearActiveSubscription сбрасывает активную подписку пользователя,
// только если записана именно переданная подписка.
func (s *Store) ClearActiveSubscription(_ context.Context, userUID, subscriptionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userUID]
	if !ok {
		return nil
	}
	if u.ActiveSubscription != nil && *u.ActiveSubscription == subscriptionID {
		u.ActiveSubscription = nil
	}
	return nil
}

// --- vehicles ---

// CreateVehicle сохраняет новый автомобиль и возвращает его ID.
func (s *Store) CreateVehicle(_ context.Context, v models.Vehicle) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = uuid.NewString()
	stored := v
	s.vehicles[v.ID] = &stored
	return v.ID, nil
}

// ReadVehicle возвращает автомобиль по ID.
func (s *Store) ReadVehicle(_ context.Context, id string) (*models.Vehicle, error) {
	const op = "memory.ReadVehicle"
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	copied := *v
	return &copied, nil
}

// ListVehicles возвращает все автомобили.
func (s *Store) ListVehicles(_ context.Context) ([]*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		copied := *v
		result = append(result, &copied)
	}
	return result, nil
}

// UpdateVehicle применяет patch к автомобилю.
func (s *Store) UpdateVehicle(_ context.Context, id string, patch models.VehiclePatch) (*models.Vehicle, error) {
	const op = "memory.UpdateVehicle"
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if patch.Make != nil {
		v.Make = *patch.Make
	}
	if patch.Model != nil {
		v.Model = *patch.Model
	}
	if patch.Year != nil {
		v.Year = *patch.Year
	}
	if patch.Category != nil {
		v.Category = *patch.Category
	}
	if patch.Images != nil {
		v.Images = *patch.Images
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Specifications != nil {
		v.Specifications = *patch.Specifications
	}
	if patch.Location != nil {
		v.Location = *patch.Location
	}
	if patch.Availability != nil {
		v.Availability = *patch.Availability
	}
	copied := *v
	return &copied, nil
}

// DeleteVehicle удаляет автомобиль; связанные подписки и кампании не трогает.
func (s *Store) DeleteVehicle(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[id]; !ok {
		return 0, nil
	}
	delete(s.vehicles, id)
	return 1, nil
}

// AppendMaintenanceRecord дописывает запись в историю обслуживания.
func (s *Store) AppendMaintenanceRecord(_ context.Context, id string, record models.MaintenanceRecord) (*models.Vehicle, error) {
	const op = "memory.AppendMaintenanceRecord"
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	v.MaintenanceHistory = append(v.MaintenanceHistory, record)
	copied := *v
	return &copied, nil
}

// ClaimVehicle помечает автомобиль занятым, только если он свободен.
func (s *Store) ClaimVehicle(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok || !v.Availability {
		return false, nil
	}
	v.Availability = false
	return true, nil
}

// SetCurrentSubscription записывает ссылку автомобиля на подписку.
func (s *Store) SetCurrentSubscription(_ context.Context, id, subscriptionID string) error {
	const op = "memory.SetCurrentSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	v.CurrentSubscription = &subscriptionID
	return nil
}

// ReleaseVehicle освобождает автомобиль.
func (s *Store) ReleaseVehicle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil
	}
	v.Availability = true
	v.CurrentSubscription = nil
	return nil
}

// --- subscriptions ---

// CreateSubscription сохраняет новую подписку и возвращает её ID.
func (s *Store) CreateSubscription(_ context.Context, sub models.Subscription) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()
	stored := sub
	s.subscriptions[sub.ID] = &stored
	return sub.ID, nil
}

// ReadSubscription возвращает подписку по ID.
func (s *Store) ReadSubscription(_ context.Context, id string) (*models.Subscription, error) {
	const op = "memory.ReadSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	copied := *sub
	return &copied, nil
}

// ListSubscriptions возвращает подписки пользователя.
func (s *Store) ListSubscriptions(_ context.Context, userUID string) ([]*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Subscription
	for _, sub := range s.subscriptions {
		if sub.UserUID == userUID {
			copied := *sub
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListAllSubscriptions возвращает все подписки.
func (s *Store) ListAllSubscriptions(_ context.Context) ([]*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*models.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		copied := *sub
		result = append(result, &copied)
	}
	return result, nil
}

// UpdatePaymentStatus перезаписывает статус оплаты подписки.
func (s *Store) UpdatePaymentStatus(_ context.Context, id, paymentStatus string) (*models.Subscription, error) {
	const op = "memory.UpdatePaymentStatus"
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	sub.PaymentStatus = paymentStatus
	copied := *sub
	return &copied, nil
}

// DeactivateSubscription снимает флаг активности подписки.
func (s *Store) DeactivateSubscription(_ context.Context, id string) error {
	const op = "memory.DeactivateSubscription"
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	sub.IsActive = false
	return nil
}

// --- campaigns ---

// CreateCampaign сохраняет новую кампанию и возвращает её ID.
func (s *Store) CreateCampaign(_ context.Context, c models.Campaign) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	stored := c
	s.campaigns[c.ID] = &stored
	return c.ID, nil
}

// ReadCampaign возвращает кампанию по ID.
func (s *Store) ReadCampaign(_ context.Context, id string) (*models.Campaign, error) {
	const op = "memory.ReadCampaign"
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	copied := s.copyCampaign(c)
	return &copied, nil
}

// ListActiveCampaigns возвращает кампании со статусом Active.
func (s *Store) ListActiveCampaigns(_ context.Context) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*models.Campaign
	for _, c := range s.campaigns {
		if c.Status == models.CampaignActive {
			copied := s.copyCampaign(c)
			result = append(result, &copied)
		}
	}
	return result, nil
}

// UpdateCampaign применяет patch к кампании.
func (s *Store) UpdateCampaign(_ context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	const op = "memory.UpdateCampaign"
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	// Даты разбираются до применения patch, чтобы ошибка не оставила
	// кампанию обновлённой наполовину.
	var startDate, endDate time.Time
	if patch.StartDate != nil {
		var err error
		if startDate, err = time.Parse("2006-01-02", *patch.StartDate); err != nil {
			return nil, fmt.Errorf("%s: invalid start date: %w", op, apperr.ErrValidation)
		}
	}
	if patch.EndDate != nil {
		var err error
		if endDate, err = time.Parse("2006-01-02", *patch.EndDate); err != nil {
			return nil, fmt.Errorf("%s: invalid end date: %w", op, apperr.ErrValidation)
		}
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.VehicleSpec != nil {
		c.VehicleSpec = *patch.VehicleSpec
	}
	if patch.TargetAmount != nil {
		c.TargetAmount = *patch.TargetAmount
	}
	if patch.StartDate != nil {
		c.StartDate = startDate
	}
	if patch.EndDate != nil {
		c.EndDate = endDate
	}
	if patch.Rewards != nil {
		c.Rewards = *patch.Rewards
	}
	copied := s.copyCampaign(c)
	return &copied, nil
}

// Contribute добавляет взнос: дописывает запись, увеличивает сумму и
// переводит статус в Completed при достижении цели. Выполняется под мьютексом,
// поэтому параллельные взносы не теряют обновлений.
func (s *Store) Contribute(_ context.Context, id, userUID string, amount float64) (*models.Campaign, error) {
	const op = "memory.Contribute"
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if c.Status != models.CampaignActive {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidState)
	}
	c.Contributions = append(c.Contributions, models.Contribution{
		UserUID: userUID,
		Amount:  amount,
		Date:    time.Now().UTC(),
	})
	c.CurrentAmount += amount
	if c.CurrentAmount >= c.TargetAmount {
		c.Status = models.CampaignCompleted
	}
	copied := s.copyCampaign(c)
	return &copied, nil
}

// LinkVehicle привязывает автомобиль к кампании, не более одного раза.
func (s *Store) LinkVehicle(_ context.Context, id, vehicleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.VehicleID != nil {
		return nil
	}
	c.VehicleID = &vehicleID
	return nil
}

// CancelCampaign безусловно переводит кампанию в статус Cancelled.
func (s *Store) CancelCampaign(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return 0, nil
	}
	c.Status = models.CampaignCancelled
	return 1, nil
}

func (s *Store) copyCampaign(c *models.Campaign) models.Campaign {
	copied := *c
	copied.Contributions = append([]models.Contribution(nil), c.Contributions...)
	copied.Rewards = append([]models.RewardTier(nil), c.Rewards...)
	return copied
}
