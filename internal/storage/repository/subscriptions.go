package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

const subscriptionColumns = `id, user_uid, vehicle_id, tier, start_date, end_date,
			      access_days, price, payment_status, is_active, created_at`

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, vehicle_id, tier, start_date, end_date,
			      access_days, price, payment_status, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.VehicleID, sub.Tier, sub.StartDate, sub.EndDate,
		mustJSON(sub.AccessDays), sub.Price, sub.PaymentStatus, sub.IsActive).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return scanSubscription(s.DB.QueryRowContext(ctx, query, id), op)
}

// ListSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает все подписки без фильтра (для администратора).
func (s *Storage) ListAllSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows, op)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePaymentStatus перезаписывает статус оплаты подписки значением вызывающего.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) (*models.Subscription, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET payment_status = $1
			  WHERE id = $2
			  RETURNING ` + subscriptionColumns
	return scanSubscription(s.DB.QueryRowContext(ctx, query, paymentStatus, id), op)
}

// DeactivateSubscription снимает флаг активности подписки.
func (s *Storage) DeactivateSubscription(ctx context.Context, id string) error {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET is_active = FALSE
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanSubscription(row rowScanner, op string) (*models.Subscription, error) {
	var sub models.Subscription
	var accessDays []byte
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.VehicleID, &sub.Tier,
		&sub.StartDate, &sub.EndDate, &accessDays, &sub.Price,
		&sub.PaymentStatus, &sub.IsActive, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.AccessDays = []string{}
	if err := scanJSON(accessDays, &sub.AccessDays); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
