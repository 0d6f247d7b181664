package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (name, email, password_hash, phone, driving_license, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.DrivingLicense,
		user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, driving_license, role, active_subscription
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, phone, driving_license, role, active_subscription
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var activeSubscription sql.NullString
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Phone, &u.DrivingLicense, &u.Role, &activeSubscription); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if activeSubscription.Valid {
		u.ActiveSubscription = &activeSubscription.String
	}
	return u, nil
}

// SetActiveSubscription записывает ID активной подписки пользователя.
func (s *Storage) SetActiveSubscription(ctx context.Context, userUID, subscriptionID string) error {
	const op = "storage.SetActiveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET active_subscription = $1
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, subscriptionID, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearActiveSubscription сбрасывает активную подписку пользователя,
// только если записана именно отменяемая подписка.
func (s *Storage) ClearActiveSubscription(ctx context.Context, userUID, subscriptionID string) error {
	const op = "storage.ClearActiveSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET active_subscription = NULL
			  WHERE uid = $1
			    AND active_subscription = $2`
	if _, err := s.DB.ExecContext(ctx, query, userUID, subscriptionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
