// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/lib/jwt"
	"github.com/cartanga/cartanga/internal/lib/password"
	"github.com/cartanga/cartanga/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или apperr.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID или apperr.ErrNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и профиль пользователя.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user", возвращает пользователя и токен доступа.
// Повторная регистрация на занятый email отклоняется.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, phone, drivingLicense string) (*models.User, string, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("user already exists: %w", apperr.ErrValidation)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hashed,
		Phone:          phone,
		DrivingLicense: drivingLicense,
		Role:           "user", // дефолтная роль при регистрации
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.UID = uid

	token, err := s.jwtMaker.GenerateToken(uid, user.Name, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.New("invalid credentials")
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", errors.New("invalid credentials")
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Name, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me возвращает профиль пользователя по его UID.
func (s *AuthService) Me(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}
