package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cartanga/cartanga/internal/lib/apperr"
	"github.com/cartanga/cartanga/internal/lib/jwt"
	"github.com/cartanga/cartanga/internal/lib/password"
	"github.com/cartanga/cartanga/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success register", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "new@cartanga.com").
			Return(nil, apperr.ErrNotFound).Once()
		repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Role == "user" && u.Email == "new@cartanga.com" && u.PasswordHash != "secret123"
		})).Return("u1", nil).Once()

		svc := NewAuthService(repo, newMaker())
		user, token, err := svc.Register(context.Background(), "New User", "new@cartanga.com", "secret123", "", "")

		require.NoError(t, err)
		assert.Equal(t, "u1", user.UID)
		assert.NotEmpty(t, token)

		claims, err := newMaker().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserUID)
		assert.Equal(t, "user", claims.Role)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "taken@cartanga.com").
			Return(&models.User{UID: "u1", Email: "taken@cartanga.com"}, nil).Once()

		svc := NewAuthService(repo, newMaker())
		_, _, err := svc.Register(context.Background(), "Someone", "taken@cartanga.com", "secret123", "", "")

		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)
	stored := &models.User{UID: "u1", Name: "Demo", Email: "demo@cartanga.com", PasswordHash: hash, Role: "user"}

	t.Run("success login", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "demo@cartanga.com").Return(stored, nil).Once()

		svc := NewAuthService(repo, newMaker())
		user, token, err := svc.Login(context.Background(), "demo@cartanga.com", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "u1", user.UID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "demo@cartanga.com").Return(stored, nil).Once()

		svc := NewAuthService(repo, newMaker())
		_, _, err := svc.Login(context.Background(), "demo@cartanga.com", "wrongpass")

		require.Error(t, err)
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUserByEmail", mock.Anything, "ghost@cartanga.com").
			Return(nil, apperr.ErrNotFound).Once()

		svc := NewAuthService(repo, newMaker())
		_, _, err := svc.Login(context.Background(), "ghost@cartanga.com", "secret123")

		require.Error(t, err)
		assert.EqualError(t, err, "invalid credentials")
	})
}

func TestAuthService_Me(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUser", mock.Anything, "u1").
		Return(&models.User{UID: "u1", Name: "Demo"}, nil).Once()

	svc := NewAuthService(repo, newMaker())
	user, err := svc.Me(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Demo", user.Name)
}
