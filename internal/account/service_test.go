package account

import (
	"context"
	"errors"
	"testing"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/shop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, accountID string) (*Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetByID(ctx context.Context, shopID string) (*shop.Shop, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func (m *MockShopRepository) GetByOwner(ctx context.Context, accountID string) (*shop.Shop, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Shop), args.Error(1)
}

func TestService_Login(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	acc := &Account{ID: "acc-1", Email: "a@b.c", PasswordHash: hash, Roles: []string{"buyer"}}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		shopRepo := new(MockShopRepository)
		svc := NewService(repo, shopRepo)

		repo.On("GetByEmail", mock.Anything, "a@b.c").Return(acc, nil)
		shopRepo.On("GetByOwner", mock.Anything, "acc-1").Return(nil, nil)

		token, got, err := svc.Login(context.Background(), "a@b.c", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "acc-1", got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		shopRepo := new(MockShopRepository)
		svc := NewService(repo, shopRepo)

		repo.On("GetByEmail", mock.Anything, "a@b.c").Return(acc, nil)

		_, _, err := svc.Login(context.Background(), "a@b.c", "wrong")
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		shopRepo := new(MockShopRepository)
		svc := NewService(repo, shopRepo)

		repo.On("GetByEmail", mock.Anything, "ghost@b.c").Return(nil, nil)

		_, _, err := svc.Login(context.Background(), "ghost@b.c", "s3cret")
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("MissingInput", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockShopRepository))

		_, _, err := svc.Login(context.Background(), "", "")
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		shopRepo := new(MockShopRepository)
		svc := NewService(repo, shopRepo)

		repo.On("GetByEmail", mock.Anything, "a@b.c").Return(nil, errors.New("db down"))

		_, _, err := svc.Login(context.Background(), "a@b.c", "s3cret")
		assert.Error(t, err)
	})
}
