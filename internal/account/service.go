package account

import (
	"context"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/auth"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/shop"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Login verifies credentials and issues an actor token carrying the
	// account's roles and owned shop, if any.
	Login(ctx context.Context, email, password string) (string, *Account, error)
	GetByID(ctx context.Context, accountID string) (*Account, error)
}

type service struct {
	repo     Repository
	shopRepo shop.Repository
}

func NewService(repo Repository, shopRepo shop.Repository) Service {
	return &service{repo: repo, shopRepo: shopRepo}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	if email == "" || password == "" {
		return "", nil, apperror.Validation("email and password are required")
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error("failed to load account", zap.Error(err))
		return "", nil, err
	}
	if acc == nil || !CheckPasswordHash(password, acc.PasswordHash) {
		return "", nil, apperror.Unauthorized(ErrInvalidCredentials.Error())
	}

	var shopID *string
	owned, err := s.shopRepo.GetByOwner(ctx, acc.ID)
	if err != nil {
		log.Error("failed to resolve owned shop", zap.Error(err))
		return "", nil, err
	}
	if owned != nil {
		shopID = &owned.ID
	}

	token, err := auth.GenerateJWT(acc.ID, acc.Email, acc.Roles, shopID)
	if err != nil {
		return "", nil, err
	}

	log.Info("login success", zap.String("account_id", acc.ID))
	return token, acc, nil
}

func (s *service) GetByID(ctx context.Context, accountID string) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperror.NotFound(ErrAccountNotFound.Error())
	}
	return acc, nil
}
