package shop

import (
	"context"
	"database/sql"
)

// Repository is a read-only directory: the engine never mutates shops.
type Repository interface {
	GetByID(ctx context.Context, shopID string) (*Shop, error)
	GetByOwner(ctx context.Context, accountID string) (*Shop, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const shopColumns = `id, owner_account_id, name, logo_url, status, created_at`

func (r *repository) GetByID(ctx context.Context, shopID string) (*Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	var s Shop
	err := r.db.QueryRowContext(ctx, query, shopID).Scan(
		&s.ID, &s.OwnerAccountID, &s.Name, &s.LogoURL, &s.Status, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByOwner(ctx context.Context, accountID string) (*Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE owner_account_id = $1`

	var s Shop
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&s.ID, &s.OwnerAccountID, &s.Name, &s.LogoURL, &s.Status, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}
