package account

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, accountID string) (*Account, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
		pq.Array(&a.Roles),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `
	SELECT
		a.id,
		a.email,
		a.password_hash,
		a.created_at,
		COALESCE(array_agg(r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM accounts a
	LEFT JOIN account_roles r ON r.account_id = a.id
	WHERE a.email = $1
	GROUP BY a.id`

	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *repository) GetByID(ctx context.Context, accountID string) (*Account, error) {
	query := `
	SELECT
		a.id,
		a.email,
		a.password_hash,
		a.created_at,
		COALESCE(array_agg(r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM accounts a
	LEFT JOIN account_roles r ON r.account_id = a.id
	WHERE a.id = $1
	GROUP BY a.id`

	return r.scanAccount(r.db.QueryRowContext(ctx, query, accountID))
}
