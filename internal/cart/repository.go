package cart

import (
	"context"
	"database/sql"

	"marketplace-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetItems(ctx context.Context, accountID string) ([]CartItem, error)
	GetItemByAccountAndVariant(ctx context.Context, accountID, variantID string) (*CartItem, error)
	CreateItem(ctx context.Context, params AddParams) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*CartItem, error)
	RemoveItem(ctx context.Context, accountID, variantID string) error
	RemoveItems(ctx context.Context, accountID string, variantIDs []string) error
	Clear(ctx context.Context, accountID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const cartColumns = `id, account_id, variant_id, quantity, created_at, updated_at`

func (r *repository) GetItems(ctx context.Context, accountID string) ([]CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetItems"),
		zap.String("account_id", accountID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cartColumns+`
		FROM carts
		WHERE account_id = $1
		ORDER BY created_at ASC
	`, accountID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID,
			&item.AccountID,
			&item.VariantID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) GetItemByAccountAndVariant(
	ctx context.Context,
	accountID, variantID string,
) (*CartItem, error) {

	query := `
	SELECT ` + cartColumns + `
	FROM carts
	WHERE account_id = $1 AND variant_id = $2
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, accountID, variantID).Scan(
		&item.ID,
		&item.AccountID,
		&item.VariantID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, params AddParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.String("account_id", params.AccountID),
		zap.String("variant_id", params.VariantID),
	)

	log.Debug("start create cart item")

	query := `
	INSERT INTO carts (
		account_id,
		variant_id,
		quantity
	)
	VALUES ($1, $2, $3)
	RETURNING ` + cartColumns

	var item CartItem
	err := r.db.QueryRowContext(
		ctx,
		query,
		params.AccountID,
		params.VariantID,
		params.Quantity,
	).Scan(
		&item.ID,
		&item.AccountID,
		&item.VariantID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		// a concurrent add for the same variant hit the unique index first
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == PgUniqueViolation {
			return nil, ErrDuplicateCartItem
		}
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("success create cart item", zap.String("cart_item_id", item.ID))

	return &item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	query := `
	UPDATE carts
	SET quantity = $1,
	    updated_at = NOW()
	WHERE id = $2
	RETURNING ` + cartColumns

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, quantity, itemID).Scan(
		&item.ID,
		&item.AccountID,
		&item.VariantID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) RemoveItem(ctx context.Context, accountID, variantID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE account_id = $1 AND variant_id = $2
	`, accountID, variantID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) RemoveItems(ctx context.Context, accountID string, variantIDs []string) error {
	if len(variantIDs) == 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE account_id = $1 AND variant_id = ANY($2)
	`, accountID, pq.Array(variantIDs))

	return err
}

// Clear empties the cart; clearing an already empty cart is not an error.
func (r *repository) Clear(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE account_id = $1
	`, accountID)
	if err != nil {
		return err
	}

	return nil
}
