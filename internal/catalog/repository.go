package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"marketplace-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx so stock mutations can run
// inside a caller-owned transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// StockLedger is the only way to mutate quantity-on-hand. There is
// deliberately no getter/setter pair for the stock column.
type StockLedger interface {
	// TryDecrement atomically takes qty from the variant iff enough is on
	// hand. Returns false when the guard fails.
	TryDecrement(ctx context.Context, q Queryer, variantID string, qty int) (bool, error)
	// Increment gives qty back, used by cancellation rollback.
	Increment(ctx context.Context, q Queryer, variantID string, qty int) error
	// StockOf reads current quantity-on-hand, for error reporting only.
	StockOf(ctx context.Context, q Queryer, variantID string) (int, error)
}

type Repository interface {
	StockLedger

	GetPricedVariant(ctx context.Context, variantID string) (*PricedVariant, error)
	GetPricedVariants(ctx context.Context, variantIDs []string) (map[string]*PricedVariant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const pricedVariantColumns = `
	v.id,
	v.product_id,
	v.variant_key,
	v.stock,
	v.price_adjustment,
	v.imageurl,
	v.attributes,
	v.created_at,
	v.updated_at,

	p.name,
	p.imageurl,
	p.status,
	p.base_price,

	s.id,
	s.name,
	s.owner_account_id,
	s.status`

const pricedVariantJoins = `
	FROM variants v
	JOIN products p ON v.product_id = p.id
	JOIN shops s ON p.shop_id = s.id`

func scanPricedVariant(row interface{ Scan(dest ...any) error }) (*PricedVariant, error) {
	var (
		pv       PricedVariant
		attrsRaw []byte
	)

	err := row.Scan(
		&pv.ID,
		&pv.ProductID,
		&pv.VariantKey,
		&pv.Stock,
		&pv.PriceAdjustment,
		&pv.ImageURL,
		&attrsRaw,
		&pv.CreatedAt,
		&pv.UpdatedAt,

		&pv.ProductName,
		&pv.ProductImageURL,
		&pv.ProductStatus,
		&pv.BasePrice,

		&pv.ShopID,
		&pv.ShopName,
		&pv.ShopOwnerID,
		&pv.ShopStatus,
	)
	if err != nil {
		return nil, err
	}

	if len(attrsRaw) > 0 {
		if err := json.Unmarshal(attrsRaw, &pv.Attributes); err != nil {
			return nil, fmt.Errorf("decode variant attributes: %w", err)
		}
	}

	pv.FinalPrice = pv.BasePrice + pv.PriceAdjustment
	pv.DisplayName = pv.ProductName
	if pv.ImageURL != nil && *pv.ImageURL != "" {
		pv.DisplayImage = *pv.ImageURL
	} else if pv.ProductImageURL != nil {
		pv.DisplayImage = *pv.ProductImageURL
	}
	pv.ShopIsSellable = pv.ShopStatus == "active" && pv.ProductStatus == ProductStatusActive

	return &pv, nil
}

func (r *repository) GetPricedVariant(ctx context.Context, variantID string) (*PricedVariant, error) {
	query := `SELECT` + pricedVariantColumns + pricedVariantJoins + `
	WHERE v.id = $1`

	pv, err := scanPricedVariant(r.db.QueryRowContext(ctx, query, variantID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return pv, nil
}

func (r *repository) GetPricedVariants(ctx context.Context, variantIDs []string) (map[string]*PricedVariant, error) {
	if len(variantIDs) == 0 {
		return map[string]*PricedVariant{}, nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetPricedVariants"),
		zap.Int("variant_count", len(variantIDs)),
	)

	query := `SELECT` + pricedVariantColumns + pricedVariantJoins + `
	WHERE v.id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(variantIDs))
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*PricedVariant, len(variantIDs))
	for rows.Next() {
		pv, err := scanPricedVariant(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result[pv.ID] = pv
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *repository) TryDecrement(ctx context.Context, q Queryer, variantID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("decrement qty must be positive, got %d", qty)
	}

	res, err := q.ExecContext(ctx, `
		UPDATE variants
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`, qty, variantID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *repository) Increment(ctx context.Context, q Queryer, variantID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("increment qty must be positive, got %d", qty)
	}

	res, err := q.ExecContext(ctx, `
		UPDATE variants
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, variantID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("variant %s not found for stock increment", variantID)
	}

	return nil
}

func (r *repository) StockOf(ctx context.Context, q Queryer, variantID string) (int, error) {
	var stock int
	err := q.QueryRowContext(ctx, `
		SELECT stock FROM variants WHERE id = $1
	`, variantID).Scan(&stock)
	if err != nil {
		return 0, err
	}
	return stock, nil
}
