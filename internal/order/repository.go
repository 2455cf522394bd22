package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/catalog"
	"marketplace-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository owns every order transaction. All status mutations follow the
// same shape: lock or guard the header row, apply stock effects through the
// ledger, move the status, append history, commit.
type Repository interface {
	CreateOrdersTx(ctx context.Context, accountID string, orders []*Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetDetail(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, filter ListFilter) (*OrderPage, error)
	ListAutoCandidates(ctx context.Context, status OrderStatus, before time.Time) ([]*Order, error)

	PackTx(ctx context.Context, orderID, note string) error
	TransitionTx(ctx context.Context, orderID string, from, to OrderStatus, note string) error
	CancelTx(ctx context.Context, orderID string, from OrderStatus, note string) error
	ConfirmTx(ctx context.Context, orderID, note string) error
	ReportTx(ctx context.Context, orderID, note string) error
}

type repository struct {
	db     *sql.DB
	ledger catalog.StockLedger
}

func NewRepository(db *sql.DB, ledger catalog.StockLedger) Repository {
	return &repository{db: db, ledger: ledger}
}

const orderColumns = `
	id, code, account_id, shop_id, status, total_amount,
	receiver_name, phone, address_line, note,
	buyer_confirmed, reported, deliver_at, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.Code,
		&o.AccountID,
		&o.ShopID,
		&o.Status,
		&o.TotalAmount,
		&o.ReceiverName,
		&o.Phone,
		&o.AddressLine,
		&o.Note,
		&o.BuyerConfirmed,
		&o.Reported,
		&o.DeliverAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrdersTx inserts the per-shop orders of one checkout and clears the
// buyer's cart in the same transaction. Stock is not touched here.
func (r *repository) CreateOrdersTx(ctx context.Context, accountID string, orders []*Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrdersTx"),
		zap.String("account_id", accountID),
		zap.Int("order_count", len(orders)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, o := range orders {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (
				code, account_id, shop_id, status, total_amount,
				receiver_name, phone, address_line, note
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at
		`,
			o.Code, o.AccountID, o.ShopID, o.Status, o.TotalAmount,
			o.ReceiverName, o.Phone, o.AddressLine, o.Note,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			log.Error("order insert failed", zap.Error(err))
			return err
		}

		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID

			attrs, err := json.Marshal(item.AttributesAtOrder)
			if err != nil {
				return fmt.Errorf("encode order item attributes: %w", err)
			}

			err = tx.QueryRowContext(ctx, `
				INSERT INTO order_items (
					order_id, variant_id, quantity,
					final_price_at_order, name_at_order, image_at_order,
					attributes_at_order
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id
			`,
				o.ID, item.VariantID, item.Quantity,
				item.FinalPriceAtOrder, item.NameAtOrder, item.ImageAtOrder,
				attrs,
			).Scan(&item.ID)
			if err != nil {
				log.Error("order item insert failed", zap.Error(err))
				return err
			}
		}

		if err := insertHistory(ctx, tx, o.ID, o.Status, "order created"); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE account_id = $1`, accountID); err != nil {
		log.Error("cart clear failed", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func insertHistory(ctx context.Context, tx *sql.Tx, orderID string, status OrderStatus, note string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, status, note)
		VALUES ($1, $2, $3)
	`, orderID, status, note)
	return err
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE id = $1`, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetDetail(ctx context.Context, orderID string) (*Order, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	itemsByOrder, err := r.loadItems(ctx, r.db, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[o.ID]

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, note, changed_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var h StatusChange
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Note, &h.ChangedAt); err != nil {
			return nil, err
		}
		o.History = append(o.History, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) loadItems(ctx context.Context, q catalog.Queryer, orderIDs []string) (map[string][]OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[string][]OrderItem{}, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, variant_id, quantity,
		       final_price_at_order, name_at_order, image_at_order,
		       attributes_at_order
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item     OrderItem
			attrsRaw []byte
		)
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.VariantID, &item.Quantity,
			&item.FinalPriceAtOrder, &item.NameAtOrder, &item.ImageAtOrder,
			&attrsRaw,
		)
		if err != nil {
			return nil, err
		}
		if len(attrsRaw) > 0 {
			if err := json.Unmarshal(attrsRaw, &item.AttributesAtOrder); err != nil {
				return nil, fmt.Errorf("decode order item attributes: %w", err)
			}
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}

func (r *repository) List(ctx context.Context, filter ListFilter) (*OrderPage, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		where += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.ShopID != "" {
		args = append(args, filter.ShopID)
		where += fmt.Sprintf(" AND shop_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemsByOrder, err := r.loadItems(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = itemsByOrder[o.ID]
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &OrderPage{
		Orders: orders,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// ListAutoCandidates returns orders sitting in a status since before the
// cutoff. Only status transitions bump updated_at, so it doubles as the
// status-entry timestamp here.
func (r *repository) ListAutoCandidates(ctx context.Context, status OrderStatus, before time.Time) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
	`, status, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// lockStatus reads the order's status under FOR UPDATE so competing
// transitions on the same order serialize on the header row.
func lockStatus(ctx context.Context, tx *sql.Tx, orderID string) (OrderStatus, error) {
	var status OrderStatus
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

// PackTx moves pending→packing and takes stock for every item with one
// conditional update each. The first variant that cannot cover its quantity
// aborts the whole transaction; no partial decrement survives.
func (r *repository) PackTx(ctx context.Context, orderID, note string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PackTx"),
		zap.String("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if status != StatusPending {
		return ErrStatusConflict
	}

	itemsByOrder, err := r.loadItems(ctx, tx, []string{orderID})
	if err != nil {
		return err
	}

	for _, item := range itemsByOrder[orderID] {
		ok, err := r.ledger.TryDecrement(ctx, tx, item.VariantID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			available, serr := r.ledger.StockOf(ctx, tx, item.VariantID)
			if serr != nil {
				available = 0
			}
			log.Warn("pack aborted on stock guard",
				zap.String("variant_id", item.VariantID),
				zap.Int("requested", item.Quantity),
				zap.Int("available", available),
			)
			return apperror.InsufficientStock(item.NameAtOrder, item.Quantity, available)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, StatusPacking, orderID); err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, orderID, StatusPacking, note); err != nil {
		return err
	}

	return tx.Commit()
}

// TransitionTx applies a status move with no stock effect (ship, deliver,
// complete). The status guard in the UPDATE detects concurrent movers.
func (r *repository) TransitionTx(ctx context.Context, orderID string, from, to OrderStatus, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE orders SET status = $1, updated_at = NOW()`
	if to == StatusDelivered {
		query += `, deliver_at = NOW()`
	}
	query += ` WHERE id = $2 AND status = $3`

	res, err := tx.ExecContext(ctx, query, to, orderID, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	if err := insertHistory(ctx, tx, orderID, to, note); err != nil {
		return err
	}

	return tx.Commit()
}

// CancelTx cancels the order, returning stock iff it was taken (any status
// past pending). Increment and status move commit together or not at all.
func (r *repository) CancelTx(ctx context.Context, orderID string, from OrderStatus, note string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CancelTx"),
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if status != from {
		return ErrStatusConflict
	}

	if NeedsStockRollback(from) {
		itemsByOrder, err := r.loadItems(ctx, tx, []string{orderID})
		if err != nil {
			return err
		}
		for _, item := range itemsByOrder[orderID] {
			if err := r.ledger.Increment(ctx, tx, item.VariantID, item.Quantity); err != nil {
				log.Error("stock rollback failed", zap.Error(err),
					zap.String("variant_id", item.VariantID))
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, StatusCancelled, orderID); err != nil {
		return err
	}

	if err := insertHistory(ctx, tx, orderID, StatusCancelled, note); err != nil {
		return err
	}

	return tx.Commit()
}

// ConfirmTx records the buyer's receipt acknowledgment. The status stays
// delivered; only the flag and the audit trail change. updated_at measures
// time in the current status for the auto-transition sweep, so a flag flip
// must not touch it.
func (r *repository) ConfirmTx(ctx context.Context, orderID, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET buyer_confirmed = TRUE
		WHERE id = $1 AND status = $2 AND buyer_confirmed = FALSE
	`, orderID, StatusDelivered)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStatusConflict
	}

	if err := insertHistory(ctx, tx, orderID, StatusDelivered, note); err != nil {
		return err
	}

	return tx.Commit()
}

// ReportTx flags the order as disputed without moving the status. Like
// ConfirmTx it leaves updated_at alone so the time-in-status clock keeps
// running from the last real transition.
func (r *repository) ReportTx(ctx context.Context, orderID, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	status, err := lockStatus(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if status != StatusShipping && status != StatusDelivered {
		return ErrStatusConflict
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET reported = TRUE
		WHERE id = $1 AND reported = FALSE
	`, orderID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyReported
	}

	if err := insertHistory(ctx, tx, orderID, status, note); err != nil {
		return err
	}

	return tx.Commit()
}
