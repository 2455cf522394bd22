package cart

import (
	"time"

	"marketplace-be/internal/catalog"
)

type CartItem struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line is one cart row joined against live catalog state. Unresolvable lines
// keep the raw item but carry no pricing.
type Line struct {
	Item     CartItem               `json:"item"`
	Resolved bool                   `json:"resolved"`
	Variant  *catalog.PricedVariant `json:"variant,omitempty"`
	// LineTotal is FinalPrice * Quantity, zero when unresolved.
	LineTotal int64 `json:"line_total"`
}

// Totals is the result of the pure ComputeTotal read.
type Totals struct {
	TotalAmount int64  `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
	Lines       []Line `json:"lines"`
}

type AddParams struct {
	AccountID string
	VariantID string
	Quantity  int
}

type BulkAddItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// RefreshResult reports what the reconciliation sweep removed.
type RefreshResult struct {
	RemovedVariantIDs []string `json:"removed_variant_ids"`
	RemainingCount    int      `json:"remaining_count"`
}
