package order

import (
	"time"

	"marketplace-be/internal/catalog"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPacking   OrderStatus = "packing"
	StatusShipping  OrderStatus = "shipping"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Action string

const (
	ActionPack     Action = "pack"
	ActionShip     Action = "ship"
	ActionDeliver  Action = "deliver"
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionReport   Action = "report"
)

// ReviewAction is the admin resolution of a buyer report.
type ReviewAction string

const (
	ReviewApproveBuyer  ReviewAction = "approve_buyer"
	ReviewApproveSeller ReviewAction = "approve_seller"
	ReviewCancelBoth    ReviewAction = "cancel_both"
)

// OrderItem is the immutable snapshot taken at checkout. Later catalog edits
// never touch these rows.
type OrderItem struct {
	ID                string                   `json:"id"`
	OrderID           string                   `json:"order_id"`
	VariantID         string                   `json:"variant_id"`
	Quantity          int                      `json:"quantity"`
	FinalPriceAtOrder int64                    `json:"final_price_at_order"`
	NameAtOrder       string                   `json:"name_at_order"`
	ImageAtOrder      string                   `json:"image_at_order"`
	AttributesAtOrder []catalog.AttributeLabel `json:"attributes_at_order"`
}

// StatusChange is one append-only audit entry.
type StatusChange struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note"`
	ChangedAt time.Time   `json:"changed_at"`
}

type Order struct {
	ID             string      `json:"id"`
	Code           string      `json:"code"`
	AccountID      string      `json:"account_id"`
	ShopID         string      `json:"shop_id"`
	Status         OrderStatus `json:"status"`
	TotalAmount    int64       `json:"total_amount"`
	ReceiverName   string      `json:"receiver_name"`
	Phone          string      `json:"phone"`
	AddressLine    string      `json:"address_line"`
	Note           *string     `json:"note,omitempty"`
	BuyerConfirmed bool        `json:"buyer_confirmed"`
	Reported       bool        `json:"reported"`
	DeliverAt      *time.Time  `json:"deliver_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Items   []OrderItem    `json:"items,omitempty"`
	History []StatusChange `json:"history,omitempty"`
}

// ShippingInfo is the checkout input; everything but the note is required.
type ShippingInfo struct {
	ReceiverName string  `json:"receiver_name"`
	Phone        string  `json:"phone"`
	AddressLine  string  `json:"address_line"`
	Note         *string `json:"note,omitempty"`
}

// Actor is the authenticated principal a transition is evaluated against.
// System is set only by the auto-transition scheduler.
type Actor struct {
	AccountID string
	Roles     []string
	ShopID    string
	System    bool
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type ListFilter struct {
	AccountID string
	ShopID    string
	Status    *OrderStatus
	Page      int
	Limit     int
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type OrderPage struct {
	Orders     []*Order   `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// FailedTransition records one order the auto-transition pass could not move.
type FailedTransition struct {
	OrderID string `json:"order_id"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

// Report summarizes one auto-transition pass.
type Report struct {
	UpdatedCount    int                `json:"updated_count"`
	FailedCount     int                `json:"failed_count"`
	UpdatedOrderIDs []string           `json:"updated_order_ids"`
	FailedDetails   []FailedTransition `json:"failed_details"`
}
