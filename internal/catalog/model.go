package catalog

import "time"

type AttributeLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	VariantKey      string           `json:"variant_key"`
	Stock           int              `json:"stock"`
	PriceAdjustment int64            `json:"price_adjustment"`
	ImageURL        *string          `json:"imageurl,omitempty"`
	Attributes      []AttributeLabel `json:"attributes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type Product struct {
	ID        string  `json:"id"`
	ShopID    string  `json:"shop_id"`
	Name      string  `json:"name"`
	BasePrice int64   `json:"base_price"`
	ImageURL  *string `json:"imageurl,omitempty"`
	Status    string  `json:"status"`
}

// PricedVariant is the live join of a variant with its product and owning
// shop, the unit every cart read and checkout pass works with. FinalPrice is
// recomputed on every read, never stored.
type PricedVariant struct {
	Variant

	ProductName     string  `json:"product_name"`
	ProductImageURL *string `json:"product_imageurl,omitempty"`
	ProductStatus   string  `json:"product_status"`
	BasePrice       int64   `json:"base_price"`

	ShopID         string `json:"shop_id"`
	ShopName       string `json:"shop_name"`
	ShopOwnerID    string `json:"shop_owner_id"`
	ShopStatus     string `json:"shop_status"`
	DisplayName    string `json:"display_name"`
	FinalPrice     int64  `json:"final_price"`
	DisplayImage   string `json:"display_image"`
	ShopIsSellable bool   `json:"shop_is_sellable"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusDisabled = "disabled"
)
