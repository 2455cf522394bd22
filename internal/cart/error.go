package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrDuplicateCartItem = errors.New("cart already holds this variant")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrOwnShopVariant    = errors.New("cannot add your own shop's product to the cart")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
