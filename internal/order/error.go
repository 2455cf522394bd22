package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrStatusConflict  = errors.New("order status changed concurrently")
	ErrAlreadyReported = errors.New("order already reported")
	ErrNotReported     = errors.New("order has no open report")
)
