package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("order already shipped"))

	assert.True(t, errors.Is(err, New(KindConflict, "")))
	assert.False(t, errors.Is(err, New(KindNotFound, "")))
}

func TestInsufficientStockDetails(t *testing.T) {
	err := InsufficientStock("Blue T-Shirt (M)", 3, 1)

	assert.Equal(t, KindInsufficientStock, err.Kind)
	assert.Equal(t, "Blue T-Shirt (M)", err.Details["item"])
	assert.Equal(t, 3, err.Details["requested"])
	assert.Equal(t, 1, err.Details["available"])
	assert.Contains(t, err.Error(), "requested 3, available 1")
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{EmptyCart("cart is empty"), http.StatusBadRequest},
		{NoValidItems("nothing to order"), http.StatusBadRequest},
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{Forbidden("not your shop"), http.StatusForbidden},
		{NotFound("order not found"), http.StatusNotFound},
		{Conflict("illegal transition"), http.StatusConflict},
		{InsufficientStock("x", 2, 0), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	inner := NotFound("variant not found")
	wrapped := fmt.Errorf("loading cart line: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("db down")))
}
