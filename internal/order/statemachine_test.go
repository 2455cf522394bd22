package order

import (
	"testing"

	"marketplace-be/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name   string
		from   OrderStatus
		action Action
		want   OrderStatus
		legal  bool
	}{
		{"PackPending", StatusPending, ActionPack, StatusPacking, true},
		{"ShipPacking", StatusPacking, ActionShip, StatusShipping, true},
		{"DeliverShipping", StatusShipping, ActionDeliver, StatusDelivered, true},
		{"ConfirmDelivered", StatusDelivered, ActionConfirm, StatusDelivered, true},
		{"ReportShipping", StatusShipping, ActionReport, StatusShipping, true},
		{"ReportDelivered", StatusDelivered, ActionReport, StatusDelivered, true},
		{"CancelPending", StatusPending, ActionCancel, StatusCancelled, true},
		{"CancelDelivered", StatusDelivered, ActionCancel, StatusCancelled, true},
		{"CompletePending", StatusPending, ActionComplete, StatusCompleted, true},

		{"NoSkipPendingToShipping", StatusPending, ActionShip, "", false},
		{"NoSkipPendingToDeliver", StatusPending, ActionDeliver, "", false},
		{"NoBackwardsShip", StatusDelivered, ActionShip, "", false},
		{"NoPackTwice", StatusPacking, ActionPack, "", false},
		{"NoConfirmBeforeDelivery", StatusShipping, ActionConfirm, "", false},
		{"NoReportPending", StatusPending, ActionReport, "", false},
		{"CancelledIsTerminal", StatusCancelled, ActionPack, "", false},
		{"CompletedIsTerminal", StatusCompleted, ActionCancel, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, legal := NextStatus(tt.from, tt.action)
			assert.Equal(t, tt.legal, legal)
			if tt.legal {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNeedsStockRollback(t *testing.T) {
	assert.False(t, NeedsStockRollback(StatusPending))
	assert.True(t, NeedsStockRollback(StatusPacking))
	assert.True(t, NeedsStockRollback(StatusShipping))
	assert.True(t, NeedsStockRollback(StatusDelivered))
}

func TestAuthorize(t *testing.T) {
	o := &Order{
		ID:        "ord-1",
		AccountID: "buyer-1",
		ShopID:    "shop-1",
		Status:    StatusPending,
	}

	buyer := Actor{AccountID: "buyer-1", Roles: []string{utils.RoleBuyer}}
	otherBuyer := Actor{AccountID: "buyer-2", Roles: []string{utils.RoleBuyer}}
	seller := Actor{AccountID: "seller-1", Roles: []string{utils.RoleSeller}, ShopID: "shop-1"}
	otherSeller := Actor{AccountID: "seller-2", Roles: []string{utils.RoleSeller}, ShopID: "shop-2"}
	admin := Actor{AccountID: "admin-1", Roles: []string{utils.RoleAdmin}}
	system := Actor{System: true}

	t.Run("ForwardChainIsSellerOrSystem", func(t *testing.T) {
		for _, action := range []Action{ActionPack, ActionShip, ActionDeliver} {
			assert.True(t, Authorize(o, seller, action), string(action))
			assert.True(t, Authorize(o, system, action), string(action))
			assert.False(t, Authorize(o, otherSeller, action), string(action))
			assert.False(t, Authorize(o, buyer, action), string(action))
			assert.False(t, Authorize(o, admin, action), string(action))
		}
	})

	t.Run("CancelPendingBuyerOrOwningSeller", func(t *testing.T) {
		assert.True(t, Authorize(o, buyer, ActionCancel))
		assert.True(t, Authorize(o, seller, ActionCancel))
		assert.True(t, Authorize(o, admin, ActionCancel))
		assert.False(t, Authorize(o, otherBuyer, ActionCancel))
		assert.False(t, Authorize(o, otherSeller, ActionCancel))
		assert.False(t, Authorize(o, system, ActionCancel))
	})

	t.Run("CancelPastPendingAdminOnly", func(t *testing.T) {
		packed := *o
		packed.Status = StatusPacking
		assert.True(t, Authorize(&packed, admin, ActionCancel))
		assert.False(t, Authorize(&packed, buyer, ActionCancel))
		assert.False(t, Authorize(&packed, seller, ActionCancel))
		assert.False(t, Authorize(&packed, system, ActionCancel))
	})

	t.Run("ConfirmAndReportAreBuyerOnly", func(t *testing.T) {
		delivered := *o
		delivered.Status = StatusDelivered
		for _, action := range []Action{ActionConfirm, ActionReport} {
			assert.True(t, Authorize(&delivered, buyer, action), string(action))
			assert.False(t, Authorize(&delivered, otherBuyer, action), string(action))
			assert.False(t, Authorize(&delivered, seller, action), string(action))
			assert.False(t, Authorize(&delivered, system, action), string(action))
		}
	})

	t.Run("CompleteAdminAnywhereSystemOnlyDelivered", func(t *testing.T) {
		assert.True(t, Authorize(o, admin, ActionComplete))
		assert.False(t, Authorize(o, system, ActionComplete))

		delivered := *o
		delivered.Status = StatusDelivered
		assert.True(t, Authorize(&delivered, system, ActionComplete))
		assert.False(t, Authorize(&delivered, seller, ActionComplete))
	})
}
