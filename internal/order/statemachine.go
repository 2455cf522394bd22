package order

import "marketplace-be/internal/utils"

// transitions maps (action, current status) to the resulting status.
// Confirm and report do not move the status; they map to the current one and
// only flip a flag plus a history entry.
var transitions = map[Action]map[OrderStatus]OrderStatus{
	ActionPack: {
		StatusPending: StatusPacking,
	},
	ActionShip: {
		StatusPacking: StatusShipping,
	},
	ActionDeliver: {
		StatusShipping: StatusDelivered,
	},
	ActionConfirm: {
		StatusDelivered: StatusDelivered,
	},
	ActionReport: {
		StatusShipping:  StatusShipping,
		StatusDelivered: StatusDelivered,
	},
	ActionCancel: {
		StatusPending:   StatusCancelled,
		StatusPacking:   StatusCancelled,
		StatusShipping:  StatusCancelled,
		StatusDelivered: StatusCancelled,
	},
	ActionComplete: {
		StatusPending:   StatusCompleted,
		StatusPacking:   StatusCompleted,
		StatusShipping:  StatusCompleted,
		StatusDelivered: StatusCompleted,
	},
}

// NextStatus resolves an action against the current status. ok is false for
// every illegal pair; callers must not mutate anything in that case.
func NextStatus(from OrderStatus, action Action) (OrderStatus, bool) {
	targets, ok := transitions[action]
	if !ok {
		return "", false
	}
	to, ok := targets[from]
	return to, ok
}

// NeedsStockRollback reports whether cancelling from the given status must
// give reserved stock back. Stock is taken exactly once, at pending→packing,
// so anything past pending holds a reservation.
func NeedsStockRollback(from OrderStatus) bool {
	return from != StatusPending
}

// Authorize decides whether the actor may apply the action to the order,
// independent of whether the transition itself is legal. The scheduler runs
// as a system actor and may drive the forward chain and timeout completion,
// never cancellation.
func Authorize(o *Order, actor Actor, action Action) bool {
	if actor.System {
		switch action {
		case ActionPack, ActionShip, ActionDeliver:
			return true
		case ActionComplete:
			return o.Status == StatusDelivered
		}
		return false
	}

	isAdmin := actor.HasRole(utils.RoleAdmin)
	isBuyer := actor.AccountID != "" && actor.AccountID == o.AccountID
	isOwningSeller := actor.HasRole(utils.RoleSeller) &&
		actor.ShopID != "" && actor.ShopID == o.ShopID

	switch action {
	case ActionPack, ActionShip, ActionDeliver:
		return isOwningSeller
	case ActionConfirm, ActionReport:
		return isBuyer
	case ActionCancel:
		if isAdmin {
			return true
		}
		// Before packing nothing has shipped and no stock is held, so both
		// parties may still walk away.
		return o.Status == StatusPending && (isBuyer || isOwningSeller)
	case ActionComplete:
		return isAdmin
	}

	return false
}
