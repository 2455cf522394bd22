package order

import (
	"context"
	"fmt"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/cart"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"
	"marketplace-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	CreateFromCart(ctx context.Context, accountID string, shipping ShippingInfo) ([]*Order, error)
	Transition(ctx context.Context, orderID string, actor Actor, action Action, note string) (*Order, error)
	ReviewReport(ctx context.Context, orderID string, actor Actor, action ReviewAction, note string) (*Order, error)
	GetDetail(ctx context.Context, orderID string, actor Actor) (*Order, error)
	List(ctx context.Context, actor Actor, filter ListFilter) (*OrderPage, error)
}

type service struct {
	repo    Repository
	cartSvc cart.Service
}

func NewService(repo Repository, cartSvc cart.Service) Service {
	return &service{repo: repo, cartSvc: cartSvc}
}

// CreateFromCart is the checkout orchestrator: it prices the cart live,
// splits it into one pending order per shop with a full snapshot, and commits
// the inserts together with the cart clear. Stock is not reserved here; that
// happens at pack time.
func (s *service) CreateFromCart(ctx context.Context, accountID string, shipping ShippingInfo) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateFromCart"),
		zap.String("account_id", accountID),
	)

	if shipping.ReceiverName == "" || shipping.Phone == "" || shipping.AddressLine == "" {
		return nil, apperror.Validation("receiver name, phone and address are required")
	}

	totals, err := s.cartSvc.ComputeTotal(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(totals.Lines) == 0 {
		return nil, apperror.EmptyCart("cart is empty")
	}

	byShop := map[string]*Order{}
	shopOrder := []string{}

	for _, line := range totals.Lines {
		pv := line.Variant
		if pv == nil {
			// variant or product is gone, silently dropped
			continue
		}
		if !line.Resolved {
			if pv.ShopStatus != "active" {
				return nil, apperror.Validation(
					fmt.Sprintf("shop %q is closed and cannot take orders", pv.ShopName))
			}
			continue
		}

		o, ok := byShop[pv.ShopID]
		if !ok {
			o = &Order{
				Code:         utils.GenerateOrderCode(),
				AccountID:    accountID,
				ShopID:       pv.ShopID,
				Status:       StatusPending,
				ReceiverName: shipping.ReceiverName,
				Phone:        shipping.Phone,
				AddressLine:  shipping.AddressLine,
				Note:         shipping.Note,
			}
			byShop[pv.ShopID] = o
			shopOrder = append(shopOrder, pv.ShopID)
		}

		o.Items = append(o.Items, OrderItem{
			VariantID:         pv.ID,
			Quantity:          line.Item.Quantity,
			FinalPriceAtOrder: pv.FinalPrice,
			NameAtOrder:       pv.ProductName,
			ImageAtOrder:      pv.DisplayImage,
			AttributesAtOrder: pv.Attributes,
		})
		o.TotalAmount += pv.FinalPrice * int64(line.Item.Quantity)
	}

	if len(byShop) == 0 {
		return nil, apperror.NoValidItems("no purchasable items in cart")
	}

	orders := make([]*Order, 0, len(byShop))
	for _, shopID := range shopOrder {
		orders = append(orders, byShop[shopID])
	}

	if err := s.repo.CreateOrdersTx(ctx, accountID, orders); err != nil {
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	metrics.OrdersCreated.Add(uint64(len(orders)))
	log.Info("checkout created orders",
		zap.Int("order_count", len(orders)),
	)

	return orders, nil
}

// Transition applies one action to one order: legality against the current
// status first, then actor authorization, then the matching transaction.
func (s *service) Transition(ctx context.Context, orderID string, actor Actor, action Action, note string) (*Order, error) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("order_id", orderID),
		zap.String("action", string(action)),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	to, legal := NextStatus(o.Status, action)
	if !legal {
		metrics.TransitionsRejected.Inc()
		return nil, apperror.Conflict(
			fmt.Sprintf("cannot %s an order in status %q", action, o.Status))
	}

	if !Authorize(o, actor, action) {
		metrics.TransitionsRejected.Inc()
		return nil, apperror.Forbidden("not allowed to perform this action on the order")
	}

	if note == "" {
		note = defaultNote(action, to)
	}

	switch action {
	case ActionPack:
		err = s.repo.PackTx(ctx, orderID, note)
	case ActionShip, ActionDeliver, ActionComplete:
		err = s.repo.TransitionTx(ctx, orderID, o.Status, to, note)
	case ActionCancel:
		err = s.repo.CancelTx(ctx, orderID, o.Status, note)
		if err == nil && NeedsStockRollback(o.Status) {
			metrics.StockRollbacks.Inc()
		}
	case ActionConfirm:
		err = s.repo.ConfirmTx(ctx, orderID, note)
	case ActionReport:
		err = s.repo.ReportTx(ctx, orderID, note)
	default:
		return nil, apperror.Validation(fmt.Sprintf("unknown action %q", action))
	}

	if err != nil {
		metrics.TransitionsRejected.Inc()
		log.Warn("transition failed", zap.Error(err), zap.String("from", string(o.Status)))
		return nil, mapRepoErr(err)
	}

	metrics.TransitionsApplied.Inc()
	log.Info("transition applied",
		zap.String("from", string(o.Status)),
		zap.String("to", string(to)),
		zap.Duration("took", timer.Duration()),
	)

	return s.repo.GetDetail(ctx, orderID)
}

// ReviewReport is the admin resolution of a buyer dispute. approve_buyer and
// cancel_both cancel the order (stock goes back when it was taken);
// approve_seller completes it.
func (s *service) ReviewReport(ctx context.Context, orderID string, actor Actor, action ReviewAction, note string) (*Order, error) {
	if !actor.HasRole(utils.RoleAdmin) {
		return nil, apperror.Forbidden("only admins review reports")
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if !o.Reported {
		return nil, apperror.Conflict(ErrNotReported.Error())
	}
	if o.Status.IsTerminal() {
		return nil, apperror.Conflict("order already resolved")
	}

	if note == "" {
		note = fmt.Sprintf("report resolved: %s", action)
	}

	switch action {
	case ReviewApproveBuyer, ReviewCancelBoth:
		err = s.repo.CancelTx(ctx, orderID, o.Status, note)
		if err == nil && NeedsStockRollback(o.Status) {
			metrics.StockRollbacks.Inc()
		}
	case ReviewApproveSeller:
		err = s.repo.TransitionTx(ctx, orderID, o.Status, StatusCompleted, note)
	default:
		return nil, apperror.Validation(fmt.Sprintf("unknown review action %q", action))
	}

	if err != nil {
		return nil, mapRepoErr(err)
	}

	metrics.TransitionsApplied.Inc()
	return s.repo.GetDetail(ctx, orderID)
}

func (s *service) GetDetail(ctx context.Context, orderID string, actor Actor) (*Order, error) {
	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	if !canView(o, actor) {
		return nil, apperror.Forbidden("not allowed to view this order")
	}

	return o, nil
}

// List scopes the query to what the actor may see: buyers their own orders,
// sellers their shop's, admins anything.
func (s *service) List(ctx context.Context, actor Actor, filter ListFilter) (*OrderPage, error) {
	switch {
	case actor.HasRole(utils.RoleAdmin):
		// filter stays as given
	case filter.ShopID != "":
		if !actor.HasRole(utils.RoleSeller) || actor.ShopID != filter.ShopID {
			return nil, apperror.Forbidden("not allowed to list this shop's orders")
		}
	default:
		filter.AccountID = actor.AccountID
	}

	return s.repo.List(ctx, filter)
}

func canView(o *Order, actor Actor) bool {
	if actor.HasRole(utils.RoleAdmin) {
		return true
	}
	if actor.AccountID != "" && actor.AccountID == o.AccountID {
		return true
	}
	return actor.HasRole(utils.RoleSeller) && actor.ShopID != "" && actor.ShopID == o.ShopID
}

func defaultNote(action Action, to OrderStatus) string {
	switch action {
	case ActionConfirm:
		return "buyer confirmed receipt"
	case ActionReport:
		return "buyer reported the order"
	case ActionCancel:
		return "order cancelled"
	default:
		return fmt.Sprintf("status set to %s", to)
	}
}

func mapRepoErr(err error) error {
	switch err {
	case ErrOrderNotFound:
		return apperror.NotFound(err.Error())
	case ErrStatusConflict, ErrAlreadyReported:
		return apperror.Conflict(err.Error())
	}
	return err
}
