package cart

import (
	"context"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/catalog"
	"marketplace-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for carts. The cart is a live
// projection: prices are always recomputed from current catalog state, never
// snapshotted.
type Service interface {
	Get(ctx context.Context, accountID string) (*Totals, error)
	Add(ctx context.Context, params AddParams) (*CartItem, error)
	SetQuantity(ctx context.Context, accountID, variantID string, quantity int) error
	Remove(ctx context.Context, accountID, variantID string) error
	BulkAdd(ctx context.Context, accountID string, items []BulkAddItem) error
	Clear(ctx context.Context, accountID string) error
	Refresh(ctx context.Context, accountID string) (*RefreshResult, error)
	ComputeTotal(ctx context.Context, accountID string) (*Totals, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// Add puts a variant into the cart, merging quantity with an existing line.
func (s *service) Add(ctx context.Context, params AddParams) (*CartItem, error) {
	if params.Quantity <= 0 {
		return nil, apperror.Validation(ErrInvalidQuantity.Error())
	}

	// 1️⃣ Resolve the variant against the live catalog
	variant, err := s.catalogRepo.GetPricedVariant(ctx, params.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || !variant.ShopIsSellable {
		return nil, apperror.NotFound(ErrVariantNotFound.Error())
	}

	// 2️⃣ Self-purchase guard
	if variant.ShopOwnerID == params.AccountID {
		return nil, apperror.Validation(ErrOwnShopVariant.Error())
	}

	// 3️⃣ Merge with existing line (if any)
	existing, err := s.repo.GetItemByAccountAndVariant(ctx, params.AccountID, params.VariantID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		item, err := s.repo.CreateItem(ctx, params)
		if err != ErrDuplicateCartItem {
			return item, err
		}
		// lost the insert race, fall through to the merge path
		existing, err = s.repo.GetItemByAccountAndVariant(ctx, params.AccountID, params.VariantID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return s.repo.CreateItem(ctx, params)
		}
	}

	return s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+params.Quantity)
}

// SetQuantity replaces the line quantity; zero or negative removes the line.
func (s *service) SetQuantity(ctx context.Context, accountID, variantID string, quantity int) error {
	if accountID == "" || variantID == "" {
		return apperror.Validation("account and variant are required")
	}

	if quantity <= 0 {
		return s.Remove(ctx, accountID, variantID)
	}

	existing, err := s.repo.GetItemByAccountAndVariant(ctx, accountID, variantID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound(ErrCartItemNotFound.Error())
	}

	_, err = s.repo.UpdateItemQuantity(ctx, existing.ID, quantity)
	return err
}

func (s *service) Remove(ctx context.Context, accountID, variantID string) error {
	if accountID == "" || variantID == "" {
		return apperror.Validation("account and variant are required")
	}

	err := s.repo.RemoveItem(ctx, accountID, variantID)
	if err == ErrCartItemNotFound {
		return apperror.NotFound(err.Error())
	}
	return err
}

func (s *service) BulkAdd(ctx context.Context, accountID string, items []BulkAddItem) error {
	if len(items) == 0 {
		return apperror.Validation("no items to add")
	}

	for _, item := range items {
		_, err := s.Add(ctx, AddParams{
			AccountID: accountID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Clear(ctx context.Context, accountID string) error {
	if accountID == "" {
		return apperror.Validation("account is required")
	}
	return s.repo.Clear(ctx, accountID)
}

// Get returns the live-priced cart view; it shares ComputeTotal's join.
func (s *service) Get(ctx context.Context, accountID string) (*Totals, error) {
	return s.ComputeTotal(ctx, accountID)
}

// ComputeTotal is a pure read. Lines whose variant, product or shop can no
// longer be resolved are kept in the view but priced at zero; this never
// fails on catalog drift.
func (s *service) ComputeTotal(ctx context.Context, accountID string) (*Totals, error) {
	items, err := s.repo.GetItems(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	priced, err := s.catalogRepo.GetPricedVariants(ctx, ids)
	if err != nil {
		return nil, err
	}

	totals := &Totals{Lines: make([]Line, 0, len(items))}
	for _, item := range items {
		line := Line{Item: item}

		if pv, ok := priced[item.VariantID]; ok {
			line.Variant = pv
			if pv.ShopIsSellable {
				line.Resolved = true
				line.LineTotal = pv.FinalPrice * int64(item.Quantity)
			}
		}

		totals.TotalAmount += line.LineTotal
		totals.ItemCount += item.Quantity
		totals.Lines = append(totals.Lines, line)
	}

	return totals, nil
}

// Refresh is the reconciliation sweep: it drops lines whose variant or shop
// is gone, whose shop is inactive, or whose stock is exhausted. Idempotent,
// safe to run on any schedule or right before checkout.
func (s *service) Refresh(ctx context.Context, accountID string) (*RefreshResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Refresh"),
		zap.String("account_id", accountID),
	)

	items, err := s.repo.GetItems(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	priced, err := s.catalogRepo.GetPricedVariants(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{}
	for _, item := range items {
		pv, ok := priced[item.VariantID]
		if !ok || !pv.ShopIsSellable || pv.Stock == 0 {
			result.RemovedVariantIDs = append(result.RemovedVariantIDs, item.VariantID)
			continue
		}
		result.RemainingCount++
	}

	if err := s.repo.RemoveItems(ctx, accountID, result.RemovedVariantIDs); err != nil {
		return nil, err
	}

	if len(result.RemovedVariantIDs) > 0 {
		log.Info("cart refresh pruned lines",
			zap.Int("removed", len(result.RemovedVariantIDs)),
			zap.Int("remaining", result.RemainingCount),
		)
	}

	return result, nil
}
