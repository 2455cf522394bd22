package httpserver

import (
	"net/http"

	"marketplace-be/internal/cart"
	"marketplace-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	totals, err := h.svc.Get(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart fetched", totals)
}

func (h *CartHandler) Total(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	totals, err := h.svc.ComputeTotal(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart total computed", map[string]any{
		"total_amount": totals.TotalAmount,
		"item_count":   totals.ItemCount,
	})
}

type addItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.svc.Add(r.Context(), cart.AddParams{
		AccountID: accountID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "item added to cart", item)
}

type bulkAddRequest struct {
	Items []cart.BulkAddItem `json:"items"`
}

func (h *CartHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	var req bulkAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.BulkAdd(r.Context(), accountID, req.Items); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "items added to cart", nil)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())
	variantID := chi.URLParam(r, "variantID")

	var req setQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.SetQuantity(r.Context(), accountID, variantID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart item updated", nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())
	variantID := chi.URLParam(r, "variantID")

	if err := h.svc.Remove(r.Context(), accountID, variantID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart item removed", nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	if err := h.svc.Clear(r.Context(), accountID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart cleared", nil)
}

func (h *CartHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	result, err := h.svc.Refresh(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "cart refreshed", result)
}
