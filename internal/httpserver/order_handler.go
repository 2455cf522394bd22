package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marketplace-be/internal/apperror"
	"marketplace-be/internal/order"
	"marketplace-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc       order.Service
	scheduler *order.Scheduler
}

func NewOrderHandler(svc order.Service, scheduler *order.Scheduler) *OrderHandler {
	return &OrderHandler{svc: svc, scheduler: scheduler}
}

func actorFromRequest(r *http.Request) order.Actor {
	ctx := r.Context()
	id, _ := utils.GetActorIDFromContext(ctx)
	shopID, _ := utils.GetActorShopFromContext(ctx)
	return order.Actor{
		AccountID: id,
		Roles:     utils.GetActorRolesFromContext(ctx),
		ShopID:    shopID,
	}
}

type noteRequest struct {
	Note string `json:"note"`
}

// decodeNote tolerates an absent body; most transition notes are optional.
func decodeNote(r *http.Request) (string, error) {
	var req noteRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", apperror.Validation("invalid request body")
	}
	return req.Note, nil
}

func listFilterFromQuery(r *http.Request) order.ListFilter {
	filter := order.ListFilter{
		Page:  utils.ParseIntOr(r.URL.Query().Get("page"), 1),
		Limit: utils.ParseIntOr(r.URL.Query().Get("limit"), 10),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := order.OrderStatus(raw)
		filter.Status = &status
	}
	return filter
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	accountID, _ := utils.GetActorIDFromContext(r.Context())

	var shipping order.ShippingInfo
	if err := decodeBody(r, &shipping); err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.svc.CreateFromCart(r.Context(), accountID, shipping)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "orders created", orders)
}

func (h *OrderHandler) ListForBuyer(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), actorFromRequest(r), listFilterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "orders fetched", page)
}

func (h *OrderHandler) ListForSeller(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	filter := listFilterFromQuery(r)
	filter.ShopID = actor.ShopID

	page, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "orders fetched", page)
}

func (h *OrderHandler) ListForAdmin(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	filter.ShopID = r.URL.Query().Get("shop_id")
	filter.AccountID = r.URL.Query().Get("account_id")

	page, err := h.svc.List(r.Context(), actorFromRequest(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "orders fetched", page)
}

func (h *OrderHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetDetail(r.Context(), chi.URLParam(r, "id"), actorFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "order fetched", o)
}

// Transition returns a handler applying one fixed action to the order in the
// path. Authorization happens in the service against the actual order.
func (h *OrderHandler) Transition(action order.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		note, err := decodeNote(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := h.svc.Transition(r.Context(), chi.URLParam(r, "id"), actorFromRequest(r), action, note)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeSuccess(w, http.StatusOK, "order updated", o)
	}
}

func (h *OrderHandler) Report(w http.ResponseWriter, r *http.Request) {
	note, err := decodeNote(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if note == "" {
		writeError(w, r, apperror.Validation("a report needs a note explaining the problem"))
		return
	}

	o, err := h.svc.Transition(r.Context(), chi.URLParam(r, "id"), actorFromRequest(r), order.ActionReport, note)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order reported", o)
}

type reviewReportRequest struct {
	Action order.ReviewAction `json:"action"`
	Note   string             `json:"note"`
}

func (h *OrderHandler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	var req reviewReportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.ReviewReport(r.Context(), chi.URLParam(r, "id"), actorFromRequest(r), req.Action, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "report resolved", o)
}

func (h *OrderHandler) RunAutoTransition(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduler.RunOnce(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "auto transition pass finished", report)
}
