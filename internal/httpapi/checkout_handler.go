package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nikobuddy/caygnusecomers/internal/cart"
	"github.com/nikobuddy/caygnusecomers/internal/orders"
	"github.com/nikobuddy/caygnusecomers/internal/pricing"
)

type CheckoutHandler struct {
	carts      *cart.Service
	orders     *orders.Service
	shipping   ShippingCoster
	pricingCfg pricing.Config
	validate   *validator.Validate
	timeout    time.Duration
}

func NewCheckoutHandler(carts *cart.Service, ordersSvc *orders.Service, shippingSvc ShippingCoster, pricingCfg pricing.Config, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:      carts,
		orders:     ordersSvc,
		shipping:   shippingSvc,
		pricingCfg: pricingCfg,
		validate:   validator.New(),
		timeout:    timeout,
	}
}

type CheckoutRequestDTO struct {
	CouponCode string  `json:"coupon_code"`
	Discount   float64 `json:"discount" validate:"gte=0"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	loaded := h.carts.Load(ctx, session.UserID)
	quote := pricing.NewQuote(loaded.Items, h.shipping.Cost(ctx), h.pricingCfg)
	quote.Discount = req.Discount

	order, err := h.orders.Checkout(ctx, session.UserID, loaded.Items, quote, req.CouponCode)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if order.UserID != session.UserID {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.ListByUser(ctx, session.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}
