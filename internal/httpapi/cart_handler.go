package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nikobuddy/caygnusecomers/internal/cart"
	"github.com/nikobuddy/caygnusecomers/internal/catalog"
	"github.com/nikobuddy/caygnusecomers/internal/coupon"
	"github.com/nikobuddy/caygnusecomers/internal/domain"
	"github.com/nikobuddy/caygnusecomers/internal/pricing"
	"github.com/nikobuddy/caygnusecomers/internal/shipping"
)

// ShippingCoster returns the current shipping cost; zero when the
// config record is unreadable.
type ShippingCoster interface {
	Cost(ctx context.Context) float64
}

// ProductGetter is the slice of the catalog the cart needs for add-time
// snapshots.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

var (
	_ ShippingCoster = (*shipping.Service)(nil)
	_ ProductGetter  = (*catalog.Service)(nil)
)

type CartHandler struct {
	carts      *cart.Service
	products   ProductGetter
	coupons    *coupon.Evaluator
	shipping   ShippingCoster
	pricingCfg pricing.Config
	validate   *validator.Validate
	timeout    time.Duration
}

func NewCartHandler(carts *cart.Service, products ProductGetter, coupons *coupon.Evaluator, shippingSvc ShippingCoster, pricingCfg pricing.Config, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:      carts,
		products:   products,
		coupons:    coupons,
		shipping:   shippingSvc,
		pricingCfg: pricingCfg,
		validate:   validator.New(),
		timeout:    timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityRequestDTO carries the literal value the user typed. It is
// deliberately not range-validated: the text-field path preserves zero
// and negative quantities as-is.
type SetQuantityRequestDTO struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type AdjustQuantityRequestDTO struct {
	Delta *int `json:"delta" validate:"required"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code" validate:"required"`
	// CurrentDiscount is the discount the client is carrying from a
	// previous successful application, if any.
	CurrentDiscount float64 `json:"current_discount" validate:"gte=0"`
}

type CartResponseDTO struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Shipping float64           `json:"shipping"`
	Total    float64           `json:"total"`
}

type QuoteResponseDTO struct {
	Status   coupon.Status `json:"status"`
	Message  string        `json:"message"`
	Discount float64       `json:"discount"`
	Subtotal float64       `json:"subtotal"`
	Shipping float64       `json:"shipping"`
	Total    float64       `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	loaded := h.carts.Load(ctx, session.UserID)
	quote := pricing.NewQuote(loaded.Items, h.shipping.Cost(ctx), h.pricingCfg)

	items := loaded.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items:    items,
		Subtotal: quote.Subtotal,
		Shipping: quote.Shipping,
		Total:    quote.Total(),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Snapshot the catalog fields at add time; later catalog edits do
	// not touch existing cart lines.
	product, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	item := domain.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: req.Quantity,
	}
	if err := h.carts.AddItem(ctx, session.UserID, item); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusCreated, session.UserID)
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.carts.SetQuantity(ctx, session.UserID, itemID, *req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusOK, session.UserID)
}

func (h *CartHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	var req AdjustQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.carts.AdjustQuantity(ctx, session.UserID, itemID, *req.Delta); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusOK, session.UserID)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	if err := h.carts.RemoveItem(ctx, session.UserID, itemID); err != nil {
		handleDomainError(w, err)
		return
	}

	h.respondCart(ctx, w, http.StatusOK, session.UserID)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := sessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ApplyCouponRequestDTO
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
	quote.Discount = req.CurrentDiscount

	result, err := h.coupons.Apply(ctx, req.Code, quote.Subtotal, session.IsNewUser)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	quote.ApplyCouponResult(result)

	respondJSON(w, http.StatusOK, QuoteResponseDTO{
		Status:   result.Status,
		Message:  couponMessage(result.Status),
		Discount: quote.Discount,
		Subtotal: quote.Subtotal,
		Shipping: quote.Shipping,
		Total:    quote.Total(),
	})
}

func couponMessage(status coupon.Status) string {
	switch status {
	case coupon.StatusApplied:
		return "Coupon applied successfully!"
	case coupon.StatusNewUsersOnly:
		return "This coupon is only for new users."
	case coupon.StatusLimitReached:
		return "This coupon has reached its usage limit."
	default:
		return "Invalid coupon code."
	}
}

func (h *CartHandler) respondCart(ctx context.Context, w http.ResponseWriter, status int, userID string) {
	loaded := h.carts.Load(ctx, userID)
	quote := pricing.NewQuote(loaded.Items, h.shipping.Cost(ctx), h.pricingCfg)

	items := loaded.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	respondJSON(w, status, CartResponseDTO{
		Items:    items,
		Subtotal: quote.Subtotal,
		Shipping: quote.Shipping,
		Total:    quote.Total(),
	})
}
