package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikobuddy/caygnusecomers/internal/identity"
)

type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter assembles the storefront API surface.
func NewRouter(cfg RouterConfig, provider identity.Provider, auth *AuthHandler, carts *CartHandler, catalogH *CatalogHandler, checkout *CheckoutHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware(provider))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Storefront browse surface, no auth required
	r.Get("/products", catalogH.ListProducts)
	r.Get("/products/{product_id}", catalogH.GetProduct)
	r.Get("/banners", catalogH.ListBanners)
	r.Get("/shipping", catalogH.GetShipping)

	// Cart and checkout, per-user
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", carts.GetCart)
		r.Post("/items", carts.AddItem)
		r.Put("/items/{item_id}", carts.SetQuantity)
		r.Post("/items/{item_id}/adjust", carts.AdjustQuantity)
		r.Delete("/items/{item_id}", carts.RemoveItem)
		r.Post("/coupon", carts.ApplyCoupon)
	})

	r.Post("/auth/signout", auth.SignOut)

	r.Post("/checkout", checkout.Checkout)
	r.Get("/orders", checkout.ListOrders)
	r.Get("/orders/{order_id}", checkout.GetOrder)

	return r
}
