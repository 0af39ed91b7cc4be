package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikobuddy/caygnusecomers/internal/catalog"
)

type CatalogHandler struct {
	catalog  *catalog.Service
	shipping ShippingCoster
	timeout  time.Duration
}

func NewCatalogHandler(catalogSvc *catalog.Service, shippingSvc ShippingCoster, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalogSvc,
		shipping: shippingSvc,
		timeout:  timeout,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if category := r.URL.Query().Get("category"); category != "" {
		products, err := h.catalog.ListByCategory(ctx, category)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, products)
		return
	}

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	banners, err := h.catalog.ListBanners(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, banners)
}

func (h *CatalogHandler) GetShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, map[string]float64{"cost": h.shipping.Cost(ctx)})
}
