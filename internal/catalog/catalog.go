// Package catalog exposes the product and banner read models backed by
// the remote document store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
	"github.com/nikobuddy/caygnusecomers/internal/store"
)

const (
	productsCollection = "products"
	bannersCollection  = "banners"
)

var ErrProductNotFound = errors.New("product not found")

type Service struct {
	store store.DocumentStore
}

func NewService(st store.DocumentStore) *Service {
	return &Service{store: st}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := s.store.GetDocument(ctx, productsCollection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var product domain.Product
	if err := store.Decode(doc, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	if product.ID == "" {
		product.ID = id
	}
	return &product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	// Price is non-negative on every product, so this range matches all.
	docs, err := s.store.QueryByField(ctx, productsCollection, "price", store.OpGreaterOrEqual, 0.0)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeProducts(docs)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	docs, err := s.store.QueryByField(ctx, productsCollection, "category", store.OpEqual, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products in %s: %w", category, err)
	}
	return decodeProducts(docs)
}

func decodeProducts(docs []store.Document) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := store.Decode(doc, &p); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Service) ListBanners(ctx context.Context) ([]domain.Banner, error) {
	docs, err := s.store.QueryByField(ctx, bannersCollection, "active", store.OpEqual, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}

	banners := make([]domain.Banner, 0, len(docs))
	for _, doc := range docs {
		var b domain.Banner
		if err := store.Decode(doc, &b); err != nil {
			return nil, fmt.Errorf("failed to decode banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, nil
}
