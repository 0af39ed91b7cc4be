// Package shipping reads the shared shipping configuration record.
package shipping

import (
	"context"
	"errors"
	"log"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
	"github.com/nikobuddy/caygnusecomers/internal/store"
)

const (
	configCollection = "config"
	shippingDocID    = "shipping"
)

type Service struct {
	store store.DocumentStore
}

func NewService(st store.DocumentStore) *Service {
	return &Service{store: st}
}

// Cost returns the configured shipping cost. Reads are best effort: a
// missing record or a store failure yields zero, the failure only
// logged.
func (s *Service) Cost(ctx context.Context) float64 {
	doc, err := s.store.GetDocument(ctx, configCollection, shippingDocID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("shipping config read error: %v", err)
		}
		return 0
	}

	var cfg domain.ShippingConfig
	if err := store.Decode(doc, &cfg); err != nil {
		log.Printf("shipping config decode error: %v", err)
		return 0
	}
	return cfg.Cost
}
