package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

// WriteMode selects how mutations reach the store.
//
// WriteModeOverwrite re-reads the document and writes the whole items
// array back (last writer wins), matching the storefront's observed
// behavior. WriteModeAtomic uses targeted array-element updates so
// concurrent mutations to different lines do not clobber each other.
type WriteMode int

const (
	WriteModeOverwrite WriteMode = iota
	WriteModeAtomic
)

// Service is the cart aggregate: it loads, mutates and persists one
// user's cart. Mutations with an empty user id are silent no-ops.
type Service struct {
	repo  Repository
	cache Cache
	mode  WriteMode
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache, mode WriteMode) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		mode:  mode,
	}
}

func emptyCart(userID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		UserID:    userID,
		Items:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load returns the user's cart. Reads are best effort: a missing
// document and a store failure both come back as an empty cart, the
// failure only logged.
func (s *Service) Load(ctx context.Context, userID string) *domain.Cart {
	if userID == "" {
		return emptyCart(userID)
	}

	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		loaded, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil {
			if !errors.Is(errGet, ErrCartNotFound) {
				log.Printf("cart load error for user %s: %v", userID, errGet)
			}
			return emptyCart(userID), nil
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, loaded); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return loaded, nil
	})
	if err != nil {
		// The closure never returns an error, but keep the guard.
		return emptyCart(userID)
	}
	return v.(*domain.Cart)
}

// AddItem puts a product line into the cart. Adding a product that is
// already in the cart increments that line's quantity instead of
// creating a duplicate.
func (s *Service) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	if userID == "" {
		return nil
	}
	item.AddedAt = time.Now()

	current, err := s.loadForWrite(ctx, userID)
	if err != nil {
		log.Printf("add item read error: %v", err)
		return err
	}

	idx := current.FindItem(item.ID)
	if idx >= 0 {
		current.Items[idx].Quantity += item.Quantity
	} else {
		current.Items = append(current.Items, item)
	}

	var errWrite error
	if s.mode == WriteModeAtomic {
		if idx >= 0 {
			errWrite = s.repo.SetItemQuantity(ctx, userID, item.ID, current.Items[idx].Quantity)
		} else {
			errWrite = s.repo.PushItem(ctx, userID, item)
		}
	} else {
		errWrite = s.repo.ReplaceItems(ctx, userID, current.Items)
	}
	if errWrite != nil {
		log.Printf("add item write error: %v", errWrite)
		return errWrite
	}

	s.invalidateCache(userID)
	return nil
}

// AdjustQuantity applies a +/- step to a line. The result is clamped at
// a floor of one; decrementing past one keeps the line at one.
func (s *Service) AdjustQuantity(ctx context.Context, userID, itemID string, delta int) error {
	if userID == "" {
		return nil
	}

	current, err := s.loadForWrite(ctx, userID)
	if err != nil {
		log.Printf("adjust quantity read error: %v", err)
		return err
	}

	idx := current.FindItem(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	quantity := current.Items[idx].Quantity + delta
	if quantity < 1 {
		quantity = 1
	}

	return s.writeQuantity(ctx, userID, itemID, current, idx, quantity)
}

// SetQuantity writes the literal value a user typed, without
// validation. Zero and negative quantities are preserved as-is; the
// floor only applies to the stepper path in AdjustQuantity.
func (s *Service) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if userID == "" {
		return nil
	}

	current, err := s.loadForWrite(ctx, userID)
	if err != nil {
		log.Printf("set quantity read error: %v", err)
		return err
	}

	idx := current.FindItem(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	return s.writeQuantity(ctx, userID, itemID, current, idx, quantity)
}

func (s *Service) writeQuantity(ctx context.Context, userID, itemID string, current *domain.Cart, idx, quantity int) error {
	current.Items[idx].Quantity = quantity

	var errWrite error
	if s.mode == WriteModeAtomic {
		errWrite = s.repo.SetItemQuantity(ctx, userID, itemID, quantity)
	} else {
		errWrite = s.repo.ReplaceItems(ctx, userID, current.Items)
	}
	if errWrite != nil {
		log.Printf("quantity write error: %v", errWrite)
		return errWrite
	}

	s.invalidateCache(userID)
	return nil
}

// RemoveItem drops the line with the given id and leaves every other
// line untouched. Removing an id that is not in the cart is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		return nil
	}

	if s.mode == WriteModeAtomic {
		err := s.repo.PullItem(ctx, userID, itemID)
		if err != nil && !errors.Is(err, ErrCartNotFound) {
			log.Printf("remove item error: %v", err)
			return err
		}
		s.invalidateCache(userID)
		return nil
	}

	current, err := s.loadForWrite(ctx, userID)
	if err != nil {
		log.Printf("remove item read error: %v", err)
		return err
	}

	kept := current.Items[:0:0]
	for _, item := range current.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}

	if errWrite := s.repo.ReplaceItems(ctx, userID, kept); errWrite != nil {
		log.Printf("remove item write error: %v", errWrite)
		return errWrite
	}

	s.invalidateCache(userID)
	return nil
}

// Clear deletes the cart document, used after checkout completes.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	if err := s.repo.DeleteCart(ctx, userID); err != nil && !errors.Is(err, ErrCartNotFound) {
		log.Printf("clear cart error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// loadForWrite re-reads the document a mutation will modify; a missing
// cart starts empty.
func (s *Service) loadForWrite(ctx context.Context, userID string) (*domain.Cart, error) {
	current, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return emptyCart(userID), nil
		}
		return nil, err
	}
	return current, nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
