package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerStore wraps a DocumentStore with a circuit breaker so a
// misbehaving remote store trips fast instead of piling up timeouts.
// ErrNotFound is an answer, not an outage, and never counts as a failure.
type BreakerStore struct {
	inner DocumentStore
	cb    *gobreaker.CircuitBreaker[interface{}]
}

func NewBreakerStore(inner DocumentStore) *BreakerStore {
	settings := gobreaker.Settings{
		Name:    "document-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// execute runs op through the breaker, letting ErrNotFound through
// without tripping it.
func (s *BreakerStore) execute(op func() (interface{}, error)) (interface{}, error) {
	v, err := s.cb.Execute(func() (interface{}, error) {
		res, opErr := op()
		if opErr != nil {
			if errors.Is(opErr, ErrNotFound) {
				return notFound{}, nil
			}
			return nil, opErr
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if _, ok := v.(notFound); ok {
		return nil, ErrNotFound
	}
	return v, nil
}

type notFound struct{}

func (s *BreakerStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.inner.GetDocument(ctx, collection, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(Document), nil
}

func (s *BreakerStore) SetDocument(ctx context.Context, collection, id string, fields Document) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.SetDocument(ctx, collection, id, fields)
	})
	return err
}

func (s *BreakerStore) UpdateFields(ctx context.Context, collection, id string, fields Document) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.UpdateFields(ctx, collection, id, fields)
	})
	return err
}

func (s *BreakerStore) QueryByField(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Document, error) {
	v, err := s.execute(func() (interface{}, error) {
		return s.inner.QueryByField(ctx, collection, field, op, value)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]Document), nil
}
