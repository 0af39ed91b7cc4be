package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikobuddy/caygnusecomers/internal/domain"
)

var (
	ErrLimitReached = errors.New("coupon usage limit reached")
)

// Status is the outcome of a coupon application attempt.
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInvalid      Status = "invalid"
	StatusNewUsersOnly Status = "new_users_only"
	StatusLimitReached Status = "limit_reached"
)

// Result carries the outcome and, when applied, the discount amount
// computed against the subtotal the caller passed in.
type Result struct {
	Status         Status
	DiscountAmount float64
	Code           string
}

// Mode selects how a redemption is counted.
//
// ModeAtomic performs a conditional increment at the store: the write
// only lands while used < limit, so the cap holds under concurrent
// redemptions. ModeLastWriterWins reproduces the legacy check-then-set
// sequence, which can overshoot the cap when two redemptions race.
type Mode int

const (
	ModeAtomic Mode = iota
	ModeLastWriterWins
)

// Repository is what the evaluator needs from coupon storage.
type Repository interface {
	// FindAll returns every coupon record; code matching happens in memory.
	FindAll(ctx context.Context) ([]domain.Coupon, error)
	// Redeem increments used by one only while used < limit, returning
	// ErrLimitReached when the cap was hit first.
	Redeem(ctx context.Context, couponID string) error
	// SetUsed overwrites the used counter with the given value.
	SetUsed(ctx context.Context, couponID string, used int) error
}

type Evaluator struct {
	repo Repository
	mode Mode
}

func NewEvaluator(repo Repository, mode Mode) *Evaluator {
	return &Evaluator{repo: repo, mode: mode}
}

// Apply matches code against the coupon collection and, when the coupon
// is eligible, consumes one redemption and returns the discount amount.
//
// The match is exact: case-sensitive, no trimming. Eligibility of the
// caller ("new user") is injected, never derived here.
func (e *Evaluator) Apply(ctx context.Context, code string, subtotal float64, isNewUser bool) (Result, error) {
	coupons, err := e.repo.FindAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load coupons: %w", err)
	}

	var selected *domain.Coupon
	for i := range coupons {
		if coupons[i].Code == code {
			selected = &coupons[i]
			break
		}
	}

	if selected == nil {
		return Result{Status: StatusInvalid, Code: code}, nil
	}
	if selected.NewUsersOnly && !isNewUser {
		return Result{Status: StatusNewUsersOnly, Code: code}, nil
	}
	if selected.Exhausted() {
		return Result{Status: StatusLimitReached, Code: code}, nil
	}

	if err := e.redeem(ctx, selected); err != nil {
		if errors.Is(err, ErrLimitReached) {
			// Lost the race to the last redemption.
			return Result{Status: StatusLimitReached, Code: code}, nil
		}
		return Result{}, fmt.Errorf("failed to redeem coupon %s: %w", code, err)
	}

	return Result{
		Status:         StatusApplied,
		DiscountAmount: subtotal * (selected.Discount / 100),
		Code:           code,
	}, nil
}

func (e *Evaluator) redeem(ctx context.Context, c *domain.Coupon) error {
	if e.mode == ModeLastWriterWins {
		return e.repo.SetUsed(ctx, c.ID, c.Used+1)
	}
	return e.repo.Redeem(ctx, c.ID)
}
