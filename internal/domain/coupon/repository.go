package coupon

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CouponRepository defines persistence operations for coupons.
type CouponRepository interface {
	Save(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindActive(ctx context.Context, now time.Time) ([]*Coupon, error)
	// IncrementUses bumps times_used atomically in the store. A coupon that
	// already reached max_uses is left unchanged and a validation error is
	// returned.
	IncrementUses(ctx context.Context, id uuid.UUID) error
	// ReleaseUse gives back one redemption taken by IncrementUses.
	ReleaseUse(ctx context.Context, id uuid.UUID) error
}
