package coupon

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// DiscountType represents the type of discount.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// Coupon is the aggregate root for discount codes.
type Coupon struct {
	id               uuid.UUID
	code             string
	discountType     DiscountType
	discountValue    int64 // whole percent (1-100) or fixed amount in cents
	minAmountCents   int64
	maxDiscountCents int64 // 0 means uncapped
	maxUses          int   // 0 means unlimited
	timesUsed        int
	validFrom        time.Time
	validUntil       time.Time
	active           bool
	createdBy        uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

// NewCouponParams holds the inputs for NewCoupon.
type NewCouponParams struct {
	Code             string
	DiscountType     DiscountType
	DiscountValue    int64
	MinAmountCents   int64
	MaxDiscountCents int64
	MaxUses          int
	ValidFrom        time.Time
	ValidUntil       time.Time
	CreatedBy        uuid.UUID
}

// NewCoupon validates p and creates an active coupon.
func NewCoupon(p NewCouponParams, now time.Time) (*Coupon, error) {
	code := NormalizeCode(p.Code)
	if code == "" {
		return nil, domain.NewValidationError("coupon code is required")
	}
	if len(code) > 50 {
		return nil, domain.NewValidationError("coupon code must be at most 50 characters")
	}
	if p.DiscountType != DiscountTypePercentage && p.DiscountType != DiscountTypeFixed {
		return nil, domain.NewValidationError("invalid discount type: %s", p.DiscountType)
	}
	if p.DiscountValue <= 0 {
		return nil, domain.NewValidationError("discount value must be positive")
	}
	if p.DiscountType == DiscountTypePercentage && p.DiscountValue > 100 {
		return nil, domain.NewValidationError("percentage discount cannot exceed 100")
	}
	if p.MinAmountCents < 0 || p.MaxDiscountCents < 0 || p.MaxUses < 0 {
		return nil, domain.NewValidationError("min amount, max discount and max uses cannot be negative")
	}
	if !p.ValidFrom.Before(p.ValidUntil) {
		return nil, domain.NewValidationError("valid_from must be before valid_until")
	}

	now = now.UTC()
	return &Coupon{
		id:               uuid.New(),
		code:             code,
		discountType:     p.DiscountType,
		discountValue:    p.DiscountValue,
		minAmountCents:   p.MinAmountCents,
		maxDiscountCents: p.MaxDiscountCents,
		maxUses:          p.MaxUses,
		validFrom:        p.ValidFrom.UTC(),
		validUntil:       p.ValidUntil.UTC(),
		active:           true,
		createdBy:        p.CreatedBy,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// Reconstruct rebuilds a Coupon from persistence.
func Reconstruct(id uuid.UUID, code string, discountType DiscountType, discountValue, minAmountCents, maxDiscountCents int64, maxUses, timesUsed int, validFrom, validUntil time.Time, active bool, createdBy uuid.UUID, createdAt, updatedAt time.Time) *Coupon {
	return &Coupon{
		id: id, code: code, discountType: discountType, discountValue: discountValue,
		minAmountCents: minAmountCents, maxDiscountCents: maxDiscountCents,
		maxUses: maxUses, timesUsed: timesUsed,
		validFrom: validFrom, validUntil: validUntil, active: active,
		createdBy: createdBy, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValid reports whether the coupon can be redeemed at now: it is active,
// now lies within [validFrom, validUntil] and the usage limit is not reached.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.active {
		return false
	}
	if now.Before(c.validFrom) || now.After(c.validUntil) {
		return false
	}
	return c.maxUses == 0 || c.timesUsed < c.maxUses
}

// Eligibility explains why the coupon cannot be applied to amountCents, or
// returns nil when it can.
func (c *Coupon) Eligibility(amountCents int64, now time.Time) error {
	switch {
	case !c.active:
		return domain.NewValidationError("coupon %s is not active", c.code)
	case now.Before(c.validFrom):
		return domain.NewValidationError("coupon %s is not valid yet", c.code)
	case now.After(c.validUntil):
		return domain.NewValidationError("coupon %s has expired", c.code)
	case c.maxUses > 0 && c.timesUsed >= c.maxUses:
		return domain.NewValidationError("coupon %s has reached its usage limit", c.code)
	case amountCents < c.minAmountCents:
		return domain.NewValidationError("minimum amount of %d cents required", c.minAmountCents)
	}
	return nil
}

// CalculateDiscount returns the discount in cents for amountCents. It is 0
// when the coupon is not valid at now or the amount is below the minimum,
// and never exceeds amountCents.
func (c *Coupon) CalculateDiscount(amountCents int64, now time.Time) int64 {
	if amountCents <= 0 || !c.IsValid(now) || amountCents < c.minAmountCents {
		return 0
	}

	var discount int64
	switch c.discountType {
	case DiscountTypePercentage:
		discount = amountCents * c.discountValue / 100
		if c.maxDiscountCents > 0 && discount > c.maxDiscountCents {
			discount = c.maxDiscountCents
		}
	case DiscountTypeFixed:
		discount = c.discountValue
	}

	if discount > amountCents {
		discount = amountCents
	}
	return discount
}

// IncrementUses records one redemption.
func (c *Coupon) IncrementUses(now time.Time) {
	c.timesUsed++
	c.updatedAt = now.UTC()
}

// ReleaseUse gives back one redemption.
func (c *Coupon) ReleaseUse(now time.Time) {
	if c.timesUsed > 0 {
		c.timesUsed--
	}
	c.updatedAt = now.UTC()
}

// Deactivate withdraws the coupon.
func (c *Coupon) Deactivate(now time.Time) {
	c.active = false
	c.updatedAt = now.UTC()
}

// Getters.
func (c *Coupon) ID() uuid.UUID              { return c.id }
func (c *Coupon) Code() string               { return c.code }
func (c *Coupon) DiscountType() DiscountType { return c.discountType }
func (c *Coupon) DiscountValue() int64       { return c.discountValue }
func (c *Coupon) MinAmountCents() int64      { return c.minAmountCents }
func (c *Coupon) MaxDiscountCents() int64    { return c.maxDiscountCents }
func (c *Coupon) MaxUses() int               { return c.maxUses }
func (c *Coupon) TimesUsed() int             { return c.timesUsed }
func (c *Coupon) ValidFrom() time.Time       { return c.validFrom }
func (c *Coupon) ValidUntil() time.Time      { return c.validUntil }
func (c *Coupon) Active() bool               { return c.active }
func (c *Coupon) CreatedBy() uuid.UUID       { return c.createdBy }
func (c *Coupon) CreatedAt() time.Time       { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time       { return c.updatedAt }
