package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// CreateCouponRequest is the DTO for issuing a coupon.
type CreateCouponRequest struct {
	Code             string    `json:"code" binding:"required,max=50"`
	DiscountType     string    `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue    int64     `json:"discount_value" binding:"required,gt=0"`
	MinAmountCents   int64     `json:"min_amount_cents" binding:"gte=0"`
	MaxDiscountCents int64     `json:"max_discount_cents" binding:"gte=0"`
	MaxUses          int       `json:"max_uses" binding:"gte=0"`
	ValidFrom        time.Time `json:"valid_from" binding:"required"`
	ValidUntil       time.Time `json:"valid_until" binding:"required"`
}

// ValidateCouponRequest asks what a code is worth for an amount.
type ValidateCouponRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	AmountCents int64  `json:"amount_cents" binding:"gte=0"`
}

// ValidateCouponResponse answers a ValidateCouponRequest.
type ValidateCouponResponse struct {
	Valid         bool   `json:"valid"`
	DiscountCents int64  `json:"discount_cents"`
	DiscountType  string `json:"discount_type,omitempty"`
	Message       string `json:"message"`
}

// CouponDTO is the API representation of a coupon.
type CouponDTO struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	DiscountType     string    `json:"discount_type"`
	DiscountValue    int64     `json:"discount_value"`
	MinAmountCents   int64     `json:"min_amount_cents"`
	MaxDiscountCents int64     `json:"max_discount_cents,omitempty"`
	MaxUses          int       `json:"max_uses,omitempty"`
	TimesUsed        int       `json:"times_used"`
	ValidFrom        time.Time `json:"valid_from"`
	ValidUntil       time.Time `json:"valid_until"`
	Active           bool      `json:"active"`
}

// CouponService handles coupon issuing and validation.
type CouponService struct {
	repo   coupon.CouponRepository
	now    Clock
	logger *zap.Logger
}

// NewCouponService creates a CouponService.
func NewCouponService(repo coupon.CouponRepository, now Clock, logger *zap.Logger) *CouponService {
	return &CouponService{repo: repo, now: now, logger: logger}
}

// CreateCoupon issues a new coupon (admin).
func (s *CouponService) CreateCoupon(ctx context.Context, adminID uuid.UUID, req CreateCouponRequest) (*CouponDTO, error) {
	code := coupon.NormalizeCode(req.Code)
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("coupon code %s already exists", code))
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	c, err := coupon.NewCoupon(coupon.NewCouponParams{
		Code:             code,
		DiscountType:     coupon.DiscountType(req.DiscountType),
		DiscountValue:    req.DiscountValue,
		MinAmountCents:   req.MinAmountCents,
		MaxDiscountCents: req.MaxDiscountCents,
		MaxUses:          req.MaxUses,
		ValidFrom:        req.ValidFrom,
		ValidUntil:       req.ValidUntil,
		CreatedBy:        adminID,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("coupon created", zap.String("code", c.Code()), zap.String("created_by", adminID.String()))
	dto := toCouponDTO(c)
	return &dto, nil
}

// ValidateCoupon reports whether a code applies to amountCents and the
// discount it would give. A bad code is an answer, not an error.
func (s *CouponService) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	c, err := s.repo.FindByCode(ctx, coupon.NormalizeCode(req.Code))
	if err != nil {
		if domain.IsNotFound(err) {
			return &ValidateCouponResponse{Valid: false, Message: "coupon not found"}, nil
		}
		return nil, err
	}

	now := s.now()
	if !c.IsValid(now) {
		return &ValidateCouponResponse{Valid: false, Message: "coupon is not valid or has expired"}, nil
	}
	if err := c.Eligibility(req.AmountCents, now); err != nil {
		return &ValidateCouponResponse{Valid: false, DiscountType: string(c.DiscountType()), Message: err.Error()}, nil
	}

	return &ValidateCouponResponse{
		Valid:         true,
		DiscountCents: c.CalculateDiscount(req.AmountCents, now),
		DiscountType:  string(c.DiscountType()),
		Message:       "coupon applied: " + c.Code(),
	}, nil
}

// ListActive returns coupons that can be redeemed now.
func (s *CouponService) ListActive(ctx context.Context) ([]CouponDTO, error) {
	coupons, err := s.repo.FindActive(ctx, s.now())
	if err != nil {
		return nil, err
	}
	dtos := make([]CouponDTO, 0, len(coupons))
	now := s.now()
	for _, c := range coupons {
		if c.IsValid(now) {
			dtos = append(dtos, toCouponDTO(c))
		}
	}
	return dtos, nil
}

// Deactivate withdraws a coupon (admin).
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) (*CouponDTO, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Deactivate(s.now())
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("coupon deactivated", zap.String("code", c.Code()))
	dto := toCouponDTO(c)
	return &dto, nil
}

func toCouponDTO(c *coupon.Coupon) CouponDTO {
	return CouponDTO{
		ID:               c.ID(),
		Code:             c.Code(),
		DiscountType:     string(c.DiscountType()),
		DiscountValue:    c.DiscountValue(),
		MinAmountCents:   c.MinAmountCents(),
		MaxDiscountCents: c.MaxDiscountCents(),
		MaxUses:          c.MaxUses(),
		TimesUsed:        c.TimesUsed(),
		ValidFrom:        c.ValidFrom(),
		ValidUntil:       c.ValidUntil(),
		Active:           c.Active(),
	}
}
