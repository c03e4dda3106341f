package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// CouponModel is the GORM model for the coupons table.
type CouponModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code             string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	DiscountType     string    `gorm:"type:varchar(20);not null"`
	DiscountValue    int64     `gorm:"not null"`
	MinAmountCents   int64     `gorm:"not null;default:0"`
	MaxDiscountCents int64     `gorm:"not null;default:0"`
	MaxUses          int       `gorm:"not null;default:0"`
	TimesUsed        int       `gorm:"not null;default:0"`
	ValidFrom        time.Time `gorm:"type:timestamptz;not null"`
	ValidUntil       time.Time `gorm:"type:timestamptz;not null"`
	Active           bool      `gorm:"not null;default:true"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt        time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (CouponModel) TableName() string { return "coupons" }

// GormCouponRepository implements coupon.CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Save persists a new coupon.
func (r *GormCouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	model := toCouponModel(c)
	return translateError(r.db.WithContext(ctx).Create(&model).Error, "coupon code already exists")
}

// Update writes the mutable coupon fields. times_used is left to IncrementUses.
func (r *GormCouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	result := r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]any{
			"active":      c.Active(),
			"valid_from":  c.ValidFrom(),
			"valid_until": c.ValidUntil(),
			"updated_at":  c.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "Coupon", c.ID().String())
	}
	return nil
}

// FindByCode returns a coupon by its normalised code.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var model CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, notFound(err, "Coupon", code)
	}
	return toCouponDomain(&model), nil
}

// FindByID returns a coupon by ID.
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	var model CouponModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Coupon", id.String())
	}
	return toCouponDomain(&model), nil
}

// FindActive returns the active coupons whose window contains now and that
// still have uses left.
func (r *GormCouponRepository) FindActive(ctx context.Context, now time.Time) ([]*coupon.Coupon, error) {
	var models []CouponModel
	if err := r.db.WithContext(ctx).
		Where("active = ? AND valid_from <= ? AND valid_until >= ?", true, now, now).
		Where("max_uses = 0 OR times_used < max_uses").
		Order("valid_until ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	coupons := make([]*coupon.Coupon, len(models))
	for i := range models {
		coupons[i] = toCouponDomain(&models[i])
	}
	return coupons, nil
}

// IncrementUses claims one redemption in a single statement. The update only
// matches while the coupon is below max_uses.
func (r *GormCouponRepository) IncrementUses(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("id = ? AND (max_uses = 0 OR times_used < max_uses)", id).
		UpdateColumn("times_used", gorm.Expr("times_used + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewValidationError("coupon %s has reached its usage limit", id)
	}
	return nil
}

// ReleaseUse decrements times_used, never below zero.
func (r *GormCouponRepository) ReleaseUse(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("id = ? AND times_used > 0", id).
		UpdateColumn("times_used", gorm.Expr("times_used - ?", 1)).Error
}

func toCouponModel(c *coupon.Coupon) CouponModel {
	return CouponModel{
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
		CreatedBy:        c.CreatedBy(),
		CreatedAt:        c.CreatedAt(),
		UpdatedAt:        c.UpdatedAt(),
	}
}

func toCouponDomain(m *CouponModel) *coupon.Coupon {
	return coupon.Reconstruct(
		m.ID, m.Code, coupon.DiscountType(m.DiscountType),
		m.DiscountValue, m.MinAmountCents, m.MaxDiscountCents,
		m.MaxUses, m.TimesUsed,
		m.ValidFrom, m.ValidUntil,
		m.Active,
		m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
}
