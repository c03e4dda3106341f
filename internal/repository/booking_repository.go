package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InvoiceID       string     `gorm:"type:varchar(16);uniqueIndex;not null"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserEmail       string     `gorm:"type:varchar(254)"`
	HotelID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	CouponID        *uuid.UUID `gorm:"type:uuid"`
	CheckInDate     time.Time  `gorm:"type:date;not null"`
	CheckOutDate    time.Time  `gorm:"type:date;not null"`
	BookedAt        time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	Adults          int        `gorm:"not null;default:1"`
	Children        int        `gorm:"not null;default:0"`
	SpecialRequests string     `gorm:"type:text"`
	SubtotalCents   int64      `gorm:"not null"`
	DiscountCents   int64      `gorm:"not null;default:0"`
	TaxCents        int64      `gorm:"not null"`
	TotalCents      int64      `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt       time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

var blockingStatuses = []string{string(booking.StatusPaid), string(booking.StatusConfirmed)}

const conflictMessage = "room is already booked for these dates"

// BookingRepositoryImpl is the GORM-based implementation of booking.BookingRepository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// CreateExclusive inserts b while holding a row lock on its room, so that two
// requests for the same room are serialised.
func (r *BookingRepositoryImpl) CreateExclusive(ctx context.Context, b *booking.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rm RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", b.RoomID()).First(&rm).Error; err != nil {
			return notFound(err, "Room", b.RoomID().String())
		}

		var overlapping int64
		if err := overlaps(tx.Model(&BookingModel{}), b.RoomID(), b.Stay()).Count(&overlapping).Error; err != nil {
			return err
		}
		if overlapping > 0 {
			return domain.NewConflictError(conflictMessage)
		}

		return tx.Create(toBookingModel(b)).Error
	})
	return translateError(err, conflictMessage)
}

// Update persists changes to an existing booking with optimistic locking.
func (r *BookingRepositoryImpl) Update(ctx context.Context, b *booking.Booking) error {
	model := toBookingModel(b)
	previousVersion := b.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Updates(map[string]any{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return translateError(result.Error, conflictMessage)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// FindByID retrieves a booking by id.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Booking", id.String())
	}
	return toBookingDomain(&model), nil
}

// List returns a page of bookings, newest first.
func (r *BookingRepositoryImpl) List(ctx context.Context, f booking.ListFilter) ([]*booking.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	if err := q.Order("booked_at DESC").Offset(offset(f.Page, f.Limit)).Limit(f.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toBookingDomains(models), total, nil
}

// CountUpcoming counts the user's paid or confirmed stays starting on or after today.
func (r *BookingRepositoryImpl) CountUpcoming(ctx context.Context, userID uuid.UUID, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("user_id = ? AND status IN ? AND check_in_date >= ?", userID, blockingStatuses, today).
		Count(&count).Error
	return count, err
}

// BlockingRanges returns the stays of paid or confirmed bookings on roomID
// that overlap stay.
func (r *BookingRepositoryImpl) BlockingRanges(ctx context.Context, roomID uuid.UUID, stay booking.DateRange) ([]booking.DateRange, error) {
	var models []BookingModel
	err := overlaps(r.db.WithContext(ctx), roomID, stay).
		Select("check_in_date", "check_out_date").
		Order("check_in_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	ranges := make([]booking.DateRange, len(models))
	for i, m := range models {
		ranges[i] = booking.DateRange{CheckIn: booking.Day(m.CheckInDate), CheckOut: booking.Day(m.CheckOutDate)}
	}
	return ranges, nil
}

// ActiveOn returns the paid or confirmed bookings whose stay covers day.
func (r *BookingRepositoryImpl) ActiveOn(ctx context.Context, day time.Time) ([]*booking.Booking, error) {
	var models []BookingModel
	if err := covering(r.db.WithContext(ctx), day).Find(&models).Error; err != nil {
		return nil, err
	}
	return toBookingDomains(models), nil
}

// HasActiveOn reports whether roomID hosts a paid or confirmed stay on day.
func (r *BookingRepositoryImpl) HasActiveOn(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := covering(r.db.WithContext(ctx).Model(&BookingModel{}), day).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count > 0, err
}

// HasFutureBlocking reports whether roomID has a paid or confirmed stay
// checking in after day.
func (r *BookingRepositoryImpl) HasFutureBlocking(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ? AND status IN ? AND check_in_date > ?", roomID, blockingStatuses, day).
		Count(&count).Error
	return count > 0, err
}

// FindPendingBookedBefore returns PENDING bookings made before cutoff.
func (r *BookingRepositoryImpl) FindPendingBookedBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND booked_at < ?", string(booking.StatusPending), cutoff).
		Order("booked_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toBookingDomains(models), nil
}

// CountByHotel returns the booking counters used by hotel statistics.
func (r *BookingRepositoryImpl) CountByHotel(ctx context.Context, hotelID uuid.UUID) (booking.Counts, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Where("hotel_id = ?", hotelID).
		Group("status").
		Find(&results).Error; err != nil {
		return booking.Counts{}, err
	}

	var counts booking.Counts
	for _, sc := range results {
		counts.Total += sc.Count
		switch booking.Status(sc.Status) {
		case booking.StatusPaid, booking.StatusConfirmed:
			counts.Completed += sc.Count
		case booking.StatusCancelled:
			counts.Cancelled += sc.Count
		}
	}
	return counts, nil
}

// overlaps narrows q to paid or confirmed bookings of roomID whose half-open
// stay intersects stay.
func overlaps(q *gorm.DB, roomID uuid.UUID, stay booking.DateRange) *gorm.DB {
	return q.Where("room_id = ? AND status IN ? AND check_in_date < ? AND check_out_date > ?",
		roomID, blockingStatuses, stay.CheckOut, stay.CheckIn)
}

// covering narrows q to paid or confirmed bookings with check-in <= day <= check-out.
func covering(q *gorm.DB, day time.Time) *gorm.DB {
	return q.Where("status IN ? AND check_in_date <= ? AND check_out_date >= ?", blockingStatuses, day, day)
}

func toBookingDomains(models []BookingModel) []*booking.Booking {
	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings
}

// toBookingDomain maps a BookingModel to the domain Booking aggregate.
func toBookingDomain(m *BookingModel) *booking.Booking {
	return booking.Reconstitute(
		m.ID,
		m.InvoiceID,
		m.UserID,
		m.UserEmail,
		m.HotelID, m.RoomID,
		m.CouponID,
		booking.DateRange{CheckIn: booking.Day(m.CheckInDate), CheckOut: booking.Day(m.CheckOutDate)},
		m.BookedAt,
		m.Adults, m.Children,
		m.SpecialRequests,
		booking.Prices{
			SubtotalCents: m.SubtotalCents,
			DiscountCents: m.DiscountCents,
			TaxCents:      m.TaxCents,
			TotalCents:    m.TotalCents,
		},
		booking.Status(m.Status),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

// toBookingModel maps a domain Booking aggregate to a BookingModel for persistence.
func toBookingModel(b *booking.Booking) *BookingModel {
	p := b.Prices()
	return &BookingModel{
		ID:              b.ID(),
		InvoiceID:       b.InvoiceID(),
		UserID:          b.UserID(),
		UserEmail:       b.UserEmail(),
		HotelID:         b.HotelID(),
		RoomID:          b.RoomID(),
		CouponID:        b.CouponID(),
		CheckInDate:     b.CheckIn(),
		CheckOutDate:    b.CheckOut(),
		BookedAt:        b.BookedAt(),
		Adults:          b.Adults(),
		Children:        b.Children(),
		SpecialRequests: b.SpecialRequests(),
		SubtotalCents:   p.SubtotalCents,
		DiscountCents:   p.DiscountCents,
		TaxCents:        p.TaxCents,
		TotalCents:      p.TotalCents,
		Status:          string(b.Status()),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}
