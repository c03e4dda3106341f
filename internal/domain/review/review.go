package review

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// BookingRef is the subset of a booking a review needs for verification.
type BookingRef struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	HotelID uuid.UUID
	Status  booking.Status
}

// Ratings holds the overall score and the optional detailed axes, each 1-5.
type Ratings struct {
	Overall     int
	Cleanliness *int
	Service     *int
	Location    *int
	Value       *int
}

func (r Ratings) axes() []*int {
	return []*int{r.Cleanliness, r.Service, r.Location, r.Value}
}

func (r Ratings) validate() error {
	if r.Overall < 1 || r.Overall > 5 {
		return domain.NewValidationError("rating must be between 1 and 5")
	}
	for _, a := range r.axes() {
		if a != nil && (*a < 1 || *a > 5) {
			return domain.NewValidationError("detailed ratings must be between 1 and 5")
		}
	}
	return nil
}

// Review is a guest's rating of a hotel.
type Review struct {
	id             uuid.UUID
	userID         uuid.UUID
	hotelID        uuid.UUID
	bookingID      *uuid.UUID
	ratings        Ratings
	title          string
	text           string
	wouldRecommend bool
	active         bool
	verified       bool
	response       string
	respondedAt    *time.Time
	helpfulCount   int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewReviewParams holds the inputs for NewReview.
type NewReviewParams struct {
	UserID         uuid.UUID
	HotelID        uuid.UUID
	Booking        *BookingRef
	Ratings        Ratings
	Title          string
	Text           string
	WouldRecommend bool
}

// NewReview validates p and creates an active review. A review linked to a
// booking must come from the booking's guest after payment and is marked verified.
func NewReview(p NewReviewParams, now time.Time) (*Review, error) {
	if err := p.Ratings.validate(); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil, domain.NewValidationError("review text is required")
	}
	title := strings.TrimSpace(p.Title)
	if len(title) > 200 {
		return nil, domain.NewValidationError("title must be at most 200 characters")
	}

	hotelID := p.HotelID
	var bookingID *uuid.UUID
	if p.Booking != nil {
		if p.Booking.UserID != p.UserID {
			return nil, domain.NewValidationError("booking does not belong to this user")
		}
		if !booking.IsBlocking(p.Booking.Status) {
			return nil, domain.NewValidationError("only paid or confirmed bookings can be reviewed")
		}
		id := p.Booking.ID
		bookingID = &id
		hotelID = p.Booking.HotelID
	}
	if hotelID == uuid.Nil {
		return nil, domain.NewValidationError("hotel is required")
	}

	now = now.UTC()
	return &Review{
		id:             uuid.New(),
		userID:         p.UserID,
		hotelID:        hotelID,
		bookingID:      bookingID,
		ratings:        p.Ratings,
		title:          title,
		text:           text,
		wouldRecommend: p.WouldRecommend,
		active:         true,
		verified:       bookingID != nil,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstitute rebuilds a Review from persisted data.
func Reconstitute(
	id, userID, hotelID uuid.UUID,
	bookingID *uuid.UUID,
	ratings Ratings,
	title, text string,
	wouldRecommend, active, verified bool,
	response string,
	respondedAt *time.Time,
	helpfulCount int,
	createdAt, updatedAt time.Time,
) *Review {
	return &Review{
		id: id, userID: userID, hotelID: hotelID, bookingID: bookingID,
		ratings: ratings, title: title, text: text,
		wouldRecommend: wouldRecommend, active: active, verified: verified,
		response: response, respondedAt: respondedAt, helpfulCount: helpfulCount,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (r *Review) ID() uuid.UUID           { return r.id }
func (r *Review) UserID() uuid.UUID       { return r.userID }
func (r *Review) HotelID() uuid.UUID      { return r.hotelID }
func (r *Review) BookingID() *uuid.UUID   { return r.bookingID }
func (r *Review) Ratings() Ratings        { return r.ratings }
func (r *Review) Title() string           { return r.title }
func (r *Review) Text() string            { return r.text }
func (r *Review) WouldRecommend() bool    { return r.wouldRecommend }
func (r *Review) Active() bool            { return r.active }
func (r *Review) Verified() bool          { return r.verified }
func (r *Review) Response() string        { return r.response }
func (r *Review) RespondedAt() *time.Time { return r.respondedAt }
func (r *Review) HelpfulCount() int       { return r.helpfulCount }
func (r *Review) CreatedAt() time.Time    { return r.createdAt }
func (r *Review) UpdatedAt() time.Time    { return r.updatedAt }

// AverageDetailedRating averages the detailed axes that were given, falling
// back to the overall rating when none were.
func (r *Review) AverageDetailedRating() float64 {
	var sum, n int
	for _, a := range r.ratings.axes() {
		if a != nil {
			sum += *a
			n++
		}
	}
	if n == 0 {
		return float64(r.ratings.Overall)
	}
	return float64(sum) / float64(n)
}

// Activate publishes the review.
func (r *Review) Activate(now time.Time) {
	r.active = true
	r.updatedAt = now.UTC()
}

// Deactivate hides the review from the public.
func (r *Review) Deactivate(now time.Time) {
	r.active = false
	r.updatedAt = now.UTC()
}

// Respond stores the hotel's public answer.
func (r *Review) Respond(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NewValidationError("response text is required")
	}
	now = now.UTC()
	r.response = text
	r.respondedAt = &now
	r.updatedAt = now
	return nil
}

// SetHelpfulCount stores the recounted number of helpful votes.
func (r *Review) SetHelpfulCount(n int) {
	r.helpfulCount = n
}
