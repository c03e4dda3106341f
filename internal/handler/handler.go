package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// BookingService is the booking use-case surface the HTTP layer needs.
type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, email string, req application.CreateBookingRequest) (*application.BookingDTO, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*application.BookingDTO, error)
	ListBookings(ctx context.Context, userID uuid.UUID, status string, page, limit int) (*application.BookingListDTO, error)
	ListAllBookings(ctx context.Context, status string, page, limit int) ([]application.BookingDTO, int64, error)
	Invoice(ctx context.Context, userID, bookingID uuid.UUID) (*application.InvoiceDTO, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*application.BookingDTO, error)
	PayBooking(ctx context.Context, userID, bookingID uuid.UUID) (*application.PaymentResultDTO, error)
	MarkPaid(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
	RefundBooking(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
}

// HotelService serves hotels and the landing pages.
type HotelService interface {
	CreateHotel(ctx context.Context, req application.CreateHotelRequest) (*application.HotelDTO, error)
	GetHotel(ctx context.Context, slug string) (*application.HotelDTO, error)
	ListHotels(ctx context.Context) ([]application.HotelDTO, error)
	Home(ctx context.Context) (*application.HomeDTO, error)
	Rates(ctx context.Context) ([]application.RateGroupDTO, error)
}

// RoomService serves the room catalogue.
type RoomService interface {
	CreateRoomType(ctx context.Context, req application.CreateRoomTypeRequest) (*application.RoomTypeDTO, error)
	CreateRoom(ctx context.Context, req application.CreateRoomRequest) (*application.RoomDTO, error)
	SetRoomStatus(ctx context.Context, roomID uuid.UUID, status string) (*application.RoomDTO, error)
	ListRoomTypes(ctx context.Context, q application.RoomTypeQuery) ([]application.RoomTypeDTO, error)
	GetRoomType(ctx context.Context, id uuid.UUID, stay *booking.DateRange) (*application.RoomTypeDetailDTO, error)
	CheckAvailability(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut string) (*application.AvailabilityDTO, error)
}

// StatisticsService reads and refreshes hotel statistics.
type StatisticsService interface {
	GetBySlug(ctx context.Context, slug string) (*statistics.HotelStatistics, error)
	RefreshAll(ctx context.Context, hotelID *uuid.UUID) (int, error)
}

// ReviewService serves guest reviews and their moderation.
type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req application.CreateReviewRequest) (*application.ReviewDTO, error)
	GetReview(ctx context.Context, id uuid.UUID) (*application.ReviewDTO, error)
	ListReviews(ctx context.Context, page, limit int) ([]application.ReviewDTO, int64, error)
	HotelReviews(ctx context.Context, slug string, q application.HotelReviewsQuery) (*application.HotelReviewsDTO, error)
	ToggleHelpful(ctx context.Context, userID, reviewID uuid.UUID) (*application.HelpfulDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*application.ReviewDTO, error)
	Respond(ctx context.Context, id uuid.UUID, text string) (*application.ReviewDTO, error)
}

// CouponService issues and validates coupons.
type CouponService interface {
	CreateCoupon(ctx context.Context, adminID uuid.UUID, req application.CreateCouponRequest) (*application.CouponDTO, error)
	ValidateCoupon(ctx context.Context, req application.ValidateCouponRequest) (*application.ValidateCouponResponse, error)
	ListActive(ctx context.Context) ([]application.CouponDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*application.CouponDTO, error)
}

// ContactService forwards contact-form messages.
type ContactService interface {
	Send(ctx context.Context, req application.ContactRequest) error
}

// RegisterValidators adds the custom binding tags used by request DTOs:
// isodate (YYYY-MM-DD) and clocktime (HH:MM).
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("isodate", isISODate); err != nil {
		return err
	}
	return v.RegisterValidation("clocktime", isClockTime)
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(booking.DateLayout, fl.Field().String())
	return err == nil
}

func isClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// paramID parses the named path parameter as a uuid, writing a 400 on failure.
func paramID(c *gin.Context, name, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(application.DefaultLimit)))
	if page < 1 {
		page = application.DefaultPage
	}
	if limit < 1 || limit > application.MaxLimit {
		limit = application.DefaultLimit
	}
	return page, limit
}

type ownedCall func(ctx context.Context, userID, bookingID uuid.UUID) (*application.BookingDTO, error)

type bookingAction func(ctx context.Context, bookingID uuid.UUID) (*application.BookingDTO, error)
