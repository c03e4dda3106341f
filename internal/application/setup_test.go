package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
)

// fixture wires every service against in-memory repositories and a pinned clock.
type fixture struct {
	now *time.Time

	bookings  *fakeBookingRepo
	rooms     *fakeRoomRepo
	roomTypes fakeRoomTypeRepo
	hotels    *fakeHotelRepo
	coupons   *fakeCouponRepo
	reviews   *fakeReviewRepo
	statsRepo *fakeStatsRepo
	cache     *fakeStatsCache
	publisher *recordingPublisher
	notifier  *recordingNotifier
	gateway   *fakeGateway

	stats      *StatisticsService
	hotelSvc   *HotelService
	roomSvc    *RoomService
	bookingSvc *BookingService
	couponSvc  *CouponService
	reviewSvc  *ReviewService

	hotel    *hotel.Hotel
	roomType *room.RoomType
	room     *room.Room
	guest    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	f := &fixture{
		now:       &now,
		bookings:  newFakeBookingRepo(),
		rooms:     newFakeRoomRepo(),
		hotels:    &fakeHotelRepo{},
		coupons:   newFakeCouponRepo(),
		reviews:   newFakeReviewRepo(),
		statsRepo: newFakeStatsRepo(),
		cache:     newFakeStatsCache(),
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
		gateway:   &fakeGateway{},
		guest:     uuid.New(),
	}
	f.roomTypes = fakeRoomTypeRepo{f.rooms}
	clock := func() time.Time { return *f.now }
	log := zap.NewNop()

	f.stats = NewStatisticsService(f.statsRepo, f.reviews, f.bookings, f.hotels, f.cache, clock, log)
	f.hotelSvc = NewHotelService(f.hotels, f.roomTypes, f.reviews, f.stats, clock, log)
	f.roomSvc = NewRoomService(f.hotels, f.roomTypes, f.rooms, f.bookings, clock, log)
	f.bookingSvc = NewBookingService(BookingServiceDeps{
		Bookings:  f.bookings,
		Rooms:     f.rooms,
		RoomTypes: f.roomTypes,
		Hotels:    f.hotels,
		Coupons:   f.coupons,
		Stats:     f.stats,
		Publisher: f.publisher,
		Notifier:  f.notifier,
		Gateway:   f.gateway,
	}, booking.DefaultTaxRatePercent, clock, log)
	f.couponSvc = NewCouponService(f.coupons, clock, log)
	f.reviewSvc = NewReviewService(f.reviews, f.bookings, f.hotels, f.stats, clock, log)

	ctx := context.Background()
	h, err := f.hotelSvc.CreateHotel(ctx, CreateHotelRequest{Name: "Hotel Yunuen", Email: "info@hotelyunuen.com"})
	require.NoError(t, err)
	f.hotel, err = f.hotels.FindByID(ctx, h.ID)
	require.NoError(t, err)

	rt, err := f.roomSvc.CreateRoomType(ctx, CreateRoomTypeRequest{
		HotelID:            h.ID,
		Name:               "Deluxe",
		Category:           "PREMIUM",
		PricePerNightCents: 120_000,
		NumberOfBeds:       1,
		Capacity:           3,
		TotalRooms:         2,
		Description:        "King bed",
	})
	require.NoError(t, err)
	f.roomType, err = f.roomTypes.FindByID(ctx, rt.ID)
	require.NoError(t, err)

	f.room = f.addRoom(t, "101")
	return f
}

func (f *fixture) addRoom(t *testing.T, number string) *room.Room {
	t.Helper()
	dto, err := f.roomSvc.CreateRoom(context.Background(), CreateRoomRequest{RoomTypeID: f.roomType.ID(), Number: number, Floor: 1})
	require.NoError(t, err)
	r, err := f.rooms.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	return r
}

func (f *fixture) addCoupon(t *testing.T, code string, maxUses int) *coupon.Coupon {
	t.Helper()
	dto, err := f.couponSvc.CreateCoupon(context.Background(), uuid.New(), CreateCouponRequest{
		Code:             code,
		DiscountType:     "PERCENTAGE",
		DiscountValue:    10,
		MinAmountCents:   100_000,
		MaxDiscountCents: 20_000,
		MaxUses:          maxUses,
		ValidFrom:        f.now.AddDate(0, -1, 0),
		ValidUntil:       f.now.AddDate(0, 2, 0),
	})
	require.NoError(t, err)
	c, err := f.coupons.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	return c
}

func (f *fixture) book(t *testing.T, in, out string, roomID uuid.UUID, code string) *BookingDTO {
	t.Helper()
	dto, err := f.bookingSvc.CreateBooking(context.Background(), f.guest, "guest@example.com", CreateBookingRequest{
		RoomID:     roomID,
		CheckIn:    in,
		CheckOut:   out,
		Adults:     2,
		CouponCode: code,
	})
	require.NoError(t, err)
	return dto
}
