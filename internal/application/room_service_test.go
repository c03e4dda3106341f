package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

func TestCreateRoomType_UnknownHotel(t *testing.T) {
	f := newFixture(t)
	_, err := f.roomSvc.CreateRoomType(context.Background(), CreateRoomTypeRequest{
		HotelID: uuid.New(), Name: "Suite", PricePerNightCents: 1, NumberOfBeds: 1, Capacity: 1, TotalRooms: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.addRoom(t, "102")

	av, err := f.roomSvc.CheckAvailability(ctx, f.roomType.ID(), "2024-06-01", "2024-06-04")
	require.NoError(t, err)
	assert.True(t, av.Available)
	assert.Equal(t, 2, av.AvailableCount)
	assert.Equal(t, 3, av.Nights)
	assert.Equal(t, int64(360_000), av.TotalPriceCents)

	dto := f.book(t, "2024-06-02", "2024-06-03", f.room.ID(), "")
	_, err = f.bookingSvc.MarkPaid(ctx, dto.ID)
	require.NoError(t, err)

	av, err = f.roomSvc.CheckAvailability(ctx, f.roomType.ID(), "2024-06-01", "2024-06-04")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID()}, av.AvailableRoomIDs)

	_, err = f.roomSvc.CheckAvailability(ctx, f.roomType.ID(), "2024-06-04", "2024-06-04")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestGetRoomType_AvailableCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRoom(t, "102")

	_, err := f.roomSvc.SetRoomStatus(ctx, f.room.ID(), "cleaning")
	require.NoError(t, err)

	detail, err := f.roomSvc.GetRoomType(ctx, f.roomType.ID(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.AvailableRoomsCount)
	assert.Equal(t, room.CategoryPremium, detail.Category)

	_, err = f.roomSvc.SetRoomStatus(ctx, f.room.ID(), "broken")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestParseStay(t *testing.T) {
	stay, err := ParseStay("", "")
	require.NoError(t, err)
	assert.Nil(t, stay)

	stay, err = ParseStay("2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, 2, stay.Nights())

	_, err = ParseStay("2024-06-01", "")
	assert.Error(t, err)
}

func TestListRoomTypes_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.roomSvc.CreateRoomType(ctx, CreateRoomTypeRequest{
		HotelID: f.hotel.ID(), Name: "Sencilla", Category: "BASIC", PricePerNightCents: 60_000,
		NumberOfBeds: 1, Capacity: 1, TotalRooms: 4, Description: "Single bed",
	})
	require.NoError(t, err)

	all, err := f.roomSvc.ListRoomTypes(ctx, RoomTypeQuery{OrderBy: room.OrderPriceAsc})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Sencilla", all[0].Name)

	big, err := f.roomSvc.ListRoomTypes(ctx, RoomTypeQuery{MinCapacity: 2})
	require.NoError(t, err)
	require.Len(t, big, 1)
	assert.Equal(t, "Deluxe", big[0].Name)

	cheap, err := f.roomSvc.ListRoomTypes(ctx, RoomTypeQuery{MaxPrice: 100_000})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "Sencilla", cheap[0].Name)
}

func TestReconcileRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto := f.book(t, "2024-05-21", "2024-05-23", f.room.ID(), "")
	_, err := f.bookingSvc.MarkPaid(ctx, dto.ID)
	require.NoError(t, err)

	r, err := f.rooms.FindByID(ctx, f.room.ID())
	require.NoError(t, err)
	assert.Equal(t, room.StatusAvailable, r.Status(), "stay has not started yet")

	*f.now = time.Date(2024, 5, 21, 0, 5, 0, 0, time.UTC)
	changed, err := f.roomSvc.ReconcileRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	r, err = f.rooms.FindByID(ctx, f.room.ID())
	require.NoError(t, err)
	assert.Equal(t, room.StatusOccupied, r.Status())

	changed, err = f.roomSvc.ReconcileRooms(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	*f.now = time.Date(2024, 5, 24, 0, 5, 0, 0, time.UTC)
	changed, err = f.roomSvc.ReconcileRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	r, err = f.rooms.FindByID(ctx, f.room.ID())
	require.NoError(t, err)
	assert.Equal(t, room.StatusAvailable, r.Status())
	assert.True(t, r.Available())
}
