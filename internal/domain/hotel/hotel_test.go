package hotel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestNewHotel(t *testing.T) {
	h, err := NewHotel(NewHotelParams{Name: "Hotel Yunuén Pátzcuaro", City: " Pátzcuaro "}, now)
	require.NoError(t, err)

	assert.Equal(t, "hotel-yunuen-patzcuaro", h.Slug())
	assert.Equal(t, "Pátzcuaro", h.City())
	assert.Equal(t, DefaultCheckInTime, h.CheckInTime())
	assert.Equal(t, DefaultCheckOutTime, h.CheckOutTime())
	assert.True(t, h.Active())

	h.WithSuffix("2")
	assert.Equal(t, "hotel-yunuen-patzcuaro-2", h.Slug())
}

func TestNewHotel_Validation(t *testing.T) {
	_, err := NewHotel(NewHotelParams{Name: "  "}, now)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = NewHotel(NewHotelParams{Name: "Casa", CheckInTime: "3pm"}, now)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	h, err := NewHotel(NewHotelParams{Name: "Casa", CheckInTime: "14:00", CheckOutTime: "11:30"}, now)
	require.NoError(t, err)
	assert.Equal(t, "14:00", h.CheckInTime())
	assert.Equal(t, "11:30", h.CheckOutTime())
}
