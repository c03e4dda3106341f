package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEvent_RoundTrip(t *testing.T) {
	type payload struct {
		BookingID string `json:"booking_id"`
		Total     int64  `json:"total_cents"`
	}

	ce, err := NewCloudEvent("service-reservation", "booking.created", payload{BookingID: "b-1", Total: 394400})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "booking.created", parsed.Type)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, payload{BookingID: "b-1", Total: 394400}, got)
}

func TestParseCloudEvent_RejectsUntyped(t *testing.T) {
	_, err := ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`not json`))
	assert.Error(t, err)
}
