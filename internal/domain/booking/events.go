package booking

// Booking event types published on TopicBookingEvents.
const (
	TopicBookingEvents = "hotel.booking.events"

	EventCreated   = "booking.created"
	EventPaid      = "booking.paid"
	EventConfirmed = "booking.confirmed"
	EventCancelled = "booking.cancelled"
	EventRefunded  = "booking.refunded"
)
