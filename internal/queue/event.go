// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// EventTypeBookingCreated and EventTypeBookingRoomChanged identify the two
// message kinds published to the booking.events queue.
const (
	EventTypeBookingCreated     = "booking.created"
	EventTypeBookingRoomChanged = "booking.room_changed"
)

// BookingEvent is published when a booking is created or moved to another
// room. It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
// EventID is a UUID for correlation and deduplication; PrevRoomID is zero
// for creation events.
type BookingEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id"`
	Reference  string `json:"reference"`
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	PrevRoomID uint64 `json:"prev_room_id,omitempty"`
	HotelID    uint64 `json:"hotel_id"`
	OccurredAt string `json:"occurred_at"`
}
