package model

import "time"

// Booking records a user's room reservation.  A user holds at most
// one active booking; the `bookings.user_id` column carries a
// unique index to back that rule at the storage level.  Bookings
// are never deleted by this service — ChangeRoom only rewrites the
// room_id column.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the booking (unique across active bookings).
//  RoomID    – currently assigned room.
//  Reference – opaque public reference returned to clients.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	RoomID    uint64    // bookings.room_id
	Reference string    // bookings.reference
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}
