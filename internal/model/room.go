package model

import "time"

// Room represents a reservable hotel room as stored in the `rooms`
// table.  The capacity column holds the number of slots still
// available, not the provisioned total: it is decremented when a
// booking claims the room and incremented when a booking moves
// away.  It never goes below zero — all mutation flows through the
// conditional update in RoomRepo.
//
// Fields:
//  ID        – primary key identifier.
//  HotelID   – hotel to which the room belongs.
//  Name      – room label (e.g. "101").
//  Capacity  – remaining reservable slots (>= 0).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    // rooms.id
	HotelID   uint64    // rooms.hotel_id
	Name      string    // rooms.name
	Capacity  uint32    // rooms.capacity
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}

// Hotel represents a row in the `hotels` table.  Hotels and their
// rooms are provisioned by an external subsystem; this service only
// reads them.
//
// Fields:
//  ID    – primary key identifier.
//  Name  – hotel display name.
//  Image – URL of the hotel's cover image.
type Hotel struct {
	ID    uint64 // hotels.id
	Name  string // hotels.name
	Image string // hotels.image
}
