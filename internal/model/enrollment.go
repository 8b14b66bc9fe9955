package model

import "time"

// Ticket status values as stored in the `tickets.status` column.
const (
	TicketStatusReserved = "RESERVED" // ticket chosen but not yet paid
	TicketStatusPaid     = "PAID"     // payment confirmed
)

// Enrollment represents a user's registration for the event, as
// stored in the `enrollments` table.  Enrollments and their tickets
// are owned by an external subsystem; this service only reads them
// to decide reservation eligibility.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – enrolled user.
//  CreatedAt – creation timestamp.
type Enrollment struct {
	ID        uint64    // enrollments.id
	UserID    uint64    // enrollments.user_id
	CreatedAt time.Time // enrollments.created_at
}

// Ticket is a purchased (or merely reserved) ticket under an
// enrollment.  An enrollment may accumulate several tickets over
// time; eligibility checks use the most recent one.
//
// Fields:
//  ID           – primary key identifier.
//  EnrollmentID – owning enrollment.
//  TicketTypeID – the ticket type purchased.
//  Status       – RESERVED or PAID.
//  CreatedAt    – creation timestamp.
type Ticket struct {
	ID           uint64    // tickets.id
	EnrollmentID uint64    // tickets.enrollment_id
	TicketTypeID uint64    // tickets.ticket_type_id
	Status       string    // tickets.status
	CreatedAt    time.Time // tickets.created_at
}

// TicketType describes a purchasable ticket category.  IsRemote and
// IncludesHotel drive the eligibility rule: only in-person,
// hotel-inclusive tickets may reserve a room.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the ticket type.
//  PriceCents    – price in cents.
//  IsRemote      – true for online attendance tickets.
//  IncludesHotel – true when the ticket covers hotel accommodation.
type TicketType struct {
	ID            uint64 // ticket_types.id
	Name          string // ticket_types.name
	PriceCents    uint32 // ticket_types.price_cents
	IsRemote      bool   // ticket_types.is_remote
	IncludesHotel bool   // ticket_types.includes_hotel
}
