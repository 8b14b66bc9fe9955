// Package service contains the reservation engine: the rules deciding
// whether a reservation attempt succeeds, how capacity is claimed and
// compensated under failure, and how a booking moves between rooms.
// The engine depends on narrow interfaces rather than concrete
// repositories so that tests can substitute in-memory fakes.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/event-room-reservation/internal/model"
	"github.com/iliyamo/event-room-reservation/internal/repository"
)

// RoomLedger is the capacity side of room storage. TryReserve and
// Release must be atomic with respect to concurrent callers on the
// same room; the engine never reads capacity and writes it back.
type RoomLedger interface {
	GetByID(ctx context.Context, roomID uint64) (*model.Room, error)
	TryReserve(ctx context.Context, roomID uint64) error
	Release(ctx context.Context, roomID uint64) error
}

// BookingStore persists the single active booking per user.
type BookingStore interface {
	GetByUser(ctx context.Context, userID uint64) (*model.Booking, error)
	GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error)
	Create(ctx context.Context, userID, roomID uint64) (*model.Booking, error)
	ReassignRoom(ctx context.Context, bookingID, newRoomID uint64) (*model.Booking, error)
}

// EnrollmentLookup is the read contract of the ticketing subsystem.
type EnrollmentLookup interface {
	FindByUserID(ctx context.Context, userID uint64) (*repository.EnrollmentWithTicket, error)
}

// TicketTypeLookup resolves ticket types referenced by tickets.
type TicketTypeLookup interface {
	GetByID(ctx context.Context, ticketTypeID uint64) (*model.TicketType, error)
}

// ReservationService orchestrates eligibility, capacity and booking
// persistence. All entry points are safe under arbitrary interleaving
// from concurrent callers: the only shared mutable state is room
// capacity, and every mutation of it goes through the ledger's atomic
// operations.
type ReservationService struct {
	rooms       RoomLedger
	bookings    BookingStore
	enrollments EnrollmentLookup
	ticketTypes TicketTypeLookup
}

// NewReservationService constructs a ReservationService. All
// dependencies must be non-nil.
func NewReservationService(rooms RoomLedger, bookings BookingStore, enrollments EnrollmentLookup, ticketTypes TicketTypeLookup) *ReservationService {
	if rooms == nil || bookings == nil || enrollments == nil || ticketTypes == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		rooms:       rooms,
		bookings:    bookings,
		enrollments: enrollments,
		ticketTypes: ticketTypes,
	}
}

// GetBooking returns the user's active booking together with its room.
// It fails with repository.ErrBookingNotFound when the user holds none.
func (s *ReservationService) GetBooking(ctx context.Context, userID uint64) (*model.Booking, *model.Room, error) {
	b, err := s.bookings.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	room, err := s.rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return nil, nil, err
	}
	return b, room, nil
}

// CreateBooking reserves a room slot for the user and persists the
// booking. Failure modes, in evaluation order:
//
//   - repository.ErrRoomNotFound        when the room does not exist
//   - repository.ErrEnrollmentNotFound  when the user is not enrolled
//   - repository.ErrNotEligible         when the ticket is remote,
//     excludes hotel, is unpaid, or the room has no capacity left
//   - repository.ErrConflict            when the user already holds a
//     booking
//   - repository.ErrRoomFull            when a concurrent caller won
//     the race for the last slot
//
// The capacity decrement and the booking insert form one logical unit:
// if the insert fails after TryReserve succeeded, the claimed slot is
// released again so no capacity is stranded.
func (s *ReservationService) CreateBooking(ctx context.Context, userID, roomID uint64) (*model.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEligibility(ctx, userID); err != nil {
		return nil, err
	}
	// An already-empty room is reported exactly like an ineligible
	// ticket. Callers wanting finer diagnostics must live with this;
	// it is the platform's established contract.
	if room.Capacity < 1 {
		return nil, repository.ErrNotEligible
	}
	if _, err := s.bookings.GetByUser(ctx, userID); err == nil {
		return nil, repository.ErrConflict
	} else if !errors.Is(err, repository.ErrBookingNotFound) {
		return nil, err
	}
	if err := s.rooms.TryReserve(ctx, roomID); err != nil {
		return nil, err
	}
	b, err := s.bookings.Create(ctx, userID, roomID)
	if err != nil {
		// Compensate: the slot was claimed but no booking references
		// it, so hand it back before propagating the failure.
		if relErr := s.rooms.Release(ctx, roomID); relErr != nil {
			log.Printf("reservation: compensating release of room %d failed: %v", roomID, relErr)
		}
		return nil, err
	}
	return b, nil
}

// ChangeRoom moves an existing booking to another room. A user without
// any booking has no standing to modify one and gets
// repository.ErrForbidden, regardless of whether bookingID and roomID
// reference valid entities. Missing target room or booking yield
// repository.ErrRoomNotFound / ErrBookingNotFound, and a full target
// room yields ErrForbidden. Eligibility is deliberately not
// re-checked: the ticket was validated when the booking was created.
//
// The move claims the new room first, then commits the reassignment,
// then releases the old room. A failure before the commit releases
// the new room again; the old room's slot is only handed back once the
// booking no longer references it, so tracked capacity never goes net
// negative.
func (s *ReservationService) ChangeRoom(ctx context.Context, userID, bookingID, newRoomID uint64) (*model.Booking, error) {
	if _, err := s.bookings.GetByUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, repository.ErrForbidden
		}
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, newRoomID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if room.Capacity < 1 {
		return nil, repository.ErrForbidden
	}
	oldRoomID := booking.RoomID
	if err := s.rooms.TryReserve(ctx, newRoomID); err != nil {
		if errors.Is(err, repository.ErrRoomFull) {
			return nil, repository.ErrForbidden
		}
		return nil, err
	}
	updated, err := s.bookings.ReassignRoom(ctx, bookingID, newRoomID)
	if err != nil {
		if relErr := s.rooms.Release(ctx, newRoomID); relErr != nil {
			log.Printf("reservation: compensating release of room %d failed: %v", newRoomID, relErr)
		}
		return nil, err
	}
	// The booking now points at the new room; the old slot is free.
	// A failed release over-holds the old room, which is the safe
	// direction, so it is logged rather than propagated.
	if err := s.rooms.Release(ctx, oldRoomID); err != nil {
		log.Printf("reservation: release of previous room %d failed: %v", oldRoomID, err)
	}
	return updated, nil
}

// checkEligibility applies the reservation rule to the user's most
// recent ticket: it must exist, be in-person, include hotel
// accommodation and be paid. A missing enrollment surfaces as
// ErrEnrollmentNotFound — missing upstream state, not ineligibility.
func (s *ReservationService) checkEligibility(ctx context.Context, userID uint64) error {
	enr, err := s.enrollments.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if enr.Ticket == nil {
		return repository.ErrNotEligible
	}
	tt, err := s.ticketTypes.GetByID(ctx, enr.Ticket.TicketTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return repository.ErrNotEligible
		}
		return err
	}
	if tt.IsRemote || !tt.IncludesHotel || enr.Ticket.Status != model.TicketStatusPaid {
		return repository.ErrNotEligible
	}
	return nil
}
