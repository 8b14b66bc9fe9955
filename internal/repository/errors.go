// Package repository defines error types that are reused across multiple
// repositories and by the reservation service. These sentinel values allow
// higher layers such as handlers to distinguish between different failure
// scenarios. For example, ErrNotEligible indicates that the user's ticket
// disqualifies a new reservation, while ErrRoomFull signals that a
// concurrent caller claimed the last slot of a room.
package repository

import "errors"

// ErrRoomNotFound is returned when the referenced room does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when the referenced booking does not
// exist, or when the user has no booking to look up. Handlers should
// translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEnrollmentNotFound is returned when the user has no enrollment
// record. This is missing upstream state rather than a disqualifying
// ticket, so it maps to 404 and never to the eligibility conflict.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrTicketTypeNotFound is returned when a ticket references a ticket
// type that does not exist.
var ErrTicketTypeNotFound = errors.New("ticket type not found")

// ErrNotEligible is returned when the user's most recent ticket is
// remote, excludes hotel accommodation, or has not been paid. An
// out-of-capacity room at creation time is reported through the same
// error on purpose, matching the platform's established behavior.
// Handlers should translate this into an HTTP 409 response.
var ErrNotEligible = errors.New("ticket does not allow a room reservation")

// ErrRoomFull is returned when the atomic capacity decrement loses the
// race for a room's last slot. It is an internal signal: the service
// surfaces it through the same outcome class as ErrNotEligible at
// creation time and ErrForbidden during a room change.
var ErrRoomFull = errors.New("room has no remaining capacity")

// ErrForbidden is returned when the caller has no standing to perform
// an operation, such as changing a room without holding any booking.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as creating a second booking for a user that
// already holds one. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")
