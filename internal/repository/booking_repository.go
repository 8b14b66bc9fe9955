package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/event-room-reservation/internal/model"
)

// BookingRepo provides data access to the `bookings` table: the
// durable record of the single active booking per user. It never
// touches room capacity — the reservation service orchestrates
// capacity claims and releases around these calls.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, room_id, reference, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.Reference, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByUser returns the user's active booking, or ErrBookingNotFound
// when the user holds none.
func (r *BookingRepo) GetByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? LIMIT 1`
	return scanBooking(r.db.QueryRowContext(ctx, q, userID))
}

// GetByID returns a booking by its primary key, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
}

// Create inserts a booking row for the user and returns the stored
// record. The caller must have claimed room capacity first. The
// unique index on user_id backs the one-booking-per-user rule even
// under concurrent creates; a duplicate insert surfaces as
// ErrConflict so the service can release the claimed slot.
func (r *BookingRepo) Create(ctx context.Context, userID, roomID uint64) (*model.Booking, error) {
	ref := uuid.NewString()
	const q = `INSERT INTO bookings (user_id, room_id, reference) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, userID, roomID, ref)
	if err != nil {
		// MySQL 1062 = duplicate entry on the user_id unique index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, sel, uint64(id)))
}

// ReassignRoom rewrites the booking's room_id in place and returns the
// updated record. Capacity on both rooms is the caller's concern.
// ErrBookingNotFound is returned when the booking does not exist.
func (r *BookingRepo) ReassignRoom(ctx context.Context, bookingID, newRoomID uint64) (*model.Booking, error) {
	const q = `UPDATE bookings SET room_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, newRoomID, bookingID)
	if err != nil {
		return nil, err
	}
	// RowsAffected is zero both when the row is missing and when the
	// room_id already matched, so check existence rather than the count.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		const check = `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, check, bookingID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrBookingNotFound
		}
	}
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, sel, bookingID))
}
