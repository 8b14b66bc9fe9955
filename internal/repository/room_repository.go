package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-room-reservation/internal/model"
)

// RoomRepo provides data access to the `rooms` table and is the sole
// authority for room capacity accounting. Capacity lives in a single
// column holding the remaining slot count; both mutations below are
// single-statement conditional updates so that concurrent callers
// serialize at the database row. No code path may read capacity and
// write it back in a second statement.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID loads a single room. It returns ErrRoomNotFound when no row
// exists for the given ID.
func (r *RoomRepo) GetByID(ctx context.Context, roomID uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, name, capacity, created_at, updated_at
			   FROM rooms WHERE id = ?`
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, roomID).Scan(
		&rm.ID, &rm.HotelID, &rm.Name, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// TryReserve atomically claims one slot of the room. The conditional
// UPDATE checks and decrements capacity in a single statement, so two
// concurrent callers against a room with one slot left yield exactly
// one success: the loser matches zero rows and gets ErrRoomFull.
// ErrRoomNotFound is returned when the room does not exist at all.
func (r *RoomRepo) TryReserve(ctx context.Context, roomID uint64) error {
	const q = `UPDATE rooms SET capacity = capacity - 1 WHERE id = ? AND capacity > 0`
	res, err := r.db.ExecContext(ctx, q, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Zero rows means either the room is out of capacity or it does not
	// exist. Distinguish with a follow-up existence check.
	var exists bool
	const check = `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)`
	if err := r.db.QueryRowContext(ctx, check, roomID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRoomNotFound
	}
	return ErrRoomFull
}

// Release atomically returns one slot to the room. It is used when a
// booking is reassigned away from a room and as the compensating
// action when a booking insert fails after TryReserve succeeded.
// ErrRoomNotFound is returned when the room does not exist.
func (r *RoomRepo) Release(ctx context.Context, roomID uint64) error {
	const q = `UPDATE rooms SET capacity = capacity + 1 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// RoomAvailability is a room row joined with its current occupant
// count, returned by ListByHotel for the public browse endpoints.
type RoomAvailability struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
	Booked   uint32 `json:"booked"`
}

// ListByHotel returns all rooms of a hotel together with the number of
// active bookings referencing each room. Rooms with no bookings are
// included with a zero count. ErrRoomNotFound is never returned here;
// an unknown hotel simply yields an empty slice, and callers that need
// to distinguish should check hotel existence first.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]RoomAvailability, error) {
	const q = `SELECT r.id, r.name, r.capacity, COUNT(b.id)
			   FROM rooms r
			   LEFT JOIN bookings b ON b.room_id = r.id
			   WHERE r.hotel_id = ?
			   GROUP BY r.id, r.name, r.capacity
			   ORDER BY r.name`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomAvailability, 0)
	for rows.Next() {
		var a RoomAvailability
		if err := rows.Scan(&a.ID, &a.Name, &a.Capacity, &a.Booked); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
