package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-room-reservation/internal/model"
)

// HotelRepo reads the `hotels` table. Hotels are provisioned by an
// external subsystem; only listing and existence checks are needed
// here, for the public browse endpoints.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// List returns all hotels ordered by name.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, name, image FROM hotels ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// Exists reports whether a hotel with the given ID exists.
func (r *HotelRepo) Exists(ctx context.Context, hotelID uint64) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS(SELECT 1 FROM hotels WHERE id = ?)`
	if err := r.db.QueryRowContext(ctx, q, hotelID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
