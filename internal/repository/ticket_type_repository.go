package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-room-reservation/internal/model"
)

// TicketTypeRepo reads the `ticket_types` table owned by the ticketing
// subsystem.
type TicketTypeRepo struct {
	db *sql.DB
}

// NewTicketTypeRepo returns a new TicketTypeRepo bound to the given database.
func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{db: db} }

// GetByID loads a ticket type, returning ErrTicketTypeNotFound when no
// row exists.
func (r *TicketTypeRepo) GetByID(ctx context.Context, ticketTypeID uint64) (*model.TicketType, error) {
	const q = `SELECT id, name, price_cents, is_remote, includes_hotel
			   FROM ticket_types WHERE id = ?`
	var tt model.TicketType
	err := r.db.QueryRowContext(ctx, q, ticketTypeID).Scan(
		&tt.ID, &tt.Name, &tt.PriceCents, &tt.IsRemote, &tt.IncludesHotel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, err
	}
	return &tt, nil
}
