package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-room-reservation/internal/model"
)

// EnrollmentRepo reads the `enrollments` and `tickets` tables that the
// ticketing subsystem owns. This service never writes to either; it
// only needs the read contract behind eligibility checks.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo returns a new EnrollmentRepo bound to the given database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// EnrollmentWithTicket pairs an enrollment with its most recent
// ticket. Ticket is nil when the enrollment exists but no ticket has
// been issued yet.
type EnrollmentWithTicket struct {
	Enrollment model.Enrollment
	Ticket     *model.Ticket
}

// FindByUserID loads the user's enrollment together with the most
// recently created ticket under it. ErrEnrollmentNotFound is returned
// when the user has no enrollment record at all.
func (r *EnrollmentRepo) FindByUserID(ctx context.Context, userID uint64) (*EnrollmentWithTicket, error) {
	const q = `SELECT id, user_id, created_at FROM enrollments WHERE user_id = ? LIMIT 1`
	var out EnrollmentWithTicket
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&out.Enrollment.ID, &out.Enrollment.UserID, &out.Enrollment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	const tq = `SELECT id, enrollment_id, ticket_type_id, status, created_at
				FROM tickets
				WHERE enrollment_id = ?
				ORDER BY created_at DESC, id DESC
				LIMIT 1`
	var t model.Ticket
	err = r.db.QueryRowContext(ctx, tq, out.Enrollment.ID).Scan(
		&t.ID, &t.EnrollmentID, &t.TicketTypeID, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Enrollment without a ticket: a valid, merely ineligible state.
			return &out, nil
		}
		return nil, err
	}
	out.Ticket = &t
	return &out, nil
}
