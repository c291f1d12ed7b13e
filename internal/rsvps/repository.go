package rsvps

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evently/backend/internal/models"
)

// Repository handles RSVP persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an RSVP repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertAttending creates an attending RSVP in a single conditional insert:
// the row only materializes while the current attending count is still below
// the event's capacity, so two racing registrations cannot overshoot it. The
// unique index on (event_id, user_id) rejects duplicates regardless of races.
func (r *Repository) InsertAttending(ctx context.Context, eventID, userID uuid.UUID) (*models.RSVP, error) {
	const q = `INSERT INTO rsvps (event_id, user_id, status)
		SELECT e.id, $2, 'attending'
		FROM events e
		WHERE e.id = $1
		  AND (e.capacity IS NULL OR
		       (SELECT COUNT(*) FROM rsvps x WHERE x.event_id = e.id AND x.status = 'attending') < e.capacity)
		RETURNING id, event_id, user_id, status, created_at, updated_at`
	var v models.RSVP
	err := r.pool.QueryRow(ctx, q, eventID, userID).
		Scan(&v.ID, &v.EventID, &v.UserID, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Capacity filled (or the event vanished) between the service's
		// pre-check and the insert.
		return nil, ErrCapacityExceeded
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return &v, nil
}

// Exists reports whether an RSVP exists for the (event, user) pair.
func (r *Repository) Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM rsvps WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, eventID, userID).Scan(&exists)
	return exists, err
}

// Delete removes the RSVP for the (event, user) pair, reporting whether one
// existed. Deleting an absent RSVP is not an error here.
func (r *Repository) Delete(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	const q = `DELETE FROM rsvps WHERE event_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, eventID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's registrations newest first, each joined with
// its event and the event's organizer. Events are removed with their RSVPs
// (FK cascade), so every row here has a live event.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	const q = `SELECT v.id, v.status, v.created_at,
		e.id, e.title, e.description, e.date, e.time, e.location,
		u.name, u.email
		FROM rsvps v
		JOIN events e ON e.id = v.event_id
		JOIN users u ON u.id = e.organizer_id
		WHERE v.user_id = $1
		ORDER BY v.created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.Status, &reg.CreatedAt,
			&reg.Event.ID, &reg.Event.Title, &reg.Event.Description, &reg.Event.Date, &reg.Event.Time, &reg.Event.Location,
			&reg.Event.Organizer.Name, &reg.Event.Organizer.Email); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}
