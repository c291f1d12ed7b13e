package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evently/backend/internal/models"
)

// ErrNotFound is returned when no event matches.
var ErrNotFound = errors.New("event not found")

const selectEvent = `SELECT e.id, e.title, e.description, e.date, e.time, e.location,
	e.organizer_id, e.capacity, e.is_public, e.created_at, e.updated_at,
	u.name, u.email,
	(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id AND r.status = 'attending') AS attendee_count
	FROM events e
	JOIN users u ON u.id = e.organizer_id`

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event owned by organizerID.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (title, description, date, time, location, organizer_id, capacity, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Description, e.Date, e.Time, e.Location, e.OrganizerID, e.Capacity, e.IsPublic).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event with its organizer profile and attendee count.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	row := r.pool.QueryRow(ctx, selectEvent+" WHERE e.id = $1", id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns events matching the filter, sorted by date ascending.
func (r *Repository) List(ctx context.Context, f ListFilter, now time.Time) ([]models.Event, error) {
	q := selectEvent
	clauses, args := f.Conditions(now)
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY e.date ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// ListAttendees returns public profiles of users with an attending RSVP,
// oldest registration first.
func (r *Repository) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]models.UserPublic, error) {
	const q = `SELECT u.id, u.name, u.email
		FROM rsvps r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status = 'attending'
		ORDER BY r.created_at`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpdateParams holds the whitelisted mutable event fields. Nil pointers
// leave the stored value unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	Capacity    *int
	IsPublic    *bool
}

// Update applies the given fields to an event in one statement.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) error {
	const q = `UPDATE events SET
		title = COALESCE($1, title),
		description = COALESCE($2, description),
		date = COALESCE($3, date),
		time = COALESCE($4, time),
		location = COALESCE($5, location),
		capacity = COALESCE($6, capacity),
		is_public = COALESCE($7, is_public),
		updated_at = NOW()
		WHERE id = $8`
	_, err := r.pool.Exec(ctx, q, p.Title, p.Description, p.Date, p.Time, p.Location, p.Capacity, p.IsPublic, id)
	return err
}

// Delete removes an event. RSVPs referencing it go with it (FK cascade),
// so the delete and its cascade are one unit.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.OrganizerID, &e.Capacity, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt,
		&e.Organizer.Name, &e.Organizer.Email, &e.AttendeeCount)
	if err != nil {
		return nil, err
	}
	e.Organizer.ID = e.OrganizerID
	return &e, nil
}
