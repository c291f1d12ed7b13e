package rsvps

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/evently/backend/internal/events"
	"github.com/evently/backend/internal/models"
)

var (
	// ErrEventNotFound is returned when the target event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventInPast is returned when the event date has passed.
	ErrEventInPast = errors.New("cannot register for past events")
	// ErrCapacityExceeded is returned when the event is full.
	ErrCapacityExceeded = errors.New("event is at full capacity")
	// ErrAlreadyRegistered is returned when an RSVP for the pair exists.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrNotRegistered is returned on cancel when no RSVP exists for the
	// pair. Distinct from ErrEventNotFound.
	ErrNotRegistered = errors.New("rsvp not found")
)

// EventGetter loads events for precondition checks.
type EventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// Store persists RSVPs. InsertAttending must be atomic with respect to
// capacity: it succeeds only while the attending count is below the event's
// capacity, and returns ErrAlreadyRegistered when the (event, user) pair
// already exists. A separate read-count-then-write pair is not a valid
// implementation.
type Store interface {
	InsertAttending(ctx context.Context, eventID, userID uuid.UUID) (*models.RSVP, error)
	Exists(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// Service decides whether a registration may be created or cancelled and
// performs the mutation. Authentication is enforced before the service by
// middleware.
type Service struct {
	events EventGetter
	store  Store
	now    func() time.Time
}

// NewService creates a registration service.
func NewService(events EventGetter, store Store) *Service {
	return &Service{events: events, store: store, now: time.Now}
}

// Register creates an attending RSVP for the user. Preconditions are
// checked in a fixed order so the reported error is deterministic: event
// exists, event not in the past, capacity not reached, not already
// registered. The checks only fix error ordering; the insert itself
// re-validates capacity and uniqueness atomically, which is what holds
// under concurrent registrations.
//
// Organizers are not prevented from registering for their own events.
func (s *Service) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.RSVP, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, events.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if e.Date.Before(s.now()) {
		return nil, ErrEventInPast
	}
	if e.Capacity != nil && e.AttendeeCount >= *e.Capacity {
		return nil, ErrCapacityExceeded
	}

	exists, err := s.store.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	return s.store.InsertAttending(ctx, eventID, userID)
}

// Cancel removes the user's RSVP for the event. Removal is idempotent at
// the storage layer; a missing RSVP is reported as ErrNotRegistered.
func (s *Service) Cancel(ctx context.Context, eventID, userID uuid.UUID) error {
	found, err := s.store.Delete(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotRegistered
	}
	return nil
}
