package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a scheduled event. AttendeeCount is derived from
// attending RSVPs at read time; there is no stored attendee list.
type Event struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	Time          string     `json:"time"`
	Location      string     `json:"location"`
	OrganizerID   uuid.UUID  `json:"-"`
	Organizer     UserPublic `json:"organizer"`
	Capacity      *int       `json:"capacity,omitempty"` // nil = unlimited
	IsPublic      bool       `json:"isPublic"`
	AttendeeCount int        `json:"attendeeCount"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EventDetail is Event plus the attendee list, returned by the single-event fetch.
type EventDetail struct {
	Event
	Attendees []UserPublic `json:"attendees"`
}
