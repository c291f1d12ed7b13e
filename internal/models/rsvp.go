package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVPStatus is a registration status. The register flow only ever creates
// attending RSVPs; the other values exist for forward compatibility.
type RSVPStatus string

const (
	StatusAttending    RSVPStatus = "attending"
	StatusNotAttending RSVPStatus = "not_attending"
	StatusMaybe        RSVPStatus = "maybe"
)

// RSVP links one user to one event. At most one RSVP exists per
// (event, user) pair, enforced by a unique index.
type RSVP struct {
	ID        uuid.UUID  `json:"id"`
	EventID   uuid.UUID  `json:"event_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Registration is an RSVP joined with its event for the caller's
// registrations listing.
type Registration struct {
	ID        uuid.UUID         `json:"id"`
	Status    RSVPStatus        `json:"status"`
	Event     RegistrationEvent `json:"event"`
	CreatedAt time.Time         `json:"created_at"`
}

// RegistrationEvent is the event summary embedded in a Registration.
type RegistrationEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Organizer   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"organizer"`
}
