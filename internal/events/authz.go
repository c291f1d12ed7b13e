package events

import (
	"github.com/google/uuid"

	"github.com/evently/backend/internal/models"
)

// CanModify reports whether the requester may update or delete the event.
// Only the organizer who owns the event may mutate it. Authentication is
// checked before this (middleware), and event existence after loading, so
// 401 / 403 / 404 stay distinguishable at the handler.
func CanModify(e *models.Event, requesterID uuid.UUID) bool {
	return e.OrganizerID == requesterID
}

// CanView reports whether the requester may fetch the event. The read path
// is unrestricted: any caller, anonymous included, may fetch any event by
// id, private ones too. Deliberately permissive; tightening it would break
// clients that share private event links.
func CanView(e *models.Event, requesterID uuid.UUID) bool {
	return true
}
