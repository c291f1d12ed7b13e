package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Known values for the listing filter query param.
const (
	FilterPublic   = "public"
	FilterMyEvents = "my-events"
	FilterUpcoming = "upcoming"
)

// ListFilter selects which events a listing returns. RequesterID is nil for
// anonymous callers. An unrecognized Name means no restriction: every event
// is returned, matching the original listing behavior.
type ListFilter struct {
	Name        string
	RequesterID *uuid.UUID
}

// Conditions compiles the filter into SQL clauses (ANDed together) with
// sequential placeholders, against the events table aliased as e.
func (f ListFilter) Conditions(now time.Time) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch f.Name {
	case FilterPublic:
		clauses = append(clauses, "e.is_public", "e.date >= "+arg(now))
	case FilterMyEvents:
		if f.RequesterID == nil {
			// Anonymous callers own nothing: empty result, not an error.
			clauses = append(clauses, "FALSE")
		} else {
			clauses = append(clauses, "e.organizer_id = "+arg(*f.RequesterID))
		}
	case FilterUpcoming:
		clauses = append(clauses, "e.date >= "+arg(now))
		if f.RequesterID == nil {
			clauses = append(clauses, "e.is_public")
		}
	}
	return clauses, args
}
