package rsvps

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/backend/internal/events"
	"github.com/evently/backend/internal/models"
)

type fakeEvents struct {
	byID map[uuid.UUID]*models.Event
}

func (f *fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

type pair struct{ event, user uuid.UUID }

// fakeStore mimics the conditional insert plus unique index semantics of the
// Postgres repository, and keeps the event's attendee count in step.
type fakeStore struct {
	events    *fakeEvents
	rsvps     map[pair]*models.RSVP
	insertErr error // forces the insert outcome, simulating a lost race
}

func newFakeStore(fe *fakeEvents) *fakeStore {
	return &fakeStore{events: fe, rsvps: make(map[pair]*models.RSVP)}
}

func (f *fakeStore) InsertAttending(_ context.Context, eventID, userID uuid.UUID) (*models.RSVP, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	key := pair{eventID, userID}
	if _, ok := f.rsvps[key]; ok {
		return nil, ErrAlreadyRegistered
	}
	e, ok := f.events.byID[eventID]
	if !ok {
		return nil, ErrCapacityExceeded
	}
	if e.Capacity != nil && e.AttendeeCount >= *e.Capacity {
		return nil, ErrCapacityExceeded
	}
	v := &models.RSVP{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
		Status:  models.StatusAttending,
	}
	f.rsvps[key] = v
	e.AttendeeCount++
	return v, nil
}

func (f *fakeStore) Exists(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	_, ok := f.rsvps[pair{eventID, userID}]
	return ok, nil
}

func (f *fakeStore) Delete(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	key := pair{eventID, userID}
	if _, ok := f.rsvps[key]; !ok {
		return false, nil
	}
	delete(f.rsvps, key)
	if e, ok := f.events.byID[eventID]; ok {
		e.AttendeeCount--
	}
	return true, nil
}

// deleteEvent mirrors the FK cascade: the event and every RSVP referencing
// it go together, as one unit.
func (f *fakeStore) deleteEvent(eventID uuid.UUID) {
	delete(f.events.byID, eventID)
	for k := range f.rsvps {
		if k.event == eventID {
			delete(f.rsvps, k)
		}
	}
}

// listEventIDs mirrors the registrations listing join: only RSVPs whose
// event still exists produce a row.
func (f *fakeStore) listEventIDs(userID uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for k := range f.rsvps {
		if k.user != userID {
			continue
		}
		if _, ok := f.events.byID[k.event]; ok {
			ids = append(ids, k.event)
		}
	}
	return ids
}

func (f *fakeStore) attendingCount(eventID uuid.UUID) int {
	n := 0
	for k, v := range f.rsvps {
		if k.event == eventID && v.Status == models.StatusAttending {
			n++
		}
	}
	return n
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(evs ...*models.Event) (*Service, *fakeEvents, *fakeStore) {
	fe := &fakeEvents{byID: make(map[uuid.UUID]*models.Event)}
	for _, e := range evs {
		fe.byID[e.ID] = e
	}
	fs := newFakeStore(fe)
	svc := NewService(fe, fs)
	svc.now = func() time.Time { return testNow }
	return svc, fe, fs
}

func futureEvent(capacity *int) *models.Event {
	return &models.Event{
		ID:       uuid.New(),
		Title:    "Go Meetup",
		Date:     testNow.AddDate(0, 0, 7),
		Capacity: capacity,
		IsPublic: true,
	}
}

func TestRegister_Success(t *testing.T) {
	e := futureEvent(nil)
	svc, fe, fs := newTestService(e)
	user := uuid.New()

	rsvp, err := svc.Register(context.Background(), e.ID, user)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAttending, rsvp.Status)
	assert.Equal(t, e.ID, rsvp.EventID)
	assert.Equal(t, user, rsvp.UserID)
	assert.Equal(t, 1, fe.byID[e.ID].AttendeeCount)
	assert.Equal(t, fe.byID[e.ID].AttendeeCount, fs.attendingCount(e.ID))
}

func TestRegister_EventNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegister_PastEvent(t *testing.T) {
	e := futureEvent(nil)
	e.Date = testNow.Add(-time.Hour)
	svc, _, fs := newTestService(e)

	_, err := svc.Register(context.Background(), e.ID, uuid.New())
	require.ErrorIs(t, err, ErrEventInPast)
	assert.Zero(t, fs.attendingCount(e.ID))
}

func TestRegister_EventExactlyNow(t *testing.T) {
	// "Strictly before now" rejects; an event dated exactly now is allowed.
	e := futureEvent(nil)
	e.Date = testNow
	svc, _, _ := newTestService(e)

	_, err := svc.Register(context.Background(), e.ID, uuid.New())
	require.NoError(t, err)
}

func TestRegister_CapacityExceeded(t *testing.T) {
	one := 1
	e := futureEvent(&one)
	svc, _, fs := newTestService(e)

	_, err := svc.Register(context.Background(), e.ID, uuid.New())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), e.ID, uuid.New())
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, fs.attendingCount(e.ID))
}

func TestRegister_AlreadyRegistered(t *testing.T) {
	e := futureEvent(nil)
	svc, _, fs := newTestService(e)
	user := uuid.New()

	_, err := svc.Register(context.Background(), e.ID, user)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), e.ID, user)
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, fs.attendingCount(e.ID), "no second RSVP record created")
}

func TestRegister_CapacityReportedBeforeDuplicate(t *testing.T) {
	// When the event is full and the caller is already registered, the
	// capacity check runs first, so that is the error reported.
	one := 1
	e := futureEvent(&one)
	svc, _, _ := newTestService(e)
	user := uuid.New()

	_, err := svc.Register(context.Background(), e.ID, user)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), e.ID, user)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRegister_LostCapacityRace(t *testing.T) {
	// The pre-check passes but the conditional insert reports the event
	// filled up in between. The storage verdict wins.
	five := 5
	e := futureEvent(&five)
	svc, _, fs := newTestService(e)
	fs.insertErr = ErrCapacityExceeded

	_, err := svc.Register(context.Background(), e.ID, uuid.New())
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRegister_LostDuplicateRace(t *testing.T) {
	e := futureEvent(nil)
	svc, _, fs := newTestService(e)
	fs.insertErr = ErrAlreadyRegistered

	_, err := svc.Register(context.Background(), e.ID, uuid.New())
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestCancel_Success(t *testing.T) {
	e := futureEvent(nil)
	svc, fe, fs := newTestService(e)
	user := uuid.New()

	_, err := svc.Register(context.Background(), e.ID, user)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), e.ID, user))
	assert.Zero(t, fs.attendingCount(e.ID))
	assert.Zero(t, fe.byID[e.ID].AttendeeCount)
}

func TestCancel_NotRegistered(t *testing.T) {
	e := futureEvent(nil)
	svc, _, fs := newTestService(e)

	err := svc.Cancel(context.Background(), e.ID, uuid.New())
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Zero(t, fs.attendingCount(e.ID))
}

func TestCancel_PastEventStillCancellable(t *testing.T) {
	// Cancel has no date precondition: registrations for events that have
	// since passed can still be withdrawn.
	e := futureEvent(nil)
	svc, fe, _ := newTestService(e)
	user := uuid.New()

	_, err := svc.Register(context.Background(), e.ID, user)
	require.NoError(t, err)

	fe.byID[e.ID].Date = testNow.Add(-time.Hour)
	require.NoError(t, svc.Cancel(context.Background(), e.ID, user))
}

func TestScenario_CapacityOneSeatTurnover(t *testing.T) {
	one := 1
	e := futureEvent(&one)
	svc, fe, fs := newTestService(e)
	userA := uuid.New()
	userB := uuid.New()

	_, err := svc.Register(context.Background(), e.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, 1, fe.byID[e.ID].AttendeeCount)

	_, err = svc.Register(context.Background(), e.ID, userB)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	require.NoError(t, svc.Cancel(context.Background(), e.ID, userA))
	assert.Zero(t, fe.byID[e.ID].AttendeeCount)

	_, err = svc.Register(context.Background(), e.ID, userB)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.attendingCount(e.ID))
}

func TestEventDeleteCascadesRSVPs(t *testing.T) {
	e1 := futureEvent(nil)
	e2 := futureEvent(nil)
	svc, _, fs := newTestService(e1, e2)
	user := uuid.New()

	_, err := svc.Register(context.Background(), e1.ID, user)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), e2.ID, user)
	require.NoError(t, err)

	fs.deleteEvent(e1.ID)

	assert.Zero(t, fs.attendingCount(e1.ID), "RSVPs go with their event")
	exists, err := fs.Exists(context.Background(), e1.ID, user)
	require.NoError(t, err)
	assert.False(t, exists)

	// The user's registrations listing still works and only shows the
	// surviving event.
	assert.Equal(t, []uuid.UUID{e2.ID}, fs.listEventIDs(user))

	// Cancelling the cascaded registration reports it gone.
	require.ErrorIs(t, svc.Cancel(context.Background(), e1.ID, user), ErrNotRegistered)
}

func TestOrganizerMayRegisterForOwnEvent(t *testing.T) {
	organizer := uuid.New()
	e := futureEvent(nil)
	e.OrganizerID = organizer
	svc, _, _ := newTestService(e)

	_, err := svc.Register(context.Background(), e.ID, organizer)
	require.NoError(t, err)
}
