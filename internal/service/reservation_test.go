package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-room-reservation/internal/model"
	"github.com/iliyamo/event-room-reservation/internal/repository"
)

// fakeLedger is an in-memory RoomLedger. TryReserve and Release hold a
// mutex around the check-and-decrement so the fake gives the same
// linearizable per-room guarantee as the SQL conditional update.
type fakeLedger struct {
	mu    sync.Mutex
	rooms map[uint64]*model.Room
}

func newFakeLedger(rooms ...*model.Room) *fakeLedger {
	m := make(map[uint64]*model.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeLedger{rooms: m}
}

func (f *fakeLedger) GetByID(_ context.Context, roomID uint64) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeLedger) TryReserve(_ context.Context, roomID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if r.Capacity < 1 {
		return repository.ErrRoomFull
	}
	r.Capacity--
	return nil
}

func (f *fakeLedger) Release(_ context.Context, roomID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[roomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	r.Capacity++
	return nil
}

func (f *fakeLedger) capacity(roomID uint64) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[roomID].Capacity
}

// fakeStore is an in-memory BookingStore with a unique-per-user rule,
// mirroring the unique index on bookings.user_id.
type fakeStore struct {
	mu          sync.Mutex
	nextID      uint64
	byID        map[uint64]*model.Booking
	byUser      map[uint64]*model.Booking
	createErr   error
	reassignErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[uint64]*model.Booking{}, byUser: map[uint64]*model.Booking{}}
}

func (f *fakeStore) GetByUser(_ context.Context, userID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) GetByID(_ context.Context, bookingID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, userID, roomID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.byUser[userID]; exists {
		return nil, repository.ErrConflict
	}
	f.nextID++
	b := &model.Booking{ID: f.nextID, UserID: userID, RoomID: roomID}
	f.byID[b.ID] = b
	f.byUser[userID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ReassignRoom(_ context.Context, bookingID, newRoomID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reassignErr != nil {
		return nil, f.reassignErr
	}
	b, ok := f.byID[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.RoomID = newRoomID
	cp := *b
	return &cp, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeEnrollments struct {
	byUser map[uint64]*repository.EnrollmentWithTicket
}

func (f *fakeEnrollments) FindByUserID(_ context.Context, userID uint64) (*repository.EnrollmentWithTicket, error) {
	e, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrEnrollmentNotFound
	}
	return e, nil
}

type fakeTicketTypes struct {
	byID map[uint64]*model.TicketType
}

func (f *fakeTicketTypes) GetByID(_ context.Context, id uint64) (*model.TicketType, error) {
	tt, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrTicketTypeNotFound
	}
	return tt, nil
}

// fixture wires a service over fakes. Ticket type 1 is the eligible
// one (in-person, hotel included); enrolled users hold a PAID ticket
// of that type unless a test says otherwise.
type fixture struct {
	ledger      *fakeLedger
	store       *fakeStore
	enrollments *fakeEnrollments
	ticketTypes *fakeTicketTypes
	svc         *ReservationService
}

func newFixture(rooms ...*model.Room) *fixture {
	f := &fixture{
		ledger:      newFakeLedger(rooms...),
		store:       newFakeStore(),
		enrollments: &fakeEnrollments{byUser: map[uint64]*repository.EnrollmentWithTicket{}},
		ticketTypes: &fakeTicketTypes{byID: map[uint64]*model.TicketType{
			1: {ID: 1, Name: "In-person + hotel", IsRemote: false, IncludesHotel: true},
			2: {ID: 2, Name: "Online", IsRemote: true, IncludesHotel: false},
			3: {ID: 3, Name: "In-person, no hotel", IsRemote: false, IncludesHotel: false},
		}},
	}
	f.svc = NewReservationService(f.ledger, f.store, f.enrollments, f.ticketTypes)
	return f
}

func (f *fixture) enroll(userID, ticketTypeID uint64, status string) {
	f.enrollments.byUser[userID] = &repository.EnrollmentWithTicket{
		Enrollment: model.Enrollment{ID: userID, UserID: userID},
		Ticket:     &model.Ticket{ID: userID, EnrollmentID: userID, TicketTypeID: ticketTypeID, Status: status},
	}
}

func room(id uint64, capacity uint32) *model.Room {
	return &model.Room{ID: id, HotelID: 1, Name: "room", Capacity: capacity}
}

func TestCreateBookingRoundTrip(t *testing.T) {
	f := newFixture(room(10, 2))
	f.enroll(1, 1, model.TicketStatusPaid)

	created, err := f.svc.CreateBooking(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), created.RoomID)
	assert.Equal(t, uint32(1), f.ledger.capacity(10))

	got, gotRoom, err := f.svc.GetBooking(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, uint64(10), gotRoom.ID)
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture(room(10, 1))
	_, _, err := f.svc.GetBooking(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	f := newFixture(room(10, 1))
	f.enroll(1, 1, model.TicketStatusPaid)
	_, err := f.svc.CreateBooking(context.Background(), 1, 999)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestCreateBookingWithoutEnrollment(t *testing.T) {
	f := newFixture(room(10, 1))
	_, err := f.svc.CreateBooking(context.Background(), 7, 10)
	assert.ErrorIs(t, err, repository.ErrEnrollmentNotFound)
	assert.Equal(t, uint32(1), f.ledger.capacity(10))
}

func TestCreateBookingEligibilityGating(t *testing.T) {
	cases := []struct {
		name         string
		ticketTypeID uint64
		status       string
	}{
		{"remote ticket", 2, model.TicketStatusPaid},
		{"no hotel included", 3, model.TicketStatusPaid},
		{"not yet paid", 1, model.TicketStatusReserved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(room(10, 5))
			f.enroll(1, tc.ticketTypeID, tc.status)
			_, err := f.svc.CreateBooking(context.Background(), 1, 10)
			assert.ErrorIs(t, err, repository.ErrNotEligible)
			assert.Equal(t, uint32(5), f.ledger.capacity(10), "capacity must be untouched")
		})
	}
}

func TestCreateBookingEnrolledWithoutTicket(t *testing.T) {
	f := newFixture(room(10, 1))
	f.enrollments.byUser[1] = &repository.EnrollmentWithTicket{
		Enrollment: model.Enrollment{ID: 1, UserID: 1},
	}
	_, err := f.svc.CreateBooking(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repository.ErrNotEligible)
}

func TestCreateBookingFullRoomReportedAsIneligible(t *testing.T) {
	f := newFixture(room(10, 1))
	f.enroll(1, 1, model.TicketStatusPaid)
	f.enroll(2, 1, model.TicketStatusPaid)

	_, err := f.svc.CreateBooking(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), f.ledger.capacity(10))

	// The second attempt is reported exactly like an ineligible ticket.
	_, err = f.svc.CreateBooking(context.Background(), 2, 10)
	assert.ErrorIs(t, err, repository.ErrNotEligible)
	assert.Equal(t, uint32(0), f.ledger.capacity(10))
}

func TestCreateBookingDuplicateRejected(t *testing.T) {
	f := newFixture(room(10, 5))
	f.enroll(1, 1, model.TicketStatusPaid)

	_, err := f.svc.CreateBooking(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(context.Background(), 1, 10)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Equal(t, uint32(4), f.ledger.capacity(10), "failed attempt must not consume capacity")
	assert.Equal(t, 1, f.store.count())
}

func TestCreateBookingCompensatesWhenStoreFails(t *testing.T) {
	f := newFixture(room(10, 1))
	f.enroll(1, 1, model.TicketStatusPaid)
	storeErr := errors.New("insert failed")
	f.store.createErr = storeErr

	_, err := f.svc.CreateBooking(context.Background(), 1, 10)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, uint32(1), f.ledger.capacity(10), "claimed slot must be released")
}

func TestCreateBookingNoOversell(t *testing.T) {
	const provisioned = 3
	const callers = 24
	f := newFixture(room(10, provisioned))
	for u := uint64(1); u <= callers; u++ {
		f.enroll(u, 1, model.TicketStatusPaid)
	}

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateBooking(context.Background(), uint64(i+1), 10)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		// Losers see either the precheck outcome or the lost race.
		assert.True(t,
			errors.Is(err, repository.ErrNotEligible) || errors.Is(err, repository.ErrRoomFull),
			"unexpected error: %v", err)
	}
	assert.Equal(t, provisioned, successes)
	assert.Equal(t, provisioned, f.store.count())

	// Capacity conservation: remaining + active bookings = provisioned.
	assert.Equal(t, uint32(0), f.ledger.capacity(10))
}

func TestChangeRoomMovesCapacity(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 2))
	f.enroll(1, 1, model.TicketStatusPaid)

	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(0), f.ledger.capacity(1))

	moved, err := f.svc.ChangeRoom(context.Background(), 1, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), moved.RoomID)
	assert.Equal(t, uint32(1), f.ledger.capacity(1), "old room slot returned")
	assert.Equal(t, uint32(1), f.ledger.capacity(2), "new room slot claimed")
}

func TestChangeRoomWithoutBookingForbidden(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 2))
	f.enroll(1, 1, model.TicketStatusPaid)
	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)

	// User 2 holds no booking: no standing, even against valid IDs.
	_, err = f.svc.ChangeRoom(context.Background(), 2, b.ID, 2)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestChangeRoomMissingTargets(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 2))
	f.enroll(1, 1, model.TicketStatusPaid)
	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = f.svc.ChangeRoom(context.Background(), 1, b.ID, 999)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)

	_, err = f.svc.ChangeRoom(context.Background(), 1, 999, 2)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestChangeRoomFullTargetForbidden(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 0))
	f.enroll(1, 1, model.TicketStatusPaid)
	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = f.svc.ChangeRoom(context.Background(), 1, b.ID, 2)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.Equal(t, uint32(0), f.ledger.capacity(2))
}

func TestChangeRoomReassignFailureReleasesNewRoomOnly(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 2))
	f.enroll(1, 1, model.TicketStatusPaid)
	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)

	reassignErr := errors.New("update failed")
	f.store.reassignErr = reassignErr

	_, err = f.svc.ChangeRoom(context.Background(), 1, b.ID, 2)
	assert.ErrorIs(t, err, reassignErr)
	assert.Equal(t, uint32(2), f.ledger.capacity(2), "claimed slot on new room released")
	assert.Equal(t, uint32(0), f.ledger.capacity(1), "old room must stay held")

	got, _, err := f.svc.GetBooking(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.RoomID, "booking unchanged after failed move")
}

func TestChangeRoomSkipsEligibilityCheck(t *testing.T) {
	f := newFixture(room(1, 1), room(2, 1))
	f.enroll(1, 1, model.TicketStatusPaid)
	b, err := f.svc.CreateBooking(context.Background(), 1, 1)
	require.NoError(t, err)

	// The ticket turning ineligible after booking does not block a move.
	f.enroll(1, 2, model.TicketStatusReserved)

	moved, err := f.svc.ChangeRoom(context.Background(), 1, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), moved.RoomID)
}
