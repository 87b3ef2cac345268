package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	ticketserrors "hotelbooking/internal/tickets/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/db"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockBookingRepository struct {
	createFunc        func(ctx context.Context, booking *model.Booking) error
	findByUserIDFunc  func(ctx context.Context, userID int64) (*model.BookingWithRoom, error)
	findByRoomIDFunc  func(ctx context.Context, roomID int64) ([]*model.Booking, error)
	countByRoomIDFunc func(ctx context.Context, roomID int64) (int64, error)
	updateRoomFunc    func(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error)
	txCalls           int
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFunc(ctx, booking)
}

func (m *mockBookingRepository) FindByUserID(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockBookingRepository) FindByRoomID(ctx context.Context, roomID int64) ([]*model.Booking, error) {
	return m.findByRoomIDFunc(ctx, roomID)
}

func (m *mockBookingRepository) CountByRoomID(ctx context.Context, roomID int64) (int64, error) {
	return m.countByRoomIDFunc(ctx, roomID)
}

func (m *mockBookingRepository) UpdateRoom(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error) {
	return m.updateRoomFunc(ctx, bookingID, roomID)
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	m.txCalls++
	return fn(ctx)
}

type mockRoomRepository struct {
	findByIDFunc func(ctx context.Context, roomID int64) (*model.Room, error)
	calls        int
}

func (m *mockRoomRepository) FindByID(ctx context.Context, roomID int64) (*model.Room, error) {
	m.calls++
	return m.findByIDFunc(ctx, roomID)
}

type mockRoomLockRepository struct {
	createFunc func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	deleted    []string
	mu         sync.Mutex
}

func (m *mockRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockTicketService struct {
	getTicketByUserIDFunc func(ctx context.Context, userID int64) (*model.Ticket, error)
}

func (m *mockTicketService) GetTicketByUserID(ctx context.Context, userID int64) (*model.Ticket, error) {
	return m.getTicketByUserIDFunc(ctx, userID)
}

type mockTicketRepository struct {
	findTicketForBookingFunc func(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error)
}

func (m *mockTicketRepository) FindByEnrollmentID(ctx context.Context, enrollmentID int64) (*model.Ticket, error) {
	return nil, errors.New("not expected")
}

func (m *mockTicketRepository) FindTicketForBooking(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
	return m.findTicketForBookingFunc(ctx, enrollmentID)
}

type mockPublisher struct {
	created []*model.Booking
	changed []*model.Booking
	err     error
}

func (m *mockPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, booking)
	return m.err
}

func (m *mockPublisher) BookingChanged(ctx context.Context, booking *model.Booking, previousRoomID int64) error {
	m.changed = append(m.changed, booking)
	return m.err
}

// --- Fixture ---

type fixture struct {
	bookings   *mockBookingRepository
	rooms      *mockRoomRepository
	locks      *mockRoomLockRepository
	tickets    *mockTicketService
	ticketRepo *mockTicketRepository
	publisher  *mockPublisher
}

func eligibleTicket(status model.TicketStatus, isRemote, includesHotel bool) func(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
	return func(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
		return &model.TicketWithType{
			Ticket:     model.Ticket{ID: 5, EnrollmentID: enrollmentID, Status: status},
			TicketType: model.TicketType{ID: 2, IsRemote: isRemote, IncludesHotel: includesHotel},
		}, nil
	}
}

// newFixture returns mocks for a user without a booking, holding an eligible
// ticket, targeting an empty room of capacity 3.
func newFixture() *fixture {
	return &fixture{
		bookings: &mockBookingRepository{
			createFunc: func(ctx context.Context, booking *model.Booking) error {
				booking.ID = 100
				return nil
			},
			findByUserIDFunc: func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
				return nil, bookingserrors.ErrNotFound
			},
			countByRoomIDFunc: func(ctx context.Context, roomID int64) (int64, error) {
				return 0, nil
			},
		},
		rooms: &mockRoomRepository{
			findByIDFunc: func(ctx context.Context, roomID int64) (*model.Room, error) {
				return &model.Room{ID: roomID, Name: "101", Capacity: 3, HotelID: 1}, nil
			},
		},
		locks: &mockRoomLockRepository{},
		tickets: &mockTicketService{
			getTicketByUserIDFunc: func(ctx context.Context, userID int64) (*model.Ticket, error) {
				return &model.Ticket{ID: 5, EnrollmentID: 9, Status: model.TicketStatusPaid}, nil
			},
		},
		ticketRepo: &mockTicketRepository{
			findTicketForBookingFunc: eligibleTicket(model.TicketStatusPaid, false, true),
		},
		publisher: &mockPublisher{},
	}
}

func (f *fixture) service() BookingService {
	cfg := &config.Config{Log: logger.Discard(), RoomLockTTL: time.Second}
	return NewBookingService(f.bookings, f.rooms, f.locks, f.tickets, f.ticketRepo, f.publisher, cfg)
}

func existingBooking(roomID int64) func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	return func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
		return &model.BookingWithRoom{
			Booking: model.Booking{ID: 100, UserID: userID, RoomID: roomID},
			Room:    model.Room{ID: roomID, Name: "101", Capacity: 3, HotelID: 1},
		}, nil
	}
}

func assertCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.StatusCode())
}

// --- GetBooking ---

func TestGetBooking(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)

	resp, err := f.service().GetBooking(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, int64(3), resp.Room.ID)
	assert.Equal(t, 3, resp.Room.Capacity)
	assert.Equal(t, int64(1), resp.Room.HotelID)
}

func TestGetBooking_NotFound(t *testing.T) {
	f := newFixture()

	resp, err := f.service().GetBooking(context.Background(), 7)

	assert.Nil(t, resp)
	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestGetBooking_StoreFailure(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.service().GetBooking(context.Background(), 7)

	assertCode(t, err, apperrors.CodeInternal, http.StatusInternalServerError)
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()
	var created *model.Booking
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = 100
		created = booking
		return nil
	}

	id, err := f.service().CreateBooking(context.Background(), 3, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
	require.NotNil(t, created)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, int64(3), created.RoomID)
	assert.Equal(t, 1, f.bookings.txCalls)
	assert.Equal(t, []string{"room_lock_3"}, f.locks.deleted)
	require.Len(t, f.publisher.created, 1)
	assert.Equal(t, int64(100), f.publisher.created[0].ID)
}

func TestCreateBooking_ExistingBookingConflicts(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)
	f.ticketRepo.findTicketForBookingFunc = eligibleTicket(model.TicketStatusReserved, true, false)
	f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
		return nil, bookingserrors.ErrRoomNotFound
	}

	_, err := f.service().CreateBooking(context.Background(), 4, 7)

	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)
	assert.Equal(t, "Booking already exists!", apperrors.AsAppError(err).Message)
	assert.Equal(t, 0, f.rooms.calls)
}

func TestCreateBooking_IneligibleTicket(t *testing.T) {
	tests := []struct {
		name          string
		status        model.TicketStatus
		isRemote      bool
		includesHotel bool
	}{
		{"reserved ticket", model.TicketStatusReserved, false, true},
		{"remote ticket", model.TicketStatusPaid, true, true},
		{"ticket without hotel", model.TicketStatusPaid, false, false},
		{"everything wrong", model.TicketStatusReserved, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.ticketRepo.findTicketForBookingFunc = eligibleTicket(tt.status, tt.isRemote, tt.includesHotel)

			_, err := f.service().CreateBooking(context.Background(), 3, 7)

			assertCode(t, err, bookingserrors.CodeTicketError, http.StatusForbidden)
			assert.Equal(t, "Ticket is wrong", apperrors.AsAppError(err).Message)
			assert.Equal(t, 0, f.rooms.calls, "ticket check must precede room lookup")
			assert.Equal(t, 0, f.bookings.txCalls)
		})
	}
}

func TestCreateBooking_TicketLookupErrorPropagates(t *testing.T) {
	f := newFixture()
	f.tickets.getTicketByUserIDFunc = func(ctx context.Context, userID int64) (*model.Ticket, error) {
		return nil, apperrors.NotFound("Enrollment")
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, "Enrollment not found", apperrors.AsAppError(err).Message)
}

func TestCreateBooking_TicketTypeMissing(t *testing.T) {
	f := newFixture()
	f.ticketRepo.findTicketForBookingFunc = func(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
		return nil, ticketserrors.ErrTicketNotFound
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestCreateBooking_RoomNotFound(t *testing.T) {
	f := newFixture()
	f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
		return nil, bookingserrors.ErrRoomNotFound
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, int64(3), apperrors.AsAppError(err).Details["id"])
	assert.Equal(t, 0, f.bookings.txCalls)
}

func TestCreateBooking_Capacity(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		occupants int64
		full      bool
	}{
		{"empty room", 3, 0, false},
		{"one slot left", 3, 2, false},
		{"at capacity", 3, 3, true},
		{"over capacity", 3, 4, true},
		{"zero capacity", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
				return &model.Room{ID: roomID, Capacity: tt.capacity}, nil
			}
			f.bookings.countByRoomIDFunc = func(ctx context.Context, roomID int64) (int64, error) {
				return tt.occupants, nil
			}
			createCalled := false
			f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
				createCalled = true
				booking.ID = 100
				return nil
			}

			_, err := f.service().CreateBooking(context.Background(), 3, 7)

			if tt.full {
				assertCode(t, err, bookingserrors.CodeFullRoom, http.StatusForbidden)
				assert.Equal(t, "Room is full", apperrors.AsAppError(err).Message)
				assert.False(t, createCalled)
				assert.Empty(t, f.publisher.created)
			} else {
				require.NoError(t, err)
				assert.True(t, createCalled)
			}
			assert.Equal(t, []string{"room_lock_3"}, f.locks.deleted, "lock is released either way")
		})
	}
}

func TestCreateBooking_ConcurrentDuplicateConflicts(t *testing.T) {
	f := newFixture()
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		return bookingserrors.ErrDuplicateBooking
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)
}

func TestCreateBooking_RoomLocked(t *testing.T) {
	f := newFixture()
	f.locks.createFunc = func(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
		return nil, bookingserrors.ErrRoomLocked
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)
	assert.Equal(t, 0, f.bookings.txCalls)
	assert.Empty(t, f.locks.deleted)
}

func TestCreateBooking_StoreFailure(t *testing.T) {
	f := newFixture()
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		return errors.New("write concern error")
	}

	_, err := f.service().CreateBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeInternal, http.StatusInternalServerError)
}

func TestCreateBooking_PublishFailureIsNotReturned(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")

	id, err := f.service().CreateBooking(context.Background(), 3, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
}

// --- ChangeBooking ---

func TestChangeBooking_Success(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)
	f.bookings.updateRoomFunc = func(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error) {
		return &model.Booking{ID: bookingID, UserID: 7, RoomID: roomID}, nil
	}

	id, err := f.service().ChangeBooking(context.Background(), 4, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
	assert.Equal(t, []string{"room_lock_4"}, f.locks.deleted)
	require.Len(t, f.publisher.changed, 1)
	assert.Equal(t, int64(4), f.publisher.changed[0].RoomID)
}

func TestChangeBooking_NoBooking(t *testing.T) {
	f := newFixture()

	_, err := f.service().ChangeBooking(context.Background(), 4, 7)

	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
	assert.Equal(t, "Found no booking for user", apperrors.AsAppError(err).Message)
}

func TestChangeBooking_SameRoomConflictsEvenWithFreeCapacity(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)

	_, err := f.service().ChangeBooking(context.Background(), 3, 7)

	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)
	assert.Equal(t, "User is already booked in this room", apperrors.AsAppError(err).Message)
	assert.Equal(t, 0, f.rooms.calls, "same-room check must precede room lookup")
}

func TestChangeBooking_RoomNotFound(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)
	f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
		return nil, bookingserrors.ErrRoomNotFound
	}

	_, err := f.service().ChangeBooking(context.Background(), 4, 7)

	assertCode(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestChangeBooking_FullRoom(t *testing.T) {
	f := newFixture()
	f.bookings.findByUserIDFunc = existingBooking(3)
	f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
		return &model.Room{ID: roomID, Capacity: 2}, nil
	}
	f.bookings.countByRoomIDFunc = func(ctx context.Context, roomID int64) (int64, error) {
		return 2, nil
	}
	f.bookings.updateRoomFunc = func(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error) {
		t.Fatal("booking must not be updated when the room is full")
		return nil, nil
	}

	_, err := f.service().ChangeBooking(context.Background(), 4, 7)

	assertCode(t, err, bookingserrors.CodeFullRoom, http.StatusForbidden)
	assert.Empty(t, f.publisher.changed)
}

// --- Scenario against an in-memory store ---

type memoryStore struct {
	mu       sync.Mutex
	rooms    map[int64]*model.Room
	bookings map[int64]*model.Booking
	nextID   int64
}

func newMemoryStore(rooms ...*model.Room) *memoryStore {
	s := &memoryStore{rooms: map[int64]*model.Room{}, bookings: map[int64]*model.Booking{}}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *memoryStore) bind(f *fixture) {
	f.rooms.findByIDFunc = func(ctx context.Context, roomID int64) (*model.Room, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		room, ok := s.rooms[roomID]
		if !ok {
			return nil, bookingserrors.ErrRoomNotFound
		}
		return room, nil
	}
	f.bookings.findByUserIDFunc = func(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, b := range s.bookings {
			if b.UserID == userID {
				return &model.BookingWithRoom{Booking: *b, Room: *s.rooms[b.RoomID]}, nil
			}
		}
		return nil, bookingserrors.ErrNotFound
	}
	f.bookings.countByRoomIDFunc = func(ctx context.Context, roomID int64) (int64, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var n int64
		for _, b := range s.bookings {
			if b.RoomID == roomID {
				n++
			}
		}
		return n, nil
	}
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID++
		booking.ID = s.nextID
		copied := *booking
		s.bookings[booking.ID] = &copied
		return nil
	}
	f.bookings.updateRoomFunc = func(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.bookings[bookingID]
		if !ok {
			return nil, bookingserrors.ErrNotFound
		}
		b.RoomID = roomID
		copied := *b
		return &copied, nil
	}
}

func TestBookingLifecycleScenario(t *testing.T) {
	const user = int64(7)
	r := &model.Room{ID: 1, Name: "Suite", Capacity: 3, HotelID: 1}
	r2 := &model.Room{ID: 2, Name: "Double", Capacity: 2, HotelID: 1}
	r3 := &model.Room{ID: 3, Name: "Closed", Capacity: 0, HotelID: 1}

	f := newFixture()
	newMemoryStore(r, r2, r3).bind(f)
	svc := f.service()
	ctx := context.Background()

	bookingID, err := svc.CreateBooking(ctx, r.ID, user)
	require.NoError(t, err)

	got, err := svc.GetBooking(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, bookingID, got.ID)
	assert.Equal(t, r.ID, got.Room.ID)
	assert.Equal(t, 3, got.Room.Capacity)

	_, err = svc.CreateBooking(ctx, r2.ID, user)
	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)

	_, err = svc.ChangeBooking(ctx, r.ID, user)
	assertCode(t, err, apperrors.CodeConflict, http.StatusConflict)

	_, err = svc.ChangeBooking(ctx, r3.ID, user)
	assertCode(t, err, bookingserrors.CodeFullRoom, http.StatusForbidden)

	changedID, err := svc.ChangeBooking(ctx, r2.ID, user)
	require.NoError(t, err)
	assert.Equal(t, bookingID, changedID)

	got, err = svc.GetBooking(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, r2.ID, got.Room.ID)
}

func TestCreateBooking_FillsRoomUpToCapacity(t *testing.T) {
	room := &model.Room{ID: 1, Capacity: 2}
	f := newFixture()
	newMemoryStore(room).bind(f)
	svc := f.service()

	for user := int64(1); user <= 2; user++ {
		_, err := svc.CreateBooking(context.Background(), room.ID, user)
		require.NoError(t, err)
	}

	_, err := svc.CreateBooking(context.Background(), room.ID, 3)
	assertCode(t, err, bookingserrors.CodeFullRoom, http.StatusForbidden)
}
