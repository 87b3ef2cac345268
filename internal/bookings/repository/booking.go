package repository

import (
	"context"
	"time"

	"hotelbooking/pkg/db"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BookingsCollection  = "Bookings"
	RoomsCollection     = "Rooms"
	RoomLocksCollection = "Room_locks"

	BookingsTable  = "bookings"
	RoomsTable     = "rooms"
	RoomLocksTable = "room_locks"

	bookingsSequence = "bookings"
)

type BookingRepository interface {
	// Create assigns the id and timestamps of booking. A second booking for
	// the same user fails with ErrDuplicateBooking.
	Create(ctx context.Context, booking *model.Booking) error
	FindByUserID(ctx context.Context, userID int64) (*model.BookingWithRoom, error)
	FindByRoomID(ctx context.Context, roomID int64) ([]*model.Booking, error)
	CountByRoomID(ctx context.Context, roomID int64) (int64, error)
	UpdateRoom(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error
}

type RoomRepository interface {
	FindByID(ctx context.Context, roomID int64) (*model.Room, error)
}

// RoomLockRepository provides operations for advisory room locks.
type RoomLockRepository interface {
	// Create fails with ErrRoomLocked while an unexpired lock with the same id exists.
	Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error)
	Delete(ctx context.Context, lockID string) error
}

// withTimeout wraps the context with a timeout if not already in a Mongo transaction.
// A SessionContext cannot be wrapped without losing the session, so it is
// returned unchanged with a no-op cancel function.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
