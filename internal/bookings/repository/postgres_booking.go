package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/db"
	"hotelbooking/pkg/db/postgres"
	"hotelbooking/pkg/model"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, user_id, room_id, created_at, updated_at`

type postgresBookingRepository struct {
	cfg       *config.Config
	db        *sqlx.DB
	txManager db.TransactionManager
}

func NewPostgresBookingRepository(cfg *config.Config) BookingRepository {
	return &postgresBookingRepository{
		cfg:       cfg,
		db:        cfg.Client.Postgres,
		txManager: postgres.NewTransactionManager(cfg.Client.Postgres),
	}
}

func (r *postgresBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = now()
	booking.UpdatedAt = booking.CreatedAt

	query := `INSERT INTO ` + BookingsTable + ` (user_id, room_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &booking.ID, query,
		booking.UserID, booking.RoomID, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return bookingserrors.ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *postgresBookingRepository) FindByUserID(ctx context.Context, userID int64) (*model.BookingWithRoom, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
			r.id AS "room.id",
			r.name AS "room.name",
			r.capacity AS "room.capacity",
			r.hotel_id AS "room.hotel_id",
			r.created_at AS "room.created_at",
			r.updated_at AS "room.updated_at"
		FROM ` + BookingsTable + ` b
		JOIN ` + RoomsTable + ` r ON r.id = b.room_id
		WHERE b.user_id = $1
		LIMIT 1`

	var booking model.BookingWithRoom
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &booking, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *postgresBookingRepository) FindByRoomID(ctx context.Context, roomID int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT ` + bookingColumns + ` FROM ` + BookingsTable + ` WHERE room_id = $1 ORDER BY id`

	bookings := make([]*model.Booking, 0)
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.db), &bookings, query, roomID); err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return bookings, nil
}

func (r *postgresBookingRepository) CountByRoomID(ctx context.Context, roomID int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT COUNT(*) FROM ` + BookingsTable + ` WHERE room_id = $1`

	var count int64
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &count, query, roomID); err != nil {
		return 0, fmt.Errorf("failed to count bookings on room: %w", err)
	}
	return count, nil
}

func (r *postgresBookingRepository) UpdateRoom(ctx context.Context, bookingID int64, roomID int64) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	query := `UPDATE ` + BookingsTable + `
		SET room_id = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + bookingColumns

	var booking model.Booking
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &booking, query, roomID, now(), bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

func (r *postgresBookingRepository) ExecuteTransaction(ctx context.Context, fn db.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
