package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/db/postgres"
	"hotelbooking/pkg/model"

	"github.com/jmoiron/sqlx"
)

type postgresRoomRepository struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewPostgresRoomRepository(cfg *config.Config) RoomRepository {
	return &postgresRoomRepository{
		cfg: cfg,
		db:  cfg.Client.Postgres,
	}
}

func (r *postgresRoomRepository) FindByID(ctx context.Context, roomID int64) (*model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT id, name, capacity, hotel_id, created_at, updated_at FROM ` + RoomsTable + ` WHERE id = $1`

	var room model.Room
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &room, query, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}
