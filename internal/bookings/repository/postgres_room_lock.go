package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/model"

	"github.com/jmoiron/sqlx"
)

type postgresRoomLockRepository struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewPostgresRoomLockRepository(cfg *config.Config) RoomLockRepository {
	return &postgresRoomLockRepository{
		cfg: cfg,
		db:  cfg.Client.Postgres,
	}
}

// Create takes over a row only when the existing lock has expired.
func (r *postgresRoomLockRepository) Create(ctx context.Context, lock *model.RoomLock) (*model.RoomLock, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now()

	query := `INSERT INTO ` + RoomLocksTable + ` (id, expires_at, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
			SET expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at
			WHERE ` + RoomLocksTable + `.expires_at < EXCLUDED.created_at`

	res, err := r.db.ExecContext(ctx, query, lock.ID, lock.ExpiresAt, lock.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire room lock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire room lock: %w", err)
	}
	if affected == 0 {
		return nil, bookingserrors.ErrRoomLocked
	}
	return lock, nil
}

func (r *postgresRoomLockRepository) Delete(ctx context.Context, lockID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM `+RoomLocksTable+` WHERE id = $1`, lockID)
	return err
}
