package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	autherrors "hotelbooking/internal/auth/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/db/postgres"
	"hotelbooking/pkg/model"

	"github.com/jmoiron/sqlx"
)

type postgresSessionRepository struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewPostgresSessionRepository(cfg *config.Config) SessionRepository {
	return &postgresSessionRepository{cfg: cfg, db: cfg.Client.Postgres}
}

func (r *postgresSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT id, user_id, token, created_at, updated_at FROM ` + SessionsTable + ` WHERE token = $1`

	var session model.Session
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, autherrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}
