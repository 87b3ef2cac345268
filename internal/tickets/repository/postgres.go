package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ticketserrors "hotelbooking/internal/tickets/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/db/postgres"
	"hotelbooking/pkg/model"

	"github.com/jmoiron/sqlx"
)

type postgresEnrollmentRepository struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewPostgresEnrollmentRepository(cfg *config.Config) EnrollmentRepository {
	return &postgresEnrollmentRepository{cfg: cfg, db: cfg.Client.Postgres}
}

func (r *postgresEnrollmentRepository) FindByUserID(ctx context.Context, userID int64) (*model.Enrollment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT id, user_id, created_at, updated_at FROM ` + EnrollmentsTable + ` WHERE user_id = $1`

	var enrollment model.Enrollment
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &enrollment, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticketserrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return &enrollment, nil
}

type postgresTicketRepository struct {
	cfg *config.Config
	db  *sqlx.DB
}

func NewPostgresTicketRepository(cfg *config.Config) TicketRepository {
	return &postgresTicketRepository{cfg: cfg, db: cfg.Client.Postgres}
}

func (r *postgresTicketRepository) FindByEnrollmentID(ctx context.Context, enrollmentID int64) (*model.Ticket, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT id, ticket_type_id, enrollment_id, status, created_at, updated_at
		FROM ` + TicketsTable + ` WHERE enrollment_id = $1`

	var ticket model.Ticket
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &ticket, query, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticketserrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (r *postgresTicketRepository) FindTicketForBooking(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := `SELECT t.id, t.ticket_type_id, t.enrollment_id, t.status, t.created_at, t.updated_at,
			tt.id AS "ticket_type.id",
			tt.name AS "ticket_type.name",
			tt.price AS "ticket_type.price",
			tt.is_remote AS "ticket_type.is_remote",
			tt.includes_hotel AS "ticket_type.includes_hotel",
			tt.created_at AS "ticket_type.created_at",
			tt.updated_at AS "ticket_type.updated_at"
		FROM ` + TicketsTable + ` t
		JOIN ` + TicketTypesTable + ` tt ON tt.id = t.ticket_type_id
		WHERE t.enrollment_id = $1`

	var ticket model.TicketWithType
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.db), &ticket, query, enrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticketserrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket for booking: %w", err)
	}
	return &ticket, nil
}
