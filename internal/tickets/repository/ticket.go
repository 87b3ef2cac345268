package repository

import (
	"context"
	"time"

	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	EnrollmentsCollection = "Enrollments"
	TicketsCollection     = "Tickets"
	TicketTypesCollection = "TicketTypes"

	EnrollmentsTable = "enrollments"
	TicketsTable     = "tickets"
	TicketTypesTable = "ticket_types"
)

type EnrollmentRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*model.Enrollment, error)
}

type TicketRepository interface {
	FindByEnrollmentID(ctx context.Context, enrollmentID int64) (*model.Ticket, error)
	// FindTicketForBooking returns the enrollment's ticket joined with its type.
	FindTicketForBooking(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}
