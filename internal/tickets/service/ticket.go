package service

import (
	"context"
	"errors"

	ticketserrors "hotelbooking/internal/tickets/errors"
	"hotelbooking/internal/tickets/repository"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

type TicketService interface {
	GetTicketByUserID(ctx context.Context, userID int64) (*model.Ticket, error)
}

type ticketService struct {
	enrollments repository.EnrollmentRepository
	tickets     repository.TicketRepository
	log         *logger.Logger
}

func NewTicketService(enrollments repository.EnrollmentRepository, tickets repository.TicketRepository, log *logger.Logger) TicketService {
	return &ticketService{
		enrollments: enrollments,
		tickets:     tickets,
		log:         log,
	}
}

// GetTicketByUserID resolves the user's enrollment and returns its ticket.
// Both a missing enrollment and a missing ticket are reported as NOT_FOUND.
func (s *ticketService) GetTicketByUserID(ctx context.Context, userID int64) (*model.Ticket, error) {
	enrollment, err := s.enrollments.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ticketserrors.ErrEnrollmentNotFound) {
			return nil, apperrors.NotFound("Enrollment")
		}
		s.log.WithContext(ctx).Error("failed to find enrollment", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve enrollment", err)
	}

	ticket, err := s.tickets.FindByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		if errors.Is(err, ticketserrors.ErrTicketNotFound) {
			return nil, apperrors.NotFound("Ticket")
		}
		s.log.WithContext(ctx).Error("failed to find ticket", "enrollment_id", enrollment.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve ticket", err)
	}

	return ticket, nil
}
