package service

import (
	"context"
	"errors"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/events"
	"hotelbooking/internal/bookings/repository"
	ticketserrors "hotelbooking/internal/tickets/errors"
	ticketsrepository "hotelbooking/internal/tickets/repository"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
)

type BookingService interface {
	GetBooking(ctx context.Context, userID int64) (*model.BookingResponse, error)
	CreateBooking(ctx context.Context, roomID int64, userID int64) (int64, error)
	ChangeBooking(ctx context.Context, roomID int64, userID int64) (int64, error)
}

// TicketService is the part of the ticket module a booking needs.
type TicketService interface {
	GetTicketByUserID(ctx context.Context, userID int64) (*model.Ticket, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	roomRepo   repository.RoomRepository
	lockRepo   repository.RoomLockRepository
	tickets    TicketService
	ticketRepo ticketsrepository.TicketRepository
	publisher  events.Publisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	lockRepo repository.RoomLockRepository,
	tickets TicketService,
	ticketRepo ticketsrepository.TicketRepository,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		roomRepo:   roomRepo,
		lockRepo:   lockRepo,
		tickets:    tickets,
		ticketRepo: ticketRepo,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *bookingService) GetBooking(ctx context.Context, userID int64) (*model.BookingResponse, error) {
	booking, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to retrieve booking", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return model.NewBookingResponse(booking), nil
}

func (s *bookingService) CreateBooking(ctx context.Context, roomID int64, userID int64) (int64, error) {
	log := s.cfg.Log.WithContext(ctx)

	if err := s.ensureNoBooking(ctx, userID); err != nil {
		return 0, err
	}

	if err := s.verifyTicket(ctx, userID); err != nil {
		return 0, err
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	booking := &model.Booking{UserID: userID, RoomID: room.ID}
	err = s.withRoomLock(ctx, room.ID, func() error {
		return s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.ensureCapacity(txCtx, room); err != nil {
				return err
			}
			if err := s.repo.Create(txCtx, booking); err != nil {
				if errors.Is(err, bookingserrors.ErrDuplicateBooking) {
					return bookingserrors.BookingExists()
				}
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		})
	})
	if err != nil {
		s.logFailure(ctx, "Failed to create booking", err, "room_id", roomID, "user_id", userID)
		return 0, err
	}

	log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
	)

	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		log.Warn("Failed to publish booking event", "event", model.EventBookingCreated, "booking_id", booking.ID, "error", err)
	}

	return booking.ID, nil
}

func (s *bookingService) ChangeBooking(ctx context.Context, roomID int64, userID int64) (int64, error) {
	log := s.cfg.Log.WithContext(ctx)

	current, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return 0, bookingserrors.NoBooking()
		}
		log.Error("Failed to retrieve booking", "user_id", userID, "error", err)
		return 0, apperrors.Internal("Failed to retrieve booking", err)
	}

	if current.RoomID == roomID {
		return 0, bookingserrors.AlreadyInRoom(roomID)
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	var updated *model.Booking
	err = s.withRoomLock(ctx, room.ID, func() error {
		return s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.ensureCapacity(txCtx, room); err != nil {
				return err
			}
			b, err := s.repo.UpdateRoom(txCtx, current.ID, room.ID)
			if err != nil {
				if errors.Is(err, bookingserrors.ErrNotFound) {
					return bookingserrors.NoBooking()
				}
				return apperrors.Internal("Failed to update booking", err)
			}
			updated = b
			return nil
		})
	})
	if err != nil {
		s.logFailure(ctx, "Failed to change booking", err, "booking_id", current.ID, "room_id", roomID)
		return 0, err
	}

	log.Info("Booking changed successfully",
		"booking_id", updated.ID,
		"room_id", updated.RoomID,
		"previous_room_id", current.RoomID,
	)

	if err := s.publisher.BookingChanged(ctx, updated, current.RoomID); err != nil {
		log.Warn("Failed to publish booking event", "event", model.EventBookingChanged, "booking_id", updated.ID, "error", err)
	}

	return current.ID, nil
}

// --- Helpers ---

func (s *bookingService) ensureNoBooking(ctx context.Context, userID int64) error {
	_, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return bookingserrors.BookingExists()
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return nil
	}
	s.cfg.Log.WithContext(ctx).Error("Failed to check existing booking", "user_id", userID, "error", err)
	return apperrors.Internal("Failed to check existing booking", err)
}

// verifyTicket requires a paid, in-person ticket whose type includes hotel.
func (s *bookingService) verifyTicket(ctx context.Context, userID int64) error {
	ticket, err := s.tickets.GetTicketByUserID(ctx, userID)
	if err != nil {
		return err
	}

	withType, err := s.ticketRepo.FindTicketForBooking(ctx, ticket.EnrollmentID)
	if err != nil {
		if errors.Is(err, ticketserrors.ErrTicketNotFound) {
			return apperrors.NotFound("Ticket")
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to retrieve ticket type", "enrollment_id", ticket.EnrollmentID, "error", err)
		return apperrors.Internal("Failed to retrieve ticket", err)
	}

	if !withType.AllowsHotelBooking() {
		s.cfg.Log.WithContext(ctx).Warn("Ticket not eligible for hotel booking",
			"ticket_id", withType.ID,
			"status", withType.Status,
			"is_remote", withType.TicketType.IsRemote,
			"includes_hotel", withType.TicketType.IncludesHotel,
		)
		return bookingserrors.TicketNotEligible()
	}
	return nil
}

func (s *bookingService) findRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRoomNotFound) {
			return nil, bookingserrors.RoomNotFound(roomID)
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to retrieve room", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *bookingService) ensureCapacity(ctx context.Context, room *model.Room) error {
	occupants, err := s.repo.CountByRoomID(ctx, room.ID)
	if err != nil {
		return apperrors.Internal("Failed to count bookings on room", err)
	}
	if room.IsFull(occupants) {
		return bookingserrors.RoomFull(room.ID)
	}
	return nil
}

// withRoomLock runs fn while holding the advisory lock of roomID. A lock held
// by another request fails fast with a conflict instead of waiting.
func (s *bookingService) withRoomLock(ctx context.Context, roomID int64, fn func() error) error {
	lock := model.NewRoomLock(roomID, s.cfg.RoomLockTTL)

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrRoomLocked) {
			return bookingserrors.RoomBusy(roomID)
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}
	defer func() {
		if err := s.lockRepo.Delete(context.WithoutCancel(ctx), lock.ID); err != nil {
			s.cfg.Log.WithContext(ctx).Warn("Failed to release room lock", "lock_id", lock.ID, "error", err)
		}
	}()

	return fn()
}

// logFailure logs rejections at Warn and unexpected failures at Error.
func (s *bookingService) logFailure(ctx context.Context, msg string, err error, args ...any) {
	log := s.cfg.Log.WithContext(ctx)
	args = append(args, "error", err)
	if apperrors.AsAppError(err).StatusCode() >= 500 {
		log.Error(msg, args...)
		return
	}
	log.Warn(msg, args...)
}
