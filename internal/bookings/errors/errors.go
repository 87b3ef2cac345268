package errors

import (
	"errors"
	"net/http"

	apperrors "hotelbooking/pkg/errors"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrDuplicateBooking = errors.New("user already holds a booking")

	ErrRoomLocked = errors.New("room is locked by another booking operation")
)

const (
	CodeTicketError = "TICKET_ERROR"
	CodeFullRoom    = "FULL_ROOM"
)

func BookingExists() *apperrors.AppError {
	return apperrors.Conflict("Booking already exists!")
}

func NoBooking() *apperrors.AppError {
	return apperrors.New(apperrors.CodeNotFound, "Found no booking for user", http.StatusNotFound)
}

func AlreadyInRoom(roomID int64) *apperrors.AppError {
	return apperrors.Conflict("User is already booked in this room").
		WithDetails(map[string]any{"room_id": roomID})
}

func RoomNotFound(roomID int64) *apperrors.AppError {
	return apperrors.NotFoundWithID("Room", roomID)
}

// TicketNotEligible covers every ticket precondition at once: unpaid, remote
// or without hotel access all produce the same error.
func TicketNotEligible() *apperrors.AppError {
	return apperrors.New(CodeTicketError, "Ticket is wrong", http.StatusForbidden)
}

func RoomFull(roomID int64) *apperrors.AppError {
	return apperrors.New(CodeFullRoom, "Room is full", http.StatusForbidden).
		WithDetails(map[string]any{"room_id": roomID})
}

func RoomBusy(roomID int64) *apperrors.AppError {
	return apperrors.Conflict("Room is being booked by another request, try again").
		WithDetails(map[string]any{"room_id": roomID})
}
