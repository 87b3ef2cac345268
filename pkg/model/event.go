package model

import "time"

const (
	EventBookingCreated = "booking.created"
	EventBookingChanged = "booking.changed"
)

type BookingCreatedEvent struct {
	BookingID  int64     `json:"bookingId"`
	UserID     int64     `json:"userId"`
	RoomID     int64     `json:"roomId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type BookingChangedEvent struct {
	BookingID    int64     `json:"bookingId"`
	UserID       int64     `json:"userId"`
	RoomID       int64     `json:"roomId"`
	PreviousRoom int64     `json:"previousRoomId"`
	OccurredAt   time.Time `json:"occurredAt"`
}
