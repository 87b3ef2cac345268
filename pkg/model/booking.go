package model

import (
	"time"
)

type Booking struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	UserID    int64     `json:"userId" bson:"user_id" db:"user_id"`
	RoomID    int64     `json:"roomId" bson:"room_id" db:"room_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// BookingWithRoom is a booking joined with the room it references.
type BookingWithRoom struct {
	Booking `bson:",inline"`
	Room    Room `json:"Room" bson:"room" db:"room"`
}

type BookingRequest struct {
	RoomID int64 `json:"roomId" validate:"required,gt=0"`
}

type BookingIDResponse struct {
	BookingID int64 `json:"bookingId"`
}

// BookingResponse is the public view of a booking. The owning user is left out.
type BookingResponse struct {
	ID   int64        `json:"id"`
	Room RoomResponse `json:"Room"`
}

func NewBookingResponse(b *BookingWithRoom) *BookingResponse {
	return &BookingResponse{
		ID:   b.ID,
		Room: NewRoomResponse(&b.Room),
	}
}
