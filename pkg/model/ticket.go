package model

import "time"

type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "RESERVED"
	TicketStatusPaid     TicketStatus = "PAID"
)

type Ticket struct {
	ID           int64        `json:"id" bson:"_id" db:"id"`
	TicketTypeID int64        `json:"ticketTypeId" bson:"ticket_type_id" db:"ticket_type_id"`
	EnrollmentID int64        `json:"enrollmentId" bson:"enrollment_id" db:"enrollment_id"`
	Status       TicketStatus `json:"status" bson:"status" db:"status"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

type TicketType struct {
	ID            int64     `json:"id" bson:"_id" db:"id"`
	Name          string    `json:"name" bson:"name" db:"name"`
	Price         int       `json:"price" bson:"price" db:"price"`
	IsRemote      bool      `json:"isRemote" bson:"is_remote" db:"is_remote"`
	IncludesHotel bool      `json:"includesHotel" bson:"includes_hotel" db:"includes_hotel"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

type TicketWithType struct {
	Ticket     `bson:",inline"`
	TicketType TicketType `json:"TicketType" bson:"ticket_type" db:"ticket_type"`
}

// AllowsHotelBooking reports whether the ticket is paid, in person and
// includes hotel access.
func (t *TicketWithType) AllowsHotelBooking() bool {
	return t.Status == TicketStatusPaid &&
		t.TicketType.IncludesHotel &&
		!t.TicketType.IsRemote
}
