package events

import (
	"context"
	"strconv"
	"time"

	"hotelbooking/pkg/kafka"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

const schemaVersion = "1"

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingChanged(ctx context.Context, booking *model.Booking, previousRoomID int64) error
}

type kafkaPublisher struct {
	producer MessagePublisher
	source   string
}

func NewKafkaPublisher(producer MessagePublisher, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, model.EventBookingCreated, booking, model.BookingCreatedEvent{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		RoomID:     booking.RoomID,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *kafkaPublisher) BookingChanged(ctx context.Context, booking *model.Booking, previousRoomID int64) error {
	return p.publish(ctx, model.EventBookingChanged, booking, model.BookingChangedEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		RoomID:       booking.RoomID,
		PreviousRoom: previousRoomID,
		OccurredAt:   time.Now().UTC(),
	})
}

// publish keys every event by user id so one user's events stay ordered.
func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking, payload any) error {
	requestID, _ := ctx.Value(logger.RequestIDKey).(string)

	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(booking.UserID, 10)).
		WithHeader(kafka.HeaderBookingID, strconv.FormatInt(booking.ID, 10)).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(requestID).
		Build()

	return p.producer.Publish(ctx, msg)
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event. Used when Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingCreated(context.Context, *model.Booking) error { return nil }

func (noopPublisher) BookingChanged(context.Context, *model.Booking, int64) error { return nil }
