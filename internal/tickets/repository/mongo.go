package repository

import (
	"context"
	"errors"
	"fmt"

	ticketserrors "hotelbooking/internal/tickets/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoEnrollmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEnrollmentRepository(cfg *config.Config) EnrollmentRepository {
	return &mongoEnrollmentRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(EnrollmentsCollection),
	}
}

func (r *mongoEnrollmentRepository) FindByUserID(ctx context.Context, userID int64) (*model.Enrollment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var enrollment model.Enrollment
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&enrollment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ticketserrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return &enrollment, nil
}

type mongoTicketRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTicketRepository(cfg *config.Config) TicketRepository {
	return &mongoTicketRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(TicketsCollection),
	}
}

func (r *mongoTicketRepository) FindByEnrollmentID(ctx context.Context, enrollmentID int64) (*model.Ticket, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var ticket model.Ticket
	if err := r.collection.FindOne(ctx, bson.M{"enrollment_id": enrollmentID}).Decode(&ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ticketserrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (r *mongoTicketRepository) FindTicketForBooking(ctx context.Context, enrollmentID int64) (*model.TicketWithType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"enrollment_id": enrollmentID}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         TicketTypesCollection,
			"localField":   "ticket_type_id",
			"foreignField": "_id",
			"as":           "ticket_type",
		}}},
		{{Key: "$unwind", Value: "$ticket_type"}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket for booking: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to find ticket for booking: %w", err)
		}
		return nil, ticketserrors.ErrTicketNotFound
	}

	var ticket model.TicketWithType
	if err := cursor.Decode(&ticket); err != nil {
		return nil, fmt.Errorf("failed to decode ticket: %w", err)
	}
	return &ticket, nil
}
