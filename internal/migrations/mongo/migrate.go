package mongo

import (
	"context"
	"fmt"

	authrepository "hotelbooking/internal/auth/repository"
	bookingsrepository "hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/migrations/mongo/validators"
	ticketsrepository "hotelbooking/internal/tickets/repository"
	"hotelbooking/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CollectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_booking_user"),
		},
		{Keys: bson.D{{Key: "room_id", Value: 1}}},
	}

	RoomLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_room_lock"),
		},
	}

	RoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "hotel_id", Value: 1}}},
	}

	EnrollmentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	TicketsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "enrollment_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	SessionsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

// Collections lists every collection the service reads or writes, in
// creation order.
func Collections() []CollectionDef {
	return []CollectionDef{
		{Name: bookingsrepository.RoomsCollection, Indexes: RoomsIndexes, Validator: validators.RoomValidator},
		{Name: bookingsrepository.BookingsCollection, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		{Name: bookingsrepository.RoomLocksCollection, Indexes: RoomLocksIndexes, Validator: validators.RoomLockValidator},
		{Name: ticketsrepository.EnrollmentsCollection, Indexes: EnrollmentsIndexes, Validator: validators.EnrollmentValidator},
		{Name: ticketsrepository.TicketTypesCollection, Validator: validators.TicketTypeValidator},
		{Name: ticketsrepository.TicketsCollection, Indexes: TicketsIndexes, Validator: validators.TicketValidator},
		{Name: authrepository.SessionsCollection, Indexes: SessionsIndexes, Validator: validators.SessionValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All Mongo migrations applied")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
