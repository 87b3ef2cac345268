package testutil

import (
	"context"
	"testing"
	"time"

	authrepository "hotelbooking/internal/auth/repository"
	bookingsrepository "hotelbooking/internal/bookings/repository"
	ticketsrepository "hotelbooking/internal/tickets/repository"
	dbmongo "hotelbooking/pkg/db/mongo"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabaseName = "hotelbooking_test"
	ConnectionTimeout   = 10 * time.Second
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	nextID   int64
}

// NewMongoHelper creates a new MongoDB test helper
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
	}
}

// Close closes MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanDatabase empties every collection the service uses. Collections are
// kept so their validators and unique indexes stay in place.
func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{
		bookingsrepository.BookingsCollection,
		bookingsrepository.RoomsCollection,
		bookingsrepository.RoomLocksCollection,
		ticketsrepository.EnrollmentsCollection,
		ticketsrepository.TicketsCollection,
		ticketsrepository.TicketTypesCollection,
		authrepository.SessionsCollection,
		dbmongo.CountersCollection,
	} {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

func (m *MongoHelper) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MongoHelper) insert(t *testing.T, collection string, doc any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.Database.Collection(collection).InsertOne(ctx, doc); err != nil {
		t.Fatalf("failed to insert into %s: %v", collection, err)
	}
}

func (m *MongoHelper) InsertRoom(t *testing.T, name string, capacity int) *model.Room {
	t.Helper()
	now := time.Now().UTC()
	room := &model.Room{ID: m.id(), Name: name, Capacity: capacity, HotelID: 1, CreatedAt: now, UpdatedAt: now}
	m.insert(t, bookingsrepository.RoomsCollection, room)
	return room
}

// InsertTicket enrolls userID with a ticket of the given status and type.
func (m *MongoHelper) InsertTicket(t *testing.T, userID int64, status model.TicketStatus, isRemote, includesHotel bool) *model.Ticket {
	t.Helper()
	now := time.Now().UTC()

	ticketType := &model.TicketType{
		ID: m.id(), Name: "Conference", Price: 600,
		IsRemote: isRemote, IncludesHotel: includesHotel,
		CreatedAt: now, UpdatedAt: now,
	}
	m.insert(t, ticketsrepository.TicketTypesCollection, ticketType)

	enrollment := &model.Enrollment{ID: m.id(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	m.insert(t, ticketsrepository.EnrollmentsCollection, enrollment)

	ticket := &model.Ticket{
		ID: m.id(), TicketTypeID: ticketType.ID, EnrollmentID: enrollment.ID,
		Status: status, CreatedAt: now, UpdatedAt: now,
	}
	m.insert(t, ticketsrepository.TicketsCollection, ticket)
	return ticket
}

func (m *MongoHelper) InsertSession(t *testing.T, userID int64, token string) {
	t.Helper()
	now := time.Now().UTC()
	m.insert(t, authrepository.SessionsCollection, &model.Session{
		ID: m.id(), UserID: userID, Token: token, CreatedAt: now, UpdatedAt: now,
	})
}

func (m *MongoHelper) CountBookings(t *testing.T, roomID int64) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(bookingsrepository.BookingsCollection).CountDocuments(ctx, bson.M{"room_id": roomID})
	if err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return count
}
