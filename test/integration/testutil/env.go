package testutil

import (
	"os"
	"testing"
	"time"

	"hotelbooking/internal/auth"
	"hotelbooking/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv points at a running bookings service and the MongoDB it uses.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
}

// NewTestEnv skips the calling test unless TEST_SERVER_URL, TEST_MONGO_URI
// and TEST_JWT_SECRET are set.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	env := &TestEnv{
		MongoURI:     os.Getenv("TEST_MONGO_URI"),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:    os.Getenv("TEST_SERVER_URL"),
		JWTSecret:    os.Getenv("TEST_JWT_SECRET"),
	}
	if env.MongoURI == "" || env.ServerURL == "" || env.JWTSecret == "" {
		t.Skip("TEST_SERVER_URL, TEST_MONGO_URI and TEST_JWT_SECRET must be set for integration tests")
	}
	return env
}

func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	if err := client.NewHttpClient(e.ServerURL).WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("service never became healthy: %v", err)
	}

	t.Cleanup(func() {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	})
	return mongo
}

// Login creates a session for userID and returns a client authenticated as that user.
func (e *TestEnv) Login(t *testing.T, mongo *MongoHelper, userID int64) *client.BookingClient {
	t.Helper()

	token, err := auth.NewTokenVerifier(e.JWTSecret).Sign(userID)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	mongo.InsertSession(t, userID, token)
	return client.NewBookingClient(e.ServerURL, token)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
