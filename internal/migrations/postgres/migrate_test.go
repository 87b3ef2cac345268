package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatements(t *testing.T) {
	statements := Statements()

	assert.NotEmpty(t, statements)
	for _, stmt := range statements {
		assert.True(t,
			strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS") || strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS"),
			"statement must be rerunnable: %s", stmt)
	}
}

func TestSchema_OneBookingPerUser(t *testing.T) {
	assert.Contains(t, schema, "CONSTRAINT uniq_booking_user UNIQUE (user_id)")
}

func TestSchema_CoversEveryTable(t *testing.T) {
	for _, table := range []string{"rooms", "bookings", "room_locks", "enrollments", "ticket_types", "tickets", "sessions"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}
