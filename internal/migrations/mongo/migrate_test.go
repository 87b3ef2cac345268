package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections_UniqueBookingPerUser(t *testing.T) {
	var found bool
	for _, def := range Collections() {
		if def.Name != "Bookings" {
			continue
		}
		found = true
		a := assert.New(t)
		a.NotEmpty(def.Indexes)
		first := def.Indexes[0]
		a.Equal(bson.D{{Key: "user_id", Value: 1}}, first.Keys)
		a.NotNil(first.Options)
		a.NotNil(first.Options.Unique)
		a.True(*first.Options.Unique)
	}
	assert.True(t, found, "Bookings collection must be migrated")
}

func TestCollections_RoomLocksExpire(t *testing.T) {
	for _, def := range Collections() {
		if def.Name != "Room_locks" {
			continue
		}
		opts := def.Indexes[0].Options
		assert.NotNil(t, opts.ExpireAfterSeconds)
		assert.Equal(t, int32(0), *opts.ExpireAfterSeconds)
		return
	}
	t.Fatal("Room_locks collection must be migrated")
}

func TestCollections_HaveValidators(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Collections() {
		assert.False(t, seen[def.Name], "duplicate collection %s", def.Name)
		seen[def.Name] = true
		assert.Contains(t, def.Validator, "$jsonSchema", def.Name)
	}
	assert.Len(t, seen, 7)
}
