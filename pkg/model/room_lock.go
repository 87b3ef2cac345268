package model

import (
	"strconv"
	"time"
)

const roomLockPrefix = "room_lock_"

// RoomLock is an advisory lock serializing capacity checks and writes on one room.
// It expires on its own if the holder dies before releasing it.
type RoomLock struct {
	ID        string    `bson:"_id" db:"id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" db:"created_at" json:"created_at"`
}

func RoomLockID(roomID int64) string {
	return roomLockPrefix + strconv.FormatInt(roomID, 10)
}

func NewRoomLock(roomID int64, ttl time.Duration) *RoomLock {
	return &RoomLock{
		ID:        RoomLockID(roomID),
		ExpiresAt: time.Now().Add(ttl),
	}
}
