package model

import "time"

type Enrollment struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	UserID    int64     `json:"userId" bson:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

type Session struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	UserID    int64     `json:"userId" bson:"user_id" db:"user_id"`
	Token     string    `json:"token" bson:"token" db:"token"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}
