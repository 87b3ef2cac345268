package repository

import (
	"context"
	"time"

	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SessionsCollection = "Sessions"
	SessionsTable      = "sessions"
)

type SessionRepository interface {
	FindByToken(ctx context.Context, token string) (*model.Session, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}
