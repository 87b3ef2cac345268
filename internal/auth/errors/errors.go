package errors

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")

	ErrInvalidToken = errors.New("invalid token")
)
