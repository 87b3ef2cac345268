package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	autherrors "hotelbooking/internal/auth/errors"
	"hotelbooking/internal/auth/repository"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
)

const bearerScheme = "Bearer"

type Middleware struct {
	verifier *TokenVerifier
	sessions repository.SessionRepository
	log      *logger.Logger
}

func NewMiddleware(verifier *TokenVerifier, sessions repository.SessionRepository, log *logger.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		sessions: sessions,
		log:      log,
	}
}

// Authenticate rejects requests without a valid bearer token backed by a
// session and stores the caller's user id in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				m.log.Error("failed to write error response", "middleware", "Authenticate", "operation", "WriteError", "error", writeErr)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (int64, error) {
	log := m.log.WithContext(r.Context())

	token, ok := bearerToken(r)
	if !ok {
		return 0, apperrors.Unauthorized("Missing authorization token")
	}

	userID, err := m.verifier.Verify(token)
	if err != nil {
		log.Warn("Rejected invalid token", "path", r.URL.Path, "error", err)
		return 0, apperrors.Unauthorized("Invalid token")
	}

	session, err := m.sessions.FindByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, autherrors.ErrSessionNotFound) {
			log.Warn("Rejected token without session", "path", r.URL.Path, "user_id", userID)
			return 0, apperrors.Unauthorized("Session not found")
		}
		log.Error("Failed to look up session", "error", err)
		return 0, apperrors.Internal("Failed to authenticate request", err)
	}
	if session.UserID != userID {
		log.Warn("Rejected token bound to another user", "path", r.URL.Path, "user_id", userID, "session_user_id", session.UserID)
		return 0, apperrors.Unauthorized("Invalid token")
	}

	return userID, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, logger.UserIDKey, userID)
}

// UserID returns the authenticated user id stored by Authenticate.
func UserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(logger.UserIDKey).(int64)
	return userID, ok && userID > 0
}
