package middleware

import (
	"net/http"

	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
)

func reject(w http.ResponseWriter, log *logger.Logger, middleware string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "middleware", middleware, "operation", "WriteError", "error", writeErr)
	}
}
