package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
)

// timeoutWriter buffers the handler response so nothing reaches the client
// once the deadline has passed. The header map is private to the handler
// goroutine and is copied out only when the handler finishes in time.
type timeoutWriter struct {
	mu          sync.Mutex
	header      http.Header
	buf         bytes.Buffer
	timedOut    bool
	wroteHeader bool
	statusCode  int
}

func newTimeoutWriter() *timeoutWriter {
	return &timeoutWriter{header: make(http.Header), statusCode: http.StatusOK}
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.statusCode = code
	tw.wroteHeader = true
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	tw.wroteHeader = true
	return tw.buf.Write(b)
}

// flush copies the buffered response to w. Callers hold tw.mu.
func (tw *timeoutWriter) flush(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
	w.WriteHeader(tw.statusCode)
	_, _ = w.Write(tw.buf.Bytes())
}

// RequestTimeout cancels the request context after timeout and answers 504.
// A panic in next is re-raised on the calling goroutine so an outer Recovery
// can handle it.
func RequestTimeout(timeout time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			tw := newTimeoutWriter()

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.flush(w)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				log.Warn("Request timed out",
					"request_id", requestID(r),
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout,
				)
				reject(w, log, "RequestTimeout", apperrors.Timeout("Request timeout"))
			}
		})
	}
}
