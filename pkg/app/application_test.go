package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotelbooking/pkg/client"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/booking", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func allowAll(next http.Handler) http.Handler { return next }

func TestApplication_HealthIsPublic(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{}, denyAll)
	defer a.Stop()

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(`{"roomId":1}`))
	req.Header.Set("Content-Type", "application/json")
	a.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplication_RoutesThroughMiddleware(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{}, allowAll)
	defer a.Stop()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(`{"roomId":1}`))
	req.Header.Set("Content-Type", "application/json")
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(`roomId=1`)))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestApplication_StopRunsHooks(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(echoHandler{}, allowAll)

	var ran []string
	a.OnShutdown("producer", func() error {
		ran = append(ran, "producer")
		return errors.New("already closed")
	})
	a.OnShutdown("other", func() error {
		ran = append(ran, "other")
		return nil
	})

	a.Stop()
	a.Stop()

	assert.Equal(t, []string{"producer", "other"}, ran)
}

func TestHealthHandler_ReadyReportsStoreFailure(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("connection refused")}, logger.Discard())

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil), httprouter.Params{})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","database":"error"}`, w.Body.String())
}
