package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hotelbooking/internal/auth"
	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/validator"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	getBookingFunc    func(ctx context.Context, userID int64) (*model.BookingResponse, error)
	createBookingFunc func(ctx context.Context, roomID int64, userID int64) (int64, error)
	changeBookingFunc func(ctx context.Context, roomID int64, userID int64) (int64, error)
}

func (m *mockBookingService) GetBooking(ctx context.Context, userID int64) (*model.BookingResponse, error) {
	if m.getBookingFunc != nil {
		return m.getBookingFunc(ctx, userID)
	}
	return nil, apperrors.NotFound("Booking")
}

func (m *mockBookingService) CreateBooking(ctx context.Context, roomID int64, userID int64) (int64, error) {
	if m.createBookingFunc != nil {
		return m.createBookingFunc(ctx, roomID, userID)
	}
	return 0, nil
}

func (m *mockBookingService) ChangeBooking(ctx context.Context, roomID int64, userID int64) (int64, error) {
	if m.changeBookingFunc != nil {
		return m.changeBookingFunc(ctx, roomID, userID)
	}
	return 0, nil
}

func newTestHandler(svc *mockBookingService) *BookingHandler {
	log := logger.Discard()
	return NewBookingHandler(svc, validator.NewBookingValidator(log), log)
}

func newRequest(method, body string, userID int64) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/booking", nil)
	} else {
		req = httptest.NewRequest(method, "/booking", strings.NewReader(body))
	}
	if userID > 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGet_ReturnsBookingWithRoom(t *testing.T) {
	svc := &mockBookingService{
		getBookingFunc: func(_ context.Context, userID int64) (*model.BookingResponse, error) {
			assert.Equal(t, int64(5), userID)
			return &model.BookingResponse{
				ID:   11,
				Room: model.RoomResponse{ID: 3, Name: "101", Capacity: 2, HotelID: 1},
			}, nil
		},
	}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "", 5), httprouter.Params{})

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 11, body["id"])
	room, ok := body["Room"].(map[string]any)
	require.True(t, ok, "response must carry the Room object")
	assert.EqualValues(t, 3, room["id"])
}

func TestGet_NotFound(t *testing.T) {
	h := newTestHandler(&mockBookingService{})

	w := httptest.NewRecorder()
	h.Get(w, newRequest(http.MethodGet, "", 5), httprouter.Params{})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, w).Code)
}

func TestCreate_ReturnsBookingID(t *testing.T) {
	var gotRoom, gotUser int64
	svc := &mockBookingService{
		createBookingFunc: func(_ context.Context, roomID int64, userID int64) (int64, error) {
			gotRoom, gotUser = roomID, userID
			return 21, nil
		},
	}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, `{"roomId": 3}`, 5), httprouter.Params{})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookingId": 21}`, w.Body.String())
	assert.Equal(t, int64(3), gotRoom)
	assert.Equal(t, int64(5), gotUser)
}

func TestCreate_RejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing body", "", apperrors.CodeInvalidInput},
		{"malformed json", `{"roomId":`, apperrors.CodeInvalidInput},
		{"string room id", `{"roomId": "3"}`, apperrors.CodeInvalidInput},
		{"unknown field", `{"roomId": 3, "extra": true}`, apperrors.CodeInvalidInput},
		{"missing room id", `{}`, apperrors.CodeValidation},
		{"negative room id", `{"roomId": -1}`, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockBookingService{
				createBookingFunc: func(context.Context, int64, int64) (int64, error) {
					called = true
					return 1, nil
				},
			}
			h := newTestHandler(svc)

			w := httptest.NewRecorder()
			h.Create(w, newRequest(http.MethodPost, tt.body, 5), httprouter.Params{})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
			assert.False(t, called, "service must not be called on an invalid body")
		})
	}
}

func TestCreate_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"ticket not eligible", bookingserrors.TicketNotEligible(), http.StatusForbidden, bookingserrors.CodeTicketError},
		{"room full", bookingserrors.RoomFull(3), http.StatusForbidden, bookingserrors.CodeFullRoom},
		{"room not found", bookingserrors.RoomNotFound(3), http.StatusNotFound, apperrors.CodeNotFound},
		{"booking exists", bookingserrors.BookingExists(), http.StatusConflict, apperrors.CodeConflict},
		{"room busy", bookingserrors.RoomBusy(3), http.StatusConflict, apperrors.CodeConflict},
		{"internal", apperrors.Internal("Failed to create booking", nil), http.StatusInternalServerError, apperrors.CodeInternal},
		{"deadline", apperrors.Internal("Failed to create booking", fmt.Errorf("insert: %w", context.DeadlineExceeded)), http.StatusGatewayTimeout, apperrors.CodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createBookingFunc: func(context.Context, int64, int64) (int64, error) {
					return 0, tt.err
				},
			}
			h := newTestHandler(svc)

			w := httptest.NewRecorder()
			h.Create(w, newRequest(http.MethodPost, `{"roomId": 3}`, 5), httprouter.Params{})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestChange_ReturnsBookingID(t *testing.T) {
	svc := &mockBookingService{
		changeBookingFunc: func(_ context.Context, roomID int64, userID int64) (int64, error) {
			assert.Equal(t, int64(4), roomID)
			assert.Equal(t, int64(5), userID)
			return 21, nil
		},
	}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Change(w, newRequest(http.MethodPut, `{"roomId": 4}`, 5), httprouter.Params{})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookingId": 21}`, w.Body.String())
}

func TestChange_NoBooking(t *testing.T) {
	svc := &mockBookingService{
		changeBookingFunc: func(context.Context, int64, int64) (int64, error) {
			return 0, bookingserrors.NoBooking()
		},
	}
	h := newTestHandler(svc)

	w := httptest.NewRecorder()
	h.Change(w, newRequest(http.MethodPut, `{"roomId": 4}`, 5), httprouter.Params{})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_RequireUser(t *testing.T) {
	h := newTestHandler(&mockBookingService{})

	handlers := map[string]httprouter.Handle{
		http.MethodGet:  h.Get,
		http.MethodPost: h.Create,
		http.MethodPut:  h.Change,
	}

	for method, handle := range handlers {
		t.Run(method, func(t *testing.T) {
			w := httptest.NewRecorder()
			handle(w, newRequest(method, `{"roomId": 3}`, 0), httprouter.Params{})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	h := newTestHandler(&mockBookingService{
		createBookingFunc: func(context.Context, int64, int64) (int64, error) { return 1, nil },
		changeBookingFunc: func(context.Context, int64, int64) (int64, error) { return 1, nil },
	})
	router := httprouter.New()
	h.RegisterRoutes(router)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, newRequest(method, `{"roomId": 3}`, 5))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newRequest(http.MethodDelete, "", 5))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
