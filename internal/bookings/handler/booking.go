package handler

import (
	"context"
	"errors"
	"net/http"

	"hotelbooking/internal/auth"
	"hotelbooking/internal/bookings/service"
	"hotelbooking/internal/bookings/validator"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, validator *validator.BookingValidator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, "Get", apperrors.Unauthorized("Authentication required"))
		return
	}

	booking, err := h.service.GetBooking(r.Context(), userID)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Authentication required"))
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	bookingID, err := h.service.CreateBooking(r.Context(), req.RoomID, userID)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.BookingIDResponse{BookingID: bookingID}); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Change(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, "Change", apperrors.Unauthorized("Authentication required"))
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		h.writeError(w, "Change", err)
		return
	}

	bookingID, err := h.service.ChangeBooking(r.Context(), req.RoomID, userID)
	if err != nil {
		h.writeError(w, "Change", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.BookingIDResponse{BookingID: bookingID}); err != nil {
		h.log.Error("failed to write success response", "handler", "Change", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/booking", h.Get)
	router.POST("/booking", h.Create)
	router.PUT("/booking", h.Change)
}

func (h *BookingHandler) decodeRequest(r *http.Request) (*model.BookingRequest, error) {
	var req model.BookingRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		return nil, err
	}

	if err := h.validator.Validate(&req); err != nil {
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"errors": err})
	}
	return &req, nil
}

// writeError answers a store call cut short by the request deadline with 504
// rather than the 500 it was wrapped in.
func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.Timeout("Request timeout")
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
