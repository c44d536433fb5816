package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/response"
	"github.com/stemsi/fitbook-backend/internal/service"
	"github.com/stemsi/fitbook-backend/internal/validator"
)

// Booker reserves slots and looks up bookings.
type Booker interface {
	Book(ctx context.Context, req model.BookingRequest) (model.BookingResult, error)
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
}

// BookingHandler handles booking creation and lookup.
type BookingHandler struct {
	bookingService Booker
	log            zerolog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService Booker, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		log:            log.With().Str("component", "booking_handler").Logger(),
	}
}

// BookingCreated is returned after a successful booking.
type BookingCreated struct {
	Message     string `json:"message"`
	BookingID   int64  `json:"booking_id"`
	ClassID     int64  `json:"class_id"`
	ClientEmail string `json:"client_email"`
}

// BookingView is a booking as listed to its owner.
type BookingView struct {
	ID          int64  `json:"id"`
	ClassID     int64  `json:"class_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
}

// ListBookingsQuery holds the query parameters for GET /bookings. Any
// non-empty string is looked up; one that matches nothing is a 404.
type ListBookingsQuery struct {
	Email string `form:"email" binding:"required"`
}

// CreateBooking godoc
// POST /book
// Reserves one slot in a class for the client.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.BookingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	result, err := h.bookingService.Book(c.Request.Context(), req)
	if err != nil {
		internalError(c, h.log, err, "Booking failed")
		return
	}

	switch err := service.OutcomeErr(result); {
	case err == nil:
		response.Success(c, http.StatusCreated, BookingCreated{
			Message:     "Booking successful",
			BookingID:   result.BookingID,
			ClassID:     result.ClassID,
			ClientEmail: result.ClientEmail,
		})
	case errors.Is(err, service.ErrClassNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Fail(c, http.StatusBadRequest, response.ErrClassFull)
	case errors.Is(err, service.ErrDuplicateBooking):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyBooked)
	default:
		internalError(c, h.log, err, "Booking returned no outcome")
	}
}

// ListBookings godoc
// GET /bookings?email=client@example.com
// Lists every booking made with the given email.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var q ListBookingsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	bookings, err := h.bookingService.ListByEmail(c.Request.Context(), q.Email)
	if errors.Is(err, service.ErrBookingsNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrBookingMissing)
		return
	}
	if err != nil {
		internalError(c, h.log, err, "List bookings failed")
		return
	}

	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, BookingView{
			ID:          b.ID,
			ClassID:     b.ClassID,
			ClientName:  b.ClientName,
			ClientEmail: b.ClientEmail,
		})
	}
	response.Success(c, http.StatusOK, views)
}
