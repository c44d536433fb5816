package service

import (
	"errors"

	"github.com/stemsi/fitbook-backend/internal/model"
)

// Domain Errors
var (
	ErrClassNotFound     = errors.New("class not found")
	ErrCapacityExceeded  = errors.New("no available slots for this class")
	ErrDuplicateBooking  = errors.New("client has already booked this class")
	ErrBookingsNotFound  = errors.New("no bookings found for this email")
	ErrUnexpectedOutcome = errors.New("unexpected booking outcome")
)

// OutcomeErr maps a booking result to the matching domain error, or nil when
// the booking was committed.
func OutcomeErr(r model.BookingResult) error {
	switch r.Outcome {
	case model.OutcomeCommitted:
		return nil
	case model.OutcomeClassNotFound:
		return ErrClassNotFound
	case model.OutcomeCapacityExceeded:
		return ErrCapacityExceeded
	case model.OutcomeDuplicateBooking:
		return ErrDuplicateBooking
	default:
		return ErrUnexpectedOutcome
	}
}
