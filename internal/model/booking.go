package model

import (
	"strings"
	"time"
)

// Booking is a committed reservation of one slot by one client.
type Booking struct {
	ID          int64     `json:"id"`
	ClassID     int64     `json:"class_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingRequest is the payload for reserving a slot.
type BookingRequest struct {
	ClassID     int64  `json:"class_id" binding:"required,min=1"`
	ClientName  string `json:"client_name" binding:"required,notblank,max=120"`
	ClientEmail string `json:"client_email" binding:"required,email,max=254"`
}

// Normalize trims the name and canonicalizes the email the same way lookups do.
func (r *BookingRequest) Normalize() {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ClientEmail = NormalizeEmail(r.ClientEmail)
}

// NormalizeEmail is the single email canonicalization used at intake and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BookingOutcome is the terminal state of one booking attempt.
type BookingOutcome int

const (
	OutcomeCommitted BookingOutcome = iota + 1
	OutcomeClassNotFound
	OutcomeCapacityExceeded
	OutcomeDuplicateBooking
)

func (o BookingOutcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeClassNotFound:
		return "class_not_found"
	case OutcomeCapacityExceeded:
		return "capacity_exceeded"
	case OutcomeDuplicateBooking:
		return "duplicate_booking"
	default:
		return "unknown"
	}
}

// BookingResult reports what a booking attempt did. BookingID and
// RemainingSlots are only set when Outcome is OutcomeCommitted.
type BookingResult struct {
	Outcome        BookingOutcome
	ClassID        int64
	ClientEmail    string
	BookingID      int64
	RemainingSlots int
}

// Committed reports whether the attempt produced a booking.
func (r BookingResult) Committed() bool {
	return r.Outcome == OutcomeCommitted
}
