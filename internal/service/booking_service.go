package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/repository"
)

// BookingService is the booking engine: it reserves slots and records
// bookings atomically, and answers booking lookups.
type BookingService struct {
	db          repository.TxBeginner
	classRepo   *repository.ClassRepository
	bookingRepo *repository.BookingRepository
	events      *AvailabilityPublisher
	log         zerolog.Logger
}

// NewBookingService creates a new BookingService. events may be nil.
func NewBookingService(
	db repository.TxBeginner,
	classRepo *repository.ClassRepository,
	bookingRepo *repository.BookingRepository,
	events *AvailabilityPublisher,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		db:          db,
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		events:      events,
		log:         log.With().Str("component", "booking_service").Logger(),
	}
}

// Book attempts to reserve one slot in req.ClassID for the client.
//
// Everything runs in one transaction: a conditional decrement of the class's
// slots followed by the booking insert. Business rejections come back as
// result.Outcome with a nil error and leave the store untouched; a non-nil
// error means the store itself failed.
func (s *BookingService) Book(ctx context.Context, req model.BookingRequest) (model.BookingResult, error) {
	req.Normalize()
	result := model.BookingResult{ClassID: req.ClassID, ClientEmail: req.ClientEmail}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("begin booking tx: %w", err)
	}
	commitAttempted := false
	defer func() {
		if commitAttempted {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.log.Error().Err(rbErr).Int64("class_id", req.ClassID).Msg("Booking rollback failed")
		}
	}()

	remaining, err := s.classRepo.WithTx(tx).ReserveSlot(ctx, req.ClassID)
	if errors.Is(err, repository.ErrSlotNotReserved) {
		outcome, err := s.explainMiss(ctx, tx, req.ClassID)
		if err != nil {
			return result, err
		}
		result.Outcome = outcome
		s.logRejected(result)
		return result, nil
	}
	if err != nil {
		return result, err
	}

	booking := &model.Booking{
		ClassID:     req.ClassID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
	}
	if err := s.bookingRepo.WithTx(tx).Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			// Deferred rollback also returns the reserved slot.
			result.Outcome = model.OutcomeDuplicateBooking
			s.logRejected(result)
			return result, nil
		}
		return result, fmt.Errorf("insert booking: %w", err)
	}

	commitAttempted = true
	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit booking: %w", err)
	}

	result.Outcome = model.OutcomeCommitted
	result.BookingID = booking.ID
	result.RemainingSlots = remaining

	s.log.Info().
		Int64("booking_id", booking.ID).
		Int64("class_id", req.ClassID).
		Int("remaining_slots", remaining).
		Msg("Booking committed")

	if s.events != nil {
		s.events.Publish(ctx, model.ClassAvailability{
			ClassID:        req.ClassID,
			AvailableSlots: remaining,
			Seq:            booking.ID,
		})
	}

	return result, nil
}

// explainMiss tells a missing class from a full one after the conditional
// decrement matched nothing. It reads inside the same transaction and keeps a
// share lock on the row, so the answer cannot be invalidated before rollback.
func (s *BookingService) explainMiss(ctx context.Context, tx pgx.Tx, classID int64) (model.BookingOutcome, error) {
	slots, err := s.classRepo.WithTx(tx).SlotsForShare(ctx, classID)
	switch {
	case errors.Is(err, repository.ErrClassNotFound):
		return model.OutcomeClassNotFound, nil
	case err != nil:
		return 0, err
	}
	if slots > 0 {
		s.log.Warn().Int64("class_id", classID).Int("slots", slots).Msg("Slots reappeared after failed reservation")
	}
	return model.OutcomeCapacityExceeded, nil
}

func (s *BookingService) logRejected(r model.BookingResult) {
	s.log.Debug().
		Int64("class_id", r.ClassID).
		Str("outcome", r.Outcome.String()).
		Msg("Booking rejected")
}

// ListByEmail returns the client's bookings. An empty result is reported as
// ErrBookingsNotFound rather than an empty slice.
func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.ListByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, ErrBookingsNotFound
	}
	return bookings, nil
}
