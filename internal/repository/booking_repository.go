package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/fitbook-backend/internal/model"
)

var ErrDuplicateBooking = errors.New("client already booked this class")

const bookingColumns = `id, class_id, client_name, client_email, created_at`

// BookingRepository handles the booking ledger. Rows are only ever inserted.
type BookingRepository struct {
	db DBTX
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *BookingRepository) WithTx(tx pgx.Tx) *BookingRepository {
	return &BookingRepository{db: tx}
}

// Create inserts a booking. A second booking for the same (class, email)
// pair hits the unique constraint and yields ErrDuplicateBooking; inside a
// transaction the caller must then roll back.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings (class_id, client_name, client_email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		b.ClassID, b.ClientName, b.ClientEmail,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrDuplicateBooking
		}
		return err
	}
	return nil
}

// ListByEmail returns every booking held by email, oldest first.
func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings WHERE client_email = $1 ORDER BY id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CountByClass returns how many bookings reference classID.
func (r *BookingRepository) CountByClass(ctx context.Context, classID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE class_id = $1`, classID,
	).Scan(&n)
	return n, err
}
