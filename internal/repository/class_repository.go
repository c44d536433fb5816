package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/fitbook-backend/internal/model"
)

var (
	ErrClassNotFound = errors.New("class not found")
	// ErrSlotNotReserved means the conditional decrement matched no row:
	// the class is either missing or already full.
	ErrSlotNotReserved = errors.New("no slot reserved")
	ErrNegativeSlots   = errors.New("available slots cannot be negative")
)

const classColumns = `id, name, starts_at, timezone, instructor, available_slots`

// ClassRepository handles class catalog data access.
type ClassRepository struct {
	db DBTX
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ClassRepository) WithTx(tx pgx.Tx) *ClassRepository {
	return &ClassRepository{db: tx}
}

// ReserveSlot decrements available_slots by one in a single conditional
// statement and returns the slots left. It never reads before writing, so
// concurrent callers queue on the row lock instead of racing.
func (r *ClassRepository) ReserveSlot(ctx context.Context, classID int64) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx,
		`UPDATE classes SET available_slots = available_slots - 1
		 WHERE id = $1 AND available_slots > 0
		 RETURNING available_slots`, classID,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSlotNotReserved
		}
		return 0, fmt.Errorf("reserve slot: %w", err)
	}
	return remaining, nil
}

// SlotsForShare reads a class's remaining slots and holds a share lock on the
// row until the surrounding transaction ends.
func (r *ClassRepository) SlotsForShare(ctx context.Context, classID int64) (int, error) {
	var slots int
	err := r.db.QueryRow(ctx,
		`SELECT available_slots FROM classes WHERE id = $1 FOR SHARE`, classID,
	).Scan(&slots)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrClassNotFound
		}
		return 0, fmt.Errorf("read slots: %w", err)
	}
	return slots, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*model.ClassSession, error) {
	c := &model.ClassSession{}
	err := r.db.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.StartsAt, &c.Timezone, &c.Instructor, &c.AvailableSlots)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListAvailable retrieves classes that still have free slots, in id order.
func (r *ClassRepository) ListAvailable(ctx context.Context) ([]model.ClassSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+classColumns+`
		 FROM classes WHERE available_slots > 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]model.ClassSession, 0)
	for rows.Next() {
		var c model.ClassSession
		if err := rows.Scan(&c.ID, &c.Name, &c.StartsAt, &c.Timezone, &c.Instructor, &c.AvailableSlots); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class and fills in its ID.
func (r *ClassRepository) Create(ctx context.Context, c *model.ClassSession) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO classes (name, starts_at, timezone, instructor, available_slots)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.Name, c.StartsAt, c.Timezone, c.Instructor, c.AvailableSlots,
	).Scan(&c.ID)
	if err != nil {
		if isPgError(err, pgCheckViolation) {
			return ErrNegativeSlots
		}
		return err
	}
	return nil
}

// Reset deletes every class and booking and restarts both id sequences.
func (r *ClassRepository) Reset(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE bookings, classes RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate catalog: %w", err)
	}
	return nil
}
