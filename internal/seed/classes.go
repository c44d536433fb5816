// Package seed loads the demo class catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/repository"
)

// SampleClasses returns the demo catalog, one class per day starting at now,
// authored in loc. The last class is created full.
func SampleClasses(now time.Time, loc *time.Location) []model.ClassSession {
	start := now.In(loc).Truncate(time.Second)
	day := 24 * time.Hour

	return []model.ClassSession{
		{Name: "Yoga", StartsAt: start, Timezone: loc.String(), Instructor: "Alice", AvailableSlots: 10},
		{Name: "Zumba", StartsAt: start.Add(day), Timezone: loc.String(), Instructor: "Bob", AvailableSlots: 5},
		{Name: "HIIT", StartsAt: start.Add(2 * day), Timezone: loc.String(), Instructor: "Charlie", AvailableSlots: 1},
		{Name: "Spin", StartsAt: start.Add(3 * day), Timezone: loc.String(), Instructor: "David", AvailableSlots: 0},
	}
}

// Classes replaces the whole catalog with classes in one transaction.
// Existing bookings are removed too. IDs are assigned in slice order from 1.
func Classes(ctx context.Context, db repository.TxBeginner, classes []model.ClassSession, log zerolog.Logger) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error().Err(err).Msg("Seed rollback failed")
		}
	}()

	repo := repository.NewClassRepository(tx)
	if err := repo.Reset(ctx); err != nil {
		return err
	}

	for i := range classes {
		if err := repo.Create(ctx, &classes[i]); err != nil {
			return fmt.Errorf("create class %q: %w", classes[i].Name, err)
		}
		log.Info().
			Int64("id", classes[i].ID).
			Str("name", classes[i].Name).
			Str("starts_at", classes[i].StartsAt.Format(time.RFC3339)).
			Int("available_slots", classes[i].AvailableSlots).
			Msg("Seeded class")
	}

	committed = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
