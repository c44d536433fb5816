package main

import (
	"context"
	"fmt"
	"time"

	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/database"
	"github.com/stemsi/fitbook-backend/internal/logger"
	"github.com/stemsi/fitbook-backend/internal/seed"
	"github.com/stemsi/fitbook-backend/internal/timezone"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	loc, ok := timezone.Resolve(cfg.ClassTimezone)
	if !ok {
		log.Fatal().Str("timezone", cfg.ClassTimezone).Msg("CLASS_TIMEZONE is not a valid IANA zone")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Printf("=== Seeding classes (%s) ===\n", loc)

	classes := seed.SampleClasses(time.Now(), loc)
	if err := seed.Classes(ctx, pool, classes, log); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	for _, c := range classes {
		fmt.Printf("  #%d %-6s %s  %-8s slots=%d\n",
			c.ID, c.Name, c.StartsAt.Format(time.RFC3339), c.Instructor, c.AvailableSlots)
	}
	fmt.Println("Done.")
}
