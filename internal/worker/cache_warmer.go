package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher reloads a cache from its source of truth.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CacheWarmer keeps the class listing cache populated so readers rarely
// fall through to PostgreSQL.
type CacheWarmer struct {
	classes  Refresher
	interval time.Duration
	log      zerolog.Logger
}

// NewCacheWarmer creates a CacheWarmer that refreshes every interval.
func NewCacheWarmer(classes Refresher, interval time.Duration, log zerolog.Logger) *CacheWarmer {
	return &CacheWarmer{
		classes:  classes,
		interval: interval,
		log:      log.With().Str("component", "cache_warmer").Logger(),
	}
}

// Start refreshes once immediately, then on every tick until ctx is done.
// Call in a goroutine. A non-positive interval only performs the first refresh.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")
	w.refresh(ctx)

	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheWarmer) refresh(ctx context.Context) {
	if err := w.classes.Refresh(ctx); err != nil && ctx.Err() == nil {
		w.log.Warn().Err(err).Msg("Class cache refresh failed")
	}
}
