package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/model"
)

const publishTimeout = 2 * time.Second

// AvailabilityPublisher fans out slot changes after a booking commits and
// drops the cached class listing so the next read sees fresh counts. It also
// bumps the cache version so fills already in flight cannot restore it.
type AvailabilityPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAvailabilityPublisher creates a new AvailabilityPublisher.
func NewAvailabilityPublisher(rdb *redis.Client, log zerolog.Logger) *AvailabilityPublisher {
	return &AvailabilityPublisher{
		rdb: rdb,
		log: log.With().Str("component", "availability_publisher").Logger(),
	}
}

// Publish is best effort: the booking is already committed, so failures are
// only logged.
func (p *AvailabilityPublisher) Publish(ctx context.Context, a model.ClassAvailability) {
	payload, err := json.Marshal(a)
	if err != nil {
		p.log.Error().Err(err).Msg("Marshal availability")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	pipe := p.rdb.TxPipeline()
	pipe.Incr(pubCtx, config.CacheKey.AvailableClassesVersionKey())
	pipe.Del(pubCtx, config.CacheKey.AvailableClassesKey())
	pipe.Publish(pubCtx, config.CacheKey.AvailabilityChannel(), payload)
	if _, err := pipe.Exec(pubCtx); err != nil {
		p.log.Warn().Err(err).Int64("class_id", a.ClassID).Msg("Availability publish failed")
	}
}

// Subscribe opens a subscription to availability changes. The caller closes it.
func (p *AvailabilityPublisher) Subscribe(ctx context.Context) *redis.PubSub {
	return p.rdb.Subscribe(ctx, config.CacheKey.AvailabilityChannel())
}
