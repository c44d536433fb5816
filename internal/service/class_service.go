package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/repository"
	"github.com/stemsi/fitbook-backend/internal/timezone"
)

// ClassService serves the read-only class catalog.
type ClassService struct {
	classRepo *repository.ClassRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
	log       zerolog.Logger
}

// NewClassService creates a new ClassService. A zero cacheTTL disables caching.
func NewClassService(classRepo *repository.ClassRepository, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
		log:       log.With().Str("component", "class_service").Logger(),
	}
}

// ListAvailable returns bookable classes with start times shown in the
// requested zone, plus the zone actually used. Unknown zones fall back to UTC.
// Stored values are never modified.
func (s *ClassService) ListAvailable(ctx context.Context, tzName string) ([]model.ClassSession, *time.Location, error) {
	loc, ok := timezone.Resolve(tzName)
	if !ok && strings.TrimSpace(tzName) != "" {
		s.log.Debug().Str("tz", tzName).Msg("Unknown timezone, using UTC")
	}

	classes, err := s.available(ctx)
	if err != nil {
		return nil, nil, err
	}

	out := make([]model.ClassSession, len(classes))
	for i, c := range classes {
		out[i] = c.InZone(loc)
	}
	return out, loc, nil
}

// available reads through the Redis cache. Cache trouble never fails the request.
func (s *ClassService) available(ctx context.Context) ([]model.ClassSession, error) {
	key := config.CacheKey.AvailableClassesKey()

	if s.cacheTTL > 0 {
		data, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached []model.ClassSession
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			s.log.Warn().Msg("Discarding unreadable class cache")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("Class cache read failed")
		}
	}

	var version int64
	var versionOK bool
	if s.cacheTTL > 0 {
		version, versionOK = s.cacheVersion(ctx)
	}

	classes, err := s.classRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available classes: %w", err)
	}

	if s.cacheTTL > 0 && versionOK {
		if err := s.store(ctx, version, classes); err != nil {
			s.log.Warn().Err(err).Msg("Class cache write failed")
		}
	}

	return classes, nil
}

// Refresh reloads the cached listing from the database. It is a no-op when
// caching is disabled.
func (s *ClassService) Refresh(ctx context.Context) error {
	if s.cacheTTL <= 0 {
		return nil
	}
	version, err := s.rdb.Get(ctx, config.CacheKey.AvailableClassesVersionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read class cache version: %w", err)
	}
	classes, err := s.classRepo.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("list available classes: %w", err)
	}
	return s.store(ctx, version, classes)
}

// cacheVersion reads the invalidation counter. A missing counter is 0.
func (s *ClassService) cacheVersion(ctx context.Context) (int64, bool) {
	v, err := s.rdb.Get(ctx, config.CacheKey.AvailableClassesVersionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Class cache version read failed")
		return 0, false
	}
	return v, true
}

// storeIfCurrent writes the listing only while the invalidation counter
// still holds the value read before the database query.
// KEYS[1] listing, KEYS[2] version; ARGV[1] version, ARGV[2] payload, ARGV[3] ttl ms.
var storeIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// store caches classes unless an invalidation happened after version was
// read, in which case the fill may predate a booking and is dropped.
func (s *ClassService) store(ctx context.Context, version int64, classes []model.ClassSession) error {
	payload, err := json.Marshal(classes)
	if err != nil {
		return fmt.Errorf("marshal class cache: %w", err)
	}
	keys := []string{config.CacheKey.AvailableClassesKey(), config.CacheKey.AvailableClassesVersionKey()}
	written, err := storeIfCurrent.Run(ctx, s.rdb, keys,
		strconv.FormatInt(version, 10), payload, s.cacheTTL.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("write class cache: %w", err)
	}
	if written == 0 {
		s.log.Debug().Int64("version", version).Msg("Skipped stale class cache fill")
	}
	return nil
}
