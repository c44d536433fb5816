package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "CLASS_TIMEZONE", "CLASS_CACHE_TTL_SECONDS", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "Asia/Kolkata", cfg.ClassTimezone)
	assert.Equal(t, 30*time.Second, cfg.ClassCacheTTL)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLASS_CACHE_TTL_SECONDS", "5")
	t.Setenv("BOOK_RATE_BURST", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.ClassCacheTTL)
	assert.Equal(t, 10, cfg.BookRateBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "classes:availability", CacheKey.AvailabilityChannel())
	assert.Equal(t, "classes:available", CacheKey.AvailableClassesKey())
}
