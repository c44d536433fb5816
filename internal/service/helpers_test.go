package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	db  pgxmock.PgxPoolIface
	mr  *miniredis.Miniredis
	rdb *redis.Client
	log zerolog.Logger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
		_ = rdb.Close()
	})

	return &testDeps{db: mock, mr: mr, rdb: rdb, log: zerolog.Nop()}
}
