package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityPublisher_PublishAndSubscribe(t *testing.T) {
	d := newTestDeps(t)
	pub := NewAvailabilityPublisher(d.rdb, d.log)
	require.NoError(t, d.mr.Set(config.CacheKey.AvailableClassesKey(), "[]"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := pub.Subscribe(ctx)
	defer sub.Close()
	_, err := sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	pub.Publish(ctx, model.ClassAvailability{ClassID: 2, AvailableSlots: 4, Seq: 7})

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.CacheKey.AvailabilityChannel(), msg.Channel)

	var got model.ClassAvailability
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, model.ClassAvailability{ClassID: 2, AvailableSlots: 4, Seq: 7}, got)
	assert.False(t, d.mr.Exists(config.CacheKey.AvailableClassesKey()))

	version, err := d.mr.Get(config.CacheKey.AvailableClassesVersionKey())
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestAvailabilityPublisher_RedisDownIsSwallowed(t *testing.T) {
	d := newTestDeps(t)
	pub := NewAvailabilityPublisher(d.rdb, d.log)
	d.mr.Close()

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), model.ClassAvailability{ClassID: 1, AvailableSlots: 0})
	})
}
