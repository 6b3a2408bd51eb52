package status

import (
	"errors"
	"testing"
	"time"

	"github.com/sst/lens/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServicePublishes(t *testing.T) {
	t.Parallel()
	svc := NewService()
	defer svc.Shutdown()
	ch := svc.Subscribe(t.Context())

	svc.Info("suggestion committed")
	svc.Errorf(errors.New("disk full"), "saving %s", "version")

	first := <-ch
	assert.Equal(t, pubsub.EventTypeCreated, first.Type)
	assert.Equal(t, LevelInfo, first.Payload.Level)
	assert.Equal(t, "suggestion committed", first.Payload.Message)

	second := <-ch
	require.Equal(t, LevelError, second.Payload.Level)
	assert.Equal(t, "saving version: disk full", second.Payload.Message)
	assert.Greater(t, second.Payload.TTL, first.Payload.TTL)
}

func TestExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := StatusMessage{Timestamp: now, TTL: time.Second}

	assert.False(t, msg.Expired(now.Add(500*time.Millisecond)))
	assert.True(t, msg.Expired(now.Add(2*time.Second)))
	assert.False(t, StatusMessage{Timestamp: now}.Expired(now.Add(time.Hour)))
}
