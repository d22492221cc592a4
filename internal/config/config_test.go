package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "STORAGE_BACKEND", "EVENTS_ENABLED", "TOAST_TTL", "ACTIVITY_WORKERS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 3*time.Second, cfg.ToastTTL)
	assert.Equal(t, 4, cfg.ActivityWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("TOAST_TTL", "1500ms")
	t.Setenv("ACTIVITY_WORKERS", "-3")

	cfg := Load()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.ToastTTL)
	assert.Equal(t, 4, cfg.ActivityWorkers)
}
