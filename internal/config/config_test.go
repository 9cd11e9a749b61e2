package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 10, cfg.WorkerCount)
	assert.Equal(t, 10000, cfg.QueueSize)
	assert.False(t, cfg.Bootstrap.Enabled())
	assert.False(t, cfg.UsesMySQL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VENDING_STORE_BACKEND", "memory")
	t.Setenv("VENDING_WORKER_COUNT", "2")
	t.Setenv("VENDING_BOOTSTRAP_OWNER", "owner")
	t.Setenv("VENDING_BOOTSTRAP_CHIPS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.True(t, cfg.Bootstrap.Enabled())
	assert.Equal(t, "owner", cfg.Bootstrap.Owner)
	assert.Equal(t, uint32(30), cfg.Bootstrap.Chips)
}

func TestUsesMySQL(t *testing.T) {
	assert.True(t, Config{Backend: BackendMySQL}.UsesMySQL())
	assert.True(t, Config{Backend: BackendRedis, JournalMySQL: true}.UsesMySQL())
	assert.False(t, Config{Backend: BackendMemory}.UsesMySQL())
}

func TestJournalQueueSize(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"redis without journal", Config{Backend: BackendRedis, QueueSize: 100}, 0},
		{"memory", Config{Backend: BackendMemory, QueueSize: 100}, 0},
		{"redis with mysql journal", Config{Backend: BackendRedis, JournalMySQL: true, QueueSize: 100}, 100},
		{"mysql", Config{Backend: BackendMySQL, QueueSize: 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.JournalQueueSize())
		})
	}
}

func TestLoadDefaultsDisableJournal(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.JournalQueueSize())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("VENDING_STORE_BACKEND", "etcd")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestLoadRejectsMalformedNumber(t *testing.T) {
	t.Setenv("VENDING_BOOTSTRAP_WATER", "lots")

	_, err := Load()
	assert.ErrorContains(t, err, "parse env:")
}
