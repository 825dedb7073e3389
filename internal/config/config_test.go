package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3*time.Second, cfg.Rules.RoundDuration)
	assert.Equal(t, 24*time.Hour, cfg.Rules.DayLength)
	assert.Equal(t, "overworld", cfg.Rules.HomeArea)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("COMBAT_ROUND_DURATION", "6s")
	t.Setenv("DAY_BOUNDARY_OFFSET", "4h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Ledger.Backend)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.Equal(t, 6*time.Second, cfg.Rules.RoundDuration)
	assert.Equal(t, 4*time.Hour, cfg.Rules.DayBoundaryOffset)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown backend", key: "LEDGER_BACKEND", val: "etcd"},
		{name: "zero round duration", key: "COMBAT_ROUND_DURATION", val: "0s"},
		{name: "offset beyond day", key: "DAY_BOUNDARY_OFFSET", val: "25h"},
		{name: "malformed duration", key: "DAY_LENGTH", val: "a day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
