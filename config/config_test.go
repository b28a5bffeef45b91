package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "STORE_BACKEND", "REDIS_URL", "REDIS_PREFIX", "LOG_LEVEL", "LOG_FORMAT",
		"LEDGER_FAUCET_ENABLED", "GENESIS_FILE", "INDEXER_DEDUP_CACHE", "INDEXER_BUFFER",
		"API_RATE_LIMIT_RPS", "API_RATE_LIMIT_BURST", "API_CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "labshare", cfg.Redis.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Ledger.FaucetEnabled)
	assert.Empty(t, cfg.Ledger.GenesisFile)
	assert.Equal(t, 10000, cfg.Indexer.DedupCacheSize)
	assert.Equal(t, 1024, cfg.Indexer.BufferSize)
	assert.Equal(t, 50.0, cfg.API.RateLimitRPS)
	assert.Equal(t, 100, cfg.API.RateLimitBurst)
	assert.Empty(t, cfg.API.CORSOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("LEDGER_FAUCET_ENABLED", "true")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("INDEXER_DEDUP_CACHE", "42")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_CORS_ORIGINS", "http://localhost:3000, https://lab.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.True(t, cfg.Ledger.FaucetEnabled)
	assert.Equal(t, 42, cfg.Indexer.DedupCacheSize)
	assert.Equal(t, 2.5, cfg.API.RateLimitRPS)
	assert.Equal(t, []string{"http://localhost:3000", "https://lab.example"}, cfg.API.CORSOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("INDEXER_BUFFER", "lots")
	t.Setenv("LEDGER_FAUCET_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Indexer.BufferSize)
	assert.False(t, cfg.Ledger.FaucetEnabled)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "STORE_BACKEND", "postgres"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"zero dedup cache", "INDEXER_DEDUP_CACHE", "0"},
		{"negative buffer", "INDEXER_BUFFER", "-1"},
		{"zero burst", "API_RATE_LIMIT_BURST", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseGenesis(t *testing.T) {
	g, err := ParseGenesis([]byte("accounts:\n  - address: \"0xA1\"\n    amount: 1000\n  - address: \"0x00b0\"\n    amount: 5\n"))
	require.NoError(t, err)
	require.Len(t, g.Accounts, 2)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000a1", g.Accounts[0].Address)
	assert.Equal(t, uint64(1000), g.Accounts[0].Amount)

	bad := map[string]string{
		"address":   "accounts:\n  - address: \"zz\"\n    amount: 1\n",
		"duplicate": "accounts:\n  - address: \"0x1\"\n    amount: 1\n  - address: \"0x01\"\n    amount: 2\n",
		"zero":      "accounts:\n  - address: \"0x1\"\n    amount: 0\n",
		"yaml":      "accounts: [",
	}
	for name, raw := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGenesis([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - address: \"0x2\"\n    amount: 9\n"), 0o600))
	g, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Len(t, g.Accounts, 1)

	_, err = LoadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
