package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"labshare_dao/sdk"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Redis   RedisConfig
	Log     LogConfig
	Ledger  LedgerConfig
	Indexer IndexerConfig
	API     APIConfig
}

type ServerConfig struct {
	Addr string
}

type StoreConfig struct {
	Backend string
}

type RedisConfig struct {
	URL    string
	Prefix string
}

type LogConfig struct {
	Level  string
	Format string
}

type LedgerConfig struct {
	FaucetEnabled bool
	GenesisFile   string
}

type IndexerConfig struct {
	DedupCacheSize int
	BufferSize     int
}

type APIConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Prefix: getEnv("REDIS_PREFIX", "labshare"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Ledger: LedgerConfig{
			FaucetEnabled: getEnvBool("LEDGER_FAUCET_ENABLED", false),
			GenesisFile:   getEnv("GENESIS_FILE", ""),
		},
		Indexer: IndexerConfig{
			DedupCacheSize: getEnvInt("INDEXER_DEDUP_CACHE", 10000),
			BufferSize:     getEnvInt("INDEXER_BUFFER", 1024),
		},
		API: APIConfig{
			RateLimitRPS:   getEnvFloat("API_RATE_LIMIT_RPS", 50),
			RateLimitBurst: getEnvInt("API_RATE_LIMIT_BURST", 100),
		},
	}

	if origins := getEnv("API_CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.API.CORSOrigins = append(cfg.API.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.Store.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	if c.Indexer.DedupCacheSize <= 0 {
		return fmt.Errorf("INDEXER_DEDUP_CACHE must be positive")
	}
	if c.Indexer.BufferSize <= 0 {
		return fmt.Errorf("INDEXER_BUFFER must be positive")
	}
	if c.API.RateLimitRPS <= 0 || c.API.RateLimitBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS and API_RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// GenesisAccount is one funded account in the genesis file.
type GenesisAccount struct {
	Address string `yaml:"address"`
	Amount  uint64 `yaml:"amount"`
}

// Genesis is the optional YAML file that seeds accounts on an empty ledger.
//
//	accounts:
//	  - address: "0xa1"
//	    amount: 1000000
type Genesis struct {
	Accounts []GenesisAccount `yaml:"accounts"`
}

// LoadGenesis reads and validates a genesis file. Addresses are normalized.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	return ParseGenesis(raw)
}

func ParseGenesis(raw []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("parse genesis: %w", err)
	}
	seen := make(map[sdk.Address]bool, len(g.Accounts))
	for i, a := range g.Accounts {
		addr, ok := sdk.ParseAddress(a.Address)
		if !ok {
			return nil, fmt.Errorf("genesis account %d: invalid address %q", i, a.Address)
		}
		if seen[addr] {
			return nil, fmt.Errorf("genesis account %d: duplicate address %s", i, addr)
		}
		if a.Amount == 0 {
			return nil, fmt.Errorf("genesis account %d: amount must be positive", i)
		}
		seen[addr] = true
		g.Accounts[i].Address = string(addr)
	}
	return &g, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
