package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, loaded from the environment.
// Required values without defaults abort startup when missing.
type Config struct {
	// Messaging bridge
	BridgeURL   string `env:"BRIDGE_URL" envDefault:"http://localhost:8900"`
	BridgeToken string `env:"BRIDGE_TOKEN"`

	// The single group the bot serves and the clan leader to mention in
	// escalated warnings
	AllowedGroupID string `env:"ALLOWED_GROUP_ID,required"`
	LeaderJID      string `env:"LEADER_JID,required"`

	// Storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// Ops HTTP server
	OpsAddr string `env:"OPS_ADDR" envDefault:":8080"`

	// Operational webhook notifier (optional)
	WebhookURL string `env:"WEBHOOK_URL"`

	// Core tunables
	SearchTolerance  int           `env:"SEARCH_TOLERANCE" envDefault:"3"`
	SessionTimeout   time.Duration `env:"SESSION_TIMEOUT" envDefault:"5m"`
	MinimumWarScore  int           `env:"MINIMUM_WAR_SCORE" envDefault:"550"`
	NavalThreshold   int           `env:"NAVAL_THRESHOLD" envDefault:"5000"`
	AdminCacheTTL    time.Duration `env:"ADMIN_CACHE_TTL" envDefault:"30s"`
	PassiveCooldown  time.Duration `env:"PASSIVE_COOLDOWN" envDefault:"1m"`
	RankingDivisions []int         `env:"RANKING_DIVISIONS" envDefault:"3000,2500,2000,0"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StorageType != "memory" && cfg.StorageType != "redis" {
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be 'memory' or 'redis'", cfg.StorageType)
	}
	if len(cfg.RankingDivisions) == 0 {
		return nil, fmt.Errorf("RANKING_DIVISIONS must list at least one minimum")
	}
	return &cfg, nil
}
