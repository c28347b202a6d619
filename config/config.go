package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Zmanim     ZmanimConfig     `yaml:"zmanim"`
	Feed       FeedConfig       `yaml:"feed"`
	Presence   PresenceConfig   `yaml:"presence"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	InstallChangeFeed      bool   `yaml:"install_change_feed"`
}

// ZmanimConfig configures the external zmanim service and the home location
// whose windows the refresh service keeps current.
type ZmanimConfig struct {
	URL            string        `yaml:"url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
	Lat            float64       `yaml:"lat"`
	Lng            float64       `yaml:"lng"`
	Timezone       string        `yaml:"timezone"`
}

// FeedConfig configures the change-feed listener.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Channel string `yaml:"channel"`
}

// PresenceConfig configures the online-presence tracker.
type PresenceConfig struct {
	TTLSeconds int           `yaml:"ttl_seconds"`
	TTL        time.Duration `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the quorum recount worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Zmanim.TimeoutSeconds <= 0 {
		cfg.Zmanim.TimeoutSeconds = 10
	}
	cfg.Zmanim.Timeout = time.Duration(cfg.Zmanim.TimeoutSeconds) * time.Second
	if cfg.Zmanim.Timezone == "" {
		cfg.Zmanim.Timezone = "UTC"
	}

	if cfg.Feed.Channel == "" {
		cfg.Feed.Channel = "minyan_changes"
	}

	if cfg.Presence.TTLSeconds <= 0 {
		cfg.Presence.TTLSeconds = 120
	}
	cfg.Presence.TTL = time.Duration(cfg.Presence.TTLSeconds) * time.Second

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
