// Package config loads and validates pipeline configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every pipeline knob, loaded from file and CHIEVENTS_*
// environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Geocode GeocodeConfig `mapstructure:"geocode"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the read-only dataset server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlConfig governs the crawl scheduler.
type CrawlConfig struct {
	SeedsFile         string `mapstructure:"seeds_file"`
	MaxPagesPerSeed   int    `mapstructure:"max_pages_per_seed"`
	Concurrency       int    `mapstructure:"concurrency"`
	FollowLinks       bool   `mapstructure:"follow_links"`
	DetailBudget      int    `mapstructure:"detail_budget"`
	DetailDelayMs     int    `mapstructure:"detail_delay_ms"`
	PaginationDelayMs int    `mapstructure:"pagination_delay_ms"`
	HostIntervalMs    int    `mapstructure:"host_interval_ms"`
}

// HTTPConfig configures the fetcher.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffBaseMs  int    `mapstructure:"backoff_base_ms"`
	UserAgent      string `mapstructure:"user_agent"`
	RespectRobots  bool   `mapstructure:"respect_robots"`
}

// DatasetConfig sets file locations.
type DatasetConfig struct {
	Path   string `mapstructure:"path"`
	RunDir string `mapstructure:"run_dir"`
}

// GeocodeConfig configures the enrichment collaborator.
type GeocodeConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	CachePath string `mapstructure:"cache_path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHIEVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawl.seeds_file", "seeds.txt")
	v.SetDefault("crawl.max_pages_per_seed", 5)
	v.SetDefault("crawl.concurrency", 3)
	v.SetDefault("crawl.follow_links", true)
	v.SetDefault("crawl.detail_budget", 50)
	v.SetDefault("crawl.detail_delay_ms", 500)
	v.SetDefault("crawl.pagination_delay_ms", 800)
	v.SetDefault("crawl.host_interval_ms", 1000)
	v.SetDefault("http.timeout_seconds", 20)
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("http.backoff_base_ms", 1000)
	v.SetDefault("http.respect_robots", false)
	v.SetDefault("dataset.path", "public/data/events.json")
	v.SetDefault("dataset.run_dir", "data/runs")
	v.SetDefault("geocode.cache_path", "public/data/geocode-cache.json")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawl.MaxPagesPerSeed <= 0 {
		return fmt.Errorf("crawl.max_pages_per_seed must be > 0")
	}
	if c.Crawl.Concurrency <= 0 {
		return fmt.Errorf("crawl.concurrency must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must be set")
	}
	return nil
}

// FetchTimeout converts the configured timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BackoffBase converts the configured backoff base into a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.HTTP.BackoffBaseMs) * time.Millisecond
}
