// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	AdAPI     AdAPIConfig     `mapstructure:"adapi"`
	Storage   StorageConfig   `mapstructure:"storage"`
	DB        DBConfig        `mapstructure:"db"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AnalyzerConfig governs the analysis pipeline.
type AnalyzerConfig struct {
	MaxPosts          int    `mapstructure:"max_posts"`
	Concurrency       int    `mapstructure:"concurrency"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	UserAgent         string `mapstructure:"user_agent"`
	EnrichDelayMs     int    `mapstructure:"enrich_delay_ms"`
	MaxEnrichKeywords int    `mapstructure:"max_enrich_keywords"`
}

// EndpointsConfig overrides the source-site bases, mainly for testing.
type EndpointsConfig struct {
	DesktopBase string `mapstructure:"desktop_base"`
	MobileBase  string `mapstructure:"mobile_base"`
	FeedBase    string `mapstructure:"feed_base"`
}

// AdAPIConfig holds the optional SearchAd keyword tool settings.
// Credentials come from the environment, never from config files.
type AdAPIConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	BaseURL       string `mapstructure:"base_url"`
	AccessLicense string `mapstructure:"access_license"`
	SecretKey     string `mapstructure:"secret_key"`
	CustomerID    string `mapstructure:"customer_id"`
}

// StorageConfig controls the optional JSON report sink.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ReportDir string `mapstructure:"report_dir"`
}

// DBConfig controls the optional Postgres report history.
type DBConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk and environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BLOGRANK")
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
	v.SetDefault("analyzer.max_posts", 30)
	v.SetDefault("analyzer.concurrency", 8)
	v.SetDefault("analyzer.timeout_seconds", 12)
	v.SetDefault("analyzer.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36")
	v.SetDefault("analyzer.enrich_delay_ms", 300)
	v.SetDefault("analyzer.max_enrich_keywords", 10)
	v.SetDefault("endpoints.desktop_base", "https://blog.naver.com")
	v.SetDefault("endpoints.mobile_base", "https://m.blog.naver.com")
	v.SetDefault("endpoints.feed_base", "https://rss.blog.naver.com")
	v.SetDefault("adapi.enabled", false)
	v.SetDefault("adapi.base_url", "https://api.naver.com")
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.report_dir", "data/reports")
	v.SetDefault("db.table", "reports")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Analyzer.MaxPosts <= 0 {
		return fmt.Errorf("analyzer.max_posts must be > 0")
	}
	if c.Analyzer.Concurrency <= 0 {
		return fmt.Errorf("analyzer.concurrency must be > 0")
	}
	if c.Analyzer.TimeoutSeconds <= 0 {
		return fmt.Errorf("analyzer.timeout_seconds must be > 0")
	}
	if c.Storage.Enabled && c.Storage.ReportDir == "" {
		return fmt.Errorf("storage.report_dir must be set when storage is enabled")
	}
	return nil
}

// FetchTimeout converts the timeout setting into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutSeconds) * time.Second
}

// EnrichDelay converts the enrichment throttle setting into a duration.
func (c Config) EnrichDelay() time.Duration {
	return time.Duration(c.Analyzer.EnrichDelayMs) * time.Millisecond
}
