package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	BaseURL               string        `mapstructure:"base_url"`
	SourceLabel           string        `mapstructure:"source_label"`
	ScrapeIntervalSeconds int64         `mapstructure:"scrape_interval"`
	ScrapeInterval        time.Duration `mapstructure:"-"`
	MaxPages              int           `mapstructure:"max_pages"`
	MinTitleLen           int           `mapstructure:"min_title_len"`
	SkipLinkFragments     []string      `mapstructure:"skip_link_fragments"`
	FetchTimeoutSeconds   int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout          time.Duration `mapstructure:"-"`

	StorageType string        `mapstructure:"storage_type"`
	SeenLogPath string        `mapstructure:"seen_log_path"`
	KeepDays    int           `mapstructure:"keep_days"`
	Retention   time.Duration `mapstructure:"-"`

	NotifiersFile string `mapstructure:"notifiers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "azfinnews")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("base_url", "https://apa.az/economy")
	v.SetDefault("source_label", "APA.az")
	v.SetDefault("scrape_interval", 30) // seconds
	v.SetDefault("max_pages", 10)
	v.SetDefault("min_title_len", 5)
	v.SetDefault("skip_link_fragments", []string{"rates", "weather"})
	v.SetDefault("fetch_timeout_seconds", 25)
	v.SetDefault("storage_type", "json")
	v.SetDefault("seen_log_path", defaultSeenLogPath())
	v.SetDefault("keep_days", 7)
	v.SetDefault("notifiers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}
	if cfg.ScrapeIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid scrape_interval (must be positive seconds)")
	}
	cfg.ScrapeInterval = time.Duration(cfg.ScrapeIntervalSeconds) * time.Second

	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("invalid max_pages (must be positive)")
	}
	if cfg.KeepDays <= 0 {
		return nil, fmt.Errorf("invalid keep_days (must be positive)")
	}
	cfg.Retention = time.Duration(cfg.KeepDays) * 24 * time.Hour

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.MinTitleLen < 0 {
		cfg.MinTitleLen = 0
	}

	return &cfg, nil
}

func defaultSeenLogPath() string {
	return filepath.Join(xdg.DataHome, "azfinnews", "seen_links.json")
}

func defaultLogFile() string {
	return filepath.Join(xdg.StateHome, "azfinnews", "azfinnews.log")
}
