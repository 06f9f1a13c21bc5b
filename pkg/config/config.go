package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Defaults applied to omitted fields.
const (
	DefaultAddr          = ":8080"
	DefaultBasePath      = "/admin"
	DefaultTimeout       = 10 * time.Second
	DefaultStorageDriver = "sqlite"
	DefaultStorageDSN    = "file:cabinet-admin.db?cache=shared"
	DefaultStatsTTL      = 15 * time.Minute
	DefaultWarmInterval  = 10 * time.Minute
	DefaultChartTheme    = "walden"
	DefaultLogLevel      = "info"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the cabinetctl configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Charts  ChartsConfig  `yaml:"charts"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
	Timezone string `yaml:"timezone"`
}

// BackendConfig points at the remote cabinet API. An empty URL selects the in-memory mock.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Mock reports whether the in-memory backend should be used.
func (b BackendConfig) Mock() bool {
	return strings.TrimSpace(b.URL) == ""
}

// StorageConfig selects the snapshot and preference database.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CacheConfig tunes the stats cache and the warm-up scheduler.
type CacheConfig struct {
	StatsTTL     time.Duration `yaml:"stats_ttl"`
	ChartTTL     time.Duration `yaml:"chart_ttl"`
	WarmInterval time.Duration `yaml:"warm_interval"`
}

// ChartsConfig configures go-echarts output.
type ChartsConfig struct {
	Theme      string `yaml:"theme"`
	AssetsHost string `yaml:"assets_host"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns a configuration with every default filled in.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads and decodes the file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML strictly, rejecting unknown fields, then applies defaults and validates.
func Decode(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = DefaultBasePath
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = DefaultTimeout
	}
	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(cfg.Backend.URL), "/")
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = DefaultStorageDSN
	}
	if cfg.Cache.StatsTTL <= 0 {
		cfg.Cache.StatsTTL = DefaultStatsTTL
	}
	if cfg.Cache.ChartTTL <= 0 {
		cfg.Cache.ChartTTL = DefaultStatsTTL
	}
	if cfg.Cache.WarmInterval <= 0 {
		cfg.Cache.WarmInterval = DefaultWarmInterval
	}
	if cfg.Charts.Theme == "" {
		cfg.Charts.Theme = DefaultChartTheme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// Validate checks values that defaults cannot repair.
func (cfg Config) Validate() error {
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		return fmt.Errorf("%w: server.base_path must start with /", ErrInvalidConfig)
	}
	if cfg.Server.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Server.Timezone); err != nil {
			return fmt.Errorf("%w: server.timezone: %v", ErrInvalidConfig, err)
		}
	}
	if !cfg.Backend.Mock() && !strings.HasPrefix(cfg.Backend.URL, "http://") && !strings.HasPrefix(cfg.Backend.URL, "https://") {
		return fmt.Errorf("%w: backend.url must be an http(s) URL", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves the configured timezone, defaulting to UTC.
func (cfg Config) Location() *time.Location {
	if cfg.Server.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewLogger builds a production or development zap logger at the configured level.
func (cfg Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}
