package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything farefinder reads from config.toml.
type Config struct {
	APIBase        string
	PageSize       int
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	RateLimit      RateLimit
	Cache          Cache
}

// RateLimit throttles outbound API calls.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// Cache configures response caching.
type Cache struct {
	Enabled       bool
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	defaultConfigPath     = "~/.config/farefinder/config.toml"
	defaultAPIBase        = "http://localhost:9090/api/v1"
	defaultPageSize       = 10
	defaultRequestTimeout = 10 * time.Second
	defaultLogFile        = "~/.local/state/farefinder/farefinder.log"
	defaultLogLevel       = "info"
	defaultRPS            = 5
	defaultBurst          = 10
	defaultCacheTTL       = 2 * time.Minute
	defaultRedisAddr      = "127.0.0.1:6379"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		PageSize:       defaultPageSize,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		RateLimit: RateLimit{
			RequestsPerSecond: defaultRPS,
			Burst:             defaultBurst,
		},
		Cache: Cache{
			Backend:   BackendMemory,
			TTL:       defaultCacheTTL,
			RedisAddr: defaultRedisAddr,
		},
	}
}

type rawConfig struct {
	APIBase        string   `toml:"api_base"`
	PageSize       int      `toml:"page_size"`
	RequestTimeout string   `toml:"request_timeout"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
	RateLimit      rawLimit `toml:"rate_limit"`
	Cache          rawCache `toml:"cache"`
}

type rawLimit struct {
	RequestsPerSecond *float64 `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
}

type rawCache struct {
	Enabled       bool   `toml:"enabled"`
	Backend       string `toml:"backend"`
	TTL           string `toml:"ttl"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Load locates and parses the config file, falling back to defaults when
// it is missing. Empty values keep their defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if raw.PageSize < 0 {
		return Config{}, fmt.Errorf("parse config: page_size must be positive, got %d", raw.PageSize)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if raw.RateLimit.RequestsPerSecond != nil {
		if *raw.RateLimit.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("parse config: rate_limit.requests_per_second must not be negative")
		}
		cfg.RateLimit.RequestsPerSecond = *raw.RateLimit.RequestsPerSecond
	}
	if raw.RateLimit.Burst > 0 {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}

	cfg.Cache.Enabled = raw.Cache.Enabled
	if v := strings.ToLower(strings.TrimSpace(raw.Cache.Backend)); v != "" {
		if v != BackendMemory && v != BackendRedis {
			return Config{}, fmt.Errorf("parse config: unknown cache backend %q", raw.Cache.Backend)
		}
		cfg.Cache.Backend = v
	}
	if cfg.Cache.TTL, err = parseDuration("cache.ttl", raw.Cache.TTL, cfg.Cache.TTL); err != nil {
		return Config{}, err
	}
	if v := strings.TrimSpace(raw.Cache.RedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
	}
	cfg.Cache.RedisPassword = raw.Cache.RedisPassword
	cfg.Cache.RedisDB = raw.Cache.RedisDB

	return cfg, nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
