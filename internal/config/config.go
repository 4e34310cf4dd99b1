package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for human-readable YAML ("90s", "2m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the underlying time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the application configuration.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	LogJSON     bool   `yaml:"log_json"`

	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	Janitor   JanitorConfig   `yaml:"janitor"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RedisConfig holds session store connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SessionConfig tunes the dialog lifecycle.
type SessionConfig struct {
	TTL          Duration `yaml:"ttl"`
	StoreTimeout Duration `yaml:"store_timeout"`
	Grace        Duration `yaml:"grace"`
	MaxDepth     int      `yaml:"max_depth"`
	MaxScreenLen int      `yaml:"max_screen_len"`
}

// JanitorConfig tunes the background expiry sweep.
type JanitorConfig struct {
	Interval Duration `yaml:"interval"`
	Timeout  Duration `yaml:"timeout"`
}

// RateLimitConfig tunes the per-caller gateway limiter.
type RateLimitConfig struct {
	PerCallerPerSecond float64 `yaml:"per_caller_per_second"`
	Burst              int     `yaml:"burst"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		ListenAddr:  ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
		LogJSON:     true,
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "uliza:session:",
		},
		Session: SessionConfig{
			TTL:          Duration(120 * time.Second),
			StoreTimeout: Duration(2 * time.Second),
			Grace:        Duration(time.Minute),
			MaxDepth:     20,
			MaxScreenLen: 182,
		},
		Janitor: JanitorConfig{
			Interval: Duration(30 * time.Second),
			Timeout:  Duration(10 * time.Second),
		},
		RateLimit: RateLimitConfig{
			PerCallerPerSecond: 2,
			Burst:              5,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults
// for anything unset. An empty path returns the defaults. Environment
// variables win over the file for deployment-sensitive values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if addr := os.Getenv("ULIZA_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if addr := os.Getenv("ULIZA_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pw := os.Getenv("ULIZA_REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.TTL.Std() <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Session.StoreTimeout.Std() <= 0 {
		return fmt.Errorf("session.store_timeout must be positive")
	}
	if c.Session.MaxDepth <= 0 {
		return fmt.Errorf("session.max_depth must be positive")
	}
	if c.Janitor.Interval.Std() <= 0 {
		return fmt.Errorf("janitor.interval must be positive")
	}
	return nil
}
