package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/countdown/go/internal/countdown"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the countdown host configuration. Values come from an optional
// YAML file named by COUNTDOWN_CONFIG, then environment overrides.
type Config struct {
	TimerServiceURL string        `yaml:"timer_service_url"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	DefaultSeconds  int           `yaml:"default_seconds"`
	DurationPolicy  string        `yaml:"duration_policy"`

	GatewayPort    string   `yaml:"gateway_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// NATSURL enables JetStream publishing when set.
	NATSURL       string `yaml:"nats_url"`
	NATSStream    string `yaml:"nats_stream"`
	SubjectPrefix string `yaml:"subject_prefix"`

	LogLevel string `yaml:"log_level"`
}

const (
	PolicyReset  = "reset"
	PolicyReject = "reject"
)

var ErrInvalidConfig = errors.New("invalid config")

// Default returns the built-in configuration
func Default() Config {
	return Config{
		TimerServiceURL: "http://localhost:8080",
		PollInterval:    time.Second,
		RequestTimeout:  5 * time.Second,
		DefaultSeconds:  300,
		DurationPolicy:  PolicyReset,
		GatewayPort:     "8081",
		AllowedOrigins:  []string{"*"},
		NATSStream:      "COUNTDOWN_EVENTS",
		SubjectPrefix:   "countdown.events",
		LogLevel:        "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// the environment, then validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("COUNTDOWN_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.TimerServiceURL = getEnv("TIMER_SERVICE_URL", cfg.TimerServiceURL)
	cfg.PollInterval = getEnvAsDuration("POLL_INTERVAL", cfg.PollInterval)
	cfg.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.DefaultSeconds = getEnvAsInt("DEFAULT_SECONDS", cfg.DefaultSeconds)
	cfg.DurationPolicy = getEnv("DURATION_POLICY", cfg.DurationPolicy)
	cfg.GatewayPort = getEnv("GATEWAY_PORT", cfg.GatewayPort)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.NATSStream = getEnv("NATS_STREAM", cfg.NATSStream)
	cfg.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", cfg.SubjectPrefix)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks that every field is usable
func (c Config) Validate() error {
	if c.TimerServiceURL == "" {
		return fmt.Errorf("%w: timer service url is required", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if c.DefaultSeconds < 0 {
		return fmt.Errorf("%w: default seconds must not be negative", ErrInvalidConfig)
	}
	if c.DurationPolicy != PolicyReset && c.DurationPolicy != PolicyReject {
		return fmt.Errorf("%w: unknown duration policy %q", ErrInvalidConfig, c.DurationPolicy)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Policy maps the configured name onto the controller policy
func (c Config) Policy() countdown.DurationChangePolicy {
	if c.DurationPolicy == PolicyReject {
		return countdown.RejectWhileActive
	}
	return countdown.ResetOnDurationChange
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
