package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"yt-dashboard/internal/logger"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	// Backend collaborator
	BackendBaseURL     string
	BackendSessionPath string
	BackendTimeout     time.Duration

	// Database configuration
	DatabasePath string

	// Server configuration
	ServerPort        string
	SessionCookieName string
	SessionDuration   int // seconds
	SecureCookies     bool

	// Authentication watcher
	AuthPollInterval time.Duration
	AuthPollTimeout  time.Duration

	// View state cache
	StateCacheSize int
	StateCacheTTL  time.Duration

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and returns a Config instance
func Load() (*Config, error) {
	cfg := &Config{
		BackendBaseURL:     strings.TrimRight(getEnvOrDefault("BACKEND_BASE_URL", "http://127.0.0.1:5000"), "/"),
		BackendSessionPath: getEnvOrDefault("BACKEND_SESSION_PATH", "/channel-info"),

		DatabasePath: getEnvOrDefault("DATABASE_PATH", "./data/yt-dashboard.db"),

		ServerPort:        getEnvOrDefault("SERVER_PORT", "8080"),
		SessionCookieName: getEnvOrDefault("SESSION_COOKIE_NAME", "dashboard_session"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.BackendTimeout, err = getEnvSeconds("BACKEND_TIMEOUT", 30); err != nil {
		return nil, err
	}
	if cfg.SessionDuration, err = getEnvInt("SESSION_DURATION", 604800); err != nil {
		return nil, err
	}
	if cfg.SecureCookies, err = getEnvBool("SECURE_COOKIES", false); err != nil {
		return nil, err
	}
	if cfg.AuthPollInterval, err = getEnvSeconds("AUTH_POLL_INTERVAL", 2); err != nil {
		return nil, err
	}
	if cfg.AuthPollTimeout, err = getEnvSeconds("AUTH_POLL_TIMEOUT", 120); err != nil {
		return nil, err
	}
	if cfg.StateCacheSize, err = getEnvInt("STATE_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.StateCacheTTL, err = getEnvSeconds("STATE_CACHE_TTL", 600); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration values are present and valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute http(s) URL, got %q", c.BackendBaseURL)
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH cannot be empty")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric, got %q", c.ServerPort)
	}

	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}

	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %d", c.SessionDuration)
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %s", c.BackendTimeout)
	}

	if c.AuthPollInterval <= 0 {
		return fmt.Errorf("AUTH_POLL_INTERVAL must be positive, got %s", c.AuthPollInterval)
	}
	if c.AuthPollTimeout < c.AuthPollInterval {
		return fmt.Errorf("AUTH_POLL_TIMEOUT (%s) must not be shorter than AUTH_POLL_INTERVAL (%s)", c.AuthPollTimeout, c.AuthPollInterval)
	}

	if c.StateCacheSize <= 0 {
		return fmt.Errorf("STATE_CACHE_SIZE must be positive, got %d", c.StateCacheSize)
	}
	if c.StateCacheTTL <= 0 {
		return fmt.Errorf("STATE_CACHE_TTL must be positive, got %s", c.StateCacheTTL)
	}

	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return nil
}

// LogConfiguration logs all loaded configuration values, excluding secrets
func (c *Config) LogConfiguration() {
	logger.Info("Application configuration", map[string]interface{}{
		"backend_base_url":     redactURL(c.BackendBaseURL),
		"backend_session_path": c.BackendSessionPath,
		"backend_timeout":      c.BackendTimeout.String(),
		"database_path":        c.DatabasePath,
		"server_port":          c.ServerPort,
		"session_cookie":       c.SessionCookieName,
		"session_duration_s":   c.SessionDuration,
		"secure_cookies":       c.SecureCookies,
		"auth_poll_interval":   c.AuthPollInterval.String(),
		"auth_poll_timeout":    c.AuthPollTimeout.String(),
		"state_cache_size":     c.StateCacheSize,
		"state_cache_ttl":      c.StateCacheTTL.String(),
		"rate_limit_per_min":   c.RateLimitPerMinute,
		"rate_limit_burst":     c.RateLimitBurst,
		"log_level":            c.LogLevel,
		"log_file":             c.LogFile,
	})

	if !c.SecureCookies {
		logger.Warn("SECURE_COOKIES is off - session cookies will be sent over plain HTTP", nil)
	}
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return v, nil
}

func getEnvSeconds(key string, defaultSeconds int) (time.Duration, error) {
	v, err := getEnvInt(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return v, nil
}

// redactURL masks the password of a URL carrying credentials
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if pw, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), maskSecret(pw))
	}
	return u.String()
}

// maskSecret masks a secret string for logging, showing only first 4 characters
func maskSecret(secret string) string {
	if secret == "" {
		return "[not set]"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
