package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"shoplens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Cache    CacheConfig
	Auth     AuthConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// CacheConfig holds procedure result cache settings
type CacheConfig struct {
	TTL time.Duration
}

// Credential is one externally configured login. Role is the string form of
// an auth.Role; parsing and validation happen in the auth package.
type Credential struct {
	Username string
	Password string
	Role     string
}

// AuthConfig holds the externalized credential table and role mapping.
// Credentials never live in source; they arrive as DASHBOARD_USERS, a
// comma-separated list of username:password:role triples.
type AuthConfig struct {
	Credentials []Credential
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvDefault("PORT", "8080"),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("PROC_CACHE_TTL_SECONDS", 600),
		},
	}

	creds, err := parseCredentials(os.Getenv("DASHBOARD_USERS"))
	if err != nil {
		return nil, err
	}
	cfg.Auth.Credentials = creds

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if len(c.Auth.Credentials) == 0 {
		return errors.ConfigInvalid("DASHBOARD_USERS is required")
	}
	return nil
}

func parseCredentials(raw string) ([]Credential, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	entries := strings.Split(raw, ",")
	creds := make([]Credential, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, errors.ConfigInvalid("DASHBOARD_USERS entries must be username:password:role")
		}
		creds = append(creds, Credential{
			Username: parts[0],
			Password: parts[1],
			Role:     parts[2],
		})
	}
	return creds, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallbackSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallbackSeconds) * time.Second
}
