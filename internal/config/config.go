// Package config loads linkpage configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryan-buckman/linkpage/internal/auth"
)

// Config represents the complete linkpage configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Site     SiteConfig     `yaml:"site"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the document store backend
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres | memory
	Path   string `yaml:"path"`   // sqlite file
	DSN    string `yaml:"dsn"`    // postgres connection string
}

// AuthConfig holds token and credential configuration
type AuthConfig struct {
	TokenSecret string `yaml:"token_secret"`

	// TokenTTL is zero when tokens never expire.
	TokenTTL    time.Duration `yaml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl"`

	// Admins and Guests are "user:password" entries; the password may be a bcrypt hash.
	Admins []string `yaml:"admins"`
	Guests []string `yaml:"guests"`
}

// SiteConfig holds defaults for the site configuration document
type SiteConfig struct {
	Title          string `yaml:"title"`
	Subtitle       string `yaml:"subtitle"`
	MaxUploadBytes int    `yaml:"max_upload_bytes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration usable without a file.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Driver: "sqlite", Path: "linkpage.db"},
		Site: SiteConfig{
			Title:          "我的导航",
			Subtitle:       "连接万物，导航无限可能",
			MaxUploadBytes: 10 << 20,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a configuration file from the given path over the defaults.
// Environment variables in the format ${VAR_NAME} are expanded. An empty
// path skips the file. Credentials from ADMIN*/USER* environment variables
// are appended either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	admins, guests := credentialsFromEnv(os.Environ())
	cfg.Auth.Admins = append(cfg.Auth.Admins, admins...)
	cfg.Auth.Guests = append(cfg.Auth.Guests, guests...)
	if cfg.Auth.TokenSecret == "" {
		cfg.Auth.TokenSecret = os.Getenv("LINKPAGE_TOKEN_SECRET")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// credentialsFromEnv collects values of variables named ADMIN* and USER*,
// sorted by variable name so the first match is deterministic.
func credentialsFromEnv(environ []string) (admins, guests []string) {
	sort.Strings(environ)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.Contains(value, ":") {
			continue
		}
		switch {
		case strings.HasPrefix(name, "ADMIN"):
			admins = append(admins, value)
		case strings.HasPrefix(name, "USER"):
			guests = append(guests, value)
		}
	}
	return admins, guests
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	switch c.Database.Driver {
	case "sqlite", "":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("database.driver %q is not one of sqlite, postgres, memory", c.Database.Driver)
	}

	if len(c.Auth.TokenSecret) < auth.MinSecretLength {
		return fmt.Errorf("auth.token_secret must be at least %d bytes", auth.MinSecretLength)
	}
	if _, _, err := c.Auth.Pairs(); err != nil {
		return err
	}

	if c.Site.MaxUploadBytes < 0 {
		return fmt.Errorf("site.max_upload_bytes must not be negative")
	}
	return nil
}

// Pairs parses the admin and guest credential entries.
func (a AuthConfig) Pairs() (admins, guests []auth.Pair, err error) {
	for _, s := range a.Admins {
		p, err := auth.ParsePair(s)
		if err != nil {
			return nil, nil, fmt.Errorf("auth.admins: %w", err)
		}
		admins = append(admins, p)
	}
	for _, s := range a.Guests {
		p, err := auth.ParsePair(s)
		if err != nil {
			return nil, nil, fmt.Errorf("auth.guests: %w", err)
		}
		guests = append(guests, p)
	}
	return admins, guests, nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Auth.TokenTTLRaw != "" {
		d, err := time.ParseDuration(cfg.Auth.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing token_ttl %q: %w", cfg.Auth.TokenTTLRaw, err)
		}
		if d < 0 {
			return fmt.Errorf("token_ttl %q must not be negative", cfg.Auth.TokenTTLRaw)
		}
		cfg.Auth.TokenTTL = d
	}
	return nil
}
