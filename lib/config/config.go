// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/password"
	"github.com/bureau-foundation/warden/lib/signedmsg"
)

// Config is the master configuration for wardend.
type Config struct {
	// Server configures the HTTP listeners.
	Server ServerConfig `yaml:"server"`

	// Auth configures token issuance and password hashing.
	Auth AuthConfig `yaml:"auth"`

	// Database configures account storage.
	Database DatabaseConfig `yaml:"database"`

	// Logging configures the slog handler.
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	// Listen is the address of the public API listener.
	// Default: 127.0.0.1:8000
	Listen string `yaml:"listen"`

	// ManagementListen is the address of the management listener
	// serving /management/config. Empty disables it.
	// Default: 127.0.0.1:8001
	ManagementListen string `yaml:"management_listen"`

	// ShutdownTimeout is how long graceful shutdown waits for
	// in-flight requests. Default: 10s
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	// PublicKey is the unpadded base64url Ed25519 public key used to
	// verify access tokens.
	PublicKey string `yaml:"public_key"`

	// PrivateKey is the unpadded base64url Ed25519 private key used
	// to sign access tokens: a 32-byte seed or a 64-byte expanded key.
	PrivateKey string `yaml:"private_key"`

	// BcryptCost is the bcrypt cost for password hashing.
	// Valid range 4-14. Default: 10
	BcryptCost int `yaml:"bcrypt_cost"`

	// TokenTTLSecs is the validity window of an issued token in
	// seconds. Default: 1800 (30 minutes)
	TokenTTLSecs int64 `yaml:"token_ttl_secs"`

	// MaxLoginSecs is the absolute login horizon in seconds: once
	// this long has passed since the password login, refreshing fails
	// and the client must sign in again. Default: 43200 (12 hours)
	MaxLoginSecs int64 `yaml:"max_login_secs"`

	// NotAfterOffset is the UTC offset used when formatting the
	// not_after timestamp in sign-in responses, e.g. "+07:00" or "Z".
	// Display only; the wire payload is always UTC.
	// Default: +07:00
	NotAfterOffset string `yaml:"not_after_offset"`
}

// DatabaseConfig configures account storage.
type DatabaseConfig struct {
	// Path is the sqlite database file. Default: warden.db
	Path string `yaml:"path"`

	// PoolSize is the number of pooled sqlite connections.
	// Default: 4
	PoolSize int `yaml:"pool_size"`

	// SeedAccounts is an optional JSONC file of accounts to insert at
	// startup if the account table is empty. Empty disables seeding.
	SeedAccounts string `yaml:"seed_accounts"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level"`
}

// Development keypair. The private seed is only usable for local
// work; production configs must supply their own keys.
const (
	devPublicKey  = "bONQdW4AoWvhw6mXuK2KxfBs0vWgiVgSmebCETGYMAc"
	devPrivateKey = "DM2RpqPWMqoUm7MNEezPkgX33vvGhn6oZsthbScOmi8"
)

// Default returns the default configuration, suitable for local
// development as-is.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:           "127.0.0.1:8000",
			ManagementListen: "127.0.0.1:8001",
			ShutdownTimeout:  "10s",
		},
		Auth: AuthConfig{
			PublicKey:      devPublicKey,
			PrivateKey:     devPrivateKey,
			BcryptCost:     10,
			TokenTTLSecs:   1800,
			MaxLoginSecs:   43200,
			NotAfterOffset: "+07:00",
		},
		Database: DatabaseConfig{
			Path:     "warden.db",
			PoolSize: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the WARDEN_CONFIG environment
// variable. There are no fallbacks: if WARDEN_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	path := os.Getenv("WARDEN_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("WARDEN_CONFIG environment variable not set; " +
			"set it to the path of your warden.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging the
// file over Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// offsetPattern matches a fixed UTC offset like "+07:00" or "-05:30".
var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// Validate checks the configuration for errors. All problems are
// reported at once via errors.Join.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, fmt.Errorf("server.listen is required"))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout: %w", err))
	}

	if _, err := signedmsg.ParsePublicKey(c.Auth.PublicKey); err != nil {
		errs = append(errs, fmt.Errorf("auth.public_key: %w", err))
	}
	if _, err := signedmsg.ParsePrivateKey(c.Auth.PrivateKey); err != nil {
		errs = append(errs, fmt.Errorf("auth.private_key: %w", err))
	}
	if c.Auth.BcryptCost < password.MinCost || c.Auth.BcryptCost > password.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost: %d not in [%d, %d]",
			c.Auth.BcryptCost, password.MinCost, password.MaxCost))
	}
	if c.Auth.TokenTTLSecs <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl_secs must be positive, got %d", c.Auth.TokenTTLSecs))
	}
	if c.Auth.MaxLoginSecs < c.Auth.TokenTTLSecs {
		errs = append(errs, fmt.Errorf("auth.max_login_secs (%d) must be at least auth.token_ttl_secs (%d)",
			c.Auth.MaxLoginSecs, c.Auth.TokenTTLSecs))
	}
	if _, err := c.NotAfterLocation(); err != nil {
		errs = append(errs, fmt.Errorf("auth.not_after_offset: %w", err))
	}

	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	if c.Database.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("database.pool_size must be at least 1, got %d", c.Database.PoolSize))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TokenTTL returns the token validity window as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLSecs) * time.Second
}

// MaxLogin returns the login horizon as a duration.
func (c *Config) MaxLogin() time.Duration {
	return time.Duration(c.Auth.MaxLoginSecs) * time.Second
}

// ShutdownTimeout returns the parsed graceful-shutdown timeout.
// Validate must have passed.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

// SlogLevel maps logging.level to a slog.Level. Validate must have
// passed; unknown strings fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NotAfterLocation parses auth.not_after_offset into a fixed
// time.Location. "Z" and "" mean UTC.
func (c *Config) NotAfterLocation() (*time.Location, error) {
	offset := c.Auth.NotAfterOffset
	if offset == "" || offset == "Z" {
		return time.UTC, nil
	}
	m := offsetPattern.FindStringSubmatch(offset)
	if m == nil {
		return nil, fmt.Errorf("bad UTC offset %q", offset)
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 23 || minutes > 59 {
		return nil, fmt.Errorf("bad UTC offset %q", offset)
	}
	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), nil
}

// Masked returns a copy of the configuration safe for printing: the
// private key is replaced with a placeholder.
func (c *Config) Masked() *Config {
	masked := *c
	if masked.Auth.PrivateKey != "" {
		masked.Auth.PrivateKey = "<masked>"
	}
	return &masked
}
