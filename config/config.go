// Package config loads golfmemo.toml and applies environment overrides
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/xerrors"
)

// FileName is the default configuration file name
const FileName = "golfmemo.toml"

// 環境変数
const (
	EnvProjectID    = "GOLFMEMO_PROJECT_ID"
	EnvAPIKey       = "GOLFMEMO_API_KEY"
	EnvEmail        = "GOLFMEMO_EMAIL"
	EnvPassword     = "GOLFMEMO_PASSWORD"
	EnvEmulatorHost = "FIRESTORE_EMULATOR_HOST"
)

// Config is the application configuration
type Config struct {
	Firebase FirebaseConfig `toml:"firebase"`
	Auth     AuthConfig     `toml:"auth"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// FirebaseConfig selects the Firebase project
type FirebaseConfig struct {
	ProjectID       string `toml:"project_id"`
	APIKey          string `toml:"api_key"`
	CredentialsFile string `toml:"credentials_file"`
	EmulatorHost    string `toml:"emulator_host"`
}

// AuthConfig holds the sign-in account. The password is only read from the environment.
type AuthConfig struct {
	Email    string `toml:"email"`
	Password string `toml:"-"`
}

// ServerConfig configures the local HTTP API
type ServerConfig struct {
	Port        int  `toml:"port"`
	OpenBrowser bool `toml:"open_browser"`
}

// LogConfig configures zap
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8931,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path on top of DefaultConfig and applies the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, xerrors.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, xerrors.Errorf("failed to read %s: %w", path, err)
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&c.Firebase.ProjectID, EnvProjectID)
	set(&c.Firebase.APIKey, EnvAPIKey)
	set(&c.Firebase.EmulatorHost, EnvEmulatorHost)
	set(&c.Auth.Email, EnvEmail)
	set(&c.Auth.Password, EnvPassword)
}

// Validate checks values that cannot be fixed later by flags
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return xerrors.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return xerrors.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}

// Save writes c to path, creating the directory if needed
func Save(path string, c *Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return xerrors.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return xerrors.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return xerrors.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
