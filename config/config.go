// Package config loads ragchat settings from defaults, a TOML file, a .env
// file and RAGCHAT_* environment variables, in that order of precedence
// (later wins). Command-line flags are applied on top by the commands.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultConnectTimeout = 30 * time.Second

	dirName    = ".ragchat"
	fileName   = "config.toml"
	envPrefix  = "RAGCHAT_"
	dotEnvFile = ".env"
)

// Config holds the client configuration.
type Config struct {
	BaseURL        string        `toml:"base_url" env:"BASE_URL"`
	Token          string        `toml:"token" env:"TOKEN"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ConnectTimeout time.Duration `toml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	Debug          bool          `toml:"debug" env:"DEBUG"`
	LogFile        string        `toml:"log_file" env:"LOG_FILE"`
	Markdown       bool          `toml:"markdown" env:"MARKDOWN"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		ConnectTimeout: DefaultConnectTimeout,
		Markdown:       true,
	}
}

// DefaultPath is ~/.ragchat/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load builds the configuration. An explicit path must exist; the default
// path is optional. A .env file in the working directory is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("could not read config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load %s: %w", dotEnvFile, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}

	if c.RequestTimeout < 0 || c.ConnectTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}

	return nil
}

// Write stores the configuration as TOML at path, creating its directory.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not open config %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return nil
}
