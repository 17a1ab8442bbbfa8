// Package config loads the client configuration: YAML file first, then
// ACTIVITIES_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Messages MessagesConfig `yaml:"messages"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	BaseURL   string        `yaml:"base_url" env:"ACTIVITIES_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"ACTIVITIES_TIMEOUT"`
	SessionID string        `yaml:"session_id" env:"ACTIVITIES_SESSION_ID"`
}

type MessagesConfig struct {
	AuthDelay    time.Duration `yaml:"auth_delay" env:"ACTIVITIES_AUTH_MESSAGE_DELAY"`
	OutcomeDelay time.Duration `yaml:"outcome_delay" env:"ACTIVITIES_OUTCOME_MESSAGE_DELAY"`
}

type UIConfig struct {
	// MarkdownStyle is a glamour standard style name ("dark", "light", "notty", ...).
	MarkdownStyle string `yaml:"markdown_style" env:"ACTIVITIES_MARKDOWN_STYLE"`
	AltScreen     bool   `yaml:"alt_screen" env:"ACTIVITIES_ALT_SCREEN"`
}

type LogConfig struct {
	// File is where logs are written. Empty disables logging: the terminal
	// belongs to the UI.
	File  string `yaml:"file" env:"ACTIVITIES_LOG_FILE"`
	Level string `yaml:"level" env:"ACTIVITIES_LOG_LEVEL"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 10 * time.Second,
		},
		Messages: MessagesConfig{
			AuthDelay:    3 * time.Second,
			OutcomeDelay: 5 * time.Second,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			AltScreen:     true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Server.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("server.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("server.base_url: scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("server.base_url: missing host"))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}
	if c.Messages.AuthDelay <= 0 {
		errs = append(errs, errors.New("messages.auth_delay must be positive"))
	}
	if c.Messages.OutcomeDelay <= 0 {
		errs = append(errs, errors.New("messages.outcome_delay must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
