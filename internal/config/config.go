// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docuchat.
//
// Configuration is read from TOML with environment variable overrides and
// validation. File location (in order of precedence):
//   - path given on the command line
//   - ~/.docuchat/config.toml
//   - built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docuchat configuration.
type Config struct {
	// Backend connectivity
	Backend BackendConfig `toml:"backend"`

	// Access guard route policy
	Guard GuardConfig `toml:"guard"`

	// UI behaviour
	UI UIConfig `toml:"ui"`

	// Logging
	Log LogConfig `toml:"log"`
}

// BackendConfig contains the HTTP backend endpoints.
type BackendConfig struct {
	// BaseURL is the base URL of the backend API (the /api prefix is
	// appended per endpoint).
	BaseURL string `toml:"base_url"`
	// VerifyURL is the external session-verification endpoint consulted by
	// the access guard for sensitive routes.
	VerifyURL string `toml:"verify_url"`
	// RequestTimeoutSecs bounds non-upload requests. 0 disables the bound,
	// matching the original client which set no timeout.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	// SessionFile is where the opaque session token is persisted between
	// runs. Empty means ~/.docuchat/session.
	SessionFile string `toml:"session_file"`
}

// GuardConfig contains the route classification sets for the access guard.
type GuardConfig struct {
	// RedirectBaseURL is the base used to construct absolute redirect
	// targets. Overridable via DOCUCHAT_BASE_URL.
	RedirectBaseURL string `toml:"redirect_base_url"`
	// PublicRoutes require no session.
	PublicRoutes []string `toml:"public_routes"`
	// SensitiveRoutes require a backend-verified session.
	SensitiveRoutes []string `toml:"sensitive_routes"`
	// AdminRoute additionally requires the admin role.
	AdminRoute string `toml:"admin_route"`
	// AdminRoleID is the role identifier accepted for AdminRoute.
	AdminRoleID string `toml:"admin_role_id"`
}

// UIConfig contains display behaviour settings.
type UIConfig struct {
	// RevealIntervalMs is the typewriter cadence in milliseconds per rune.
	RevealIntervalMs int `toml:"reveal_interval_ms"`
	// PollIntervalSecs is the upload progress polling interval.
	PollIntervalSecs int `toml:"poll_interval_secs"`
	// PreviewClearSecs is the delay before a terminal upload preview chip
	// is cleared.
	PreviewClearSecs int `toml:"preview_clear_secs"`
	// Locale selects the timestamp display convention (BCP 47).
	Locale string `toml:"locale"`
	// PromptExamples are shown on the welcome screen.
	PromptExamples []string `toml:"prompt_examples"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Path of the log file. Empty means ~/.docuchat/docuchat.log.
	Path string `toml:"path"`
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default cadence and timer values. The reveal interval mirrors the
// original 50ms per character; polling runs once per second and terminal
// previews linger for two seconds.
const (
	DefaultRevealIntervalMs = 50
	DefaultPollIntervalSecs = 1
	DefaultPreviewClearSecs = 2
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:            "http://localhost:3000",
			VerifyURL:          "http://localhost:5002/check_auth",
			RequestTimeoutSecs: 0,
		},
		Guard: GuardConfig{
			RedirectBaseURL: "http://localhost:3000",
			PublicRoutes:    []string{"/login", "/api/login2"},
			SensitiveRoutes: []string{"/users_management", "/role_management", "/pdf_management"},
			AdminRoute:      "/users_management",
			AdminRoleID:     "1",
		},
		UI: UIConfig{
			RevealIntervalMs: DefaultRevealIntervalMs,
			PollIntervalSecs: DefaultPollIntervalSecs,
			PreviewClearSecs: DefaultPreviewClearSecs,
			Locale:           "mn",
			PromptExamples: []string{
				"Summarize the latest uploaded document",
				"What does the contract say about termination?",
				"Extract the key figures from the quarterly report",
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// ErrInvalidConfig indicates the configuration failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Dir returns the docuchat configuration directory (~/.docuchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docuchat"), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error. Environment overrides are
// applied after the file, validation last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. DOCUCHAT_BASE_URL
// mirrors the original deployment's single base-URL override for redirect
// construction.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOCUCHAT_BASE_URL"); v != "" {
		c.Guard.RedirectBaseURL = v
	}
	if v := os.Getenv("DOCUCHAT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("DOCUCHAT_VERIFY_URL"); v != "" {
		c.Backend.VerifyURL = v
	}
	if v := os.Getenv("DOCUCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DOCUCHAT_REVEAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.UI.RevealIntervalMs = ms
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.Backend.BaseURL); err != nil || c.Backend.BaseURL == "" {
		return fmt.Errorf("%w: backend.base_url %q", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if _, err := url.Parse(c.Guard.RedirectBaseURL); err != nil || c.Guard.RedirectBaseURL == "" {
		return fmt.Errorf("%w: guard.redirect_base_url %q", ErrInvalidConfig, c.Guard.RedirectBaseURL)
	}
	if c.UI.RevealIntervalMs <= 0 {
		c.UI.RevealIntervalMs = DefaultRevealIntervalMs
	}
	if c.UI.PollIntervalSecs <= 0 {
		c.UI.PollIntervalSecs = DefaultPollIntervalSecs
	}
	if c.UI.PreviewClearSecs <= 0 {
		c.UI.PreviewClearSecs = DefaultPreviewClearSecs
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// =============================================================================
// DERIVED ACCESSORS
// =============================================================================

// RevealInterval returns the typewriter cadence as a duration.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.UI.RevealIntervalMs) * time.Millisecond
}

// PollInterval returns the upload progress polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.UI.PollIntervalSecs) * time.Second
}

// PreviewClearDelay returns the delay before a terminal upload preview is
// cleared.
func (c *Config) PreviewClearDelay() time.Duration {
	return time.Duration(c.UI.PreviewClearSecs) * time.Second
}

// SessionFilePath resolves the session token file location.
func (c *Config) SessionFilePath() (string, error) {
	if c.Backend.SessionFile != "" {
		return c.Backend.SessionFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session"), nil
}

// LogFilePath resolves the log file location.
func (c *Config) LogFilePath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "docuchat.log"), nil
}
