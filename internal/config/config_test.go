// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load with missing file should use defaults, got error: %v", err)
	}

	if cfg.UI.RevealIntervalMs != DefaultRevealIntervalMs {
		t.Errorf("Expected default reveal interval %d, got %d",
			DefaultRevealIntervalMs, cfg.UI.RevealIntervalMs)
	}
	if cfg.Guard.AdminRoleID != "1" {
		t.Errorf("Expected default admin role '1', got %q", cfg.Guard.AdminRoleID)
	}
	if len(cfg.Guard.PublicRoutes) != 2 {
		t.Errorf("Expected 2 default public routes, got %d", len(cfg.Guard.PublicRoutes))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
base_url = "https://chat.example.com"

[ui]
reveal_interval_ms = 25
locale = "en-US"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://chat.example.com" {
		t.Errorf("Expected base URL from file, got %q", cfg.Backend.BaseURL)
	}
	if cfg.RevealInterval() != 25*time.Millisecond {
		t.Errorf("Expected 25ms reveal interval, got %v", cfg.RevealInterval())
	}
	// Unset sections keep defaults.
	if cfg.UI.PollIntervalSecs != DefaultPollIntervalSecs {
		t.Errorf("Expected default poll interval, got %d", cfg.UI.PollIntervalSecs)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("backend = {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOCUCHAT_BASE_URL", "https://override.example.com")
	t.Setenv("DOCUCHAT_REVEAL_MS", "10")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Guard.RedirectBaseURL != "https://override.example.com" {
		t.Errorf("Expected env override for redirect base, got %q", cfg.Guard.RedirectBaseURL)
	}
	if cfg.UI.RevealIntervalMs != 10 {
		t.Errorf("Expected env override reveal interval 10, got %d", cfg.UI.RevealIntervalMs)
	}
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unknown log level")
	}
}

func TestValidateClampsTimers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.RevealIntervalMs = -5
	cfg.UI.PollIntervalSecs = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.UI.RevealIntervalMs != DefaultRevealIntervalMs {
		t.Errorf("Expected clamped reveal interval, got %d", cfg.UI.RevealIntervalMs)
	}
	if cfg.PollInterval() != time.Duration(DefaultPollIntervalSecs)*time.Second {
		t.Errorf("Expected clamped poll interval, got %v", cfg.PollInterval())
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\nreveal_interval_ms = 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[ui]\nreveal_interval_ms = 15\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-w.Updates:
		if cfg.UI.RevealIntervalMs != 15 {
			t.Errorf("Expected reloaded interval 15, got %d", cfg.UI.RevealIntervalMs)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for config reload")
	}
}
