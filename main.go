// docuchat TUI - a terminal client for the docuchat document-chat backend.
//
// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/auth"
	"github.com/docuchat/docuchat-tui/internal/config"
	"github.com/docuchat/docuchat-tui/internal/guard"
	"github.com/docuchat/docuchat-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config.toml (default ~/.docuchat/config.toml)")
		forceLogin  = flag.Bool("login", false, "discard the saved session and log in again")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("docuchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *forceLogin); err != nil {
		fmt.Fprintln(os.Stderr, "docuchat:", err)
		os.Exit(1)
	}
}

func run(configPath string, forceLogin bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if dir, err := config.Dir(); err == nil {
		_ = os.MkdirAll(dir, 0o700)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if forceLogin {
		client.ClearSession()
	} else if err := client.LoadSession(); err != nil {
		logger.Debug("no saved session", zap.Error(err))
	}

	// The guard decides whether the saved session is good enough to enter
	// the conversation, mirroring the route policy of the web deployment.
	g := guard.New(cfg.Guard, client, logger)
	decision := g.Decide(ctx, "/", client.SessionToken())
	if decision.Action != guard.ActionAllow {
		logger.Info("session rejected, prompting for login",
			zap.String("action", decision.Action.String()),
			zap.String("target", decision.Target))
		if _, err := auth.Login(ctx, client, logger); err != nil {
			return err
		}
	}

	p := tea.NewProgram(
		chat.NewModel(cfg, client, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Live-reload display settings while the program runs.
	watchPath := configPath
	if watchPath == "" {
		watchPath, _ = config.DefaultPath()
	}
	if watchPath != "" {
		if w, err := config.NewWatcher(watchPath, logger); err == nil {
			defer w.Close()
			go func() {
				for updated := range w.Updates {
					p.Send(chat.ConfigReloaded(updated))
				}
			}()
		} else {
			logger.Warn("config watcher unavailable", zap.Error(err))
		}
	}

	_, err = p.Run()

	if saveErr := client.SaveSession(); saveErr != nil {
		logger.Warn("session not persisted", zap.Error(saveErr))
	}
	return err
}

// newClient assembles the backend client from the configuration.
func newClient(cfg *config.Config, logger *zap.Logger) (*api.Client, error) {
	sessionFile, err := cfg.SessionFilePath()
	if err != nil {
		return nil, err
	}

	client := api.NewClient().
		WithBaseURL(cfg.Backend.BaseURL).
		WithVerifyURL(cfg.Backend.VerifyURL).
		WithSessionFile(sessionFile).
		WithLogger(logger)
	if cfg.Backend.RequestTimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.Backend.RequestTimeoutSecs) * time.Second)
	}
	return client, nil
}

// newLogger builds the file-backed logger. The TUI owns stdout, so log
// output always goes to a file.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	path, err := cfg.LogFilePath()
	if err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	switch cfg.Log.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
