// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the interactive terminal login flow used when no
// valid session is available.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/docuchat/docuchat-tui/internal/api"
)

// maxAttempts bounds the credential retry loop.
const maxAttempts = 3

// ErrAborted is returned when the user cancels the prompt.
var ErrAborted = errors.New("login aborted")

// Login prompts for credentials on the terminal and authenticates against
// the backend. On success the session cookie has been captured and
// persisted by the client. Failed attempts re-prompt, up to maxAttempts.
func Login(ctx context.Context, client *api.Client, logger *zap.Logger) (*api.LoginResult, error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		email, err := line.Prompt("Email: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil, ErrAborted
			}
			return nil, fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(email)
		if email == "" {
			fmt.Println("Email is required.")
			continue
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return nil, err
		}

		result, err := client.Login(ctx, email, password)
		if err != nil {
			logger.Warn("login attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			fmt.Println(err.Error())
			continue
		}

		logger.Info("login succeeded", zap.String("usersid", result.UsersID))
		return result, nil
	}

	return nil, errors.New("too many failed login attempts")
}

// readPassword reads a line with echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
