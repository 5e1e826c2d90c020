// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/config"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// askResultMsg carries the backend's answer for one submitted question.
// Epoch identifies the submission generation: results whose epoch no longer
// matches the model's are stale (the conversation was reset or stopped in
// between) and are discarded.
type askResultMsg struct {
	Epoch    int
	TurnID   string
	Response string
	Err      error
}

// historyLoadedMsg carries the persisted conversation fetched at startup.
type historyLoadedMsg struct {
	Entries []api.HistoryEntry
	Err     error
}

// typeTickMsg drives one reveal step of the animating turn.
type typeTickMsg struct {
	TurnID string
}

// uploadResultMsg carries the upload response: either a processing session
// to poll, an immediate image analysis, or a terminal error.
type uploadResultMsg struct {
	Gen    int
	Result *api.UploadResult
	Err    error
}

// progressTickMsg fires when the next progress poll is due.
type progressTickMsg struct {
	Gen int
}

// progressResultMsg carries one progress poll response.
type progressResultMsg struct {
	Gen      int
	Progress *api.Progress
	Err      error
}

// clearPreviewMsg fires when the post-completion preview delay elapses.
type clearPreviewMsg struct {
	Gen int
}

// metadataSavedMsg reports the outcome of persisting the edited analysis.
type metadataSavedMsg struct {
	Err error
}

// configReloadedMsg delivers a validated configuration picked up by the
// file watcher.
type configReloadedMsg struct {
	Cfg *config.Config
}

// ConfigReloaded wraps a freshly loaded configuration for delivery into the
// running program via Program.Send.
func ConfigReloaded(cfg *config.Config) tea.Msg {
	return configReloadedMsg{Cfg: cfg}
}

// statusExpiredMsg clears a transient status-bar message.
type statusExpiredMsg struct {
	Seq int
}
