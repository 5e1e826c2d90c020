// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/model"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// askCmd submits the question and reports the result tagged with the
// submission epoch.
func askCmd(client *api.Client, question, turnID string, epoch int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Ask(context.Background(), question)
		return askResultMsg{Epoch: epoch, TurnID: turnID, Response: resp, Err: err}
	}
}

// loadHistoryCmd fetches the persisted conversation.
func loadHistoryCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.FetchChatHistory(context.Background())
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

// uploadCmd streams the file to the backend.
func uploadCmd(client *api.Client, path string, gen int) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{Gen: gen, Err: err}
		}
		defer f.Close()

		result, err := client.UploadFile(context.Background(), filepath.Base(path), f)
		return uploadResultMsg{Gen: gen, Result: result, Err: err}
	}
}

// progressTickCmd schedules the next progress poll.
func progressTickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return progressTickMsg{Gen: gen}
	})
}

// checkProgressCmd polls processing progress once.
func checkProgressCmd(client *api.Client, sessionID string, gen int) tea.Cmd {
	return func() tea.Msg {
		p, err := client.CheckProgress(context.Background(), sessionID)
		return progressResultMsg{Gen: gen, Progress: p, Err: err}
	}
}

// clearPreviewCmd schedules the post-completion chip removal.
func clearPreviewCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return clearPreviewMsg{Gen: gen}
	})
}

// saveMetadataCmd persists the edited analysis draft.
func saveMetadataCmd(client *api.Client, filename string, draft *model.AnalysisDraft) tea.Cmd {
	return func() tea.Msg {
		err := client.EmbedAnalysis(context.Background(), filename, draft)
		return metadataSavedMsg{Err: err}
	}
}

// typeTickCmd schedules the next reveal step for the animating turn.
func typeTickCmd(interval time.Duration, turnID string) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return typeTickMsg{TurnID: turnID}
	})
}

// statusExpireCmd clears a transient status-bar message after a beat.
func statusExpireCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{Seq: seq}
	})
}
