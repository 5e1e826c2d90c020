// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator is the animated three-dot placeholder shown inside a
// pending assistant turn while the backend is generating a response.
type TypingIndicator struct {
	spinner spinner.Model
	active  bool
}

// NewTypingIndicator creates the indicator with ASCII-safe dot frames.
func NewTypingIndicator() TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Teal)
	return TypingIndicator{spinner: s}
}

// Start activates the indicator and returns its tick command.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is running.
func (t TypingIndicator) IsActive() bool {
	return t.active
}

// Update advances the animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the current frame, or "" when inactive.
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.spinner.View()
}
