// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen: the turn orchestrator,
// the typewriter renderer for assistant replies, and the attachment upload
// flow with its progress poller and metadata editor.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/config"
	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/components"
	"github.com/docuchat/docuchat-tui/internal/ui/styles"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// CONVERSATION MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation screen.
//
// Turn invariants it maintains:
//   - at most one pending question at a time; input is gated while a
//     response is awaited or animating
//   - only the newest assistant turn ever animates; older ones are
//     skip-flagged the moment a new turn is appended
//   - a response that arrives after a stop or reset carries a stale epoch
//     and is discarded without touching the conversation
type Model struct {
	cfg    *config.Config
	client *api.Client
	theme  *styles.Theme
	logger *zap.Logger

	// Conversation state
	turns          []*model.Turn
	history        []*model.Turn
	historyVisible bool

	// Submission generation. Bumped whenever in-flight responses must be
	// invalidated (stop while pending, conversation reset).
	epoch   int
	pending bool
	typing  bool

	registry *Registry
	uploader *Uploader
	form     *MetadataForm

	// Widgets
	viewport  viewport.Model
	input     textinput.Model
	indicator components.TypingIndicator

	tsFmt    *util.TimestampFormatter
	renderer *glamour.TermRenderer

	width  int
	height int
	ready  bool

	statusMsg string
	statusSeq int

	// exampleIdx cycles through the welcome-screen prompt examples.
	exampleIdx int

	quitting bool
}

// NewModel creates the conversation screen.
func NewModel(cfg *config.Config, client *api.Client, logger *zap.Logger) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask a question, /upload a file, /reset, or /quit"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	return Model{
		cfg:       cfg,
		client:    client,
		theme:     theme,
		logger:    logger,
		registry:  NewRegistry(),
		uploader:  NewUploader(),
		input:     input,
		indicator: components.NewTypingIndicator(),
		tsFmt:     util.NewTimestampFormatter(cfg.UI.Locale),
	}
}

// Init fetches the persisted conversation and starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		loadHistoryCmd(m.client),
	)
}

// visibleTurns returns the turns to render: fetched history is prepended
// once it has been revealed by the first submission.
func (m *Model) visibleTurns() []*model.Turn {
	if !m.historyVisible {
		return m.turns
	}
	out := make([]*model.Turn, 0, len(m.history)+len(m.turns))
	out = append(out, m.history...)
	out = append(out, m.turns...)
	return out
}

// markOlderSkip flags every existing assistant turn to render its final
// frame without animation. Called right before a new turn is appended, so
// the newest assistant turn is always the only animating one.
func markOlderSkip(turns []*model.Turn) {
	for _, t := range turns {
		if t.Role == model.RoleAssistant {
			t.SkipAnimation = true
		}
	}
}

// inputLocked reports whether submissions are currently gated.
func (m *Model) inputLocked() bool {
	return m.pending || m.typing || m.form != nil
}
