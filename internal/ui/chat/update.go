// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all messages for the conversation screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.indicator.IsActive() {
			return m, nil
		}
		var cmd tea.Cmd
		m.indicator, cmd = m.indicator.Update(msg)
		m.refreshViewport()
		return m, cmd

	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	case askResultMsg:
		return m.handleAskResult(msg)
	case typeTickMsg:
		return m.handleTypeTick(msg)

	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case progressTickMsg:
		return m.handleProgressTick(msg)
	case progressResultMsg:
		return m.handleProgressResult(msg)
	case clearPreviewMsg:
		if m.uploader.Stale(msg.Gen) {
			return m, nil
		}
		m.uploader.ClearPreview()
		return m, nil

	case metadataSavedMsg:
		return m.handleMetadataSaved(msg)

	case configReloadedMsg:
		m.cfg = msg.Cfg
		m.tsFmt = util.NewTimestampFormatter(msg.Cfg.UI.Locale)
		m.logger.Info("configuration reloaded")
		return m, m.setStatus("Configuration reloaded")

	case statusExpiredMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Everything else (mouse wheel etc.) scrolls the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// The metadata overlay captures all input while open.
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.handleSubmit()
	case "esc":
		return m.handleStop()
	case "tab":
		// On the welcome screen, tab cycles the example prompts into the
		// input line.
		if examples := m.cfg.UI.PromptExamples; len(m.visibleTurns()) == 0 && len(examples) > 0 {
			m.input.SetValue(examples[m.exampleIdx%len(examples)])
			m.input.CursorEnd()
			m.exampleIdx++
		}
		return m, nil
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := m.form.Update(msg)
	switch action {
	case formSave:
		m.form.SetSaving(true)
		return m, saveMetadataCmd(m.client, m.form.Filename(), m.form.Draft())
	case formDismiss:
		// Dismissal discards the edits; nothing is persisted.
		m.form = nil
		m.uploader.CloseDraft()
		return m, nil
	}
	return m, cmd
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	// Slash commands bypass the question gate.
	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	if m.inputLocked() {
		return m, m.setStatus("Wait for the current response to finish")
	}

	// The fetched history becomes visible together with the first
	// submitted question, never on its own.
	m.historyVisible = true

	markOlderSkip(m.turns)
	m.turns = append(m.turns, model.NewUserTurn(text))
	pendingTurn := model.NewPendingAssistantTurn()
	m.turns = append(m.turns, pendingTurn)

	m.epoch++
	m.pending = true
	m.input.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()

	m.logger.Info("question submitted", zap.String("turn", pendingTurn.ID))
	return m, tea.Batch(
		askCmd(m.client, text, pendingTurn.ID, m.epoch),
		m.indicator.Start(),
	)
}

func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd := fields[0]
	m.input.Reset()

	switch cmd {
	case "/quit":
		m.quitting = true
		return m, tea.Quit
	case "/reset":
		return m.handleReset()
	case "/upload":
		if len(fields) < 2 {
			return m, m.setStatus("Usage: /upload <path>")
		}
		return m.handleUpload(strings.Join(fields[1:], " "))
	case "/remove":
		// Removing the file also closes the metadata editor.
		m.uploader.Remove()
		m.uploader.CloseDraft()
		m.form = nil
		return m, nil
	default:
		return m, m.setStatus("Unknown command: " + cmd)
	}
}

// handleStop interrupts whatever phase the current turn is in: a running
// reveal snaps to its full text, a still-pending question is withdrawn and
// its eventual response invalidated.
func (m Model) handleStop() (tea.Model, tea.Cmd) {
	switch {
	case m.typing:
		m.registry.StopAll()
		m.typing = false
		m.refreshViewport()
	case m.pending:
		kept := m.turns[:0]
		for _, t := range m.turns {
			if !t.IsGenerating {
				kept = append(kept, t)
			}
		}
		m.turns = kept
		m.pending = false
		m.epoch++
		m.indicator.Stop()
		m.refreshViewport()
	}
	return m, nil
}

// handleReset clears the conversation and invalidates every in-flight
// response. The fetched history is hidden again, not discarded: the next
// submission re-reveals it.
func (m Model) handleReset() (tea.Model, tea.Cmd) {
	m.turns = nil
	m.historyVisible = false
	m.registry.Reset()
	m.epoch++
	m.pending = false
	m.typing = false
	m.indicator.Stop()
	m.refreshViewport()
	m.logger.Info("conversation reset")
	return m, nil
}

// =============================================================================
// ASK FLOW
// =============================================================================

func (m Model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Non-fatal: the conversation simply starts empty.
		m.logger.Warn("history fetch failed", zap.Error(msg.Err))
		return m, nil
	}
	for _, e := range msg.Entries {
		m.history = append(m.history, model.NewHistoryTurn(model.RoleUser, e.Question))
		m.history = append(m.history, model.NewHistoryTurn(model.RoleAssistant, e.Answer))
	}
	m.logger.Info("history loaded", zap.Int("entries", len(msg.Entries)))
	return m, nil
}

func (m Model) handleAskResult(msg askResultMsg) (tea.Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		m.logger.Debug("stale ask result discarded",
			zap.Int("epoch", msg.Epoch), zap.Int("current", m.epoch))
		return m, nil
	}

	turn := m.findTurn(msg.TurnID)
	if turn == nil {
		return m, nil
	}

	m.pending = false
	m.indicator.Stop()

	if msg.Err != nil {
		m.logger.Warn("ask failed", zap.Error(msg.Err))
		turn.Fail(msg.Err)
	} else {
		turn.Finalize(msg.Response)
	}

	registry := m.registry
	turnID := turn.ID
	tw := NewTypewriter(turn.Content, false, func() {
		registry.Detach(turnID)
	})
	if tw.Finished() {
		m.refreshViewport()
		return m, nil
	}

	m.registry.Attach(turn.ID, tw)
	m.typing = true
	m.refreshViewport()
	return m, typeTickCmd(m.cfg.RevealInterval(), turn.ID)
}

func (m Model) handleTypeTick(msg typeTickMsg) (tea.Model, tea.Cmd) {
	tw, ok := m.registry.Get(msg.TurnID)
	if !ok {
		// Stopped or reset since this tick was scheduled.
		return m, nil
	}

	more := tw.Tick()
	m.refreshViewport()
	if more {
		return m, typeTickCmd(m.cfg.RevealInterval(), msg.TurnID)
	}
	m.typing = false
	return m, nil
}

func (m *Model) findTurn(id string) *model.Turn {
	for _, t := range m.turns {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// =============================================================================
// UPLOAD FLOW
// =============================================================================

func (m Model) handleUpload(path string) (tea.Model, tea.Cmd) {
	if m.uploader.Active() {
		return m, m.setStatus("Remove the current file first (/remove)")
	}
	if !m.uploader.AcceptsFile(path) {
		return m, m.setStatus("Only PDF, PNG, JPG and JPEG files are accepted")
	}

	info, err := os.Stat(path)
	if err != nil {
		return m, m.setStatus("Cannot read file: " + err.Error())
	}

	m.uploader.Begin(path, info.Size())
	m.logger.Info("upload started",
		zap.String("file", m.uploader.Session().FileName),
		zap.Int64("size", info.Size()))
	return m, uploadCmd(m.client, path, m.uploader.Gen())
}

func (m Model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if m.uploader.Stale(msg.Gen) {
		return m, nil
	}

	switch m.uploader.HandleResult(msg.Result, msg.Err) {
	case OutcomePoll:
		return m, progressTickCmd(m.cfg.PollInterval(), msg.Gen)
	case OutcomeAnalysis:
		m.form = NewMetadataForm(m.uploader.Session().FileName, m.uploader.Draft())
		return m, clearPreviewCmd(m.cfg.PreviewClearDelay(), msg.Gen)
	case OutcomeImmediate:
		return m, clearPreviewCmd(m.cfg.PreviewClearDelay(), msg.Gen)
	case OutcomeFailed:
		m.logger.Warn("upload failed", zap.Error(msg.Err))
		return m, clearPreviewCmd(m.cfg.PreviewClearDelay(), msg.Gen)
	}
	return m, nil
}

func (m Model) handleProgressTick(msg progressTickMsg) (tea.Model, tea.Cmd) {
	if m.uploader.Stale(msg.Gen) {
		return m, nil
	}
	session := m.uploader.Session()
	if session == nil || session.Terminal() {
		return m, nil
	}
	return m, checkProgressCmd(m.client, session.SessionID, msg.Gen)
}

func (m Model) handleProgressResult(msg progressResultMsg) (tea.Model, tea.Cmd) {
	if m.uploader.Stale(msg.Gen) {
		return m, nil
	}

	terminal := m.uploader.HandleProgress(msg.Progress, msg.Err)
	if !terminal {
		return m, progressTickCmd(m.cfg.PollInterval(), msg.Gen)
	}
	// Terminal either way: the chip lingers briefly, then clears.
	return m, clearPreviewCmd(m.cfg.PreviewClearDelay(), msg.Gen)
}

func (m Model) handleMetadataSaved(msg metadataSavedMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if msg.Err != nil {
		// The form stays open so the edits are not lost.
		m.form.SetSaving(false)
		m.form.SetStatus("Error: " + msg.Err.Error())
		return m, nil
	}
	m.form = nil
	m.uploader.CloseDraft()
	return m, m.setStatus("Metadata saved successfully")
}

// =============================================================================
// LAYOUT AND STATUS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	contentHeight := msg.Height - chromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	if !m.ready {
		m.viewport = newConversationViewport(msg.Width, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight
	}
	m.input.Width = msg.Width - 4

	wrap := msg.Width - 4
	if wrap < 20 {
		wrap = 20
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = r
	}

	m.refreshViewport()
	return m, nil
}

// setStatus shows a transient status-bar message.
func (m *Model) setStatus(s string) tea.Cmd {
	m.statusMsg = s
	m.statusSeq++
	return statusExpireCmd(m.statusSeq)
}
