// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// chromeHeight is the number of rows taken by the header, chip row, status
// bar and input container around the conversation viewport.
const chromeHeight = 7

// scrollStickLines is how close to the bottom the viewport must be for new
// content to keep it pinned there. Scrolled further up, the position is
// preserved so the user can read back while text streams in.
const scrollStickLines = 4

func newConversationViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// refreshViewport re-renders the conversation and keeps the view pinned to
// the bottom unless the user has scrolled away.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	stick := m.nearBottom()
	m.viewport.SetContent(m.renderConversation())
	if stick {
		m.viewport.GotoBottom()
	}
}

func (m *Model) nearBottom() bool {
	rest := m.viewport.TotalLineCount() - (m.viewport.YOffset + m.viewport.Height)
	return rest <= scrollStickLines
}

// View renders the whole conversation screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	content := m.viewport.View()
	if m.form != nil {
		content = lipgloss.Place(m.width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.form.View(m.theme, 0))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderChipRow(),
		m.renderStatusBar(),
		m.theme.InputContainer.Width(m.width-2).Render(m.input.View()),
	)
}

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("docuchat")
	meta := m.theme.HeaderMeta.Render(" - document chat")
	return m.theme.Header.Width(m.width - 2).Render(title + meta)
}

func (m *Model) renderChipRow() string {
	if !m.uploader.Active() {
		return ""
	}
	return components.RenderFileChip(m.theme, m.uploader.Session(), m.uploader.Status())
}

func (m *Model) renderStatusBar() string {
	left := m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send  ") +
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" stop  ") +
		m.theme.ShortcutKey.Render("/upload /reset") + m.theme.ShortcutDesc.Render("  ") +
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit")
	if m.statusMsg != "" {
		left = m.theme.StatusInfo.Render(m.statusMsg)
	}
	return m.theme.StatusBar.Width(m.width).Render(left)
}

// =============================================================================
// CONVERSATION RENDERING
// =============================================================================

func (m *Model) renderConversation() string {
	turns := m.visibleTurns()
	if len(turns) == 0 {
		return components.RenderWelcome(m.theme, m.width, m.cfg.UI.PromptExamples)
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderTurn(t))
	}
	return b.String()
}

func (m *Model) renderTurn(t *model.Turn) string {
	label := m.theme.UserLabel
	if t.Role == model.RoleAssistant {
		label = m.theme.AssistantLabel
	}
	header := label.Render(t.Role.DisplayName()) + "  " +
		m.theme.Timestamp.Render(m.tsFmt.Format(t.Timestamp))

	return header + "\n" + m.renderTurnBody(t)
}

func (m *Model) renderTurnBody(t *model.Turn) string {
	if t.IsGenerating {
		if v := m.indicator.View(); v != "" {
			return v
		}
		return m.theme.TypingDots.Render("...")
	}

	// A registered handle mid-reveal renders its plain partial frame; the
	// rich terminal frame only appears once the reveal finishes.
	if tw, ok := m.registry.Get(t.ID); ok && !tw.Finished() {
		return m.theme.AssistantText.Render(tw.Frame())
	}

	if t.Role == model.RoleAssistant && strings.HasPrefix(t.Content, "Error: ") {
		return m.theme.ErrorText.Render(t.Content)
	}
	if t.Role == model.RoleUser {
		return m.theme.UserText.Render(t.Content)
	}
	return m.renderRich(t.Content)
}

// renderRich renders finalized assistant content through the markdown
// renderer, falling back to the raw text when rendering fails.
func (m *Model) renderRich(content string) string {
	if m.renderer == nil {
		return m.theme.AssistantText.Render(content)
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return m.theme.AssistantText.Render(content)
	}
	return strings.TrimRight(out, "\n")
}
