// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const welcomeLogo = `
     _                      _           _
  __| | ___   ___ _   _  __| |__   __ _| |_
 / _' |/ _ \ / __| | | |/ _' '_ \ / _' | __|
| (_| | (_) | (__| |_| | (_| | | | (_| | |_
 \__,_|\___/ \___|\__,_|\__,_| |_|\__,_|\__|
`

// RenderWelcome renders the empty-conversation welcome screen with the
// configured example prompts.
func RenderWelcome(theme *styles.Theme, width int, examples []string) string {
	var b strings.Builder

	b.WriteString(theme.WelcomeLogo.Render(strings.TrimLeft(welcomeLogo, "\n")))
	b.WriteString("\n\n")
	b.WriteString(theme.WelcomeInfo.Render("Ask about your documents, or /upload a PDF or image."))

	if len(examples) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.WelcomeInfo.Render("Try one of these (tab to fill):"))
		for _, ex := range examples {
			b.WriteString("\n")
			b.WriteString(theme.WelcomeExample.Render("  > " + ex))
		}
	}

	box := theme.WelcomeBox.Render(b.String())
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
	}
	return box
}
