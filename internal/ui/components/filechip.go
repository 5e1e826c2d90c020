// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/styles"
	"github.com/docuchat/docuchat-tui/internal/util"
)

// =============================================================================
// FILE CHIP
// =============================================================================

// maxChipName bounds the displayed file name so the chip stays on one line.
const maxChipName = 32

// RenderFileChip renders the attachment preview shown above the input while
// an upload is pending or completing. status is the transient status line
// ("Uploading...", "Processing: 45%", ...).
func RenderFileChip(theme *styles.Theme, session *model.UploadSession, status string) string {
	if session == nil {
		return ""
	}

	name := session.FileName
	if runewidth.StringWidth(name) > maxChipName {
		name = runewidth.Truncate(name, maxChipName, "...")
	}

	parts := []string{
		theme.FileChipName.Render(name),
		theme.FileChipMeta.Render(util.FormatFileSize(session.FileSize)),
	}
	if status != "" {
		style := theme.ProgressText
		switch session.Status {
		case model.UploadError:
			style = theme.StatusError
		case model.UploadComplete:
			style = theme.StatusInfo
		}
		parts = append(parts, style.Render(status))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, parts[0], "  ", parts[1])
	if len(parts) > 2 {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, "  ", parts[2])
	}
	return theme.FileChip.Render(row)
}
