// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// =============================================================================
// METADATA EDITOR OVERLAY
// =============================================================================

// formAction is what a key event asked the overlay to do.
type formAction int

const (
	formNone    formAction = iota
	formSave               // Persist the draft
	formDismiss            // Close without persisting
)

var metadataLabels = [4]string{
	"Detected language",
	"Extracted text",
	"Explanation",
	"Numerical data",
}

// MetadataForm is the modal editor for image-analysis results. The user can
// correct each field before the draft is embedded; dismissing the form
// discards the edits without persisting anything.
type MetadataForm struct {
	filename string
	inputs   [4]textinput.Model
	focused  int
	saving   bool
	status   string
}

// NewMetadataForm creates the editor pre-filled from the analysis draft.
func NewMetadataForm(filename string, draft *model.AnalysisDraft) *MetadataForm {
	f := &MetadataForm{filename: filename}
	values := [4]string{
		draft.DetectedLanguage,
		draft.ExtractedText,
		draft.Explanation,
		draft.NumericalData,
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 2000
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// Update routes a key event to the form. It returns the requested action;
// all other keys edit the focused field.
func (f *MetadataForm) Update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	if f.saving {
		return formNone, nil
	}

	switch msg.String() {
	case "esc":
		return formDismiss, nil
	case "ctrl+s":
		return formSave, nil
	case "tab", "down":
		f.focus(f.focused + 1)
		return formNone, nil
	case "shift+tab", "up":
		f.focus(f.focused - 1)
		return formNone, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return formNone, cmd
}

func (f *MetadataForm) focus(i int) {
	f.inputs[f.focused].Blur()
	f.focused = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

// Draft assembles the current field values.
func (f *MetadataForm) Draft() *model.AnalysisDraft {
	return &model.AnalysisDraft{
		DetectedLanguage: f.inputs[0].Value(),
		ExtractedText:    f.inputs[1].Value(),
		Explanation:      f.inputs[2].Value(),
		NumericalData:    f.inputs[3].Value(),
	}
}

// Filename returns the image this draft belongs to.
func (f *MetadataForm) Filename() string { return f.filename }

// SetSaving toggles the in-flight save state; while saving the form
// ignores input.
func (f *MetadataForm) SetSaving(saving bool) { f.saving = saving }

// SetStatus shows a message inside the overlay, for save failures the form
// stays open and editable.
func (f *MetadataForm) SetStatus(status string) { f.status = status }

// View renders the overlay box.
func (f *MetadataForm) View(theme *styles.Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.OverlayTitle.Render("Edit analysis: " + f.filename))
	b.WriteString("\n\n")

	for i := range f.inputs {
		label := theme.FieldLabel.Render(metadataLabels[i])
		if i == f.focused {
			label = theme.FieldFocused.Render(metadataLabels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case f.saving:
		b.WriteString(theme.OverlayStatus.Render("Saving..."))
	case f.status != "":
		b.WriteString(theme.OverlayStatus.Render(f.status))
	default:
		b.WriteString(theme.OverlayHint.Render("tab: next field  ctrl+s: save  esc: dismiss"))
	}

	box := theme.OverlayBox.Render(b.String())
	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
	}
	return box
}
