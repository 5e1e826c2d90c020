// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/model"
)

// =============================================================================
// UPLOAD STATE MACHINE
// =============================================================================

// UploadOutcome classifies the backend's response to a file upload.
type UploadOutcome int

const (
	OutcomeNone      UploadOutcome = iota
	OutcomePoll                    // Document accepted, poll processing progress
	OutcomeAnalysis                // Image analyzed, open the metadata editor
	OutcomeImmediate               // Neither field present, nothing to track
	OutcomeFailed                  // Upload request failed
)

// acceptedExtensions mirrors the attachment picker policy: one file at a
// time, documents and images only.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Uploader tracks the single in-flight attachment: its preview chip, the
// processing progress, and the image-analysis draft. It is pure state; the
// conversation model schedules the timed commands around it.
//
// Every scheduled command carries the generation current when it was
// scheduled. Starting a new upload or removing the file bumps the
// generation, so ticks from an abandoned upload are recognized and dropped.
type Uploader struct {
	session *model.UploadSession
	draft   *model.AnalysisDraft
	status  string
	gen     int
}

// NewUploader creates an empty uploader.
func NewUploader() *Uploader {
	return &Uploader{}
}

// AcceptsFile reports whether the file extension is allowed.
func (u *Uploader) AcceptsFile(name string) bool {
	return acceptedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Begin records a new pending upload. It refuses while a preview is still
// active: only one attachment may be tracked at a time.
func (u *Uploader) Begin(name string, size int64) bool {
	if u.session != nil {
		return false
	}
	u.gen++
	u.session = model.NewUploadSession(filepath.Base(name), size)
	u.status = "Uploading..."
	return true
}

// HandleResult applies the upload response and classifies the next step.
func (u *Uploader) HandleResult(result *api.UploadResult, err error) UploadOutcome {
	if u.session == nil {
		return OutcomeNone
	}
	if err != nil {
		u.session.Status = model.UploadError
		u.status = "Error: " + err.Error()
		return OutcomeFailed
	}

	switch {
	case result.SessionID != "":
		u.session.SessionID = result.SessionID
		u.status = "Processing: 0%"
		return OutcomePoll
	case result.Analysis != nil:
		u.session.Advance(100, "")
		u.draft = result.Analysis
		u.status = "Image uploaded, editing metadata..."
		return OutcomeAnalysis
	default:
		u.session.Advance(100, "")
		u.status = "Image uploaded and analyzed"
		return OutcomeImmediate
	}
}

// HandleProgress applies one poll response and reports whether polling is
// finished. A transport failure is terminal, same as a backend error field.
func (u *Uploader) HandleProgress(p *api.Progress, err error) (terminal bool) {
	if u.session == nil {
		return true
	}
	if err != nil {
		u.session.Status = model.UploadError
		u.status = "Error: " + err.Error()
		return true
	}

	backendErr := ""
	if p != nil {
		backendErr = p.Error
	}
	progress := 0
	if p != nil {
		progress = p.Progress
	}

	done := u.session.Advance(progress, backendErr)
	switch u.session.Status {
	case model.UploadError:
		u.status = "Error occurred"
	case model.UploadComplete:
		u.status = "Upload complete"
	default:
		u.status = fmt.Sprintf("Processing: %d%%", u.session.Progress)
	}
	return done
}

// ClearPreview drops the chip after the post-completion delay. The analysis
// draft survives: the metadata editor's lifetime is independent of the chip.
func (u *Uploader) ClearPreview() {
	u.session = nil
	u.status = ""
}

// Remove abandons the tracked upload entirely and invalidates any timers
// still scheduled against it.
func (u *Uploader) Remove() {
	u.gen++
	u.session = nil
	u.status = ""
}

// CloseDraft discards the analysis draft once the editor is done with it.
func (u *Uploader) CloseDraft() {
	u.draft = nil
}

// SetStatus overrides the transient status line.
func (u *Uploader) SetStatus(s string) {
	u.status = s
}

// Active reports whether a preview chip should be shown.
func (u *Uploader) Active() bool { return u.session != nil }

// Session returns the tracked upload, nil when inactive.
func (u *Uploader) Session() *model.UploadSession { return u.session }

// Draft returns the pending analysis draft, nil when none.
func (u *Uploader) Draft() *model.AnalysisDraft { return u.draft }

// Status returns the transient status line.
func (u *Uploader) Status() string { return u.status }

// Gen returns the current upload generation.
func (u *Uploader) Gen() int { return u.gen }

// Stale reports whether a message generation predates the current upload.
func (u *Uploader) Stale(gen int) bool { return gen != u.gen }
