// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// UPLOAD SESSION
// =============================================================================

// UploadStatus is the terminal state of an upload session.
type UploadStatus int

const (
	UploadPending  UploadStatus = iota // Not yet terminal
	UploadComplete                     // Processing reached 100%
	UploadError                        // Backend reported an error
)

// UploadSession tracks one in-flight attachment.
//
// Progress is monotonically non-decreasing until a terminal status is
// reached; polling stops permanently once terminal.
type UploadSession struct {
	FileName string
	FileSize int64

	// SessionID is assigned by the backend once the upload is accepted.
	// Empty for image uploads answered with inline analysis.
	SessionID string

	Progress int // 0-100, clamped non-decreasing
	Status   UploadStatus
}

// NewUploadSession records a preview entry for a dropped file.
func NewUploadSession(name string, size int64) *UploadSession {
	return &UploadSession{FileName: name, FileSize: size}
}

// Advance applies a polled progress reading. Readings lower than the
// current value are ignored so the displayed percentage never moves
// backwards. Returns true if the session became terminal.
func (s *UploadSession) Advance(progress int, backendErr string) bool {
	if s.Status != UploadPending {
		return true
	}
	if progress > s.Progress {
		s.Progress = progress
	}
	if backendErr != "" {
		s.Status = UploadError
		return true
	}
	if s.Progress >= 100 {
		s.Status = UploadComplete
		return true
	}
	return false
}

// Terminal reports whether polling has stopped for good.
func (s *UploadSession) Terminal() bool {
	return s.Status != UploadPending
}

// =============================================================================
// ANALYSIS DRAFT
// =============================================================================

// AnalysisDraft is editable metadata produced by backend image analysis.
// It is held client-side only: mutated by user edits, submitted and
// discarded on save, or discarded on dismissal without persistence.
type AnalysisDraft struct {
	DetectedLanguage string `json:"detected_language,omitempty"`
	ExtractedText    string `json:"extracted_text,omitempty"`
	Explanation      string `json:"explanation,omitempty"`
	NumericalData    string `json:"numerical_data,omitempty"`
}

// Empty reports whether all fields are unset.
func (d *AnalysisDraft) Empty() bool {
	return d.DetectedLanguage == "" && d.ExtractedText == "" &&
		d.Explanation == "" && d.NumericalData == ""
}
