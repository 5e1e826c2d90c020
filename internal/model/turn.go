// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// NoResponseText is substituted for an assistant turn whose backend response
// body was empty.
const NoResponseText = "No response from server"

// Turn represents a single message in the visible conversation.
//
// Invariants maintained by the orchestrator:
//   - At most one turn has IsGenerating set at any moment.
//   - Once finalized (Finalize or Fail), a turn's content never changes;
//     the only later mutation is the one-time SkipAnimation flip applied to
//     older assistant turns when a new turn is appended.
type Turn struct {
	// Identity token, unique within the current conversation slice.
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content may contain embedded simple markup (e.g. <b>, <br>).
	Content string `json:"content"`

	// IsGenerating is true only while awaiting a backend response.
	IsGenerating bool `json:"-"`

	// SkipAnimation is true for turns that must render instantly without
	// the typewriter effect (history turns, superseded assistant turns).
	SkipAnimation bool `json:"-"`
}

// NewUserTurn creates a finalized user turn.
func NewUserTurn(content string) *Turn {
	return &Turn{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPendingAssistantTurn creates the placeholder assistant turn that is
// shown as a loading indicator until the real response supersedes it.
func NewPendingAssistantTurn() *Turn {
	return &Turn{
		ID:           uuid.NewString(),
		Role:         RoleAssistant,
		Timestamp:    time.Now(),
		IsGenerating: true,
	}
}

// NewHistoryTurn creates a pre-finalized turn loaded from backend history.
// History turns never animate.
func NewHistoryTurn(role Role, content string) *Turn {
	return &Turn{
		ID:            uuid.NewString(),
		Role:          role,
		Content:       content,
		Timestamp:     time.Now(),
		SkipAnimation: role == RoleAssistant,
	}
}

// Finalize replaces the placeholder content with the backend response and
// clears the generating flag. An empty response body is substituted with
// the NoResponseText sentinel.
func (t *Turn) Finalize(content string) {
	if content == "" {
		content = NoResponseText
	}
	t.Content = content
	t.IsGenerating = false
}

// Fail finalizes the turn with a formatted error string. Failures are
// terminal for the turn; they are never retried. Error text animates like
// any other assistant text.
func (t *Turn) Fail(err error) {
	t.Content = "Error: " + err.Error()
	t.IsGenerating = false
}

// IsFinalized reports whether the turn holds its permanent content.
func (t *Turn) IsFinalized() bool {
	return !t.IsGenerating
}

// Preview returns a rune-safe truncated preview of the turn content.
func (t *Turn) Preview(maxRunes int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxRunes {
		return t.Content
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
