// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "regexp"

// =============================================================================
// TYPEWRITER STATE MACHINE
// =============================================================================

// TypewriterState is the lifecycle state of one animated assistant turn.
type TypewriterState int

const (
	TypewriterIdle       TypewriterState = iota // No content, nothing pending
	TypewriterGenerating                        // Awaiting backend response
	TypewriterTyping                            // Revealing text rune by rune
	TypewriterStopped                           // Interrupted by the user
	TypewriterComplete                          // All text revealed
)

// String returns a human-readable state name.
func (s TypewriterState) String() string {
	switch s {
	case TypewriterIdle:
		return "idle"
	case TypewriterGenerating:
		return "generating"
	case TypewriterTyping:
		return "typing"
	case TypewriterStopped:
		return "stopped"
	case TypewriterComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// markupPattern matches embedded markup tags. Reveal progress counts only
// the visible runes; the final frame restores the full rich content.
var markupPattern = regexp.MustCompile(`<[^>]+>`)

// Typewriter reveals one assistant message rune by rune. It is driven
// externally: the conversation loop calls Tick on a fixed cadence, so the
// machine itself holds no timers and is trivially testable.
//
// The completion callback fires exactly once, on the transition to Stopped
// or Complete, no matter how the machine gets there.
type Typewriter struct {
	state      TypewriterState
	content    string
	plain      []rune
	revealed   int
	onComplete func()
	fired      bool
}

// NewTypewriter creates a machine for one assistant turn. A generating turn
// starts in Generating and receives its text later via SetContent. A
// non-generating turn with content starts revealing immediately; with empty
// content it parks in Idle and never fires the callback.
func NewTypewriter(content string, generating bool, onComplete func()) *Typewriter {
	tw := &Typewriter{onComplete: onComplete}
	switch {
	case generating:
		tw.state = TypewriterGenerating
	case content == "":
		tw.state = TypewriterIdle
	default:
		tw.begin(content)
	}
	return tw
}

// SetContent delivers the final response text and starts the reveal.
// Only meaningful from Generating or Idle; later states ignore it.
func (t *Typewriter) SetContent(content string) {
	if t.state != TypewriterGenerating && t.state != TypewriterIdle {
		return
	}
	if content == "" {
		t.state = TypewriterIdle
		return
	}
	t.begin(content)
}

// begin enters Typing, or completes at once when stripping the markup
// leaves nothing to reveal.
func (t *Typewriter) begin(content string) {
	t.content = content
	t.plain = []rune(markupPattern.ReplaceAllString(content, ""))
	t.revealed = 0
	if len(t.plain) == 0 {
		t.complete()
		return
	}
	t.state = TypewriterTyping
}

// Tick reveals the next rune. It reports whether another tick should be
// scheduled; false once the machine has left Typing.
func (t *Typewriter) Tick() bool {
	if t.state != TypewriterTyping {
		return false
	}
	t.revealed++
	if t.revealed >= len(t.plain) {
		t.complete()
		return false
	}
	return true
}

// Stop interrupts a running reveal: the full text becomes visible at once
// and the completion callback fires. A stop in any other state is a no-op,
// so a second stop never re-fires the callback.
func (t *Typewriter) Stop() {
	if t.state != TypewriterTyping {
		return
	}
	t.revealed = len(t.plain)
	t.state = TypewriterStopped
	t.fire()
}

// Frame returns the text to render for the current state. Partial frames
// are markup-stripped; the terminal frame is the full rich content.
func (t *Typewriter) Frame() string {
	switch t.state {
	case TypewriterTyping:
		return string(t.plain[:t.revealed])
	case TypewriterStopped, TypewriterComplete:
		return t.content
	default:
		return ""
	}
}

// State returns the current lifecycle state.
func (t *Typewriter) State() TypewriterState {
	return t.state
}

// Finished reports whether the machine reached a terminal state.
func (t *Typewriter) Finished() bool {
	return t.state == TypewriterStopped || t.state == TypewriterComplete
}

func (t *Typewriter) complete() {
	t.revealed = len(t.plain)
	t.state = TypewriterComplete
	t.fire()
}

func (t *Typewriter) fire() {
	if t.fired || t.onComplete == nil {
		t.fired = true
		return
	}
	t.fired = true
	t.onComplete()
}
