// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
)

// drain ticks the machine until it stops asking for more.
func drain(t *testing.T, tw *Typewriter) int {
	t.Helper()
	ticks := 0
	for tw.Tick() {
		ticks++
		if ticks > 10000 {
			t.Fatal("typewriter never finished")
		}
	}
	return ticks + 1 // the final Tick returns false after completing
}

func TestTypewriterRevealsRuneByRune(t *testing.T) {
	tw := NewTypewriter("Hello", false, nil)

	if tw.State() != TypewriterTyping {
		t.Fatalf("state = %v, want typing", tw.State())
	}
	tw.Tick()
	if got := tw.Frame(); got != "H" {
		t.Errorf("frame after 1 tick = %q, want %q", got, "H")
	}
	tw.Tick()
	tw.Tick()
	if got := tw.Frame(); got != "Hel" {
		t.Errorf("frame after 3 ticks = %q, want %q", got, "Hel")
	}
}

func TestTypewriterCompletesAfterAllRunes(t *testing.T) {
	tw := NewTypewriter("Hi!", false, nil)

	ticks := drain(t, tw)
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
	if tw.State() != TypewriterComplete {
		t.Errorf("state = %v, want complete", tw.State())
	}
	if tw.Frame() != "Hi!" {
		t.Errorf("final frame = %q", tw.Frame())
	}
}

func TestTypewriterStripsMarkupForCounting(t *testing.T) {
	content := "<b>Hi</b> there"
	tw := NewTypewriter(content, false, nil)

	ticks := drain(t, tw)
	if want := len([]rune("Hi there")); ticks != want {
		t.Errorf("ticks = %d, want %d (markup must not be counted)", ticks, want)
	}
	// Terminal frame restores the rich content.
	if tw.Frame() != content {
		t.Errorf("final frame = %q, want full markup restored", tw.Frame())
	}
}

func TestTypewriterPartialFramesExcludeMarkup(t *testing.T) {
	tw := NewTypewriter("<b>abc</b>", false, nil)
	tw.Tick()
	tw.Tick()
	if got := tw.Frame(); strings.Contains(got, "<") {
		t.Errorf("partial frame %q leaked markup", got)
	}
}

func TestTypewriterMultibyteRunes(t *testing.T) {
	tw := NewTypewriter("Сайн уу", false, nil)

	tw.Tick()
	if got := tw.Frame(); got != "С" {
		t.Errorf("frame = %q, want single rune", got)
	}
	if ticks := drain(t, tw); ticks != len([]rune("Сайн уу"))-1 {
		t.Errorf("remaining ticks = %d", ticks)
	}
}

func TestTypewriterStopShowsFullText(t *testing.T) {
	fired := 0
	tw := NewTypewriter("A long answer", false, func() { fired++ })

	tw.Tick()
	tw.Tick()
	tw.Stop()

	if tw.State() != TypewriterStopped {
		t.Fatalf("state = %v, want stopped", tw.State())
	}
	if tw.Frame() != "A long answer" {
		t.Errorf("frame after stop = %q, want full text", tw.Frame())
	}
	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
	if tw.Tick() {
		t.Error("tick after stop must not request more")
	}
}

func TestTypewriterCallbackFiresExactlyOnce(t *testing.T) {
	fired := 0
	tw := NewTypewriter("ok", false, func() { fired++ })

	drain(t, tw)
	tw.Stop()
	tw.Stop()
	tw.Tick()

	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
}

func TestTypewriterEmptyNotGeneratingStaysIdle(t *testing.T) {
	fired := 0
	tw := NewTypewriter("", false, func() { fired++ })

	if tw.State() != TypewriterIdle {
		t.Fatalf("state = %v, want idle", tw.State())
	}
	if tw.Tick() {
		t.Error("idle machine must not request ticks")
	}
	tw.Stop()
	if fired != 0 {
		t.Errorf("callback fired %d times from idle, want 0", fired)
	}
}

func TestTypewriterMarkupOnlyContentCompletesImmediately(t *testing.T) {
	fired := 0
	tw := NewTypewriter("<br><hr>", false, func() { fired++ })

	if tw.State() != TypewriterComplete {
		t.Fatalf("state = %v, want complete", tw.State())
	}
	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
	if tw.Frame() != "<br><hr>" {
		t.Errorf("frame = %q, want rich content", tw.Frame())
	}
}

func TestTypewriterGeneratingThenSetContent(t *testing.T) {
	tw := NewTypewriter("", true, nil)

	if tw.State() != TypewriterGenerating {
		t.Fatalf("state = %v, want generating", tw.State())
	}
	if tw.Frame() != "" {
		t.Errorf("generating frame = %q, want empty", tw.Frame())
	}

	tw.SetContent("done")
	if tw.State() != TypewriterTyping {
		t.Fatalf("state after content = %v, want typing", tw.State())
	}
	drain(t, tw)
	if tw.Frame() != "done" {
		t.Errorf("final frame = %q", tw.Frame())
	}
}

func TestTypewriterSetContentIgnoredAfterTerminal(t *testing.T) {
	tw := NewTypewriter("first", false, nil)
	drain(t, tw)

	tw.SetContent("second")
	if tw.Frame() != "first" {
		t.Errorf("terminal content overwritten: %q", tw.Frame())
	}
}

func TestRegistryStopAllOnlyInterruptsTyping(t *testing.T) {
	r := NewRegistry()
	doneFired := 0
	typing := NewTypewriter("still going", false, nil)
	done := NewTypewriter("done", false, func() { doneFired++ })
	drain(t, done)

	r.Attach("a", typing)
	r.Attach("b", done)
	typing.Tick()
	r.StopAll()

	if typing.State() != TypewriterStopped {
		t.Errorf("typing handle state = %v, want stopped", typing.State())
	}
	if done.State() != TypewriterComplete {
		t.Errorf("complete handle state = %v, must stay complete", done.State())
	}
	if doneFired != 1 {
		t.Errorf("completed handle callback re-fired: %d", doneFired)
	}
}

func TestRegistryDetachAndReset(t *testing.T) {
	r := NewRegistry()
	r.Attach("a", NewTypewriter("x", false, nil))
	r.Attach("b", NewTypewriter("y", false, nil))

	r.Detach("a")
	if _, ok := r.Get("a"); ok {
		t.Error("detached handle still present")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("len after reset = %d, want 0", r.Len())
	}
}
