// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// TIMESTAMP FORMATTER TESTS
// =============================================================================

func TestTimestampFormatterRecent(t *testing.T) {
	f := NewTimestampFormatter("mn")
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	got := f.Format(now.Add(-2 * time.Hour))
	if got != "12:30" {
		t.Errorf("Expected 24-hour clock '12:30', got %q", got)
	}
}

func TestTimestampFormatterRecentTwelveHour(t *testing.T) {
	f := NewTimestampFormatter("en-US")
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	got := f.Format(now.Add(-2 * time.Hour))
	if got != "12:30 PM" {
		t.Errorf("Expected 12-hour clock '12:30 PM', got %q", got)
	}
}

func TestTimestampFormatterOld(t *testing.T) {
	f := NewTimestampFormatter("en")
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	got := f.Format(time.Date(2025, 5, 20, 9, 15, 0, 0, time.UTC))
	if got != "2025-05-20" {
		t.Errorf("Expected date '2025-05-20', got %q", got)
	}
}

func TestTimestampFormatterBoundary(t *testing.T) {
	f := NewTimestampFormatter("")
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	// Exactly 24 hours old is no longer "recent".
	got := f.Format(now.Add(-24 * time.Hour))
	if got != "2025-06-01" {
		t.Errorf("Expected date at the 24h boundary, got %q", got)
	}
}

// =============================================================================
// STRING HELPER TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hi", 2, "hi"},
		{"hello", 2, "he"},
		{"сайн байна уу", 7, "сайн..."},
		{"", 5, ""},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "session")

	if err := AtomicWriteFile(path, []byte("token-value"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "token-value" {
		t.Errorf("Expected 'token-value', got %q", data)
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("new"), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("Expected 'new' after overwrite, got %q", data)
	}
}
