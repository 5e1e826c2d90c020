// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// COLOR PALETTE
// =============================================================================

// Core accent colors. AdaptiveColor keeps the palette readable on both
// light and dark terminal backgrounds.
var (
	Teal   = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	Indigo = lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#818CF8"}
	Green  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	Amber  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Rose   = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}
)

// Text hierarchy.
var (
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#F9FAFB", Dark: "#111827"}
)

// Surfaces and chrome.
var (
	Surface    = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#111827"}
	Border     = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)
