// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the docuchat TUI.
package components
