// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: timestamp formatting,
// file-size humanization, rune-safe truncation, and atomic file writes.
package util
