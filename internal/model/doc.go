// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation turns,
// upload sessions, and image-analysis drafts.
package model
