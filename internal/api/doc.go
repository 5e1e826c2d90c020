// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the docuchat backend:
// asking questions, uploading attachments, polling processing progress,
// fetching history, saving image-analysis metadata, and authenticating.
package api
