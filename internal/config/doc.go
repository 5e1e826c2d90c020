// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates, and watches the docuchat TOML
// configuration.
package config
