// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// the chatbot.
//
// Configuration sources, in order of precedence:
//   - CHATBOT_* environment variables
//   - ~/.chatbot/config.toml
//   - Built-in defaults
//
// The file is plain TOML; secrets never live here, only paths and knobs.
// A Watcher can reload the global config when the file changes on disk.
package config
