// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with a local
// Ollama server. The bot only needs blocking chat completion and a health
// check; model management is left to the ollama CLI.
package ollama
