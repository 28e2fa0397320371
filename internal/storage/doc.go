// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists users, preferences and chat history in SQLite.
//
// Message content and conversation titles are encrypted before they reach
// the database; the storage layer itself never sees plaintext keys, only a
// security.Cipher handed in by the caller. Everything else (usernames,
// timestamps, ids) is stored in the clear so listing and pruning work
// without a logged-in cipher.
package storage
