// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width-aware truncation with ellipsis
//   - TruncateRunes: UTF-8 safe truncation by character count
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
