// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security provides encryption at rest and account authentication.
//
// Chat history is protected with AES-256-GCM; the key is derived per user
// from their password with PBKDF2-SHA-256 and never touches disk. Passwords
// are stored as bcrypt hashes. Optional two-factor auth uses TOTP. Login
// attempts are throttled per username to slow down online guessing.
package security
