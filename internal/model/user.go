// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"regexp"
	"time"
)

// =============================================================================
// USER TYPE
// =============================================================================

// usernamePattern restricts usernames to a shape that is safe to show in the
// terminal and to use as a map/database key.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// ValidateUsername reports whether a username has an acceptable shape.
func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("username must be 3-32 characters of letters, digits, '-' or '_'")
	}
	return nil
}

// User is an account record. PasswordHash is a bcrypt hash; TOTPSecret is
// stored encrypted and is empty when two-factor auth is disabled.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	TOTPSecret   string    `json:"-"`
	// Salt feeds the per-user history encryption key derivation.
	Salt        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}

// TOTPEnabled reports whether the account requires a second factor.
func (u *User) TOTPEnabled() bool {
	return u.TOTPSecret != ""
}

// =============================================================================
// PREFERENCES TYPE
// =============================================================================

// Preferences holds per-user settings persisted across sessions.
type Preferences struct {
	Username string `json:"username"`
	// Persona selects the system prompt flavor for LLM replies.
	Persona string `json:"persona"`
	// Color toggles ANSI styling and styled markdown rendering.
	Color bool `json:"color"`
	// SaveHistory controls whether chat messages are persisted.
	SaveHistory bool `json:"save_history"`
}

// DefaultPreferences returns the settings applied to a fresh account.
func DefaultPreferences(username string) *Preferences {
	return &Preferences{
		Username:    username,
		Persona:     "friendly",
		Color:       true,
		SaveHistory: true,
	}
}
