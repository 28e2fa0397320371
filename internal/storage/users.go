// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Code4Vision/ChatBot/internal/model"
)

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts a new account. Usernames are unique; a duplicate
// returns ErrUserExists.
func (s *Store) CreateUser(u *model.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users(username, password_hash, totp_secret, kdf_salt, created_at)
		 VALUES(?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.TOTPSecret, u.Salt, u.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser loads an account by username.
func (s *Store) GetUser(username string) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT username, password_hash, totp_secret, kdf_salt, created_at, last_login_at
		 FROM users WHERE username = ?`, username,
	)

	var u model.User
	var createdAt int64
	var lastLogin sql.NullInt64
	err := row.Scan(&u.Username, &u.PasswordHash, &u.TOTPSecret, &u.Salt, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	if lastLogin.Valid {
		u.LastLoginAt = time.Unix(lastLogin.Int64, 0).UTC()
	}
	return &u, nil
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(username string, at time.Time) error {
	res, err := s.db.Exec(`UPDATE users SET last_login_at = ? WHERE username = ?`, at.Unix(), username)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return oneRowAffected(res, ErrUserNotFound)
}

// SetTOTPSecret stores (or clears) the encrypted TOTP secret for an account.
func (s *Store) SetTOTPSecret(username, encryptedSecret string) error {
	res, err := s.db.Exec(`UPDATE users SET totp_secret = ? WHERE username = ?`, encryptedSecret, username)
	if err != nil {
		return fmt.Errorf("failed to update TOTP secret: %w", err)
	}
	return oneRowAffected(res, ErrUserNotFound)
}

// DeleteUser removes an account; preferences and history cascade.
func (s *Store) DeleteUser(username string) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return oneRowAffected(res, ErrUserNotFound)
}

// =============================================================================
// PREFERENCES
// =============================================================================

// SavePreferences upserts a user's settings.
func (s *Store) SavePreferences(p *model.Preferences) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences(username, persona, color, save_history)
		 VALUES(?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   persona = excluded.persona,
		   color = excluded.color,
		   save_history = excluded.save_history`,
		p.Username, p.Persona, boolToInt(p.Color), boolToInt(p.SaveHistory),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// GetPreferences loads a user's settings, falling back to defaults when the
// user has never saved any.
func (s *Store) GetPreferences(username string) (*model.Preferences, error) {
	row := s.db.QueryRow(
		`SELECT persona, color, save_history FROM preferences WHERE username = ?`, username,
	)

	p := model.Preferences{Username: username}
	var color, saveHistory int
	err := row.Scan(&p.Persona, &color, &saveHistory)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(username), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	p.Color = color != 0
	p.SaveHistory = saveHistory != 0
	return &p, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func oneRowAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
