// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/security"
)

// =============================================================================
// CONVERSATIONS
// =============================================================================

// CreateConversation inserts a new conversation shell. The title is
// encrypted; pass the empty string for untitled sessions.
func (s *Store) CreateConversation(conv *model.Conversation, cipher *security.Cipher) error {
	title, err := cipher.EncryptString(conv.Title)
	if err != nil {
		return fmt.Errorf("failed to encrypt title: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO conversations(id, username, title, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?)`,
		conv.ID, conv.Username, title, conv.CreatedAt.Unix(), conv.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// SetConversationTitle re-encrypts and updates the title.
func (s *Store) SetConversationTitle(id, title string, cipher *security.Cipher) error {
	enc, err := cipher.EncryptString(title)
	if err != nil {
		return fmt.Errorf("failed to encrypt title: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`,
		enc, time.Now().UTC().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	return oneRowAffected(res, ErrConversationNotFound)
}

// ListConversations returns a user's conversations newest-first, without
// messages. Titles are decrypted with the caller's cipher.
func (s *Store) ListConversations(username string, cipher *security.Cipher) ([]*model.Conversation, error) {
	rows, err := s.db.Query(
		`SELECT id, title, created_at, updated_at
		 FROM conversations WHERE username = ? ORDER BY updated_at DESC`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []*model.Conversation
	for rows.Next() {
		var conv model.Conversation
		var title string
		var createdAt, updatedAt int64
		if err := rows.Scan(&conv.ID, &title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conv.Username = username
		conv.CreatedAt = time.Unix(createdAt, 0).UTC()
		conv.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		if conv.Title, err = cipher.DecryptString(title); err != nil {
			return nil, fmt.Errorf("failed to decrypt title: %w", err)
		}
		convs = append(convs, &conv)
	}
	return convs, rows.Err()
}

// LoadConversation returns one conversation with its full decrypted message
// history in chronological order.
func (s *Store) LoadConversation(id string, cipher *security.Cipher) (*model.Conversation, error) {
	row := s.db.QueryRow(
		`SELECT id, username, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	)

	var conv model.Conversation
	var title string
	var createdAt, updatedAt int64
	err := row.Scan(&conv.ID, &conv.Username, &title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	conv.CreatedAt = time.Unix(createdAt, 0).UTC()
	conv.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	if conv.Title, err = cipher.DecryptString(title); err != nil {
		return nil, fmt.Errorf("failed to decrypt title: %w", err)
	}

	conv.Messages, err = s.loadMessages(id, cipher)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// DeleteConversation removes one conversation and its messages.
func (s *Store) DeleteConversation(id string) error {
	res, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return oneRowAffected(res, ErrConversationNotFound)
}

// ClearHistory removes all of a user's conversations.
func (s *Store) ClearHistory(username string) error {
	_, err := s.db.Exec(`DELETE FROM conversations WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// AppendMessage encrypts and stores one message and bumps the conversation's
// updated_at. Each message gets the next per-conversation sequence number
// inside the same transaction, so replay order matches insertion order.
func (s *Store) AppendMessage(conversationID string, m *model.Message, cipher *security.Cipher) error {
	content, err := cipher.EncryptString(m.Content)
	if err != nil {
		return fmt.Errorf("failed to encrypt message: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO messages(id, conversation_id, seq, role, source, content, timestamp)
		 VALUES(?, ?,
		        (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = ?),
		        ?, ?, ?, ?)`,
		m.ID, conversationID, conversationID,
		string(m.Role), string(m.Source), content, m.Timestamp.Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		m.Timestamp.Unix(), conversationID,
	); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return tx.Commit()
}

// loadMessages returns a conversation's messages oldest-first, decrypted.
func (s *Store) loadMessages(conversationID string, cipher *security.Cipher) ([]*model.Message, error) {
	rows, err := s.db.Query(
		`SELECT id, role, source, content, timestamp
		 FROM messages WHERE conversation_id = ? ORDER BY seq`, conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var msgs []*model.Message
	for rows.Next() {
		var m model.Message
		var role, source, content string
		var ts int64
		if err := rows.Scan(&m.ID, &role, &source, &content, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = model.Role(role)
		m.Source = model.Source(source)
		m.Timestamp = time.Unix(ts, 0).UTC()
		if m.Content, err = cipher.DecryptString(content); err != nil {
			return nil, fmt.Errorf("failed to decrypt message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
