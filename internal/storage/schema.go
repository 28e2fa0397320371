// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the database schema version for migrations.
	SchemaVersion = 1
)

// Schema is the SQLite schema. Encrypted columns hold ENC:-prefixed
// ciphertext; the database never stores plaintext message content.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Accounts
CREATE TABLE IF NOT EXISTS users (
    username      TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    totp_secret   TEXT NOT NULL DEFAULT '',  -- encrypted when set
    kdf_salt      BLOB NOT NULL,
    created_at    INTEGER NOT NULL,          -- Unix timestamp
    last_login_at INTEGER
) WITHOUT ROWID;

-- Per-user settings
CREATE TABLE IF NOT EXISTS preferences (
    username     TEXT PRIMARY KEY REFERENCES users(username) ON DELETE CASCADE,
    persona      TEXT NOT NULL,
    color        INTEGER NOT NULL,
    save_history INTEGER NOT NULL
) WITHOUT ROWID;

-- Chat sessions
CREATE TABLE IF NOT EXISTS conversations (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
    title      TEXT NOT NULL,                -- encrypted
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_conversations_username ON conversations(username);
CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);

-- Messages. seq is a per-conversation counter assigned at insert; replay
-- order must not depend on timestamps, which only have second granularity.
CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    seq             INTEGER NOT NULL,
    role            TEXT NOT NULL,
    source          TEXT NOT NULL DEFAULT '',
    content         TEXT NOT NULL,           -- encrypted
    timestamp       INTEGER NOT NULL
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq);
CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
`
