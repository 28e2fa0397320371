// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/security"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chatbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestCipher(t *testing.T) *security.Cipher {
	t.Helper()
	salt, err := security.GenerateSalt()
	require.NoError(t, err)
	c, err := security.NewCipher("test password 1", salt, 1000)
	require.NoError(t, err)
	return c
}

func newTestUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	salt, err := security.GenerateSalt()
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		PasswordHash: "$2a$10$fake.hash.for.storage.tests",
		Salt:         salt,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateUser(u))
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	created := newTestUser(t, s, "alice")

	got, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, created.Username, got.Username)
	assert.Equal(t, created.PasswordHash, got.PasswordHash)
	assert.Equal(t, created.Salt, got.Salt)
	assert.True(t, got.LastLoginAt.IsZero())

	// Duplicate usernames are rejected.
	assert.ErrorIs(t, s.CreateUser(created), ErrUserExists)

	_, err = s.GetUser("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "alice")

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.TouchLastLogin("alice", at))

	got, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, at, got.LastLoginAt)

	assert.ErrorIs(t, s.TouchLastLogin("nobody", at), ErrUserNotFound)
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	newTestUser(t, s, "alice")

	// Unsaved preferences come back as defaults.
	prefs, err := s.GetPreferences("alice")
	require.NoError(t, err)
	assert.Equal(t, "friendly", prefs.Persona)

	prefs.Persona = "formal"
	prefs.Color = false
	require.NoError(t, s.SavePreferences(prefs))

	// Upsert: saving again overwrites.
	prefs.SaveHistory = false
	require.NoError(t, s.SavePreferences(prefs))

	got, err := s.GetPreferences("alice")
	require.NoError(t, err)
	assert.Equal(t, "formal", got.Persona)
	assert.False(t, got.Color)
	assert.False(t, got.SaveHistory)
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	conv := model.NewConversation("alice")
	conv.Title = "math homework"
	require.NoError(t, s.CreateConversation(conv, cipher))

	require.NoError(t, s.AppendMessage(conv.ID, model.NewUserMessage("what is 2 + 2"), cipher))
	require.NoError(t, s.AppendMessage(conv.ID, model.NewBotMessage("the answer is: **4**", model.SourceMath), cipher))

	loaded, err := s.LoadConversation(conv.ID, cipher)
	require.NoError(t, err)
	assert.Equal(t, "math homework", loaded.Title)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "what is 2 + 2", loaded.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, model.SourceMath, loaded.Messages[1].Source)

	list, err := s.ListConversations("alice", cipher)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "math homework", list[0].Title)
	assert.Empty(t, list[0].Messages)

	require.NoError(t, s.DeleteConversation(conv.ID))
	_, err = s.LoadConversation(conv.ID, cipher)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestMessagesReplayInInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	conv := model.NewConversation("alice")
	require.NoError(t, s.CreateConversation(conv, cipher))

	// All messages share one timestamp; only insertion order can sort them.
	at := time.Now().UTC().Truncate(time.Second)
	want := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		m := model.NewUserMessage(string(rune('a' + i)))
		if i%2 == 1 {
			m = model.NewBotMessage(string(rune('a'+i)), model.SourceFallback)
		}
		m.Timestamp = at
		want = append(want, m.Content)
		require.NoError(t, s.AppendMessage(conv.ID, m, cipher))
	}

	loaded, err := s.LoadConversation(conv.ID, cipher)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 10)
	for i, m := range loaded.Messages {
		assert.Equal(t, want[i], m.Content)
	}
	assert.Equal(t, model.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, loaded.Messages[1].Role)
}

func TestContentIsEncryptedAtRest(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	conv := model.NewConversation("alice")
	conv.Title = "private thoughts"
	require.NoError(t, s.CreateConversation(conv, cipher))
	require.NoError(t, s.AppendMessage(conv.ID, model.NewUserMessage("my secret message"), cipher))

	var content, title string
	require.NoError(t, s.db.QueryRow(`SELECT content FROM messages LIMIT 1`).Scan(&content))
	require.NoError(t, s.db.QueryRow(`SELECT title FROM conversations LIMIT 1`).Scan(&title))
	assert.True(t, security.IsEncrypted(content))
	assert.True(t, security.IsEncrypted(title))
	assert.NotContains(t, content, "secret")
	assert.NotContains(t, title, "private")
}

func TestClearHistoryAndCascade(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	for i := 0; i < 3; i++ {
		conv := model.NewConversation("alice")
		require.NoError(t, s.CreateConversation(conv, cipher))
		require.NoError(t, s.AppendMessage(conv.ID, model.NewUserMessage("hi"), cipher))
	}

	require.NoError(t, s.ClearHistory("alice"))
	list, err := s.ListConversations("alice", cipher)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Messages cascade with their conversations.
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count))
	assert.Zero(t, count)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	conv := model.NewConversation("alice")
	require.NoError(t, s.CreateConversation(conv, cipher))
	require.NoError(t, s.SavePreferences(model.DefaultPreferences("alice")))

	require.NoError(t, s.DeleteUser("alice"))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM preferences`).Scan(&count))
	assert.Zero(t, count)
}

func TestExportHistory(t *testing.T) {
	s := newTestStore(t)
	cipher := newTestCipher(t)
	newTestUser(t, s, "alice")

	conv := model.NewConversation("alice")
	conv.Title = "exported"
	require.NoError(t, s.CreateConversation(conv, cipher))
	require.NoError(t, s.AppendMessage(conv.ID, model.NewUserMessage("2+2"), cipher))

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, s.ExportHistory("alice", cipher, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "alice", export.Username)
	require.Len(t, export.Conversations, 1)
	assert.Equal(t, "exported", export.Conversations[0].Title)
	require.Len(t, export.Conversations[0].Messages, 1)
	assert.Equal(t, "2+2", export.Conversations[0].Messages[0].Content)
}
