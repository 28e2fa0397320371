// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "bob_42", "A-B-C", "abc"}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}

	invalid := []string{"", "ab", "has space", "semi;colon", strings.Repeat("x", 33), "uni¢ode"}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), name)
	}
}

func TestConversationAddMessage(t *testing.T) {
	conv := NewConversation("alice")
	require.NotEmpty(t, conv.ID)
	assert.Nil(t, conv.LastMessage())

	conv.AddMessage(NewUserMessage("what is 2 + 2"))
	conv.AddMessage(NewBotMessage("the answer is: **4**", SourceMath))

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "what is 2 + 2", conv.Title)
	assert.Equal(t, RoleAssistant, conv.LastMessage().Role)
	assert.Equal(t, SourceMath, conv.LastMessage().Source)
}

func TestConversationTitleTruncation(t *testing.T) {
	conv := NewConversation("alice")
	conv.AddMessage(NewUserMessage(strings.Repeat("a", 80)))
	assert.Len(t, []rune(conv.Title), 50)
	assert.True(t, strings.HasSuffix(conv.Title, "..."))

	multiline := NewConversation("alice")
	multiline.AddMessage(NewUserMessage("first line\nsecond line"))
	assert.Equal(t, "first line", multiline.Title)
}

func TestConversationPruning(t *testing.T) {
	conv := NewConversation("alice")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddMessage(NewUserMessage("msg"))
	}
	assert.Len(t, conv.Messages, MaxMessages)
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences("alice")
	assert.Equal(t, "alice", prefs.Username)
	assert.Equal(t, "friendly", prefs.Persona)
	assert.True(t, prefs.Color)
	assert.True(t, prefs.SaveHistory)
}

func TestTOTPEnabled(t *testing.T) {
	u := &User{Username: "alice"}
	assert.False(t, u.TOTPEnabled())
	u.TOTPSecret = "JBSWY3DPEHPK3PXP"
	assert.True(t, u.TOTPEnabled())
}
