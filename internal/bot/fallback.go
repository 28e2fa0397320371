// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package bot

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/Code4Vision/ChatBot/internal/model"
)

// =============================================================================
// KEYWORD RESPONDER
// =============================================================================

// fallbackResponse answers without a language model: a few keyword rules,
// then a generic reply picked deterministically from the message so the same
// input always gets the same answer.
func fallbackResponse(input string, prefs *model.Preferences) string {
	name := "there"
	if prefs != nil && prefs.Username != "" {
		name = prefs.Username
	}

	lower := strings.ToLower(input)
	switch {
	case containsAnyWord(lower, "hello", "hi", "hey"):
		return fmt.Sprintf("Hello %s! How can I help you today?", name)
	case containsAnyWord(lower, "bye", "goodbye"):
		return fmt.Sprintf("Goodbye %s! Your conversation is stored encrypted.", name)
	case strings.Contains(lower, "help"):
		return fmt.Sprintf("I'm here to help, %s! Ask me a question or give me a math expression like 2+2. Type /help for commands.", name)
	case strings.Contains(lower, "thank"):
		return fmt.Sprintf("You're welcome, %s!", name)
	}

	generic := []string{
		fmt.Sprintf("I heard you, %s. The language model is offline right now, but I can still do math: try sqrt(144) or 2^10.", name),
		fmt.Sprintf("Thanks for your message, %s! Without the language model I can only chat simply, but arithmetic always works.", name),
		fmt.Sprintf("Noted, %s. Ask me a calculation while the language model is unavailable.", name),
	}
	h := fnv.New32a()
	h.Write([]byte(input))
	return generic[h.Sum32()%uint32(len(generic))]
}

// containsAnyWord reports whether any of the words appears as a whole word.
func containsAnyWord(s string, words ...string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
