// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Code4Vision/ChatBot/internal/config"
	"github.com/Code4Vision/ChatBot/internal/mathexpr"
	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/ollama"
)

// =============================================================================
// ENGINE
// =============================================================================

// LLMClient is the slice of the Ollama client the engine needs. Tests
// substitute a stub.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error)
}

// Engine produces bot replies. It is stateless between calls; conversation
// context travels in as the conversation's recent messages.
type Engine struct {
	cfg *config.Config
	llm LLMClient
}

// NewEngine creates an engine backed by the given LLM client. The client may
// be nil when the LLM backend is disabled.
func NewEngine(cfg *config.Config, llm LLMClient) *Engine {
	return &Engine{cfg: cfg, llm: llm}
}

// historyContext is how many recent exchanges accompany an LLM request.
const historyContext = 6

// Respond produces the reply to one user message. It never returns an error:
// every failure mode degrades to a readable reply, because a chat session
// must keep going.
func (e *Engine) Respond(ctx context.Context, conv *model.Conversation, prefs *model.Preferences, input string) *model.Message {
	if mathexpr.LooksLikeMath(input) {
		return e.respondMath(input)
	}

	if e.cfg.LLM.Enabled && e.llm != nil {
		if reply, err := e.respondLLM(ctx, conv, prefs, input); err == nil {
			return reply
		}
		// LLM unreachable or failed; drop to the keyword responder.
	}

	return model.NewBotMessage(fallbackResponse(input, prefs), model.SourceFallback)
}

// respondMath evaluates an arithmetic expression. Evaluation failures all
// read as "could not compute"; the error kinds matter for tests and logs,
// not for the user.
func (e *Engine) respondMath(input string) *model.Message {
	result, err := mathexpr.Evaluate(input)
	if err != nil {
		return model.NewBotMessage(
			fmt.Sprintf("I could not compute that (%s). Type /math for what I support.", err),
			model.SourceMath,
		)
	}
	return model.NewBotMessage(
		fmt.Sprintf("the answer is: **%s**", result),
		model.SourceMath,
	)
}

// respondLLM asks the language model, with the persona system prompt and
// recent history as context.
func (e *Engine) respondLLM(ctx context.Context, conv *model.Conversation, prefs *model.Preferences, input string) (*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.LLMTimeout())
	defer cancel()

	messages := []ollama.Message{ollama.NewSystemMessage(personaPrompt(e.cfg.BotName, prefs))}
	for _, m := range recentMessages(conv, historyContext) {
		switch m.Role {
		case model.RoleUser:
			messages = append(messages, ollama.NewUserMessage(m.Content))
		case model.RoleAssistant:
			messages = append(messages, ollama.NewAssistantMessage(m.Content))
		}
	}
	messages = append(messages, ollama.NewUserMessage(input))

	resp, err := e.llm.Chat(ctx, e.cfg.LLM.Model, messages)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(resp.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("empty completion")
	}
	return model.NewBotMessage(content, model.SourceLLM), nil
}

// recentMessages returns up to n of the newest messages in order.
func recentMessages(conv *model.Conversation, n int) []*model.Message {
	if conv == nil || len(conv.Messages) == 0 {
		return nil
	}
	msgs := conv.Messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs
}

// personaPrompt builds the system prompt for the user's persona preference.
func personaPrompt(botName string, prefs *model.Preferences) string {
	persona := "friendly"
	if prefs != nil && prefs.Persona != "" {
		persona = prefs.Persona
	}

	var style string
	switch persona {
	case "formal":
		style = "Be precise and professional. Avoid slang and exclamation marks."
	case "concise":
		style = "Answer in at most two short sentences."
	default:
		style = "Be friendly and direct."
	}
	return fmt.Sprintf("You are %s, a helpful assistant. %s", botName, style)
}
