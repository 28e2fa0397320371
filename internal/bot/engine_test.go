// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code4Vision/ChatBot/internal/config"
	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/ollama"
)

// stubLLM returns a canned reply or error and records the request.
type stubLLM struct {
	reply    string
	err      error
	messages []ollama.Message
}

func (s *stubLLM) Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error) {
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	return &ollama.ChatResponse{Message: ollama.NewAssistantMessage(s.reply), Done: true}, nil
}

func newTestEngine(llm LLMClient) *Engine {
	cfg := config.Default()
	return NewEngine(cfg, llm)
}

func TestRespondRoutesMathToEvaluator(t *testing.T) {
	llm := &stubLLM{reply: "should not be called"}
	engine := newTestEngine(llm)
	conv := model.NewConversation("alice")

	reply := engine.Respond(context.Background(), conv, nil, "2 + 2")
	assert.Equal(t, "the answer is: **4**", reply.Content)
	assert.Equal(t, model.SourceMath, reply.Source)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Nil(t, llm.messages, "LLM must not be consulted for math")
}

func TestRespondMathFailureReadsAsCouldNotCompute(t *testing.T) {
	engine := newTestEngine(&stubLLM{})
	conv := model.NewConversation("alice")

	reply := engine.Respond(context.Background(), conv, nil, "1/0")
	assert.Equal(t, model.SourceMath, reply.Source)
	assert.Contains(t, reply.Content, "could not compute")
	assert.Contains(t, reply.Content, "division by zero")
}

func TestRespondUsesLLMForProse(t *testing.T) {
	llm := &stubLLM{reply: "The capital of France is Paris."}
	engine := newTestEngine(llm)
	conv := model.NewConversation("alice")
	conv.AddMessage(model.NewUserMessage("earlier question"))
	conv.AddMessage(model.NewBotMessage("earlier answer", model.SourceLLM))

	prefs := model.DefaultPreferences("alice")
	reply := engine.Respond(context.Background(), conv, prefs, "what is the capital of France?")

	assert.Equal(t, model.SourceLLM, reply.Source)
	assert.Equal(t, "The capital of France is Paris.", reply.Content)

	// System prompt first, then history, then the new message.
	require.NotEmpty(t, llm.messages)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Contains(t, llm.messages[0].Content, "ChatBot")
	last := llm.messages[len(llm.messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "what is the capital of France?", last.Content)
	assert.Equal(t, "earlier question", llm.messages[1].Content)
}

func TestRespondFallsBackWhenLLMFails(t *testing.T) {
	llm := &stubLLM{err: errors.New("connection refused")}
	engine := newTestEngine(llm)
	conv := model.NewConversation("alice")

	reply := engine.Respond(context.Background(), conv, model.DefaultPreferences("alice"), "tell me something")
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.NotEmpty(t, reply.Content)
}

func TestRespondFallbackWhenLLMDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Enabled = false
	engine := NewEngine(cfg, &stubLLM{reply: "nope"})
	conv := model.NewConversation("alice")

	reply := engine.Respond(context.Background(), conv, model.DefaultPreferences("alice"), "hello")
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.Contains(t, reply.Content, "Hello alice")
}

func TestFallbackKeywords(t *testing.T) {
	prefs := model.DefaultPreferences("alice")

	assert.Contains(t, fallbackResponse("hey you", prefs), "Hello alice")
	assert.Contains(t, fallbackResponse("ok bye now", prefs), "Goodbye alice")
	assert.Contains(t, fallbackResponse("i need help please", prefs), "help")
	assert.Contains(t, fallbackResponse("thanks a lot", prefs), "welcome")

	// Deterministic generic reply.
	a := fallbackResponse("random prose offline", prefs)
	b := fallbackResponse("random prose offline", prefs)
	assert.Equal(t, a, b)

	// "highway" must not trigger the "hi" greeting.
	assert.False(t, strings.HasPrefix(fallbackResponse("highway repairs", prefs), "Hello"))
}

func TestPersonaPrompt(t *testing.T) {
	formal := model.DefaultPreferences("alice")
	formal.Persona = "formal"
	assert.Contains(t, personaPrompt("ChatBot", formal), "professional")

	concise := model.DefaultPreferences("alice")
	concise.Persona = "concise"
	assert.Contains(t, personaPrompt("ChatBot", concise), "two short sentences")

	assert.Contains(t, personaPrompt("ChatBot", nil), "friendly")
}
