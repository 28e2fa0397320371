// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL.
//
// Commands available during chat:
//   /help            Show available commands
//   /math            Show supported math expressions
//   /history         Show this conversation so far
//   /clear           Start a fresh conversation
//   /quit, quit, q   Return to the main menu
//   Ctrl+C           Cancel current input
//   Ctrl+D           Return to the main menu

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/Code4Vision/ChatBot/internal/mathexpr"
	"github.com/Code4Vision/ChatBot/internal/model"
)

const chatHelp = `Available commands:
  /help      Show this help
  /math      Show supported math expressions
  /history   Show this conversation so far
  /clear     Start a fresh conversation
  /quit      Return to the main menu`

// chat runs the conversation REPL until the user quits.
func (a *App) chat(ctx context.Context) error {
	cfg := a.config()
	fmt.Println()
	fmt.Println(TitleStyle.Render("Chat with " + cfg.BotName))
	fmt.Println(DimStyle.Render("Type /help for commands, /quit to leave."))
	fmt.Println(Separator())

	renderer := NewRenderer(cfg.UI.Markdown && a.prefs.Color)
	conv := model.NewConversation(a.user.Username)
	persisted := false
	titleSaved := false

	for {
		if a.sessionExpired() {
			fmt.Println(WarningStyle.Render("Session expired; please log in again."))
			a.logout()
			return nil
		}

		input, err := a.input.ReadLine(PromptStyle.Render("You> "))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		a.touchSession()

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "/quit", "/q", "quit", "exit", "q":
			return nil
		case "/help", "/h":
			fmt.Println(chatHelp)
			continue
		case "/math":
			fmt.Println(mathexpr.Help())
			continue
		case "/history":
			a.printConversation(conv)
			continue
		case "/clear":
			conv = model.NewConversation(a.user.Username)
			persisted = false
			titleSaved = false
			fmt.Println(DimStyle.Render("Conversation cleared."))
			continue
		}

		userMsg := model.NewUserMessage(input)
		conv.AddMessage(userMsg)

		reply := a.bot().Respond(ctx, conv, a.prefs, input)
		conv.AddMessage(reply)

		fmt.Print(BotStyle.Render(a.config().BotName + "> "))
		fmt.Println(strings.TrimRight(renderer.Render(reply.Content), "\n"))

		if a.prefs.SaveHistory {
			var err error
			persisted, titleSaved, err = a.persistExchange(conv, userMsg, reply, persisted, titleSaved)
			if err != nil {
				fmt.Println(WarningStyle.Render("Could not save message: " + err.Error()))
			}
		}
	}
}

// persistExchange writes the latest user/bot message pair, creating the
// conversation row on first use and saving the derived title once.
func (a *App) persistExchange(conv *model.Conversation, userMsg, reply *model.Message, persisted, titleSaved bool) (bool, bool, error) {
	if !persisted {
		if err := a.store.CreateConversation(conv, a.cipher); err != nil {
			return persisted, titleSaved, err
		}
		persisted = true
	}
	if err := a.store.AppendMessage(conv.ID, userMsg, a.cipher); err != nil {
		return persisted, titleSaved, err
	}
	if err := a.store.AppendMessage(conv.ID, reply, a.cipher); err != nil {
		return persisted, titleSaved, err
	}
	if !titleSaved && conv.Title != "" {
		if err := a.store.SetConversationTitle(conv.ID, conv.Title, a.cipher); err != nil {
			return persisted, titleSaved, err
		}
		titleSaved = true
	}
	return persisted, titleSaved, nil
}

// printConversation dumps a conversation to the terminal.
func (a *App) printConversation(conv *model.Conversation) {
	if len(conv.Messages) == 0 {
		fmt.Println(DimStyle.Render("No messages yet."))
		return
	}
	for _, m := range conv.Messages {
		prefix := m.Role.DisplayName() + "> "
		if m.Role == model.RoleUser {
			fmt.Print(PromptStyle.Render(prefix))
		} else {
			fmt.Print(BotStyle.Render(prefix))
		}
		fmt.Println(WrapText(m.Content, 0))
	}
}
