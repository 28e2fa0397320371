// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Code4Vision/ChatBot/internal/config"
	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/util"
)

// =============================================================================
// HISTORY VIEWER
// =============================================================================

// historyMenu lists saved conversations and opens, exports, or clears them.
func (a *App) historyMenu() error {
	convs, err := a.store.ListConversations(a.user.Username, a.cipher)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if len(convs) == 0 {
		fmt.Println(DimStyle.Render("No saved conversations."))
		return nil
	}

	limit := a.config().UI.HistoryLimit
	if limit > 0 && len(convs) > limit {
		convs = convs[:limit]
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Chat history"))
	for i, c := range convs {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%3d. %s  %s\n",
			i+1,
			util.TruncateWidth(title, 50),
			DimStyle.Render(c.UpdatedAt.Format("2006-01-02 15:04")))
	}
	fmt.Println(DimStyle.Render("Enter a number to view, 'e' to export all, 'd N' to delete, blank to go back."))

	choice, err := a.input.ReadLine("> ")
	if err != nil {
		return err
	}
	choice = strings.TrimSpace(choice)

	switch {
	case choice == "":
		return nil
	case choice == "e":
		return a.exportHistory()
	case strings.HasPrefix(choice, "d "):
		return a.deleteConversation(convs, strings.TrimSpace(choice[2:]))
	default:
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(convs) {
			fmt.Println(WarningStyle.Render("No such conversation."))
			return nil
		}
		return a.showConversation(convs[n-1].ID)
	}
}

// showConversation loads a conversation with its messages and prints it.
func (a *App) showConversation(id string) error {
	conv, err := a.store.LoadConversation(id, a.cipher)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}

	fmt.Println()
	fmt.Println(LabelStyle.Render("Title:") + conv.Title)
	fmt.Println(LabelStyle.Render("Started:") + conv.CreatedAt.Format(time.RFC1123))
	fmt.Println(Separator())
	a.printConversation(conv)
	fmt.Println(Separator())
	return nil
}

// deleteConversation removes one conversation chosen by its list index.
func (a *App) deleteConversation(convs []*model.Conversation, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(convs) {
		fmt.Println(WarningStyle.Render("No such conversation."))
		return nil
	}
	if err := a.store.DeleteConversation(convs[n-1].ID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Conversation deleted."))
	return nil
}

// exportHistory writes the user's decrypted history as JSON into the
// configured export directory.
func (a *App) exportHistory() error {
	dir, err := config.ResolvePath(a.config().Storage.ExportDir)
	if err != nil {
		return fmt.Errorf("resolve export dir: %w", err)
	}
	name := fmt.Sprintf("history-%s-%s.json", a.user.Username, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	if err := a.store.ExportHistory(a.user.Username, a.cipher, path); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	fmt.Println(SuccessStyle.Render("History exported to " + path))
	return nil
}
