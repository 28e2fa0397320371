// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Application loop: banner, authentication menu, main menu.
//
// Menus (matching what users see):
//
//   1. Login          1. Chat
//   2. Register       2. View history
//   3. Exit           3. Preferences
//                     4. Logout
//                     5. Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"

	"github.com/Code4Vision/ChatBot/internal/bot"
	"github.com/Code4Vision/ChatBot/internal/config"
	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/ollama"
	"github.com/Code4Vision/ChatBot/internal/security"
	"github.com/Code4Vision/ChatBot/internal/storage"
)

// errExit signals a clean shutdown request from a menu.
var errExit = errors.New("exit requested")

// App owns the interactive session: configuration, storage, the bot
// engine, and the state of the currently logged-in user.
type App struct {
	store    *storage.Store
	input    *Input
	throttle *security.LoginThrottle

	// mu guards cfg, llm, and engine, which the config watcher swaps
	// from its own goroutine via ApplyConfig.
	mu     sync.RWMutex
	cfg    *config.Config
	llm    *ollama.Client
	engine *bot.Engine

	// Session state, valid between login and logout.
	user    *model.User
	cipher  *security.Cipher
	prefs   *model.Preferences
	loginAt time.Time
}

// NewApp wires an App from its dependencies. llm may be nil when the
// backend is disabled; the engine degrades to keyword replies.
func NewApp(cfg *config.Config, store *storage.Store, llm *ollama.Client) *App {
	var client bot.LLMClient
	if llm != nil {
		client = llm
	}
	return &App{
		cfg:      cfg,
		store:    store,
		llm:      llm,
		engine:   bot.NewEngine(cfg, client),
		input:    NewInput(),
		throttle: security.NewLoginThrottle(cfg.Security.MaxLoginAttempts),
	}
}

// config returns the current configuration. Menus and prompts read it
// per use so a live reload takes effect at the next turn.
func (a *App) config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// bot returns the current response engine.
func (a *App) bot() *bot.Engine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine
}

// ApplyConfig swaps in a reloaded configuration, rebuilding the LLM
// client and response engine so backend settings take effect without a
// restart. Safe to call from the config watcher goroutine.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg = cfg
	a.llm = nil
	var client bot.LLMClient
	if cfg.LLM.Enabled {
		a.llm = ollama.NewClient(&ollama.ClientConfig{
			BaseURL:      cfg.LLM.OllamaURL,
			Timeout:      cfg.LLMTimeout(),
			DefaultModel: cfg.LLM.Model,
		})
		client = a.llm
	}
	a.engine = bot.NewEngine(cfg, client)
}

// Run drives the application until the user exits or input is closed.
func (a *App) Run(ctx context.Context) error {
	defer a.input.Close()
	defer a.logout()

	a.printBanner(ctx)

	for {
		var err error
		if a.user == nil {
			err = a.authMenu()
		} else {
			err = a.mainMenu(ctx)
		}
		switch {
		case errors.Is(err, errExit), errors.Is(err, io.EOF):
			fmt.Println(DimStyle.Render("Goodbye."))
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl+C at a menu backs out rather than quitting.
			continue
		case err != nil:
			return err
		}
	}
}

func (a *App) printBanner(ctx context.Context) {
	cfg := a.config()
	fmt.Println(TitleStyle.Render("=== " + cfg.BotName + " ==="))
	fmt.Println(DimStyle.Render("All messages are encrypted and stored securely."))

	a.mu.RLock()
	llm := a.llm
	a.mu.RUnlock()
	if cfg.LLM.Enabled && llm != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := llm.CheckRunning(checkCtx); err != nil {
			fmt.Println(WarningStyle.Render(
				"Ollama is not reachable; falling back to built-in replies."))
		}
	}
	fmt.Println()
}

// =============================================================================
// AUTH MENU
// =============================================================================

func (a *App) authMenu() error {
	fmt.Println("1. Login")
	fmt.Println("2. Register")
	fmt.Println("3. Exit")

	choice, err := a.input.ReadLine("> ")
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		if err := a.login(); err != nil {
			return err
		}
	case "2":
		if err := a.register(); err != nil {
			return err
		}
	case "3":
		return errExit
	default:
		fmt.Println(WarningStyle.Render("Please choose 1, 2, or 3."))
	}
	return nil
}

// =============================================================================
// MAIN MENU
// =============================================================================

func (a *App) mainMenu(ctx context.Context) error {
	if a.sessionExpired() {
		fmt.Println(WarningStyle.Render("Session expired; please log in again."))
		a.logout()
		return nil
	}

	fmt.Println()
	fmt.Printf("Logged in as %s\n", SuccessStyle.Render(a.user.Username))
	fmt.Println("1. Chat")
	fmt.Println("2. View history")
	fmt.Println("3. Preferences")
	fmt.Println("4. Logout")
	fmt.Println("5. Exit")

	choice, err := a.input.ReadLine("> ")
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		if err := a.chat(ctx); err != nil {
			return err
		}
	case "2":
		if err := a.historyMenu(); err != nil {
			return err
		}
	case "3":
		if err := a.preferencesMenu(); err != nil {
			return err
		}
	case "4":
		a.logout()
		fmt.Println(DimStyle.Render("Logged out."))
	case "5":
		return errExit
	default:
		fmt.Println(WarningStyle.Render("Please choose 1-5."))
	}
	return nil
}

// sessionExpired reports whether the configured idle timeout has passed
// since login. A zero timeout disables expiry.
func (a *App) sessionExpired() bool {
	timeout := a.config().SessionTimeout()
	if timeout <= 0 {
		return false
	}
	return time.Since(a.loginAt) > timeout
}

// touchSession resets the idle clock after user activity.
func (a *App) touchSession() {
	a.loginAt = time.Now()
}

// logout clears session state, wipes key material, and restores the
// terminal-detected color profile.
func (a *App) logout() {
	a.user = nil
	a.cipher = nil
	a.prefs = nil
	a.loginAt = time.Time{}
	ApplyColorPreference(true)
}
