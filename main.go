// ChatBot - A secure terminal chatbot with encrypted chat history.
//
// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Code4Vision/ChatBot/internal/cli"
	"github.com/Code4Vision/ChatBot/internal/config"
	"github.com/Code4Vision/ChatBot/internal/ollama"
	"github.com/Code4Vision/ChatBot/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("chatbot %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Global()

	dbPath, err := config.ResolvePath(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	var llm *ollama.Client
	if cfg.LLM.Enabled {
		llm = ollama.NewClient(&ollama.ClientConfig{
			BaseURL:      cfg.LLM.OllamaURL,
			Timeout:      cfg.LLMTimeout(),
			DefaultModel: cfg.LLM.Model,
		})
	}

	app := cli.NewApp(cfg, store, llm)

	// Pick up config edits made while the app is running; the app swaps
	// its config and rebuilds the engine on every successful reload.
	watcher, err := config.NewWatcher(500*time.Millisecond, app.ApplyConfig)
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	// SIGTERM cancels in-flight LLM requests; Ctrl+C is handled by the
	// line editor so prompts can be aborted without quitting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

func printUsage() {
	fmt.Println(`chatbot - secure terminal chatbot with encrypted history

Usage:
  chatbot            Start the interactive session
  chatbot version    Print version information
  chatbot help       Show this help

Environment:
  CHATBOT_OLLAMA_URL        Override the Ollama server URL
  CHATBOT_MODEL             Override the LLM model
  CHATBOT_LLM               Enable/disable the LLM backend (true/false)
  CHATBOT_DB                Override the database path
  CHATBOT_SESSION_TIMEOUT   Idle session timeout in seconds
  NO_COLOR                  Disable colored output`)
}
