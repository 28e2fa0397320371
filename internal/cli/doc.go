// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the interactive terminal front end: the
// authentication menus, the chat REPL with slash commands, the history
// viewer, and the preferences editor.
//
// Input editing and history come from peterh/liner, styling from
// lipgloss (disabled automatically for non-TTY output and NO_COLOR),
// and bot replies are rendered as markdown through glamour when stdout
// is a terminal.
package cli
