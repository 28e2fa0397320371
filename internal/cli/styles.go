// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for all CLI screens.
//
// Colors are automatically disabled for non-TTY output and when the
// NO_COLOR environment variable is set; FORCE_COLOR overrides detection.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// ApplyColorPreference switches ANSI styling on or off for the logged-in
// user without disturbing terminal detection: off forces the Ascii
// profile, on restores whatever the terminal supports.
func ApplyColorPreference(enabled bool) {
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for the banner and screen headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// PromptStyle is used for the chat input prompt.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// BotStyle is used for the bot name prefix on replies.
	BotStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")) // Purple

	// SuccessStyle is used for confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // Green

	// ErrorStyle is used for failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// WarningStyle is used for cautions and degraded-mode notices.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow

	// DimStyle is used for hints and secondary information.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// LabelStyle is used for field labels in detail views.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(16)

	// SeparatorStyle is used for horizontal rules.
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Separator returns a horizontal rule sized to the terminal.
func Separator() string {
	width := GetTerminalWidth()
	if width > DefaultTerminalWidth {
		width = DefaultTerminalWidth
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}
