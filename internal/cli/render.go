// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Renderer turns bot markdown into styled terminal output. When glamour
// cannot be initialized, or markdown is disabled, it passes text through.
type Renderer struct {
	md *glamour.TermRenderer
}

// NewRenderer builds a Renderer. Markdown rendering is only enabled when
// requested and stdout is a TTY, so piped output stays plain.
func NewRenderer(markdown bool) *Renderer {
	r := &Renderer{}
	if !markdown || !IsStdoutTTY() {
		return r
	}

	width := GetTerminalWidth()
	if width > DefaultTerminalWidth {
		width = DefaultTerminalWidth
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return r
	}
	r.md = md
	return r
}

// Render returns the styled form of content, or content unchanged when
// markdown rendering is unavailable.
func (r *Renderer) Render(content string) string {
	if r.md == nil {
		return content
	}
	rendered, err := r.md.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
