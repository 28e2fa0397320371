// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/Code4Vision/ChatBot/internal/bot"
	"github.com/Code4Vision/ChatBot/internal/config"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{
			name:     "short line unchanged",
			input:    "hello world",
			maxWidth: 40,
			want:     "hello world",
		},
		{
			name:     "wraps at word boundary",
			input:    "one two three four",
			maxWidth: 11, // effective width 9 after margin
			want:     "one two\nthree\nfour",
		},
		{
			name:     "preserves existing newlines",
			input:    "first\nsecond",
			maxWidth: 40,
			want:     "first\nsecond",
		},
		{
			name:     "empty input",
			input:    "",
			maxWidth: 40,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.input, tt.maxWidth))
		})
	}
}

func TestWrapTextLongLine(t *testing.T) {
	got := WrapText(strings.Repeat("word ", 50), 42)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
}

func TestColorProfileDisabled(t *testing.T) {
	ForceColorsEnabled(false)
	defer ForceColorsEnabled(false)

	assert.Equal(t, termenv.Ascii, GetColorProfile())
	assert.False(t, ColorsEnabled())
}

func TestRendererPassthrough(t *testing.T) {
	r := NewRenderer(false)
	assert.Equal(t, "**bold**", r.Render("**bold**"))
}

func TestApplyConfigSwapsEngine(t *testing.T) {
	old := config.Default()
	old.LLM.Enabled = false
	app := &App{cfg: old, engine: bot.NewEngine(old, nil)}
	before := app.bot()

	next := config.Default()
	next.BotName = "Reloaded"
	next.LLM.Enabled = false
	app.ApplyConfig(next)

	assert.Equal(t, "Reloaded", app.config().BotName)
	assert.NotSame(t, before, app.bot())
	assert.Nil(t, app.llm)
}

func TestApplyConfigRebuildsLLMClient(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Enabled = false
	app := &App{cfg: cfg, engine: bot.NewEngine(cfg, nil)}

	next := config.Default()
	next.LLM.Enabled = true
	app.ApplyConfig(next)

	assert.NotNil(t, app.llm)
	assert.NotNil(t, app.bot())
}

func TestColorsEnabledHonorsConfig(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)
	t.Cleanup(ResetColorsForTesting)

	_ = config.Global()
	off := config.Default()
	off.UI.Color = false
	config.SetGlobal(off)

	ResetColorsForTesting()
	assert.False(t, ColorsEnabled())

	// FORCE_COLOR outranks the config setting.
	t.Setenv("FORCE_COLOR", "1")
	ResetColorsForTesting()
	assert.True(t, ColorsEnabled())
}

func TestOnOff(t *testing.T) {
	assert.Equal(t, "on", onOff(true))
	assert.Equal(t, "off", onOff(false))
}
