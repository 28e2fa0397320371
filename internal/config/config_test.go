// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ChatBot", cfg.BotName)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.BotName = "TestBot"
	cfg.LLM.Model = "mistral"
	cfg.UI.HistoryLimit = 99
	require.NoError(t, SaveFile(cfg, path))

	// Saved files are owner-only.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := Default()
	require.NoError(t, LoadFile(loaded, path))
	assert.Equal(t, "TestBot", loaded.BotName)
	assert.Equal(t, "mistral", loaded.LLM.Model)
	assert.Equal(t, 99, loaded.UI.HistoryLimit)
}

func TestSaveFileReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	first := Default()
	first.BotName = "First"
	require.NoError(t, SaveFile(first, path))

	second := Default()
	second.BotName = "Second"
	require.NoError(t, SaveFile(second, path))

	loaded := Default()
	require.NoError(t, LoadFile(loaded, path))
	assert.Equal(t, "Second", loaded.BotName)

	// The atomic write must not leave temp files next to the config.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestLoadFixesInsecurePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveFile(Default(), path))
	require.NoError(t, os.Chmod(path, 0644))

	require.NoError(t, LoadFile(Default(), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	assert.Equal(t, "ChatBot", cfg.BotName)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaURL)
	assert.Equal(t, 600_000, cfg.Security.PBKDF2Iterations)
	assert.Equal(t, 50, cfg.UI.HistoryLimit)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.LLM.OllamaURL = "localhost:11434" }},
		{"bcrypt cost too low", func(c *Config) { c.Security.BcryptCost = 4 }},
		{"bcrypt cost too high", func(c *Config) { c.Security.BcryptCost = 31 }},
		{"weak kdf", func(c *Config) { c.Security.PBKDF2Iterations = 1000 }},
		{"negative timeout", func(c *Config) { c.Security.SessionTimeoutSecs = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CHATBOT_MODEL", "phi3")
	t.Setenv("CHATBOT_LLM", "false")
	t.Setenv("CHATBOT_NO_COLOR", "1")
	t.Setenv("CHATBOT_SESSION_TIMEOUT", "900")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "phi3", cfg.LLM.Model)
	assert.False(t, cfg.LLM.Enabled)
	assert.False(t, cfg.UI.Color)
	assert.Equal(t, 900, cfg.Security.SessionTimeoutSecs)
}

func TestGlobalSingleton(t *testing.T) {
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	// First access initializes; later SetGlobal replaces the instance.
	_ = Global()

	custom := Default()
	custom.BotName = "Singleton"
	SetGlobal(custom)
	assert.Equal(t, "Singleton", Global().BotName)
}
