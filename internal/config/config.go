// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Code4Vision/ChatBot/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatbot configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`
	BotName string `toml:"bot_name"`

	// Subsystems
	LLM      LLMConfig      `toml:"llm"`
	Security SecurityConfig `toml:"security"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// LLMConfig contains language-model backend configuration.
type LLMConfig struct {
	// Enabled toggles the LLM backend. When false, non-math input is
	// answered by the keyword responder only.
	Enabled bool `toml:"enabled"`
	// OllamaURL is the URL of the Ollama server.
	OllamaURL string `toml:"ollama_url"`
	// Model is the model name passed to Ollama.
	Model string `toml:"model"`
	// TimeoutSecs bounds a single generation request.
	TimeoutSecs int `toml:"timeout_secs"`
}

// SecurityConfig contains authentication and encryption knobs.
type SecurityConfig struct {
	// BcryptCost is the bcrypt work factor for password hashes.
	BcryptCost int `toml:"bcrypt_cost"`
	// PBKDF2Iterations is the key-derivation iteration count for the
	// history encryption key.
	PBKDF2Iterations int `toml:"pbkdf2_iterations"`
	// MaxLoginAttempts is the number of failed logins tolerated per minute
	// before throttling kicks in.
	MaxLoginAttempts int `toml:"max_login_attempts"`
	// SessionTimeoutSecs logs an idle session out. Zero disables it.
	SessionTimeoutSecs int `toml:"session_timeout_secs"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// DatabasePath is the SQLite database file. Relative paths resolve
	// against the config directory.
	DatabasePath string `toml:"database_path"`
	// ExportDir is where chat history exports are written.
	ExportDir string `toml:"export_dir"`
}

// UIConfig contains terminal presentation configuration.
type UIConfig struct {
	// Color toggles ANSI styling.
	Color bool `toml:"color"`
	// Markdown renders bot replies through the markdown renderer.
	Markdown bool `toml:"markdown"`
	// HistoryLimit caps the lines shown by the history view.
	HistoryLimit int `toml:"history_limit"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		BotName: "ChatBot",
		LLM: LLMConfig{
			Enabled:     true,
			OllamaURL:   "http://localhost:11434",
			Model:       "llama3.2",
			TimeoutSecs: 120,
		},
		Security: SecurityConfig{
			BcryptCost:         12,
			PBKDF2Iterations:   600_000,
			MaxLoginAttempts:   5,
			SessionTimeoutSecs: 1800,
		},
		Storage: StorageConfig{
			DatabasePath: "chatbot.db",
			ExportDir:    "exports",
		},
		UI: UIConfig{
			Color:        true,
			Markdown:     true,
			HistoryLimit: 50,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the chatbot configuration directory (~/.chatbot).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatbot"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists with owner-only
// permissions; it holds the database and the encryption salt.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ResolvePath resolves a possibly-relative storage path against the config
// directory.
func ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// ensureSecurePermissions tightens permissions on an existing config file.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", info.Mode().Perm(), err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults,
// and applies environment overrides and validation.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over an existing config.
func LoadFile(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save writes the configuration to the TOML config file with owner-only
// permissions.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes the configuration to the given path atomically, so a
// crash mid-save never leaves a truncated config behind and the file
// watcher sees a single rename per save.
func SaveFile(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatbot configuration file\n")
	buf.WriteString("# edit with care; secrets do not belong here\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENV OVERRIDES / DEFAULTS / VALIDATION
// =============================================================================

// ApplyEnvOverrides applies CHATBOT_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATBOT_OLLAMA_URL"); v != "" {
		c.LLM.OllamaURL = v
	}
	if v := os.Getenv("CHATBOT_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("CHATBOT_LLM"); v != "" {
		c.LLM.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CHATBOT_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("CHATBOT_NO_COLOR"); v != "" {
		c.UI.Color = !(v == "1" || strings.EqualFold(v, "true"))
	}
	if v := os.Getenv("CHATBOT_SESSION_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Security.SessionTimeoutSecs = secs
		}
	}
}

// SetDefaults fills zero values with defaults so a sparse config file works.
func (c *Config) SetDefaults() {
	def := Default()
	if c.BotName == "" {
		c.BotName = def.BotName
	}
	if c.LLM.OllamaURL == "" {
		c.LLM.OllamaURL = def.LLM.OllamaURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = def.LLM.Model
	}
	if c.LLM.TimeoutSecs <= 0 {
		c.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = def.Security.BcryptCost
	}
	if c.Security.PBKDF2Iterations == 0 {
		c.Security.PBKDF2Iterations = def.Security.PBKDF2Iterations
	}
	if c.Security.MaxLoginAttempts <= 0 {
		c.Security.MaxLoginAttempts = def.Security.MaxLoginAttempts
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = def.Storage.DatabasePath
	}
	if c.Storage.ExportDir == "" {
		c.Storage.ExportDir = def.Storage.ExportDir
	}
	if c.UI.HistoryLimit <= 0 {
		c.UI.HistoryLimit = def.UI.HistoryLimit
	}
}

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for values that would misbehave at
// runtime.
func (c *Config) Validate() error {
	var errs []string

	if !strings.HasPrefix(c.LLM.OllamaURL, "http://") && !strings.HasPrefix(c.LLM.OllamaURL, "https://") {
		errs = append(errs, ValidationError{"llm.ollama_url", "must be an http(s) URL"}.Error())
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 18 {
		errs = append(errs, ValidationError{"security.bcrypt_cost", "must be between 10 and 18"}.Error())
	}
	if c.Security.PBKDF2Iterations < 100_000 {
		errs = append(errs, ValidationError{"security.pbkdf2_iterations", "must be at least 100000"}.Error())
	}
	if c.Security.SessionTimeoutSecs < 0 {
		errs = append(errs, ValidationError{"security.session_timeout_secs", "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// LLMTimeout returns the generation timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

// SessionTimeout returns the idle logout duration, zero when disabled.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.Security.SessionTimeoutSecs) * time.Second
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance. Loads configuration on
// first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
