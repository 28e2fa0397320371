// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/security"
	"github.com/Code4Vision/ChatBot/internal/util"
)

// =============================================================================
// HISTORY EXPORT
// =============================================================================

// Export is the on-disk JSON shape of a history export.
type Export struct {
	Username      string                `json:"username"`
	ExportedAt    time.Time             `json:"exported_at"`
	Conversations []*model.Conversation `json:"conversations"`
}

// ExportHistory decrypts a user's complete chat history and writes it as
// JSON to path. The write is atomic, so a crash cannot leave a half-written
// export next to intact data.
func (s *Store) ExportHistory(username string, cipher *security.Cipher, path string) error {
	convs, err := s.ListConversations(username, cipher)
	if err != nil {
		return err
	}
	for i, conv := range convs {
		full, err := s.LoadConversation(conv.ID, cipher)
		if err != nil {
			return err
		}
		convs[i] = full
	}

	export := Export{
		Username:      username,
		ExportedAt:    time.Now().UTC(),
		Conversations: convs,
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
