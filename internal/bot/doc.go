// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bot routes user messages to the right responder and produces the
// bot's replies.
//
// Routing order:
//  1. Arithmetic-looking input goes to the expression evaluator. The check
//     reuses the evaluator's own grammar, so a positive can never crash the
//     math path.
//  2. Everything else goes to the LLM backend when enabled and reachable.
//  3. The keyword responder answers when the LLM is disabled or down, so the
//     bot always says something.
package bot
