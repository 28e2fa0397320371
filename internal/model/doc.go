// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, conversations and
// messages. Types here are plain values with no behavior beyond construction
// and formatting; persistence lives in the storage package.
package model
