// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// LOGIN THROTTLING
// =============================================================================

// LoginThrottle rate-limits login attempts per username so online password
// guessing stays slow even across reconnects. Limiters for idle usernames
// are dropped after an hour to bound memory.
type LoginThrottle struct {
	attemptsPerMinute int

	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
}

// NewLoginThrottle creates a throttle allowing the given number of attempts
// per minute per username, with the same value as burst.
func NewLoginThrottle(attemptsPerMinute int) *LoginThrottle {
	return &LoginThrottle{
		attemptsPerMinute: attemptsPerMinute,
		limiters:          make(map[string]*rate.Limiter),
		lastAccess:        make(map[string]time.Time),
	}
}

// Allow reports whether another login attempt for the username may proceed
// right now.
func (t *LoginThrottle) Allow(username string) bool {
	return t.limiter(username).Allow()
}

// limiter returns the per-username limiter, creating it on first use.
func (t *LoginThrottle) limiter(username string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cleanupLocked()

	lim, ok := t.limiters[username]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(t.attemptsPerMinute)/60.0), t.attemptsPerMinute)
		t.limiters[username] = lim
	}
	t.lastAccess[username] = time.Now()
	return lim
}

// cleanupLocked drops limiters idle for over an hour. Caller holds mu.
func (t *LoginThrottle) cleanupLocked() {
	cutoff := time.Now().Add(-time.Hour)
	for name, last := range t.lastAccess {
		if last.Before(cutoff) {
			delete(t.limiters, name)
			delete(t.lastAccess, name)
		}
	}
}
