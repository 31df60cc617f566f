// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import "sync"

// Credential carries the session facts sent with every call.
type Credential struct {
	UserID    int
	Username  string
	Password  string
	Database  string
	ServerURI string
}

// Store holds the current credential of a client. Configure replaces it,
// Current returns a snapshot. Both are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cred Credential
}

// NewStore returns a store seeded with cred.
func NewStore(cred Credential) *Store {
	return &Store{cred: cred}
}

// Configure replaces the current credential. The store keeps its own copy,
// later changes to the caller's value do not leak into calls.
func (s *Store) Configure(cred Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}

// Current returns a copy of the current credential.
func (s *Store) Current() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}
