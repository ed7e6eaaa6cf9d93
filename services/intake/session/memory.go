// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"sync"
)

// MemoryStore is the default Store: a mutex-guarded map in process memory.
// State does not survive a restart, which matches the engine's contract.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	drafts    map[string][]string
	completed map[string]bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string]*Session),
		drafts:    make(map[string][]string),
		completed: make(map[string]bool),
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.UserID]; exists {
		return ErrSessionExists
	}
	m.sessions[s.UserID] = s.clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s.clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

func (m *MemoryStore) GetDraft(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]string, len(d))
	copy(out, d)
	return out, nil
}

func (m *MemoryStore) PutDraft(_ context.Context, userID string, goals []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]string, len(goals))
	copy(stored, goals)
	m.drafts[userID] = stored
	return nil
}

func (m *MemoryStore) DeleteDraft(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
	return nil
}

func (m *MemoryStore) MarkCompleted(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[userID] = true
	return nil
}

func (m *MemoryStore) IsCompleted(_ context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.completed[userID], nil
}

func (m *MemoryStore) ClearCompleted(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.completed, userID)
	return nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
	m.drafts = make(map[string][]string)
	m.completed = make(map[string]bool)
	return nil
}

// clone keeps callers from mutating stored state behind the lock.
func (s *Session) clone() *Session {
	cp := *s
	cp.SelectedGoals = append([]string(nil), s.SelectedGoals...)
	cp.Pending = append([]string(nil), s.Pending...)
	cp.Answers = make([]Answer, len(s.Answers))
	for i, a := range s.Answers {
		cp.Answers[i] = Answer{
			Category:   a.Category,
			QuestionID: a.QuestionID,
			Values:     append([]string(nil), a.Values...),
		}
	}
	return &cp
}

var _ Store = (*MemoryStore)(nil)
