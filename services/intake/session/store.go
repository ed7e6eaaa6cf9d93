// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
)

// Sentinel errors shared by every Store backend.
var (
	// ErrNotFound is returned when no session (or draft) exists for a user.
	ErrNotFound = errors.New("session not found")

	// ErrSessionExists is returned by Create when the user already has a
	// live session.
	ErrSessionExists = errors.New("session already exists")
)

// Store is the progress store: the single source of mutable state for the
// form engine, keyed by user identity.
//
// # Description
//
// Store covers three pieces of bookkeeping:
//
//   - Sessions: the live per-user form state, created at goal submission and
//     destroyed at completion or cancellation.
//   - Goal drafts: the option set toggled on the entry screen before a
//     session exists.
//   - The completed set: users who already finished the form, so the entry
//     point can reject a re-run.
//
// Delete operations are idempotent: removing state that does not exist is a
// no-op, not an error.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use across users. The engine
// relies on the platform delivering one event at a time per user; the store
// does not serialize mutations within a single user's flow.
type Store interface {
	// Create stores a new session, failing with ErrSessionExists if the
	// user already has one.
	Create(ctx context.Context, s *Session) error

	// Get returns the user's live session or ErrNotFound.
	Get(ctx context.Context, userID string) (*Session, error)

	// Put replaces the user's session state.
	Put(ctx context.Context, s *Session) error

	// Delete removes the user's session. Absent sessions are a no-op.
	Delete(ctx context.Context, userID string) error

	// GetDraft returns the goal values toggled on the entry screen, in
	// toggle order, or ErrNotFound when the user has no draft.
	GetDraft(ctx context.Context, userID string) ([]string, error)

	// PutDraft stores the entry-screen goal selection.
	PutDraft(ctx context.Context, userID string, goals []string) error

	// DeleteDraft removes the draft. Absent drafts are a no-op.
	DeleteDraft(ctx context.Context, userID string) error

	// MarkCompleted records that the user finished the form.
	MarkCompleted(ctx context.Context, userID string) error

	// IsCompleted reports whether the user already finished the form.
	IsCompleted(ctx context.Context, userID string) (bool, error)

	// ClearCompleted forgets a completion marker (admin reset, form
	// deletion). Absent markers are a no-op.
	ClearCompleted(ctx context.Context, userID string) error

	// Reset drops every session, draft, and completion marker.
	Reset(ctx context.Context) error
}
