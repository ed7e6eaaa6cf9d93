// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// FormSubmission is the payload delivered for one completed form.
//
// Responses are keyed by category, then by question id, so a question
// id only needs to be unique within its category.
type FormSubmission struct {
	// SubmissionID uniquely identifies this delivery attempt chain.
	SubmissionID string `json:"submission_id"`

	// UserID is the id of the user who completed the form.
	UserID string `json:"user_id"`

	// Username is the display name at completion time.
	Username string `json:"username"`

	// SelectedGoals lists the goals in canonical order.
	SelectedGoals []string `json:"selected_goals"`

	// Responses maps category -> question id -> selected values.
	Responses map[string]map[string][]string `json:"responses"`

	// RolesGranted lists the role names derived from the answers.
	RolesGranted []string `json:"roles_granted"`

	// CompletedAt is the completion timestamp in UTC.
	CompletedAt time.Time `json:"completed_at"`
}

// ResponseSink receives completed form submissions.
//
// Implementations must be safe for concurrent use. Submit should
// bound its own network time; the completion pipeline tolerates a
// failed delivery and finishes the form regardless.
type ResponseSink interface {
	// Submit delivers one completed form.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - sub: The completed form payload
	//
	// Returns:
	//   - error: nil on success, error if delivery failed
	Submit(ctx context.Context, sub FormSubmission) error
}

// NopResponseSink discards submissions without delivering them.
//
// Thread-safe: this implementation has no mutable state.
type NopResponseSink struct{}

// Submit discards the submission.
//
// Always returns nil regardless of payload content.
func (s *NopResponseSink) Submit(ctx context.Context, sub FormSubmission) error {
	return nil
}

var _ ResponseSink = (*NopResponseSink)(nil)
