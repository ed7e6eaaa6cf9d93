// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package router

// Event is one user interaction. Each concrete event names its target
// explicitly instead of packing routing data into an identifier string,
// so the router can check targets against the session cursor directly.
type Event interface {
	// User returns the acting user's id.
	User() string

	isEvent()
}

// StartForm begins a new form for the user, showing the goal screen.
type StartForm struct {
	UserID   string
	Username string
}

// ToggleGoal flips one goal on the entry screen draft.
type ToggleGoal struct {
	UserID string
	Value  string
}

// SubmitGoals turns the draft into an active session and asks the
// first question.
type SubmitGoals struct {
	UserID   string
	Username string
}

// ToggleOption flips one choice on a multi-select question, or records
// the answer outright on a single-select question.
type ToggleOption struct {
	UserID     string
	Category   string
	QuestionID string
	Value      string
	PageStart  int
}

// SubmitSelection commits the pending choices of a multi-select
// question and advances.
type SubmitSelection struct {
	UserID     string
	Category   string
	QuestionID string
}

// ChangePage shows a different slice of the current question's options.
type ChangePage struct {
	UserID     string
	Category   string
	QuestionID string
	PageStart  int
}

// Cancel deletes the user's form, draft, and completion record.
type Cancel struct {
	UserID string
}

func (e StartForm) User() string       { return e.UserID }
func (e ToggleGoal) User() string      { return e.UserID }
func (e SubmitGoals) User() string     { return e.UserID }
func (e ToggleOption) User() string    { return e.UserID }
func (e SubmitSelection) User() string { return e.UserID }
func (e ChangePage) User() string      { return e.UserID }
func (e Cancel) User() string          { return e.UserID }

func (StartForm) isEvent()       {}
func (ToggleGoal) isEvent()      {}
func (SubmitGoals) isEvent()     {}
func (ToggleOption) isEvent()    {}
func (SubmitSelection) isEvent() {}
func (ChangePage) isEvent()      {}
func (Cancel) isEvent()          {}
