// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package render turns questions and session state into the text and choice
// controls sent back through the messaging gateway.
//
// The gateway's platform imposes hard limits on how many choice controls fit
// in one message, so option lists are chunked into pages with "more options"
// and "back to main" affordances. Page and row capacity are configuration,
// not magic numbers.
package render

// ControlKind identifies what clicking a control means. The gateway encodes
// these as structured action objects, never as concatenated id strings.
type ControlKind string

const (
	// ControlOption toggles (multi) or answers (single) one option.
	ControlOption ControlKind = "option"

	// ControlSubmit submits the pending multi-choice selection. Its label
	// switches between continue and submit on the form's last question.
	ControlSubmit ControlKind = "submit"

	// ControlMore reveals the next page of options.
	ControlMore ControlKind = "more"

	// ControlBack returns to the first page of options.
	ControlBack ControlKind = "back"

	// ControlGoal toggles a goal on the entry screen.
	ControlGoal ControlKind = "goal"

	// ControlSubmitGoals submits the entry-screen goal selection.
	ControlSubmitGoals ControlKind = "submit_goals"

	// ControlCancel deletes the form.
	ControlCancel ControlKind = "cancel"
)

// Control is one clickable element in a reply. Target fields are populated
// according to Kind; a ControlGoal carries only Value, a ControlOption
// carries the (category, question) pair it belongs to, and page switches
// carry PageStart.
type Control struct {
	Kind       ControlKind `json:"kind"`
	Label      string      `json:"label"`
	Value      string      `json:"value,omitempty"`
	Category   string      `json:"category,omitempty"`
	QuestionID string      `json:"questionId,omitempty"`
	PageStart  int         `json:"pageStart,omitempty"`
	Selected   bool        `json:"selected,omitempty"`
	Style      string      `json:"style,omitempty"`
}

// Reply is a rendered message: text plus rows of controls. Replace tells the
// gateway to edit the message the event came from instead of sending a new
// one.
type Reply struct {
	Text    string      `json:"text"`
	Rows    [][]Control `json:"rows"`
	Replace bool        `json:"replace"`
}

// Button styles understood by the gateway.
const (
	StylePrimary   = "primary"
	StyleSecondary = "secondary"
	StyleSuccess   = "success"
	StyleDanger    = "danger"
)
