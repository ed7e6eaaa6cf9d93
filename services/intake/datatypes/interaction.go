// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response types for the intake
// service.
//
// This file contains the interaction envelope delivered by the chat
// gateway. Membership and admin types live in members.go and admin.go.
package datatypes

import (
	"github.com/go-playground/validator/v10"
)

const (
	// MaxIdentifierBytes caps user ids, categories, question ids, and
	// option values. Anything larger is a malformed or hostile payload.
	MaxIdentifierBytes = 128

	// MaxUsernameBytes caps the display name carried on start events.
	MaxUsernameBytes = 256
)

// Action names accepted on the interaction endpoint.
const (
	ActionStartForm       = "start_form"
	ActionToggleGoal      = "toggle_goal"
	ActionSubmitGoals     = "submit_goals"
	ActionToggleOption    = "toggle_option"
	ActionSubmitSelection = "submit_selection"
	ActionChangePage      = "change_page"
	ActionCancel          = "cancel"
)

// intakeValidate is the validator instance for intake datatypes.
var intakeValidate *validator.Validate

func init() {
	intakeValidate = validator.New()
}

// InteractionRequest is one user interaction forwarded by the gateway.
//
// EventID is the gateway's delivery id; redeliveries reuse it and are
// dropped. The target fields (Category, QuestionID, Value, PageStart)
// are meaningful only for the actions that name a control.
type InteractionRequest struct {
	// EventID is the delivery id, unique per interaction.
	EventID string `json:"event_id" validate:"omitempty,max=128"`

	// UserID is the acting user.
	UserID string `json:"user_id" validate:"required,max=128"`

	// Username is the acting user's display name.
	Username string `json:"username" validate:"omitempty,max=256"`

	// Action selects the event kind.
	Action string `json:"action" validate:"required,oneof=start_form toggle_goal submit_goals toggle_option submit_selection change_page cancel"`

	// Category is the target category for question-level actions.
	Category string `json:"category" validate:"omitempty,max=128"`

	// QuestionID is the target question for question-level actions.
	QuestionID string `json:"question_id" validate:"omitempty,max=128"`

	// Value is the toggled goal or option value.
	Value string `json:"value" validate:"omitempty,max=128"`

	// PageStart is the option page offset for paging actions.
	PageStart int `json:"page_start" validate:"omitempty,min=0"`
}

// Validate checks the request beyond JSON binding.
func (r *InteractionRequest) Validate() error {
	return intakeValidate.Struct(r)
}

// InteractionResponse wraps the rendered reply for the gateway.
type InteractionResponse struct {
	// Status is "ok" for handled events and "duplicate" for dropped
	// redeliveries.
	Status string `json:"status"`

	// Reply is the message to show, absent for duplicates.
	Reply any `json:"reply,omitempty"`
}
