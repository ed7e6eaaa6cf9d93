// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// MemberJoinRequest announces a new member to start the role ladder.
type MemberJoinRequest struct {
	UserID   string `json:"user_id" validate:"required,max=128"`
	Username string `json:"username" validate:"omitempty,max=256"`
}

// Validate checks the request beyond JSON binding.
func (r *MemberJoinRequest) Validate() error {
	return intakeValidate.Struct(r)
}

// RulesAcceptanceRequest records that a member accepted the rules.
type RulesAcceptanceRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

// Validate checks the request beyond JSON binding.
func (r *RulesAcceptanceRequest) Validate() error {
	return intakeValidate.Struct(r)
}

// RoleTransitionResponse reports what a ladder transition changed.
type RoleTransitionResponse struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Errors  []string `json:"errors,omitempty"`
	Success bool     `json:"success"`
}
