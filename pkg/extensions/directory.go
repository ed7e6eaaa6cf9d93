// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import "context"

// RoleDirectory applies role grants and removals for a user.
//
// Role names are opaque strings owned by the deployment; the intake
// service never interprets them beyond equality. Implementations must
// be safe for concurrent use.
//
// Both methods treat an already-satisfied state as success: granting a
// role the user holds, or removing one they lack, returns nil.
type RoleDirectory interface {
	// Grant gives the user the named role.
	Grant(ctx context.Context, userID, role string) error

	// Revoke takes the named role from the user.
	Revoke(ctx context.Context, userID, role string) error

	// Has reports whether the user currently holds the role.
	Has(ctx context.Context, userID, role string) (bool, error)
}

// NopRoleDirectory records nothing and reports no roles held.
//
// Thread-safe: this implementation has no mutable state.
type NopRoleDirectory struct{}

// Grant does nothing and returns nil.
func (d *NopRoleDirectory) Grant(ctx context.Context, userID, role string) error {
	return nil
}

// Revoke does nothing and returns nil.
func (d *NopRoleDirectory) Revoke(ctx context.Context, userID, role string) error {
	return nil
}

// Has always reports false.
func (d *NopRoleDirectory) Has(ctx context.Context, userID, role string) (bool, error) {
	return false, nil
}

var _ RoleDirectory = (*NopRoleDirectory)(nil)
