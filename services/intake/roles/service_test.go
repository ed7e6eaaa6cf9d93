// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory records role changes and can fail selected roles.
type fakeDirectory struct {
	granted  []string
	revoked  []string
	failName string
}

func (f *fakeDirectory) Grant(_ context.Context, _, role string) error {
	if role == f.failName {
		return errors.New("directory unavailable")
	}
	f.granted = append(f.granted, role)
	return nil
}

func (f *fakeDirectory) Revoke(_ context.Context, _, role string) error {
	if role == f.failName {
		return errors.New("directory unavailable")
	}
	f.revoked = append(f.revoked, role)
	return nil
}

func (f *fakeDirectory) Has(context.Context, string, string) (bool, error) {
	return false, nil
}

// TestHandleUserJoin verifies the pending grant.
func TestHandleUserJoin(t *testing.T) {
	dir := &fakeDirectory{}
	svc := NewService(Config{}, dir, nil, nil)

	res := svc.HandleUserJoin(context.Background(), "u1")
	assert.True(t, res.Success)
	assert.Equal(t, []string{"Pending"}, res.Added)
	assert.Empty(t, res.Removed)
	assert.Equal(t, []string{"Pending"}, dir.granted)
}

// TestHandleRulesAcceptance verifies the pending-to-incoming trade.
func TestHandleRulesAcceptance(t *testing.T) {
	dir := &fakeDirectory{}
	svc := NewService(Config{}, dir, nil, nil)

	res := svc.HandleRulesAcceptance(context.Background(), "u1")
	assert.True(t, res.Success)
	assert.Equal(t, []string{"Pending"}, res.Removed)
	assert.Equal(t, []string{"Incoming"}, res.Added)
}

// TestHandleFormCompletion verifies the final transition.
func TestHandleFormCompletion(t *testing.T) {
	t.Run("derived roles plus verified, ladder names skipped", func(t *testing.T) {
		dir := &fakeDirectory{}
		svc := NewService(Config{}, dir, nil, nil)

		res := svc.HandleFormCompletion(context.Background(), "u1",
			[]string{"Programmer", "Incoming", "Programmer", "", "Job Seeker", "Verified"})
		assert.True(t, res.Success)
		assert.Equal(t, []string{"Incoming"}, res.Removed)
		assert.Equal(t, []string{"Programmer", "Job Seeker", "Verified"}, res.Added)
	})

	t.Run("custom ladder names are honored", func(t *testing.T) {
		dir := &fakeDirectory{}
		svc := NewService(Config{Pending: "Newcomer", Incoming: "Guest", Verified: "Member"}, dir, nil, nil)

		res := svc.HandleFormCompletion(context.Background(), "u1", []string{"Guest", "Programmer"})
		assert.Equal(t, []string{"Guest"}, res.Removed)
		assert.Equal(t, []string{"Programmer", "Member"}, res.Added)
	})

	t.Run("partial failure degrades without blocking", func(t *testing.T) {
		dir := &fakeDirectory{failName: "Programmer"}
		svc := NewService(Config{}, dir, nil, nil)

		res := svc.HandleFormCompletion(context.Background(), "u1", []string{"Programmer", "Job Seeker"})
		assert.False(t, res.Success)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Error(), `grant "Programmer"`)
		assert.Equal(t, []string{"Job Seeker", "Verified"}, res.Added)
	})
}

// TestNilDirectoryFallsBackToNop verifies the service works with no
// directory configured.
func TestNilDirectoryFallsBackToNop(t *testing.T) {
	svc := NewService(Config{}, nil, nil, nil)
	res := svc.HandleUserJoin(context.Background(), "u1")
	assert.True(t, res.Success)
	assert.Equal(t, []string{"Pending"}, res.Added)
}
