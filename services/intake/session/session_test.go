// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies a fresh session starts at the first question.
func TestNew(t *testing.T) {
	s := New("u1", "alice", []string{"finding_a_job", "programming"})

	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, 0, s.CategoryIndex)
	assert.Equal(t, 0, s.QuestionIndex)
	assert.False(t, s.Complete())

	goal, ok := s.CurrentGoal()
	require.True(t, ok)
	assert.Equal(t, "finding_a_job", goal)
}

// TestComplete verifies completion once the cursor walks past the last goal.
func TestComplete(t *testing.T) {
	s := New("u1", "alice", []string{"programming"})
	s.AdvanceCategory()

	assert.True(t, s.Complete())
	_, ok := s.CurrentGoal()
	assert.False(t, ok)
}

// TestTogglePending verifies toggle semantics and order preservation.
func TestTogglePending(t *testing.T) {
	s := New("u1", "alice", []string{"programming"})

	assert.True(t, s.TogglePending("go"))
	assert.True(t, s.TogglePending("python"))
	assert.Equal(t, []string{"go", "python"}, s.Pending)
	assert.True(t, s.PendingSelected("go"))

	// Toggling off removes without disturbing the rest.
	assert.False(t, s.TogglePending("go"))
	assert.Equal(t, []string{"python"}, s.Pending)
	assert.False(t, s.PendingSelected("go"))
}

// TestAdvanceClearsPending verifies no selection leaks across transitions.
func TestAdvanceClearsPending(t *testing.T) {
	s := New("u1", "alice", []string{"programming", "networking"})
	s.TogglePending("go")

	s.AdvanceQuestion()
	assert.Equal(t, 1, s.QuestionIndex)
	assert.Empty(t, s.Pending)

	s.TogglePending("python")
	s.AdvanceCategory()
	assert.Equal(t, 1, s.CategoryIndex)
	assert.Equal(t, 0, s.QuestionIndex)
	assert.Empty(t, s.Pending)
}

// TestAddAnswer verifies answers key by (category, question id) and append
// on repeat submission.
func TestAddAnswer(t *testing.T) {
	s := New("u1", "alice", []string{"programming"})

	s.AddAnswer("programming", "languages", []string{"go"})
	s.AddAnswer("networking", "languages", []string{"python"})

	values, ok := s.Answer("programming", "languages")
	require.True(t, ok)
	assert.Equal(t, []string{"go"}, values)

	values, ok = s.Answer("networking", "languages")
	require.True(t, ok)
	assert.Equal(t, []string{"python"}, values)

	// Same key appends rather than overwriting.
	s.AddAnswer("programming", "languages", []string{"rust"})
	values, _ = s.Answer("programming", "languages")
	assert.Equal(t, []string{"go", "rust"}, values)

	_, ok = s.Answer("programming", "missing")
	assert.False(t, ok)
}

// TestAddAnswer_CopiesValues verifies the recorded slice is detached from
// the caller's.
func TestAddAnswer_CopiesValues(t *testing.T) {
	s := New("u1", "alice", []string{"programming"})
	in := []string{"go"}
	s.AddAnswer("programming", "languages", in)
	in[0] = "mutated"

	values, _ := s.Answer("programming", "languages")
	assert.Equal(t, []string{"go"}, values)
}

// TestResponsesByCategory verifies the sink payload nesting.
func TestResponsesByCategory(t *testing.T) {
	s := New("u1", "alice", []string{"programming", "networking"})
	s.AddAnswer("programming", "languages", []string{"go", "python"})
	s.AddAnswer("programming", "experience", []string{"3_7_years"})
	s.AddAnswer("networking", "networking_goal", []string{"find_mentor"})

	got := s.ResponsesByCategory()
	require.Len(t, got, 2)
	assert.Equal(t, []string{"go", "python"}, got["programming"]["languages"])
	assert.Equal(t, []string{"3_7_years"}, got["programming"]["experience"])
	assert.Equal(t, []string{"find_mentor"}, got["networking"]["networking_goal"])
}
