// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// testCatalog builds a catalog with one two-question category, one
// one-question category, one empty category, and one goal with no trigger.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.File{
		Goals: catalog.Question{
			ID:     "main_goals",
			Prompt: "Goals?",
			Kind:   catalog.KindMulti,
			Options: []catalog.Option{
				{Label: "Job", Value: "finding_a_job"},
				{Label: "Code", Value: "programming"},
				{Label: "Empty", Value: "empty_goal"},
				{Label: "Unmapped", Value: "unmapped_goal"},
			},
		},
		Categories: map[string][]catalog.Question{
			"job-seeker": {
				{ID: "job_situation", Prompt: "Situation?", Kind: catalog.KindSingle,
					Options: []catalog.Option{{Label: "Looking", Value: "actively_looking"}}},
				{ID: "job_goal", Prompt: "Goal?", Kind: catalog.KindSingle,
					Options: []catalog.Option{{Label: "First job", Value: "first_job"}}},
			},
			"programming": {
				{ID: "languages", Prompt: "Languages?", Kind: catalog.KindMulti,
					Options: []catalog.Option{
						{Label: "Go", Value: "go"},
						{Label: "Python", Value: "python"},
						{Label: "Rust", Value: "rust"},
					}},
			},
			"empty-cat": {},
		},
		Triggers: []catalog.Trigger{
			{Goal: "finding_a_job", Category: "job-seeker"},
			{Goal: "programming", Category: "programming"},
			{Goal: "empty_goal", Category: "empty-cat"},
		},
	})
	require.NoError(t, err)
	return c
}

// TestValidateSelection checks cardinality constraints.
func TestValidateSelection(t *testing.T) {
	q := catalog.Question{
		ID: "languages", Kind: catalog.KindMulti,
		Options: []catalog.Option{{Value: "go"}, {Value: "python"}},
	}

	t.Run("empty selection rejected with count in message", func(t *testing.T) {
		err := ValidateSelection(q, nil)
		var rej *Rejection
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, "Please select at least 1 option(s). You have selected 0.", rej.Message)
	})

	t.Run("selection within bounds accepted", func(t *testing.T) {
		assert.NoError(t, ValidateSelection(q, []string{"go"}))
		assert.NoError(t, ValidateSelection(q, []string{"go", "python"}))
	})

	t.Run("multi selection over option count rejected", func(t *testing.T) {
		err := ValidateSelection(q, []string{"go", "python", "rust"})
		var rej *Rejection
		require.ErrorAs(t, err, &rej)
		assert.Contains(t, rej.Message, "no more than 2")
	})
}

// TestNextStep_WalksQuestionsInOrder verifies the basic traversal.
func TestNextStep_WalksQuestionsInOrder(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)
	s := session.New("u1", "alice", []string{"finding_a_job", "programming"})

	step := r.NextStep(s)
	require.Equal(t, StepQuestion, step.Kind)
	assert.Equal(t, "job-seeker", step.Category)
	assert.Equal(t, "job_situation", step.Question.ID)
	assert.Equal(t, 0, step.QuestionIndex)

	s.AdvanceQuestion()
	step = r.NextStep(s)
	require.Equal(t, StepQuestion, step.Kind)
	assert.Equal(t, "job_goal", step.Question.ID)

	// Walking past the category's last question rolls into the next goal.
	s.AdvanceQuestion()
	step = r.NextStep(s)
	require.Equal(t, StepQuestion, step.Kind)
	assert.Equal(t, "programming", step.Category)
	assert.Equal(t, "languages", step.Question.ID)
	assert.Equal(t, 1, s.CategoryIndex)
	assert.Equal(t, 0, s.QuestionIndex)

	s.AdvanceQuestion()
	step = r.NextStep(s)
	assert.Equal(t, StepComplete, step.Kind)
	assert.True(t, s.Complete())
}

// TestNextStep_SkipsBadCategories verifies unmapped goals and empty
// categories are walked over without recursion.
func TestNextStep_SkipsBadCategories(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	t.Run("run of bad goals before a real one", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"unmapped_goal", "empty_goal", "programming"})
		step := r.NextStep(s)
		require.Equal(t, StepQuestion, step.Kind)
		assert.Equal(t, "programming", step.Category)
		assert.Equal(t, 2, s.CategoryIndex)
	})

	t.Run("only bad goals completes immediately", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"unmapped_goal", "empty_goal"})
		step := r.NextStep(s)
		assert.Equal(t, StepComplete, step.Kind)
	})

	t.Run("no goals at all", func(t *testing.T) {
		s := session.New("u1", "alice", nil)
		step := r.NextStep(s)
		assert.Equal(t, StepComplete, step.Kind)
	})
}

// TestIsLastQuestion verifies the submit-label switch condition.
func TestIsLastQuestion(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	t.Run("first of two questions is not last", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job"})
		assert.False(t, r.IsLastQuestion(s))
	})

	t.Run("second of two questions is last", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job"})
		s.AdvanceQuestion()
		assert.True(t, r.IsLastQuestion(s))
	})

	t.Run("last question of earlier goal is not last", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job", "programming"})
		s.AdvanceQuestion()
		assert.False(t, r.IsLastQuestion(s))
	})

	t.Run("single question of final goal is last", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job", "programming"})
		s.AdvanceCategory()
		assert.True(t, r.IsLastQuestion(s))
	})
}

// TestProgress verifies recomputed counts across categories.
func TestProgress(t *testing.T) {
	r := NewResolver(testCatalog(t), nil)

	t.Run("fresh session", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job", "programming"})
		completed, total := r.Progress(s)
		assert.Equal(t, 0, completed)
		assert.Equal(t, 3, total)
	})

	t.Run("mid-category counts the question index", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job", "programming"})
		s.AdvanceQuestion()
		completed, total := r.Progress(s)
		assert.Equal(t, 1, completed)
		assert.Equal(t, 3, total)
	})

	t.Run("past categories count fully", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"finding_a_job", "programming"})
		s.AdvanceCategory()
		completed, total := r.Progress(s)
		assert.Equal(t, 2, completed)
		assert.Equal(t, 3, total)
	})

	t.Run("unmapped goals contribute nothing", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"unmapped_goal", "programming"})
		completed, total := r.Progress(s)
		assert.Equal(t, 0, completed)
		assert.Equal(t, 1, total)
	})

	t.Run("complete session", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"programming"})
		s.AdvanceCategory()
		completed, total := r.Progress(s)
		assert.Equal(t, 1, completed)
		assert.Equal(t, 1, total)
	})
}
