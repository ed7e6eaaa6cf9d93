// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// wideOptions builds n options named opt_0..opt_{n-1}.
func wideOptions(n int) []catalog.Option {
	opts := make([]catalog.Option, n)
	for i := range opts {
		opts[i] = catalog.Option{
			Label: fmt.Sprintf("Option %d", i),
			Value: fmt.Sprintf("opt_%d", i),
		}
	}
	return opts
}

func testBuilder(t *testing.T) (*Builder, *catalog.Catalog, *flow.Resolver) {
	t.Helper()
	c, err := catalog.New(catalog.File{
		Goals: catalog.Question{
			ID:     "main_goals",
			Prompt: "Goals?",
			Kind:   catalog.KindMulti,
			Options: []catalog.Option{
				{Label: "Find a job", Value: "finding_a_job"},
				{Label: "Networking", Value: "networking"},
			},
		},
		Titles: map[string]string{
			"job-seeker": "Job Seeker",
			"networking": "Networking",
		},
		Categories: map[string][]catalog.Question{
			"job-seeker": {
				{ID: "job_situation", Prompt: "What is your situation?", Kind: catalog.KindSingle,
					Options: []catalog.Option{
						{Label: "Looking", Value: "actively_looking"},
						{Label: "Student", Value: "student"},
					}},
			},
			"networking": {
				{ID: "roles_to_connect", Prompt: "Who do you want to meet?",
					Description: "Select all that apply.",
					Kind:        catalog.KindMulti,
					Options:     wideOptions(30)},
			},
		},
		Triggers: []catalog.Trigger{
			{Goal: "finding_a_job", Category: "job-seeker"},
			{Goal: "networking", Category: "networking"},
		},
	})
	require.NoError(t, err)
	res := flow.NewResolver(c, nil)
	return NewBuilder(c, res, Config{}), c, res
}

// collectControls flattens rows for assertions.
func collectControls(rows [][]Control) []Control {
	var out []Control
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

func controlsOfKind(rows [][]Control, kind ControlKind) []Control {
	var out []Control
	for _, ctl := range collectControls(rows) {
		if ctl.Kind == kind {
			out = append(out, ctl)
		}
	}
	return out
}

// TestQuestion_SingleSelect verifies the basic single-select rendering.
func TestQuestion_SingleSelect(t *testing.T) {
	b, _, res := testBuilder(t)
	s := session.New("u1", "alice", []string{"finding_a_job"})
	step := res.NextStep(s)

	reply := b.Question(s, step, 0, "")

	assert.Contains(t, reply.Text, "## Job Seeker")
	assert.Contains(t, reply.Text, "**Question 1:** What is your situation?")
	assert.Contains(t, reply.Text, "Please make your selection below:")
	assert.Contains(t, reply.Text, "📊 **Progress:** 0/1 questions (0%) | Category 1/1")

	options := controlsOfKind(reply.Rows, ControlOption)
	require.Len(t, options, 2)
	assert.Equal(t, "job-seeker", options[0].Category)
	assert.Equal(t, "job_situation", options[0].QuestionID)
	assert.Equal(t, "actively_looking", options[0].Value)

	// Single-select questions carry no submit control.
	assert.Empty(t, controlsOfKind(reply.Rows, ControlSubmit))
	assert.Empty(t, controlsOfKind(reply.Rows, ControlMore))
}

// TestQuestion_ValidationMessage verifies the warning prefix.
func TestQuestion_ValidationMessage(t *testing.T) {
	b, _, res := testBuilder(t)
	s := session.New("u1", "alice", []string{"finding_a_job"})
	step := res.NextStep(s)

	reply := b.Question(s, step, 0, "Please select at least 1 option(s). You have selected 0.")
	assert.True(t, strings.HasPrefix(reply.Text, "⚠️ Please select at least 1 option(s)."))
	assert.Contains(t, reply.Text, "## Job Seeker")
}

// TestQuestion_Pagination verifies pages of 25 with more/back controls.
func TestQuestion_Pagination(t *testing.T) {
	b, _, res := testBuilder(t)
	s := session.New("u1", "alice", []string{"networking"})
	step := res.NextStep(s)

	t.Run("first page shows 25 options and more", func(t *testing.T) {
		reply := b.Question(s, step, 0, "")
		options := controlsOfKind(reply.Rows, ControlOption)
		require.Len(t, options, 25)
		assert.Equal(t, "opt_0", options[0].Value)
		assert.Equal(t, "opt_24", options[24].Value)

		more := controlsOfKind(reply.Rows, ControlMore)
		require.Len(t, more, 1)
		assert.Equal(t, 25, more[0].PageStart)
		assert.Empty(t, controlsOfKind(reply.Rows, ControlBack))

		// Rows hold at most five controls each.
		for _, row := range reply.Rows {
			assert.LessOrEqual(t, len(row), 5)
		}
	})

	t.Run("second page shows the remainder and back", func(t *testing.T) {
		reply := b.Question(s, step, 25, "")
		options := controlsOfKind(reply.Rows, ControlOption)
		require.Len(t, options, 5)
		assert.Equal(t, "opt_25", options[0].Value)

		assert.Empty(t, controlsOfKind(reply.Rows, ControlMore))
		back := controlsOfKind(reply.Rows, ControlBack)
		require.Len(t, back, 1)
		assert.Equal(t, 0, back[0].PageStart)
	})

	t.Run("out of range page start falls back to first page", func(t *testing.T) {
		reply := b.Question(s, step, 999, "")
		options := controlsOfKind(reply.Rows, ControlOption)
		require.Len(t, options, 25)
		assert.Equal(t, "opt_0", options[0].Value)
	})
}

// TestQuestion_PendingSurvivesPages verifies toggled options stay marked on
// whichever page they appear.
func TestQuestion_PendingSurvivesPages(t *testing.T) {
	b, _, res := testBuilder(t)
	s := session.New("u1", "alice", []string{"networking"})
	step := res.NextStep(s)
	s.TogglePending("opt_3")
	s.TogglePending("opt_27")

	first := b.Question(s, step, 0, "")
	assert.Contains(t, first.Text, "**Currently selected:** Option 3, Option 27")
	for _, ctl := range controlsOfKind(first.Rows, ControlOption) {
		assert.Equal(t, ctl.Value == "opt_3", ctl.Selected, "option %s", ctl.Value)
		if ctl.Selected {
			assert.Equal(t, StyleSuccess, ctl.Style)
		}
	}

	second := b.Question(s, step, 25, "")
	assert.Contains(t, second.Text, "**Currently selected:** Option 3, Option 27")
	for _, ctl := range controlsOfKind(second.Rows, ControlOption) {
		assert.Equal(t, ctl.Value == "opt_27", ctl.Selected, "option %s", ctl.Value)
	}
}

// TestQuestion_SubmitLabel verifies the continue/complete switch.
func TestQuestion_SubmitLabel(t *testing.T) {
	b, _, res := testBuilder(t)

	t.Run("multi question mid-form shows continue", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"networking", "finding_a_job"})
		step := res.NextStep(s)
		require.Equal(t, "networking", step.Category)

		reply := b.Question(s, step, 0, "")
		submit := controlsOfKind(reply.Rows, ControlSubmit)
		require.Len(t, submit, 1)
		assert.Equal(t, "Continue", submit[0].Label)
		assert.Equal(t, StylePrimary, submit[0].Style)
	})

	t.Run("final multi question shows complete form", func(t *testing.T) {
		s := session.New("u1", "alice", []string{"networking"})
		step := res.NextStep(s)

		reply := b.Question(s, step, 0, "")
		submit := controlsOfKind(reply.Rows, ControlSubmit)
		require.Len(t, submit, 1)
		assert.Equal(t, "Complete Form", submit[0].Label)
		assert.Equal(t, StyleSuccess, submit[0].Style)
	})
}

// TestGoalDraft verifies the entry screen rendering.
func TestGoalDraft(t *testing.T) {
	b, _, _ := testBuilder(t)

	t.Run("empty draft shows the welcome text", func(t *testing.T) {
		reply := b.GoalDraft(nil)
		assert.Contains(t, reply.Text, "Welcome!")
		assert.True(t, reply.Replace)

		goals := controlsOfKind(reply.Rows, ControlGoal)
		require.Len(t, goals, 2)
		for _, g := range goals {
			assert.False(t, g.Selected)
			assert.Equal(t, StyleSecondary, g.Style)
		}
	})

	t.Run("selected goals are listed and highlighted", func(t *testing.T) {
		reply := b.GoalDraft([]string{"networking"})
		assert.Equal(t, "Selected: Networking", reply.Text)

		for _, g := range controlsOfKind(reply.Rows, ControlGoal) {
			assert.Equal(t, g.Value == "networking", g.Selected)
		}
	})

	t.Run("final row carries continue and delete", func(t *testing.T) {
		reply := b.GoalDraft(nil)
		last := reply.Rows[len(reply.Rows)-1]
		require.Len(t, last, 2)
		assert.Equal(t, ControlSubmitGoals, last[0].Kind)
		assert.Equal(t, "Continue", last[0].Label)
		assert.Equal(t, ControlCancel, last[1].Kind)
		assert.Equal(t, "Delete Form", last[1].Label)
		assert.Equal(t, StyleDanger, last[1].Style)
	})
}

// TestProgressLine verifies percentage math inside the rendered text.
func TestProgressLine(t *testing.T) {
	b, _, res := testBuilder(t)
	s := session.New("u1", "alice", []string{"finding_a_job", "networking"})
	s.AdvanceCategory()
	step := res.NextStep(s)
	require.Equal(t, "networking", step.Category)

	reply := b.Question(s, step, 0, "")
	assert.Contains(t, reply.Text, "📊 **Progress:** 1/2 questions (50%) | Category 2/2")
}
