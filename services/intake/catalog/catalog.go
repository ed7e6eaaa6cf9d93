// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package catalog provides the read-only question catalog for the intake form.
//
// # Description
//
// The catalog holds the goal question shown at form entry, the per-category
// question lists, and the trigger table that maps a selected goal value to a
// category and fixes the canonical traversal order. It is loaded once at
// startup and never mutated afterwards, so all lookups are safe for
// concurrent use without locking.
//
// # Failure Posture
//
// Lookups never fail hard. An unmapped goal or an empty category reports
// "not found" and callers are expected to skip that step; resolution gaps
// are a data problem, not a runtime fault.
package catalog

import (
	"sort"
)

// QuestionKind distinguishes how a question is answered.
type QuestionKind string

const (
	// KindSingle questions record the first clicked option and advance
	// immediately, without an explicit submit.
	KindSingle QuestionKind = "single"

	// KindMulti questions accumulate toggled options until the user submits.
	KindMulti QuestionKind = "multi"
)

// Option is one selectable choice within a Question.
type Option struct {
	// Label is the display text shown on the choice control.
	Label string `yaml:"label" validate:"required"`

	// Value identifies the option; unique within its question.
	Value string `yaml:"value" validate:"required"`

	// Description is optional helper text for the option.
	Description string `yaml:"description,omitempty"`

	// FreeText marks options whose value expects a follow-up text answer.
	// Only the flag is carried today; no text capture is wired yet.
	FreeText bool `yaml:"freeText,omitempty"`

	// RoleGrant names a role to award when this option is selected.
	RoleGrant string `yaml:"roleGrant,omitempty"`
}

// Question is an ordered set of options under a single prompt.
//
// Question ids are only guaranteed unique within their category, which is
// why responses are keyed by (category, question id) throughout the engine.
type Question struct {
	ID          string       `yaml:"id" validate:"required"`
	Prompt      string       `yaml:"prompt" validate:"required"`
	Description string       `yaml:"description,omitempty"`
	Kind        QuestionKind `yaml:"kind" validate:"required,oneof=single multi"`
	Options     []Option     `yaml:"options" validate:"required,min=1,dive"`
}

// Option returns the option with the given value, if declared.
func (q Question) Option(value string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Trigger maps a goal value to the category it unlocks. The order of
// triggers in the catalog file is the canonical traversal order.
type Trigger struct {
	Goal     string `yaml:"goal" validate:"required"`
	Category string `yaml:"category" validate:"required"`
}

// Catalog is the immutable question data for one deployment.
type Catalog struct {
	goalQuestion Question
	defaultGoal  string
	categories   map[string][]Question
	titles       map[string]string
	triggers     []Trigger
	rank         map[string]int
	goalRoles    map[string]string
}

// GoalQuestion returns the multi-choice question presented at form entry.
func (c *Catalog) GoalQuestion() Question {
	return c.goalQuestion
}

// DefaultGoal returns the goal value pre-selected on a fresh form, or ""
// when the deployment declares none.
func (c *Catalog) DefaultGoal() string {
	return c.defaultGoal
}

// CategoryFor resolves a goal value to its category name via the trigger
// table. The second return is false for unmapped goals.
func (c *Catalog) CategoryFor(goal string) (string, bool) {
	for _, t := range c.triggers {
		if t.Goal == goal {
			return t.Category, true
		}
	}
	return "", false
}

// QuestionsIn returns the ordered question list for a category. A nil slice
// means the category is unknown or empty; callers skip it either way.
func (c *Catalog) QuestionsIn(category string) []Question {
	return c.categories[category]
}

// Lookup finds a question by (category, id).
func (c *Catalog) Lookup(category, questionID string) (Question, bool) {
	for _, q := range c.categories[category] {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// Title returns the display heading for a category, falling back to the
// category name itself.
func (c *Catalog) Title(category string) string {
	if t, ok := c.titles[category]; ok {
		return t
	}
	return category
}

// CanonicalOrder returns the rank of a goal in the trigger table. Goals the
// table does not know sort after every known goal.
func (c *Catalog) CanonicalOrder(goal string) int {
	if r, ok := c.rank[goal]; ok {
		return r
	}
	return len(c.triggers)
}

// SortGoals returns a copy of goals ordered by canonical trigger order,
// independent of the order the user clicked them in. Unknown goals keep
// their relative selection order at the tail.
func (c *Catalog) SortGoals(goals []string) []string {
	out := make([]string, len(goals))
	copy(out, goals)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CanonicalOrder(out[i]) < c.CanonicalOrder(out[j])
	})
	return out
}

// GoalRole returns the role granted for selecting a goal, if any.
func (c *Catalog) GoalRole(goal string) (string, bool) {
	r, ok := c.goalRoles[goal]
	return r, ok
}

// Triggers returns the trigger table in canonical order.
func (c *Catalog) Triggers() []Trigger {
	out := make([]Trigger, len(c.triggers))
	copy(out, c.triggers)
	return out
}
