// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package flow

import (
	"log/slog"

	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// StepKind tags the resolver's verdict.
type StepKind int

const (
	// StepQuestion means the session has a question to show.
	StepQuestion StepKind = iota

	// StepComplete means every selected goal has been traversed.
	StepComplete
)

// Step is the resolver's answer to "what happens next".
type Step struct {
	Kind          StepKind
	Category      string
	Question      catalog.Question
	QuestionIndex int
}

// Resolver computes the next question, or completion, from a session and
// the catalog.
type Resolver struct {
	cat *catalog.Catalog
	log *slog.Logger
}

// NewResolver builds a Resolver. A nil logger falls back to slog.Default.
func NewResolver(cat *catalog.Catalog, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{cat: cat, log: log}
}

// NextStep advances the session cursor past unmapped and empty categories
// and reports the question it lands on, or completion.
//
// Skipping is an iterative loop bounded by the number of selected goals, so
// a run of bad catalog entries can never recurse the stack away. The session
// cursors are mutated in place; the caller persists the session afterwards.
func (r *Resolver) NextStep(s *session.Session) Step {
	for !s.Complete() {
		goal := s.SelectedGoals[s.CategoryIndex]
		name, ok := r.cat.CategoryFor(goal)
		if !ok {
			r.log.Warn("goal has no mapped category, skipping",
				"user_id", s.UserID, "goal", goal, "category_index", s.CategoryIndex)
			s.AdvanceCategory()
			continue
		}
		questions := r.cat.QuestionsIn(name)
		if len(questions) == 0 {
			r.log.Warn("category has no questions, skipping",
				"user_id", s.UserID, "category", name, "category_index", s.CategoryIndex)
			s.AdvanceCategory()
			continue
		}
		if s.QuestionIndex >= len(questions) {
			s.AdvanceCategory()
			continue
		}
		return Step{
			Kind:          StepQuestion,
			Category:      name,
			Question:      questions[s.QuestionIndex],
			QuestionIndex: s.QuestionIndex,
		}
	}
	return Step{Kind: StepComplete}
}

// IsLastQuestion reports whether the session sits on the final question of
// its final selected goal. The affirmative control renders as "submit"
// instead of "continue" when this is true.
func (r *Resolver) IsLastQuestion(s *session.Session) bool {
	if s.CategoryIndex != len(s.SelectedGoals)-1 {
		return false
	}
	goal := s.SelectedGoals[s.CategoryIndex]
	name, ok := r.cat.CategoryFor(goal)
	if !ok {
		return false
	}
	questions := r.cat.QuestionsIn(name)
	return len(questions) > 0 && s.QuestionIndex >= len(questions)-1
}

// Progress recomputes completed and total question counts across every
// category in the session's selected goals. Whole categories before the
// cursor count fully; the active category contributes its question index.
//
// The walk is repeated on every render on purpose: selected goals and
// per-category question counts are only knowable from the catalog.
func (r *Resolver) Progress(s *session.Session) (completed, total int) {
	for i, goal := range s.SelectedGoals {
		name, ok := r.cat.CategoryFor(goal)
		if !ok {
			continue
		}
		n := len(r.cat.QuestionsIn(name))
		total += n
		switch {
		case i < s.CategoryIndex:
			completed += n
		case i == s.CategoryIndex:
			q := s.QuestionIndex
			if q > n {
				q = n
			}
			completed += q
		}
	}
	return completed, total
}
