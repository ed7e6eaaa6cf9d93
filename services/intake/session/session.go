// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session holds a user's in-progress traversal of the intake form
// and the stores that keep it between stateless interaction events.
package session

// Answer is one recorded response, keyed by (category, question id) because
// question ids are only unique within their category.
type Answer struct {
	Category   string   `json:"category"`
	QuestionID string   `json:"questionId"`
	Values     []string `json:"values"`
}

// Session is the complete form state for one user. At most one live Session
// exists per user at a time.
//
// SelectedGoals is kept in canonical trigger order, not click order.
// CategoryIndex cursors into SelectedGoals; QuestionIndex into the active
// category's question list. The form is complete once CategoryIndex has
// walked past the last selected goal.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`

	SelectedGoals []string `json:"selectedGoals"`
	CategoryIndex int      `json:"categoryIndex"`
	QuestionIndex int      `json:"questionIndex"`

	// Answers grow in insertion order and are never overwritten; a repeat
	// submission for an already-answered question appends values.
	Answers []Answer `json:"answers"`

	// Pending is the toggled option set for the in-progress multi-choice
	// question, in toggle order. Cleared on every question or category
	// transition.
	Pending []string `json:"pending"`

	// Completing marks that the completion pipeline owns this session.
	// While set, cancellation and repeat submissions are refused.
	Completing bool `json:"completing"`
}

// New creates a Session positioned at the first question of the first goal.
// Goals must already be in canonical order.
func New(userID, username string, goals []string) *Session {
	return &Session{
		UserID:        userID,
		Username:      username,
		SelectedGoals: goals,
	}
}

// Complete reports whether every selected goal's category has been visited.
func (s *Session) Complete() bool {
	return s.CategoryIndex >= len(s.SelectedGoals)
}

// CurrentGoal returns the goal value the cursor points at.
func (s *Session) CurrentGoal() (string, bool) {
	if s.Complete() {
		return "", false
	}
	return s.SelectedGoals[s.CategoryIndex], true
}

// TogglePending flips membership of value in the pending selection and
// reports whether the value is selected afterwards.
func (s *Session) TogglePending(value string) bool {
	for i, v := range s.Pending {
		if v == value {
			s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
			return false
		}
	}
	s.Pending = append(s.Pending, value)
	return true
}

// PendingSelected reports whether value is currently toggled on.
func (s *Session) PendingSelected(value string) bool {
	for _, v := range s.Pending {
		if v == value {
			return true
		}
	}
	return false
}

// ClearPending drops the pending selection. Called on every transition so a
// selection never leaks across questions.
func (s *Session) ClearPending() {
	s.Pending = nil
}

// AddAnswer records values for (category, questionID). Values for an
// already-answered question are appended, preserving insertion order.
func (s *Session) AddAnswer(category, questionID string, values []string) {
	for i := range s.Answers {
		if s.Answers[i].Category == category && s.Answers[i].QuestionID == questionID {
			s.Answers[i].Values = append(s.Answers[i].Values, values...)
			return
		}
	}
	recorded := make([]string, len(values))
	copy(recorded, values)
	s.Answers = append(s.Answers, Answer{Category: category, QuestionID: questionID, Values: recorded})
}

// Answer returns the recorded values for (category, questionID).
func (s *Session) Answer(category, questionID string) ([]string, bool) {
	for _, a := range s.Answers {
		if a.Category == category && a.QuestionID == questionID {
			return a.Values, true
		}
	}
	return nil, false
}

// AdvanceQuestion moves the cursor to the next question in the current
// category and clears the pending selection.
func (s *Session) AdvanceQuestion() {
	s.QuestionIndex++
	s.ClearPending()
}

// AdvanceCategory moves the cursor to the next selected goal, resetting the
// question cursor and pending selection.
func (s *Session) AdvanceCategory() {
	s.CategoryIndex++
	s.QuestionIndex = 0
	s.ClearPending()
}

// ResponsesByCategory groups recorded answers as category → question id →
// values, the nesting the response sink payload uses.
func (s *Session) ResponsesByCategory() map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, a := range s.Answers {
		m, ok := out[a.Category]
		if !ok {
			m = make(map[string][]string)
			out[a.Category] = m
		}
		m[a.QuestionID] = append(m[a.QuestionID], a.Values...)
	}
	return out
}
