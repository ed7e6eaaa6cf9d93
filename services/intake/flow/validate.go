// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package flow contains the pure form-traversal logic: selection validation
// and the branch resolver that decides the next step from a session.
package flow

import (
	"fmt"

	"github.com/beaconforge/intakeflow/services/intake/catalog"
)

// Rejection is a recoverable validation failure. Message is written for the
// end user and is re-rendered in place above the question.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// ValidateSelection checks a candidate selection against a question's
// cardinality constraints: at least one value, and for multi-choice no more
// values than the question declares options.
//
// Single-choice questions advance on the first click and never submit
// explicitly, so in practice this guards multi-choice submission.
func ValidateSelection(q catalog.Question, selected []string) error {
	const min = 1
	if len(selected) < min {
		return &Rejection{Message: fmt.Sprintf(
			"Please select at least %d option(s). You have selected %d.", min, len(selected))}
	}
	if q.Kind == catalog.KindMulti && len(selected) > len(q.Options) {
		return &Rejection{Message: fmt.Sprintf(
			"Please select no more than %d option(s). You have selected %d.", len(q.Options), len(selected))}
	}
	return nil
}
