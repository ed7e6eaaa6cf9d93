// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package completion finishes a form: it derives the roles earned by
// the answers, delivers the submission to the response sink, applies
// the role transition, and retires the session.
//
// # Description
//
// The pipeline treats the sink and the role directory as best-effort.
// A failed delivery or a partial role assignment is logged and counted
// but never blocks the finish: the session is deleted and the user is
// marked completed in every case, so a user can never be trapped in a
// half-finished form by a flaky downstream.
package completion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beaconforge/intakeflow/pkg/extensions"
	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/observability"
	"github.com/beaconforge/intakeflow/services/intake/roles"
	"github.com/beaconforge/intakeflow/services/intake/sink"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// Pipeline runs the end-of-form sequence.
type Pipeline struct {
	cat   *catalog.Catalog
	store session.Store
	sink  extensions.ResponseSink
	roles *roles.Service
	audit extensions.AuditLogger
	log   *slog.Logger
	met   *observability.Metrics
}

// New creates a Pipeline. Nil sink, audit, and metrics are allowed;
// the role service must be non-nil.
func New(cat *catalog.Catalog, store session.Store, snk extensions.ResponseSink, rs *roles.Service, audit extensions.AuditLogger, log *slog.Logger, met *observability.Metrics) *Pipeline {
	if snk == nil {
		snk = &extensions.NopResponseSink{}
	}
	if audit == nil {
		audit = &extensions.NopAuditLogger{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cat: cat, store: store, sink: snk, roles: rs, audit: audit, log: log, met: met}
}

// Complete finishes the session. The session is deleted and the user
// marked completed even when the sink or the directory fails; only a
// store failure is returned as an error.
func (p *Pipeline) Complete(ctx context.Context, s *session.Session) error {
	derived := p.DeriveRoles(s)

	sub := extensions.FormSubmission{
		SubmissionID:  uuid.NewString(),
		UserID:        s.UserID,
		Username:      s.Username,
		SelectedGoals: append([]string(nil), s.SelectedGoals...),
		Responses:     s.ResponsesByCategory(),
		RolesGranted:  derived,
		CompletedAt:   time.Now().UTC(),
	}

	if err := p.sink.Submit(ctx, sub); err != nil {
		if errors.Is(err, sink.ErrNotConfigured) {
			p.log.Debug("response sink disabled, skipping delivery", "user_id", s.UserID)
		} else {
			p.log.Error("submission delivery failed",
				"user_id", s.UserID, "submission_id", sub.SubmissionID, "error", err)
			if p.met != nil {
				p.met.SinkFailures.Inc()
			}
		}
	} else if p.met != nil {
		p.met.SinkDeliveries.Inc()
	}

	res := p.roles.HandleFormCompletion(ctx, s.UserID, derived)

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	if err := p.audit.Log(ctx, extensions.AuditEvent{
		EventType: "form.complete",
		Timestamp: sub.CompletedAt,
		UserID:    s.UserID,
		Action:    "complete",
		Outcome:   outcome,
		Metadata: map[string]any{
			"submission_id": sub.SubmissionID,
			"goals":         sub.SelectedGoals,
			"roles_granted": res.Added,
		},
	}); err != nil {
		p.log.Warn("audit log failed", "user_id", s.UserID, "error", err)
	}

	if err := p.store.Delete(ctx, s.UserID); err != nil {
		return err
	}
	if err := p.store.MarkCompleted(ctx, s.UserID); err != nil {
		return err
	}
	p.log.Info("form completed",
		"user_id", s.UserID, "submission_id", sub.SubmissionID,
		"roles_derived", len(derived), "roles_added", len(res.Added))
	return nil
}

// DeriveRoles computes the role names earned by the session's answers.
//
// Goal-level grants come first, in the session's goal order, then
// option-level grants in catalog order: category by category, question
// by question, option by option. The first occurrence of a role wins;
// later duplicates are dropped.
func (p *Pipeline) DeriveRoles(s *session.Session) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(role string) {
		if role == "" || seen[role] {
			return
		}
		seen[role] = true
		out = append(out, role)
	}

	for _, goal := range s.SelectedGoals {
		if role, ok := p.cat.GoalRole(goal); ok {
			add(role)
		}
	}

	for _, goal := range s.SelectedGoals {
		category, ok := p.cat.CategoryFor(goal)
		if !ok {
			continue
		}
		for _, q := range p.cat.QuestionsIn(category) {
			values, ok := s.Answer(category, q.ID)
			if !ok {
				continue
			}
			for _, opt := range q.Options {
				if opt.RoleGrant == "" {
					continue
				}
				for _, v := range values {
					if v == opt.Value {
						add(opt.RoleGrant)
						break
					}
				}
			}
		}
	}
	return out
}
