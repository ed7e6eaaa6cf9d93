// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package roles moves users along the onboarding role ladder.
//
// # Description
//
// A user joins with the pending role, trades it for the incoming role
// on rules acceptance, and trades that for the verified role plus the
// roles derived from their form answers on completion. Each transition
// is applied through a RoleDirectory; individual grant or revoke
// failures are collected, never fatal, so a flaky directory degrades
// to partial role assignment instead of blocking onboarding.
package roles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beaconforge/intakeflow/pkg/extensions"
	"github.com/beaconforge/intakeflow/services/intake/observability"
)

// Config names the ladder roles.
type Config struct {
	// Pending is granted when a user joins. Default: "Pending".
	Pending string

	// Incoming replaces Pending on rules acceptance.
	// Default: "Incoming".
	Incoming string

	// Verified is granted on form completion along with the derived
	// roles. Default: "Verified".
	Verified string
}

func (c Config) withDefaults() Config {
	if c.Pending == "" {
		c.Pending = "Pending"
	}
	if c.Incoming == "" {
		c.Incoming = "Incoming"
	}
	if c.Verified == "" {
		c.Verified = "Verified"
	}
	return c
}

// Result reports what one transition changed.
type Result struct {
	// Added lists roles granted during the transition.
	Added []string

	// Removed lists roles revoked during the transition.
	Removed []string

	// Errors collects per-role failures.
	Errors []error

	// Success is true when no role change failed.
	Success bool
}

// Service applies ladder transitions through a RoleDirectory.
type Service struct {
	cfg Config
	dir extensions.RoleDirectory
	log *slog.Logger
	met *observability.Metrics
}

// NewService creates a Service. A nil directory falls back to the no-op
// implementation; a nil logger falls back to slog.Default.
func NewService(cfg Config, dir extensions.RoleDirectory, log *slog.Logger, met *observability.Metrics) *Service {
	if dir == nil {
		dir = &extensions.NopRoleDirectory{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg.withDefaults(), dir: dir, log: log, met: met}
}

// HandleUserJoin grants the pending role to a new member.
func (s *Service) HandleUserJoin(ctx context.Context, userID string) Result {
	var res Result
	s.grant(ctx, userID, s.cfg.Pending, &res)
	s.finish(userID, "join", &res)
	return res
}

// HandleRulesAcceptance trades the pending role for the incoming role.
func (s *Service) HandleRulesAcceptance(ctx context.Context, userID string) Result {
	var res Result
	s.revoke(ctx, userID, s.cfg.Pending, &res)
	s.grant(ctx, userID, s.cfg.Incoming, &res)
	s.finish(userID, "rules_acceptance", &res)
	return res
}

// HandleFormCompletion trades the incoming role for the derived roles
// and the verified role. derived keeps its given order; duplicates and
// the ladder roles themselves are skipped.
func (s *Service) HandleFormCompletion(ctx context.Context, userID string, derived []string) Result {
	var res Result
	s.revoke(ctx, userID, s.cfg.Incoming, &res)

	seen := map[string]bool{
		s.cfg.Pending:  true,
		s.cfg.Incoming: true,
		s.cfg.Verified: true,
	}
	for _, role := range derived {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		s.grant(ctx, userID, role, &res)
	}
	s.grant(ctx, userID, s.cfg.Verified, &res)
	s.finish(userID, "form_completion", &res)
	return res
}

func (s *Service) grant(ctx context.Context, userID, role string, res *Result) {
	if err := s.dir.Grant(ctx, userID, role); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("grant %q: %w", role, err))
		if s.met != nil {
			s.met.RoleChangeFailures.Inc()
		}
		return
	}
	res.Added = append(res.Added, role)
}

func (s *Service) revoke(ctx context.Context, userID, role string, res *Result) {
	if err := s.dir.Revoke(ctx, userID, role); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("revoke %q: %w", role, err))
		if s.met != nil {
			s.met.RoleChangeFailures.Inc()
		}
		return
	}
	res.Removed = append(res.Removed, role)
}

func (s *Service) finish(userID, transition string, res *Result) {
	res.Success = len(res.Errors) == 0
	if res.Success {
		s.log.Info("role transition applied",
			"user_id", userID, "transition", transition,
			"added", res.Added, "removed", res.Removed)
		return
	}
	s.log.Warn("role transition partially failed",
		"user_id", userID, "transition", transition,
		"added", res.Added, "removed", res.Removed, "errors", len(res.Errors))
}
