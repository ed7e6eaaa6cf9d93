// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// catalogValidate checks structural constraints on loaded catalog data.
var catalogValidate = validator.New()

// File is the on-disk catalog document.
//
// # Format
//
//	goals:
//	  id: main_goals
//	  prompt: What are your main goals?
//	  kind: multi
//	  options:
//	    - {label: "...", value: best_version, roleGrant: "Self Improvement"}
//	defaultGoal: best_version
//	titles:
//	  job-seeker: "Job Seeker"
//	categories:
//	  job-seeker:
//	    - id: job_status
//	      prompt: ...
//	      kind: single
//	      options: [...]
//	triggers:
//	  - {goal: finding_a_job, category: job-seeker}
//
// Trigger order is load-bearing: it is the canonical traversal order used to
// sort a user's selected goals.
type File struct {
	Goals       Question              `yaml:"goals" validate:"required"`
	DefaultGoal string                `yaml:"defaultGoal,omitempty"`
	Titles      map[string]string     `yaml:"titles,omitempty"`
	Categories  map[string][]Question `yaml:"categories" validate:"required"`
	Triggers    []Trigger             `yaml:"triggers" validate:"required,min=1,dive"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return New(f)
}

// New builds a Catalog from an already-parsed File. Exposed separately so
// tests can construct catalogs without touching the filesystem.
func New(f File) (*Catalog, error) {
	if err := catalogValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}
	if err := checkQuestion("goals", f.Goals); err != nil {
		return nil, err
	}
	for name, qs := range f.Categories {
		seen := make(map[string]bool, len(qs))
		for _, q := range qs {
			if err := catalogValidate.Struct(q); err != nil {
				return nil, fmt.Errorf("category %q question %q: %w", name, q.ID, err)
			}
			if seen[q.ID] {
				return nil, fmt.Errorf("category %q: duplicate question id %q", name, q.ID)
			}
			seen[q.ID] = true
			if err := checkQuestion(name, q); err != nil {
				return nil, err
			}
		}
	}

	c := &Catalog{
		goalQuestion: f.Goals,
		defaultGoal:  f.DefaultGoal,
		categories:   f.Categories,
		titles:       f.Titles,
		triggers:     f.Triggers,
		rank:         make(map[string]int, len(f.Triggers)),
		goalRoles:    make(map[string]string, len(f.Goals.Options)),
	}
	for i, t := range f.Triggers {
		if _, dup := c.rank[t.Goal]; dup {
			return nil, fmt.Errorf("trigger table: duplicate goal %q", t.Goal)
		}
		c.rank[t.Goal] = i
		// A trigger pointing at a missing category is tolerated; the
		// resolver skips it at runtime.
		if _, ok := f.Categories[t.Category]; !ok {
			slog.Warn("catalog trigger references unknown category",
				"goal", t.Goal, "category", t.Category)
		}
	}
	for _, opt := range f.Goals.Options {
		if opt.RoleGrant != "" {
			c.goalRoles[opt.Value] = opt.RoleGrant
		}
	}
	if f.DefaultGoal != "" {
		if _, ok := f.Goals.Option(f.DefaultGoal); !ok {
			return nil, fmt.Errorf("defaultGoal %q is not a goal option", f.DefaultGoal)
		}
	}
	return c, nil
}

// checkQuestion enforces option value uniqueness within one question.
func checkQuestion(scope string, q Question) error {
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt.Value] {
			return fmt.Errorf("%s question %q: duplicate option value %q", scope, q.ID, opt.Value)
		}
		seen[opt.Value] = true
	}
	return nil
}
