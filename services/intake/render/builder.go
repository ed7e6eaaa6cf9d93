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

	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// Config bounds how many controls one message may carry.
type Config struct {
	// PageSize is the maximum number of option controls per page.
	// Default: 25, the platform's per-message choice limit.
	PageSize int

	// RowSize is the maximum controls per row. Default: 5.
	RowSize int
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = 25
	}
	if c.RowSize <= 0 {
		c.RowSize = 5
	}
	return c
}

// Builder renders questions and the goal entry screen.
type Builder struct {
	cat *catalog.Catalog
	res *flow.Resolver
	cfg Config
}

// NewBuilder creates a Builder over the catalog and resolver.
func NewBuilder(cat *catalog.Catalog, res *flow.Resolver, cfg Config) *Builder {
	return &Builder{cat: cat, res: res, cfg: cfg.withDefaults()}
}

// Question renders the question at the session cursor.
//
// pageStart selects which slice of options is visible; the pending
// selection survives page switches and is marked selected wherever the
// option is on screen. errMsg, when non-empty, is prepended as a warning
// above the prompt and the rest of the view is left untouched.
func (b *Builder) Question(s *session.Session, step flow.Step, pageStart int, errMsg string) Reply {
	q := step.Question
	if pageStart < 0 || pageStart >= len(q.Options) {
		pageStart = 0
	}

	var text strings.Builder
	if errMsg != "" {
		fmt.Fprintf(&text, "⚠️ %s\n\n", errMsg)
	}
	fmt.Fprintf(&text, "## %s\n\n", b.cat.Title(step.Category))
	fmt.Fprintf(&text, "**Question %d:** %s\n\n", step.QuestionIndex+1, q.Prompt)
	if q.Description != "" {
		fmt.Fprintf(&text, "*%s*\n\n", q.Description)
	}
	if len(s.Pending) > 0 {
		fmt.Fprintf(&text, "**Currently selected:** %s\n\n", strings.Join(b.pendingLabels(s, q), ", "))
	}
	if q.Kind == catalog.KindMulti {
		text.WriteString("Please make your selections below:")
	} else {
		text.WriteString("Please make your selection below:")
	}
	text.WriteString(b.progressLine(s))

	end := pageStart + b.cfg.PageSize
	if end > len(q.Options) {
		end = len(q.Options)
	}
	rows := b.optionRows(q, step, pageStart, end, s)

	var nav []Control
	if end < len(q.Options) {
		nav = append(nav, Control{
			Kind:       ControlMore,
			Label:      "More Options",
			Category:   step.Category,
			QuestionID: q.ID,
			PageStart:  end,
			Style:      StyleSecondary,
		})
	}
	if pageStart > 0 {
		nav = append(nav, Control{
			Kind:       ControlBack,
			Label:      "Back to Main Options",
			Category:   step.Category,
			QuestionID: q.ID,
			PageStart:  0,
			Style:      StyleSecondary,
		})
	}
	if q.Kind == catalog.KindMulti {
		submit := Control{
			Kind:       ControlSubmit,
			Label:      "Continue",
			Category:   step.Category,
			QuestionID: q.ID,
			Style:      StylePrimary,
		}
		if b.res.IsLastQuestion(s) {
			submit.Label = "Complete Form"
			submit.Style = StyleSuccess
		}
		nav = append(nav, submit)
	}
	if len(nav) > 0 {
		rows = append(rows, b.chunk(nav)...)
	}

	return Reply{Text: text.String(), Rows: rows}
}

// GoalDraft renders the entry screen with the toggled goal set.
func (b *Builder) GoalDraft(draft []string) Reply {
	q := b.cat.GoalQuestion()

	selected := make(map[string]bool, len(draft))
	for _, g := range draft {
		selected[g] = true
	}

	var text strings.Builder
	if len(draft) == 0 {
		text.WriteString("Welcome! Please select your main goals for joining (you can select multiple):")
	} else {
		labels := make([]string, 0, len(draft))
		for _, g := range draft {
			if opt, ok := q.Option(g); ok {
				labels = append(labels, opt.Label)
			} else {
				labels = append(labels, g)
			}
		}
		fmt.Fprintf(&text, "Selected: %s", strings.Join(labels, ", "))
	}

	var buttons []Control
	for _, opt := range q.Options {
		style := StyleSecondary
		if selected[opt.Value] {
			style = StyleSuccess
		}
		buttons = append(buttons, Control{
			Kind:     ControlGoal,
			Label:    opt.Label,
			Value:    opt.Value,
			Selected: selected[opt.Value],
			Style:    style,
		})
	}
	rows := b.chunk(buttons)
	rows = append(rows, []Control{
		{Kind: ControlSubmitGoals, Label: "Continue", Style: StylePrimary},
		{Kind: ControlCancel, Label: "Delete Form", Style: StyleDanger},
	})

	return Reply{Text: text.String(), Rows: rows, Replace: true}
}

func (b *Builder) optionRows(q catalog.Question, step flow.Step, start, end int, s *session.Session) [][]Control {
	var buttons []Control
	for _, opt := range q.Options[start:end] {
		on := s.PendingSelected(opt.Value)
		style := StyleSecondary
		if on {
			style = StyleSuccess
		}
		buttons = append(buttons, Control{
			Kind:       ControlOption,
			Label:      opt.Label,
			Value:      opt.Value,
			Category:   step.Category,
			QuestionID: q.ID,
			PageStart:  start,
			Selected:   on,
			Style:      style,
		})
	}
	return b.chunk(buttons)
}

func (b *Builder) pendingLabels(s *session.Session, q catalog.Question) []string {
	labels := make([]string, 0, len(s.Pending))
	for _, v := range s.Pending {
		if opt, ok := q.Option(v); ok {
			labels = append(labels, opt.Label)
		} else {
			labels = append(labels, v)
		}
	}
	return labels
}

// progressLine recomputes the whole-form progress on every render; counts
// depend on the catalog walk and are not cached anywhere.
func (b *Builder) progressLine(s *session.Session) string {
	completed, total := b.res.Progress(s)
	pct := 0
	if total > 0 {
		pct = completed * 100 / total
	}
	return fmt.Sprintf("\n\n📊 **Progress:** %d/%d questions (%d%%) | Category %d/%d",
		completed, total, pct, s.CategoryIndex+1, len(s.SelectedGoals))
}

func (b *Builder) chunk(controls []Control) [][]Control {
	var rows [][]Control
	for i := 0; i < len(controls); i += b.cfg.RowSize {
		end := i + b.cfg.RowSize
		if end > len(controls) {
			end = len(controls)
		}
		rows = append(rows, controls[i:end])
	}
	return rows
}
