// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package router dispatches interaction events against form sessions.
//
// # Description
//
// The router is the single entry point for everything a user does with
// a form: starting it, toggling goals and options, paging, submitting,
// and deleting. Each event carries its target (category, question)
// explicitly. An event whose target no longer matches the session
// cursor is a redelivery or a click on an outdated message; it
// re-renders the current question instead of mutating state, which
// keeps delivery-level retries harmless.
//
// Completion runs at most once per session. The session's Completing
// flag is persisted before the pipeline starts, and every other event
// for that user is refused until the pipeline deletes the session.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/observability"
	"github.com/beaconforge/intakeflow/services/intake/render"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// ErrDuplicateEvent marks a redelivered event id. Callers should
// acknowledge it without sending a new reply.
var ErrDuplicateEvent = errors.New("duplicate event")

// Completer runs the end-of-form pipeline for a finished session.
type Completer interface {
	Complete(ctx context.Context, s *session.Session) error
}

// Router dispatches events to session mutations and renders replies.
type Router struct {
	store session.Store
	cat   *catalog.Catalog
	res   *flow.Resolver
	build *render.Builder
	comp  Completer
	log   *slog.Logger
	met   *observability.Metrics

	seen *seenSet
}

// New creates a Router. The completer may be nil when completion is
// handled elsewhere (tests); metrics may be nil to disable recording.
func New(store session.Store, cat *catalog.Catalog, res *flow.Resolver, build *render.Builder, comp Completer, log *slog.Logger, met *observability.Metrics) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		store: store,
		cat:   cat,
		res:   res,
		build: build,
		comp:  comp,
		log:   log,
		met:   met,
		seen:  newSeenSet(1024),
	}
}

// Dispatch handles one event. eventID, when non-empty, is the delivery
// id used to drop redeliveries; a duplicate returns ErrDuplicateEvent.
// An id is recorded only after the event was handled without error, so
// a gateway retry of a delivery that hit a transient failure is
// processed rather than dropped.
func (r *Router) Dispatch(ctx context.Context, eventID string, ev Event) (render.Reply, error) {
	if eventID != "" && r.seen.has(eventID) {
		if r.met != nil {
			r.met.DuplicateEvents.Inc()
		}
		r.log.Debug("dropping redelivered event", "event_id", eventID, "user_id", ev.User())
		return render.Reply{}, ErrDuplicateEvent
	}
	r.countEvent(ev)

	reply, err := r.dispatch(ctx, ev)
	if err == nil && eventID != "" {
		r.seen.add(eventID)
	}
	return reply, err
}

func (r *Router) dispatch(ctx context.Context, ev Event) (render.Reply, error) {
	switch e := ev.(type) {
	case StartForm:
		return r.startForm(ctx, e)
	case ToggleGoal:
		return r.toggleGoal(ctx, e)
	case SubmitGoals:
		return r.submitGoals(ctx, e)
	case ToggleOption:
		return r.toggleOption(ctx, e)
	case SubmitSelection:
		return r.submitSelection(ctx, e)
	case ChangePage:
		return r.changePage(ctx, e)
	case Cancel:
		return r.cancel(ctx, e)
	default:
		return render.Apology(), fmt.Errorf("unknown event type %T", ev)
	}
}

func (r *Router) startForm(ctx context.Context, ev StartForm) (render.Reply, error) {
	done, err := r.store.IsCompleted(ctx, ev.UserID)
	if err != nil {
		return render.Apology(), err
	}
	if done {
		return render.AlreadyCompleted(), nil
	}
	if _, err := r.store.Get(ctx, ev.UserID); err == nil {
		return render.ActiveExists(), nil
	} else if !errors.Is(err, session.ErrNotFound) {
		return render.Apology(), err
	}

	draft := []string{}
	if g := r.cat.DefaultGoal(); g != "" {
		draft = append(draft, g)
	}
	if err := r.store.PutDraft(ctx, ev.UserID, draft); err != nil {
		return render.Apology(), err
	}
	if r.met != nil {
		r.met.SessionsStarted.Inc()
	}
	r.log.Info("form started", "user_id", ev.UserID, "username", ev.Username)
	return r.build.GoalDraft(draft), nil
}

func (r *Router) toggleGoal(ctx context.Context, ev ToggleGoal) (render.Reply, error) {
	draft, err := r.store.GetDraft(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return render.SessionExpired(), nil
		}
		return render.Apology(), err
	}
	if _, ok := r.cat.GoalQuestion().Option(ev.Value); !ok {
		return r.build.GoalDraft(draft), nil
	}

	next := draft[:0:0]
	found := false
	for _, g := range draft {
		if g == ev.Value {
			found = true
			continue
		}
		next = append(next, g)
	}
	if !found {
		next = append(next, ev.Value)
	}
	if err := r.store.PutDraft(ctx, ev.UserID, next); err != nil {
		return render.Apology(), err
	}
	return r.build.GoalDraft(next), nil
}

func (r *Router) submitGoals(ctx context.Context, ev SubmitGoals) (render.Reply, error) {
	draft, err := r.store.GetDraft(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return render.SessionExpired(), nil
		}
		return render.Apology(), err
	}
	if len(draft) == 0 {
		reply := r.build.GoalDraft(draft)
		reply.Text = "⚠️ Please select at least one goal before continuing.\n\n" + reply.Text
		if r.met != nil {
			r.met.ValidationRejections.Inc()
		}
		return reply, nil
	}

	goals := r.cat.SortGoals(draft)
	s := session.New(ev.UserID, ev.Username, goals)
	if err := r.store.Create(ctx, s); err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			return render.ActiveExists(), nil
		}
		return render.Apology(), err
	}
	if err := r.store.DeleteDraft(ctx, ev.UserID); err != nil {
		r.log.Warn("deleting goal draft failed", "user_id", ev.UserID, "error", err)
	}
	if r.met != nil {
		r.met.SessionsActive.Inc()
	}
	r.log.Info("goals submitted", "user_id", ev.UserID, "goals", goals)

	step := r.res.NextStep(s)
	if step.Kind == flow.StepComplete {
		// Every selected goal mapped to an empty or unknown category.
		return r.finish(ctx, s)
	}
	if err := r.store.Put(ctx, s); err != nil {
		return render.Apology(), err
	}
	return r.build.Question(s, step, 0, ""), nil
}

func (r *Router) toggleOption(ctx context.Context, ev ToggleOption) (render.Reply, error) {
	s, step, reply, err := r.currentStep(ctx, ev.UserID, ev.Category, ev.QuestionID)
	if s == nil {
		return reply, err
	}

	if _, ok := step.Question.Option(ev.Value); !ok {
		return r.build.Question(s, step, ev.PageStart, ""), nil
	}

	if step.Question.Kind == catalog.KindSingle {
		s.AddAnswer(step.Category, step.Question.ID, []string{ev.Value})
		s.AdvanceQuestion()
		return r.advance(ctx, s)
	}

	s.TogglePending(ev.Value)
	if err := r.store.Put(ctx, s); err != nil {
		return render.Apology(), err
	}
	return r.build.Question(s, step, ev.PageStart, ""), nil
}

func (r *Router) submitSelection(ctx context.Context, ev SubmitSelection) (render.Reply, error) {
	s, step, reply, err := r.currentStep(ctx, ev.UserID, ev.Category, ev.QuestionID)
	if s == nil {
		return reply, err
	}

	if verr := flow.ValidateSelection(step.Question, s.Pending); verr != nil {
		if r.met != nil {
			r.met.ValidationRejections.Inc()
		}
		var rej *flow.Rejection
		if errors.As(verr, &rej) {
			return r.build.Question(s, step, 0, rej.Message), nil
		}
		return r.build.Question(s, step, 0, verr.Error()), nil
	}

	s.AddAnswer(step.Category, step.Question.ID, append([]string(nil), s.Pending...))
	s.AdvanceQuestion()
	return r.advance(ctx, s)
}

func (r *Router) changePage(ctx context.Context, ev ChangePage) (render.Reply, error) {
	s, step, reply, err := r.currentStep(ctx, ev.UserID, ev.Category, ev.QuestionID)
	if s == nil {
		return reply, err
	}
	return r.build.Question(s, step, ev.PageStart, ""), nil
}

// cancel removes the draft and session. The completion record is
// untouched: only the admin surface clears it, so a completed user
// cannot cancel their way back into the form.
func (r *Router) cancel(ctx context.Context, ev Cancel) (render.Reply, error) {
	s, err := r.store.Get(ctx, ev.UserID)
	if err == nil && s.Completing {
		return render.Busy(), nil
	}
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return render.Apology(), err
	}

	if err := r.store.DeleteDraft(ctx, ev.UserID); err != nil {
		r.log.Warn("deleting goal draft failed", "user_id", ev.UserID, "error", err)
	}
	if delErr := r.store.Delete(ctx, ev.UserID); delErr != nil {
		r.log.Warn("deleting session failed", "user_id", ev.UserID, "error", delErr)
	} else if s != nil && r.met != nil {
		r.met.SessionsActive.Dec()
	}
	if r.met != nil {
		r.met.SessionsCancelled.Inc()
	}
	r.log.Info("form deleted", "user_id", ev.UserID)
	return render.Cancelled(), nil
}

// currentStep loads the session and checks the event target against the
// cursor. A nil session in the return means the caller should return the
// reply and error as-is: either the session is gone, completion is in
// flight, or the event was stale and the current question was re-rendered.
func (r *Router) currentStep(ctx context.Context, userID, category, questionID string) (*session.Session, flow.Step, render.Reply, error) {
	s, err := r.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, flow.Step{}, render.SessionExpired(), nil
		}
		return nil, flow.Step{}, render.Apology(), err
	}
	if s.Completing {
		return nil, flow.Step{}, render.Busy(), nil
	}

	step := r.res.NextStep(s)
	if step.Kind == flow.StepComplete {
		// Cursor ran past the catalog without a submit. Finish now.
		reply, err := r.finish(ctx, s)
		return nil, flow.Step{}, reply, err
	}
	if step.Category != category || step.Question.ID != questionID {
		if r.met != nil {
			r.met.StaleEvents.Inc()
		}
		r.log.Debug("stale event target, re-rendering",
			"user_id", userID, "want_category", step.Category, "got_category", category,
			"want_question", step.Question.ID, "got_question", questionID)
		return nil, flow.Step{}, r.build.Question(s, step, 0, ""), nil
	}
	return s, step, render.Reply{}, nil
}

// advance persists the cursor after an answer and either shows the next
// question or finishes the form.
func (r *Router) advance(ctx context.Context, s *session.Session) (render.Reply, error) {
	step := r.res.NextStep(s)
	if step.Kind == flow.StepComplete {
		return r.finish(ctx, s)
	}
	if err := r.store.Put(ctx, s); err != nil {
		return render.Apology(), err
	}
	return r.build.Question(s, step, 0, ""), nil
}

// finish marks the session as completing, persists the flag, and runs
// the completion pipeline. The persisted flag refuses cancels and
// duplicate submits that race the pipeline.
func (r *Router) finish(ctx context.Context, s *session.Session) (render.Reply, error) {
	s.Completing = true
	if err := r.store.Put(ctx, s); err != nil {
		return render.Apology(), err
	}
	if r.comp == nil {
		return render.Apology(), errors.New("no completion pipeline configured")
	}
	if err := r.comp.Complete(ctx, s); err != nil {
		r.log.Error("completion pipeline failed", "user_id", s.UserID, "error", err)
		return render.Apology(), err
	}
	if r.met != nil {
		r.met.SessionsCompleted.Inc()
		r.met.SessionsActive.Dec()
	}
	return render.Completed(), nil
}

func (r *Router) countEvent(ev Event) {
	if r.met == nil {
		return
	}
	kind := "unknown"
	switch ev.(type) {
	case StartForm:
		kind = "start_form"
	case ToggleGoal:
		kind = "toggle_goal"
	case SubmitGoals:
		kind = "submit_goals"
	case ToggleOption:
		kind = "toggle_option"
	case SubmitSelection:
		kind = "submit_selection"
	case ChangePage:
		kind = "change_page"
	case Cancel:
		kind = "cancel"
	}
	r.met.EventsTotal.WithLabelValues(kind).Inc()
}

// seenSet remembers the last n event ids.
type seenSet struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	next  int
}

func newSeenSet(n int) *seenSet {
	return &seenSet{
		ids:   make(map[string]struct{}, n),
		order: make([]string, n),
	}
}

// has reports whether id was already recorded.
func (s *seenSet) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// add records id and reports whether it was new.
func (s *seenSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	if old := s.order[s.next]; old != "" {
		delete(s.ids, old)
	}
	s.order[s.next] = id
	s.next = (s.next + 1) % len(s.order)
	s.ids[id] = struct{}{}
	return true
}
