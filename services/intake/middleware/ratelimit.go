// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the intake service.
//
// The rate limiter caps interaction throughput per user, keyed by the
// user_id in the request body, so one button-mashing user cannot starve
// the rest of the instance.
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/beaconforge/intakeflow/services/intake/datatypes"
)

// RateLimitConfig tunes the per-user limiter.
type RateLimitConfig struct {
	// EventsPerSecond is the sustained rate per user. Default: 5.
	EventsPerSecond float64

	// Burst is the short-term allowance per user. Default: 10.
	Burst int

	// MaxIdle is how long an idle user's limiter is kept before it is
	// dropped. Default: 10m.
	MaxIdle time.Duration
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.EventsPerSecond <= 0 {
		c.EventsPerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.MaxIdle <= 0 {
		c.MaxIdle = 10 * time.Minute
	}
	return c
}

type userLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter holds one token bucket per active user.
type RateLimiter struct {
	cfg   RateLimitConfig
	mu    sync.Mutex
	users map[string]*userLimiter
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:   cfg.withDefaults(),
		users: make(map[string]*userLimiter),
	}
}

// Allow reports whether the user may proceed, consuming one token.
func (r *RateLimiter) Allow(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	ul, ok := r.users[userID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(rate.Limit(r.cfg.EventsPerSecond), r.cfg.Burst)}
		r.users[userID] = ul
	}
	ul.seen = now

	if len(r.users) > 1024 {
		r.evictIdle(now)
	}
	return ul.lim.Allow()
}

// evictIdle drops limiters idle longer than MaxIdle. Caller holds mu.
func (r *RateLimiter) evictIdle(now time.Time) {
	for id, ul := range r.users {
		if now.Sub(ul.seen) > r.cfg.MaxIdle {
			delete(r.users, id)
		}
	}
}

// Middleware rejects over-limit interaction requests with 429.
//
// The body is read to find the user id, then restored so the handler
// can bind it again. Requests without a parseable user id pass through
// and fail validation downstream.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var probe struct {
			UserID string `json:"user_id"`
		}
		if jsonErr := json.Unmarshal(body, &probe); jsonErr != nil || probe.UserID == "" {
			c.Next()
			return
		}
		if !r.Allow(probe.UserID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, datatypes.InteractionResponse{
				Status: "rate_limited",
			})
			return
		}
		c.Next()
	}
}
