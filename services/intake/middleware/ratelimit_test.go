// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllow verifies per-user token buckets.
func TestAllow(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{EventsPerSecond: 1, Burst: 2})

	assert.True(t, r.Allow("u1"))
	assert.True(t, r.Allow("u1"))
	assert.False(t, r.Allow("u1"))

	// Another user has their own bucket.
	assert.True(t, r.Allow("u2"))
}

func testEngine(r *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	grp := engine.Group("/v1/interactions")
	grp.Use(r.Middleware())
	grp.POST("", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bind failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "user_id": body["user_id"]})
	})
	return engine
}

func post(engine *gin.Engine, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/interactions", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// TestMiddleware_OverLimit verifies the 429 response.
func TestMiddleware_OverLimit(t *testing.T) {
	engine := testEngine(NewRateLimiter(RateLimitConfig{EventsPerSecond: 1, Burst: 1}))

	w := post(engine, `{"user_id":"u1","action":"start_form"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(engine, `{"user_id":"u1","action":"start_form"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "rate_limited", out["status"])
}

// TestMiddleware_RestoresBody verifies the handler can still bind the
// probed body.
func TestMiddleware_RestoresBody(t *testing.T) {
	engine := testEngine(NewRateLimiter(RateLimitConfig{}))

	w := post(engine, `{"user_id":"u1","action":"start_form"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "u1", out["user_id"])
}

// TestMiddleware_NoUserID verifies unparseable requests pass through to
// downstream validation.
func TestMiddleware_NoUserID(t *testing.T) {
	engine := testEngine(NewRateLimiter(RateLimitConfig{EventsPerSecond: 1, Burst: 1}))

	// No user id: never limited, handled downstream.
	for i := 0; i < 3; i++ {
		w := post(engine, `{"action":"start_form"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Malformed JSON passes through the limiter and fails binding.
	w := post(engine, `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
