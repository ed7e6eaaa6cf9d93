// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sink delivers completed form submissions to an external
// webhook endpoint.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/beaconforge/intakeflow/pkg/extensions"
)

// ErrNotConfigured means the sink has no endpoint URL.
var ErrNotConfigured = errors.New("response sink not configured")

// Config holds the sink endpoint settings.
type Config struct {
	// URL is the webhook endpoint. Empty disables delivery.
	URL string

	// AuthToken, when set, is sent as a bearer token.
	AuthToken string

	// Timeout bounds each delivery attempt. Default: 10s.
	Timeout time.Duration

	// Retries is the total number of delivery attempts. Default: 3.
	Retries int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	return c
}

// Client posts submissions to the configured endpoint with retries.
//
// Attempts back off exponentially: 2s, 4s. A response status in the
// 2xx range counts as delivered; anything else is retried.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a Client. A nil logger falls back to slog.Default.
func NewClient(cfg Config, log *slog.Logger) *Client {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Submit delivers one completed form, retrying transient failures.
func (c *Client) Submit(ctx context.Context, sub extensions.FormSubmission) error {
	if c.cfg.URL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			c.log.Warn("sink delivery failed, retrying",
				"submission_id", sub.SubmissionID, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = c.post(ctx, body); lastErr == nil {
			c.log.Info("submission delivered",
				"submission_id", sub.SubmissionID, "user_id", sub.UserID, "attempts", attempt)
			return nil
		}
	}
	return fmt.Errorf("sink delivery failed after %d attempts: %w", c.cfg.Retries, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink returned status %d", resp.StatusCode)
	}
	return nil
}

var _ extensions.ResponseSink = (*Client)(nil)
