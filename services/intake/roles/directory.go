// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/beaconforge/intakeflow/pkg/extensions"
)

// DirectoryConfig holds the role directory API settings.
type DirectoryConfig struct {
	// BaseURL is the directory API root, e.g. "https://dir.example.com".
	BaseURL string

	// AuthToken, when set, is sent as a bearer token.
	AuthToken string

	// Timeout bounds each request. Default: 5s.
	Timeout time.Duration
}

// HTTPDirectory talks to a role directory over its REST API.
//
// Grant is PUT /v1/users/{id}/roles/{role}, Revoke is DELETE on the
// same path, Has is GET. Both mutations are idempotent on the server
// side; a 404 on DELETE and a 409 on PUT count as success.
type HTTPDirectory struct {
	cfg  DirectoryConfig
	http *http.Client
}

// NewHTTPDirectory creates a directory client.
func NewHTTPDirectory(cfg DirectoryConfig) *HTTPDirectory {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &HTTPDirectory{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Grant gives the user the named role.
func (d *HTTPDirectory) Grant(ctx context.Context, userID, role string) error {
	status, _, err := d.do(ctx, http.MethodPut, userID, role)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		return nil
	}
	return checkStatus("grant", status)
}

// Revoke takes the named role from the user.
func (d *HTTPDirectory) Revoke(ctx context.Context, userID, role string) error {
	status, _, err := d.do(ctx, http.MethodDelete, userID, role)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	return checkStatus("revoke", status)
}

// Has reports whether the user currently holds the role.
func (d *HTTPDirectory) Has(ctx context.Context, userID, role string) (bool, error) {
	status, body, err := d.do(ctx, http.MethodGet, userID, role)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusNotFound:
		return false, nil
	case http.StatusOK:
		var out struct {
			Held bool `json:"held"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return false, fmt.Errorf("decode role response: %w", err)
		}
		return out.Held, nil
	default:
		return false, checkStatus("check", status)
	}
}

func (d *HTTPDirectory) do(ctx context.Context, method, userID, role string) (int, []byte, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/roles/%s",
		d.cfg.BaseURL, url.PathEscape(userID), url.PathEscape(role))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if d.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.AuthToken)
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func checkStatus(op string, status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return fmt.Errorf("role directory %s returned status %d", op, status)
}

var _ extensions.RoleDirectory = (*HTTPDirectory)(nil)
