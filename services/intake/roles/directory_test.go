// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package roles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHTTPDirectory_Grant verifies the PUT call and idempotent conflict
// handling.
func TestHTTPDirectory_Grant(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotMethod, gotPath, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.EscapedPath()
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL, AuthToken: "secret"})
		require.NoError(t, dir.Grant(context.Background(), "u1", "Job Seeker"))

		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/v1/users/u1/roles/Job%20Seeker", gotPath)
		assert.Equal(t, "Bearer secret", gotAuth)
	})

	t.Run("conflict means already granted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		assert.NoError(t, dir.Grant(context.Background(), "u1", "Programmer"))
	})

	t.Run("server error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		err := dir.Grant(context.Background(), "u1", "Programmer")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}

// TestHTTPDirectory_Revoke verifies DELETE semantics.
func TestHTTPDirectory_Revoke(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		require.NoError(t, dir.Revoke(context.Background(), "u1", "Pending"))
		assert.Equal(t, http.MethodDelete, gotMethod)
	})

	t.Run("not found means already revoked", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		assert.NoError(t, dir.Revoke(context.Background(), "u1", "Pending"))
	})
}

// TestHTTPDirectory_Has verifies the membership check.
func TestHTTPDirectory_Has(t *testing.T) {
	t.Run("held role", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"held":true}`))
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		held, err := dir.Has(context.Background(), "u1", "Verified")
		require.NoError(t, err)
		assert.True(t, held)
	})

	t.Run("missing role", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		held, err := dir.Has(context.Background(), "u1", "Verified")
		require.NoError(t, err)
		assert.False(t, held)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(DirectoryConfig{BaseURL: srv.URL})
		_, err := dir.Has(context.Background(), "u1", "Verified")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode role response")
	})
}
