// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconforge/intakeflow/services/intake/datatypes"
	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// HandleDeleteForm removes a user's draft and active session so a
// moderator can unstick a broken form.
func HandleDeleteForm(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if err := store.DeleteDraft(c.Request.Context(), userID); err != nil {
			slog.Error("admin draft delete failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete form"})
			return
		}
		if err := store.Delete(c.Request.Context(), userID); err != nil {
			slog.Error("admin session delete failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete form"})
			return
		}
		slog.Info("form deleted by admin", "user_id", userID)
		c.JSON(http.StatusOK, datatypes.ResetResponse{Status: "deleted"})
	}
}

// HandleClearCompletion lets a user retake the form by removing their
// completion record.
func HandleClearCompletion(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if err := store.ClearCompleted(c.Request.Context(), userID); err != nil {
			slog.Error("admin completion clear failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear completion"})
			return
		}
		slog.Info("completion record cleared by admin", "user_id", userID)
		c.JSON(http.StatusOK, datatypes.ResetResponse{Status: "cleared"})
	}
}

// HandleGetProgress reports how far along a user's form is.
func HandleGetProgress(store session.Store, res *flow.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		s, err := store.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No active form for user"})
				return
			}
			slog.Error("admin progress lookup failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up progress"})
			return
		}

		completed, total := res.Progress(s)
		pct := 0
		if total > 0 {
			pct = completed * 100 / total
		}
		c.JSON(http.StatusOK, datatypes.ProgressResponse{
			UserID:        userID,
			Completed:     completed,
			Total:         total,
			Percent:       pct,
			CategoryIndex: s.CategoryIndex,
			CategoryCount: len(s.SelectedGoals),
			Completing:    s.Completing,
		})
	}
}

// HandleReset wipes every session, draft, and completion record.
func HandleReset(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Reset(c.Request.Context()); err != nil {
			slog.Error("admin store reset failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset store"})
			return
		}
		slog.Warn("all intake state reset by admin")
		c.JSON(http.StatusOK, datatypes.ResetResponse{Status: "reset"})
	}
}
