// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconforge/intakeflow/services/intake/datatypes"
	"github.com/beaconforge/intakeflow/services/intake/router"
)

// HandleInteraction dispatches one gateway interaction to the router.
//
// Redelivered event ids return status "duplicate" with no reply so the
// gateway leaves the existing message alone.
func HandleInteraction(rt *router.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.InteractionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ev, err := eventFromRequest(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reply, err := rt.Dispatch(c.Request.Context(), req.EventID, ev)
		if errors.Is(err, router.ErrDuplicateEvent) {
			c.JSON(http.StatusOK, datatypes.InteractionResponse{Status: "duplicate"})
			return
		}
		if err != nil {
			slog.Error("interaction dispatch failed",
				"user_id", req.UserID, "action", req.Action, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.InteractionResponse{
				Status: "error",
				Reply:  reply,
			})
			return
		}
		c.JSON(http.StatusOK, datatypes.InteractionResponse{Status: "ok", Reply: reply})
	}
}

// eventFromRequest maps the wire envelope to a typed event.
func eventFromRequest(req datatypes.InteractionRequest) (router.Event, error) {
	switch req.Action {
	case datatypes.ActionStartForm:
		return router.StartForm{UserID: req.UserID, Username: req.Username}, nil
	case datatypes.ActionToggleGoal:
		if req.Value == "" {
			return nil, fmt.Errorf("action %q requires value", req.Action)
		}
		return router.ToggleGoal{UserID: req.UserID, Value: req.Value}, nil
	case datatypes.ActionSubmitGoals:
		return router.SubmitGoals{UserID: req.UserID, Username: req.Username}, nil
	case datatypes.ActionToggleOption:
		if req.Category == "" || req.QuestionID == "" || req.Value == "" {
			return nil, fmt.Errorf("action %q requires category, question_id, and value", req.Action)
		}
		return router.ToggleOption{
			UserID:     req.UserID,
			Category:   req.Category,
			QuestionID: req.QuestionID,
			Value:      req.Value,
			PageStart:  req.PageStart,
		}, nil
	case datatypes.ActionSubmitSelection:
		if req.Category == "" || req.QuestionID == "" {
			return nil, fmt.Errorf("action %q requires category and question_id", req.Action)
		}
		return router.SubmitSelection{
			UserID:     req.UserID,
			Category:   req.Category,
			QuestionID: req.QuestionID,
		}, nil
	case datatypes.ActionChangePage:
		if req.Category == "" || req.QuestionID == "" {
			return nil, fmt.Errorf("action %q requires category and question_id", req.Action)
		}
		return router.ChangePage{
			UserID:     req.UserID,
			Category:   req.Category,
			QuestionID: req.QuestionID,
			PageStart:  req.PageStart,
		}, nil
	case datatypes.ActionCancel:
		return router.Cancel{UserID: req.UserID}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
}
