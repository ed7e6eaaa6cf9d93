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
	"github.com/beaconforge/intakeflow/services/intake/router"
)

// HandleStartForm begins a form outside the interaction flow, for
// gateways that expose a dedicated start command.
func HandleStartForm(rt *router.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.MemberJoinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reply, err := rt.Dispatch(c.Request.Context(), "",
			router.StartForm{UserID: req.UserID, Username: req.Username})
		if err != nil && !errors.Is(err, router.ErrDuplicateEvent) {
			slog.Error("form start failed", "user_id", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.InteractionResponse{
				Status: "error",
				Reply:  reply,
			})
			return
		}
		c.JSON(http.StatusOK, datatypes.InteractionResponse{Status: "ok", Reply: reply})
	}
}
