// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconforge/intakeflow/services/intake/datatypes"
	"github.com/beaconforge/intakeflow/services/intake/roles"
)

// HandleMemberJoin grants a new member the pending role.
func HandleMemberJoin(rs *roles.Service) gin.HandlerFunc {
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
		res := rs.HandleUserJoin(c.Request.Context(), req.UserID)
		c.JSON(http.StatusOK, transitionResponse(res))
	}
}

// HandleRulesAcceptance trades the pending role for the incoming role.
func HandleRulesAcceptance(rs *roles.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.RulesAcceptanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res := rs.HandleRulesAcceptance(c.Request.Context(), req.UserID)
		c.JSON(http.StatusOK, transitionResponse(res))
	}
}

func transitionResponse(res roles.Result) datatypes.RoleTransitionResponse {
	out := datatypes.RoleTransitionResponse{
		Added:   res.Added,
		Removed: res.Removed,
		Success: res.Success,
	}
	for _, err := range res.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}
