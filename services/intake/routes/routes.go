// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/handlers"
	"github.com/beaconforge/intakeflow/services/intake/middleware"
	"github.com/beaconforge/intakeflow/services/intake/roles"
	"github.com/beaconforge/intakeflow/services/intake/router"
	"github.com/beaconforge/intakeflow/services/intake/session"
)

// SetupRoutes wires the intake endpoints onto the engine.
func SetupRoutes(engine *gin.Engine, rt *router.Router, store session.Store,
	res *flow.Resolver, rs *roles.Service, limiter *middleware.RateLimiter,
	enableMetrics bool) {

	engine.GET("/health", handlers.HealthCheck)
	if enableMetrics {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API version 1 group
	v1 := engine.Group("/v1")
	{
		interactions := v1.Group("/interactions")
		if limiter != nil {
			interactions.Use(limiter.Middleware())
		}
		interactions.POST("", handlers.HandleInteraction(rt))

		v1.POST("/forms/start", handlers.HandleStartForm(rt))

		members := v1.Group("/members")
		{
			members.POST("/join", handlers.HandleMemberJoin(rs))
			members.POST("/rules", handlers.HandleRulesAcceptance(rs))
		}

		// Moderation routes
		admin := v1.Group("/admin")
		{
			admin.DELETE("/forms/:userId", handlers.HandleDeleteForm(store))
			admin.DELETE("/forms/:userId/completion", handlers.HandleClearCompletion(store))
			admin.GET("/forms/:userId/progress", handlers.HandleGetProgress(store, res))
			admin.POST("/reset", handlers.HandleReset(store))
		}
	}
}
