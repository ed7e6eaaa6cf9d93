// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/beaconforge/intakeflow/cmd/intakeflow/config"
	"github.com/beaconforge/intakeflow/services/intake"
	"github.com/beaconforge/intakeflow/services/intake/roles"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := serviceConfig(config.Global)

		slog.Info("Starting intake service",
			"port", cfg.Port,
			"store", cfg.StoreBackend,
			"catalog", cfg.CatalogPath,
		)

		svc, err := intake.New(cfg, nil)
		if err != nil {
			return fmt.Errorf("failed to create intake service: %w", err)
		}
		return svc.Run()
	},
}

// serviceConfig maps the file configuration onto the service config.
func serviceConfig(fc config.IntakeConfig) intake.Config {
	return intake.Config{
		Port:               fc.Server.Port,
		GinMode:            fc.Server.GinMode,
		CatalogPath:        fc.Catalog.Path,
		StoreBackend:       fc.Store.Backend,
		BadgerPath:         fc.Store.BadgerPath,
		RedisURL:           fc.Store.RedisURL,
		SinkURL:            fc.Sink.URL,
		SinkAuthToken:      fc.Sink.AuthToken,
		RoleDirectoryURL:   fc.Roles.DirectoryURL,
		RoleDirectoryToken: fc.Roles.DirectoryToken,
		Roles: roles.Config{
			Pending:  fc.Roles.Pending,
			Incoming: fc.Roles.Incoming,
			Verified: fc.Roles.Verified,
		},
		EnableTracing: fc.Observability.Tracing,
		OTelEndpoint:  fc.Observability.OTelEndpoint,
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
