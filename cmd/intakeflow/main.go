// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command intakeflow runs the onboarding form service.
//
// # Environment Variables
//
//   - INTAKE_SINK_URL: webhook endpoint for completed forms
//   - INTAKE_SINK_TOKEN: bearer token for the sink endpoint
//   - INTAKE_ROLE_DIRECTORY_URL: role directory API root
//   - INTAKE_ROLE_DIRECTORY_TOKEN: bearer token for the directory
//   - INTAKE_REDIS_URL: redis connection URL for the redis store
//
// # Usage
//
//	# Build
//	go build -o intakeflow ./cmd/intakeflow
//
//	# Run the server
//	./intakeflow serve
//
//	# Validate a catalog file
//	./intakeflow catalog check configs/catalog.yaml
package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/beaconforge/intakeflow/cmd/intakeflow/config"
	"github.com/beaconforge/intakeflow/pkg/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "intakeflow",
	Short: "Onboarding form service",
	Long:  "intakeflow runs the branching onboarding questionnaire service and its admin tooling.",
}

func main() {
	logger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		Service: "intake",
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default intakeflow.yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return config.Load(configPath)
	}
}
