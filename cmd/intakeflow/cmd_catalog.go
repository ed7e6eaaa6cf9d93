// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beaconforge/intakeflow/cmd/intakeflow/config"
	"github.com/beaconforge/intakeflow/services/intake/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Question catalog tools",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a question catalog file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Global.Catalog.Path
		if len(args) == 1 {
			path = args[0]
		}

		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("catalog check failed: %w", err)
		}

		triggers := cat.Triggers()
		questions := 0
		for _, t := range triggers {
			questions += len(cat.QuestionsIn(t.Category))
		}
		fmt.Printf("Catalog OK: %d goals, %d triggers, %d questions\n",
			len(cat.GoalQuestion().Options), len(triggers), questions)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
	rootCmd.AddCommand(catalogCmd)
}
