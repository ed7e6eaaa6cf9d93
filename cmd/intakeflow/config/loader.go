// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// Global is a singleton instance
	Global IntakeConfig
	once   sync.Once
)

// Load ensures the config is loaded into the Global variable. path
// may be empty, in which case "intakeflow.yaml" in the working
// directory is used and created on first run. Environment variables
// override secrets in the file.
func Load(path string) error {
	var err error
	once.Do(func() {
		err = loadInternal(path)
	})
	return err
}

func loadInternal(path string) error {
	if path == "" {
		path = "intakeflow.yaml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read the config file: %w", err)
	}
	if err = yaml.Unmarshal(data, &Global); err != nil {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	applyEnvOverrides()
	return nil
}

// applyEnvOverrides lets deployments keep secrets out of the file.
func applyEnvOverrides() {
	if v := os.Getenv("INTAKE_SINK_URL"); v != "" {
		Global.Sink.URL = v
	}
	if v := os.Getenv("INTAKE_SINK_TOKEN"); v != "" {
		Global.Sink.AuthToken = v
	}
	if v := os.Getenv("INTAKE_ROLE_DIRECTORY_URL"); v != "" {
		Global.Roles.DirectoryURL = v
	}
	if v := os.Getenv("INTAKE_ROLE_DIRECTORY_TOKEN"); v != "" {
		Global.Roles.DirectoryToken = v
	}
	if v := os.Getenv("INTAKE_REDIS_URL"); v != "" {
		Global.Store.RedisURL = v
	}
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create the config directory: %w", err)
		}
	}
	defaultCfg := DefaultConfig()
	data, err := yaml.Marshal(defaultCfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
