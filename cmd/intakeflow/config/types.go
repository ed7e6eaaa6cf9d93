// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

// IntakeConfig is the on-disk configuration for the intake service.
type IntakeConfig struct {
	// Server: HTTP listener settings
	Server ServerConfig `yaml:"server"`

	// Catalog: question catalog location
	Catalog CatalogConfig `yaml:"catalog"`

	// Store: session store backend
	Store StoreConfig `yaml:"store"`

	// Sink: completed-form delivery endpoint
	Sink SinkConfig `yaml:"sink"`

	// Roles: role directory and ladder names
	Roles RolesConfig `yaml:"roles"`

	// Observability: metrics and tracing toggles
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`     // e.g. 12310
	GinMode string `yaml:"gin_mode"` // debug, release, test
}

type CatalogConfig struct {
	Path string `yaml:"path"` // e.g. configs/catalog.yaml
}

type StoreConfig struct {
	// Backend can be "memory", "badger", or "redis".
	Backend    string `yaml:"backend"`
	BadgerPath string `yaml:"badger_path,omitempty"`
	RedisURL   string `yaml:"redis_url,omitempty"`
}

type SinkConfig struct {
	URL       string `yaml:"url,omitempty"`
	AuthToken string `yaml:"auth_token,omitempty"`
}

type RolesConfig struct {
	DirectoryURL   string `yaml:"directory_url,omitempty"`
	DirectoryToken string `yaml:"directory_token,omitempty"`
	Pending        string `yaml:"pending"`
	Incoming       string `yaml:"incoming"`
	Verified       string `yaml:"verified"`
}

type ObservabilityConfig struct {
	Tracing      bool   `yaml:"tracing"`
	OTelEndpoint string `yaml:"otel_endpoint,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() IntakeConfig {
	return IntakeConfig{
		Server:  ServerConfig{Port: 12310, GinMode: "release"},
		Catalog: CatalogConfig{Path: "configs/catalog.yaml"},
		Store:   StoreConfig{Backend: "memory"},
		Roles: RolesConfig{
			Pending:  "Pending",
			Incoming: "Incoming",
			Verified: "Verified",
		},
	}
}
