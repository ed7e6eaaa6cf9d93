// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the injection points of the intake service.
//
// This package lets deployments swap the outward-facing integrations
// without modifying the core intake codebase. The default build uses
// no-op implementations for all interfaces.
//
// # Extension Categories
//
// The package is organized by domain:
//
//   - sink.go: delivery of completed forms (ResponseSink)
//   - directory.go: role grants and removals (RoleDirectory)
//   - audit.go: compliance audit logging (AuditLogger)
//
// # Usage
//
// The standalone service uses no-op implementations:
//
//	opts := extensions.DefaultOptions()
//	svc := intake.New(config, opts)
//
// A full deployment provides concrete implementations:
//
//	opts := extensions.ServiceOptions{
//	    ResponseSink:  sink.NewClient(sinkCfg),
//	    RoleDirectory: roles.NewHTTPDirectory(dirCfg),
//	}
//	svc := intake.New(config, opts)
//
// # Thread Safety
//
// All interface implementations must be safe for concurrent use.
// Multiple goroutines may call methods simultaneously.
package extensions

// ServiceOptions groups all extension points for service configuration.
//
// Pass this to service constructors. All fields are optional; nil
// values are replaced with no-op defaults when DefaultOptions() is
// called or when services check for nil.
type ServiceOptions struct {
	// ResponseSink receives completed form submissions.
	// Default: NopResponseSink (discards submissions)
	ResponseSink ResponseSink

	// RoleDirectory applies role grants and removals.
	// Default: NopRoleDirectory (records nothing)
	RoleDirectory RoleDirectory

	// AuditLogger records security-relevant events.
	// Default: NopAuditLogger (discards all events)
	AuditLogger AuditLogger
}

// DefaultOptions returns ServiceOptions with no-op defaults.
//
// Returns:
//   - ServiceOptions with all fields set to no-op implementations
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		ResponseSink:  &NopResponseSink{},
		RoleDirectory: &NopRoleDirectory{},
		AuditLogger:   &NopAuditLogger{},
	}
}

// WithSink returns a copy of opts with the given ResponseSink.
// Useful for fluent configuration.
func (opts ServiceOptions) WithSink(sink ResponseSink) ServiceOptions {
	opts.ResponseSink = sink
	return opts
}

// WithDirectory returns a copy of opts with the given RoleDirectory.
func (opts ServiceOptions) WithDirectory(dir RoleDirectory) ServiceOptions {
	opts.RoleDirectory = dir
	return opts
}

// WithAudit returns a copy of opts with the given AuditLogger.
func (opts ServiceOptions) WithAudit(logger AuditLogger) ServiceOptions {
	opts.AuditLogger = logger
	return opts
}
