// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides OpenTelemetry-based observability for the
// language server: tracing around indexing and resolver operations, a
// Prometheus metrics registry, and a small debug HTTP server for
// operators who want to inspect server health without an editor.
//
// # Philosophy
//
// Be opinionated about the API, flexible about the backend: the rest
// of the module calls otel.Tracer()/otel.Meter() directly and never
// imports an exporter package. Swapping the stdout exporter for
// Prometheus is a configuration change, not a code change.
//
// # Trace Backend
//
// Defaults to "none", which disables tracing entirely (the common case
// for an editor-launched server, where there is no collector to receive
// spans); "stdout" writes spans to standard output.
//
// # Metrics Backend
//
// Defaults to Prometheus, scraped from the debug HTTP server's
// /metrics endpoint.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	shutdown, err := telemetry.Init(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(ctx)
//
// # Thread Safety
//
// All exported functions are safe for concurrent use after Init returns.
package telemetry
