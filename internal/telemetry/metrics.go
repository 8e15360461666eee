// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the pre-registered counters and histograms for the
// language server. All metrics use the "angularjs_lsp_" prefix.
//
// Thread Safety: safe for concurrent use after creation.
type Metrics struct {
	// --- LSP request metrics ---

	// RequestsTotal counts LSP requests by method and outcome.
	RequestsTotal metric.Int64Counter

	// RequestDuration records LSP request handling duration in seconds.
	RequestDuration metric.Float64Histogram

	// --- Indexing metrics ---

	// IndexBuildsTotal counts full workspace index builds by outcome.
	IndexBuildsTotal metric.Int64Counter

	// IndexBuildDuration records full workspace index build duration.
	IndexBuildDuration metric.Float64Histogram

	// IndexFilesTotal counts files indexed, by module kind
	// (controller, directive, service, template).
	IndexFilesTotal metric.Int64Counter

	// IndexSymbolsTotal counts AngularJS symbols registered in the index.
	IndexSymbolsTotal metric.Int64Counter

	// --- Resolver metrics ---

	// ResolverQueriesTotal counts resolver operations by kind and outcome.
	ResolverQueriesTotal metric.Int64Counter

	// ResolverQueryDuration records resolver operation duration in seconds.
	ResolverQueryDuration metric.Float64Histogram

	// --- Cache metrics ---

	// CacheHitsTotal counts on-disk parse cache hits and misses.
	CacheHitsTotal metric.Int64Counter

	// --- Fallback proxy metrics ---

	// ProxyForwardsTotal counts requests forwarded to the fallback
	// JavaScript language server, by outcome.
	ProxyForwardsTotal metric.Int64Counter

	// ProxyState tracks the fallback proxy's lifecycle state
	// (0=not_started, 1=ready, 2=disabled).
	ProxyState metric.Int64ObservableGauge

	// --- Error metrics ---

	// ErrorsTotal counts errors by component.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics registers all metrics with the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RequestsTotal, err = meter.Int64Counter(
		"angularjs_lsp_requests_total",
		metric.WithDescription("Total LSP requests handled"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create requests_total: %w", err)
	}

	m.RequestDuration, err = meter.Float64Histogram(
		"angularjs_lsp_request_duration_seconds",
		metric.WithDescription("LSP request handling duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, fmt.Errorf("create request_duration: %w", err)
	}

	m.IndexBuildsTotal, err = meter.Int64Counter(
		"angularjs_lsp_index_builds_total",
		metric.WithDescription("Total workspace index builds"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create index_builds_total: %w", err)
	}

	m.IndexBuildDuration, err = meter.Float64Histogram(
		"angularjs_lsp_index_build_duration_seconds",
		metric.WithDescription("Workspace index build duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, fmt.Errorf("create index_build_duration: %w", err)
	}

	m.IndexFilesTotal, err = meter.Int64Counter(
		"angularjs_lsp_index_files_total",
		metric.WithDescription("Total files indexed, by module kind"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create index_files_total: %w", err)
	}

	m.IndexSymbolsTotal, err = meter.Int64Counter(
		"angularjs_lsp_index_symbols_total",
		metric.WithDescription("Total AngularJS symbols registered"),
		metric.WithUnit("{symbol}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create index_symbols_total: %w", err)
	}

	m.ResolverQueriesTotal, err = meter.Int64Counter(
		"angularjs_lsp_resolver_queries_total",
		metric.WithDescription("Total resolver operations"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create resolver_queries_total: %w", err)
	}

	m.ResolverQueryDuration, err = meter.Float64Histogram(
		"angularjs_lsp_resolver_query_duration_seconds",
		metric.WithDescription("Resolver operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create resolver_query_duration: %w", err)
	}

	m.CacheHitsTotal, err = meter.Int64Counter(
		"angularjs_lsp_cache_hits_total",
		metric.WithDescription("Total parse cache lookups, by hit/miss"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache_hits_total: %w", err)
	}

	m.ProxyForwardsTotal, err = meter.Int64Counter(
		"angularjs_lsp_proxy_forwards_total",
		metric.WithDescription("Total requests forwarded to the fallback proxy"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create proxy_forwards_total: %w", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"angularjs_lsp_errors_total",
		metric.WithDescription("Total errors by component"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}

// RegisterProxyState registers a callback reporting the fallback
// proxy's current lifecycle state on every scrape.
func (m *Metrics) RegisterProxyState(meter metric.Meter, stateFunc func() int64) (metric.Registration, error) {
	var err error
	m.ProxyState, err = meter.Int64ObservableGauge(
		"angularjs_lsp_proxy_state",
		metric.WithDescription("Fallback proxy lifecycle state (0=not_started, 1=ready, 2=disabled)"),
		metric.WithUnit("{state}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create proxy_state: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(m.ProxyState, stateFunc())
		return nil
	}, m.ProxyState)
}
