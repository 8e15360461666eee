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
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
)

// StatsProvider supplies the point-in-time index snapshot served at
// /debug/index/stats. *index.SymbolIndex satisfies this directly.
type StatsProvider interface {
	Stats() index.IndexStats
}

// DebugServerConfig configures the auxiliary debug HTTP server.
type DebugServerConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:7357". The debug
	// server always binds to localhost; Addr controls only the port.
	Addr string

	// Stats supplies the /debug/index/stats payload. May be nil if
	// the index has not been built yet; the endpoint then reports a
	// zero-value snapshot.
	Stats StatsProvider
}

// DebugServer is the ambient HTTP surface run alongside the stdio LSP
// loop: health, Prometheus metrics, and index introspection. Disabled
// by default; operators opt in via CLI flag or config.
type DebugServer struct {
	cfg    DebugServerConfig
	engine *gin.Engine
	srv    *http.Server
}

// NewDebugServer builds a DebugServer. Routes are registered
// immediately; the server does not bind a socket until Start.
func NewDebugServer(cfg DebugServerConfig) *DebugServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("angularjs-lsp"))

	d := &DebugServer{cfg: cfg, engine: engine}

	engine.GET("/healthz", d.handleHealthz)
	engine.GET("/metrics", d.handleMetrics)
	engine.GET("/debug/index/stats", d.handleIndexStats)

	return d
}

// Start binds the configured address and serves until ctx is
// cancelled or Shutdown is called. Returns http.ErrServerClosed on a
// clean shutdown.
func (d *DebugServer) Start(ctx context.Context) error {
	_, port, err := net.SplitHostPort(d.cfg.Addr)
	if err != nil {
		return fmt.Errorf("telemetry: invalid address %s: %w", d.cfg.Addr, err)
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", port))
	if err != nil {
		return fmt.Errorf("telemetry: listen on %s: %w", d.cfg.Addr, err)
	}

	d.srv = &http.Server{Handler: d.engine}
	stop := context.AfterFunc(ctx, func() { _ = d.srv.Shutdown(context.Background()) })
	defer stop()
	return d.srv.Serve(ln)
}

// Shutdown gracefully stops the debug server.
func (d *DebugServer) Shutdown(ctx context.Context) error {
	if d.srv == nil {
		return nil
	}
	return d.srv.Shutdown(ctx)
}

func (d *DebugServer) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (d *DebugServer) handleMetrics(c *gin.Context) {
	handler := MetricsHandler()
	if handler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics exporter not configured"})
		return
	}
	handler.ServeHTTP(c.Writer, c.Request)
}

func (d *DebugServer) handleIndexStats(c *gin.Context) {
	if d.cfg.Stats == nil {
		c.JSON(http.StatusOK, index.IndexStats{})
		return
	}
	c.JSON(http.StatusOK, d.cfg.Stats.Stats())
}
