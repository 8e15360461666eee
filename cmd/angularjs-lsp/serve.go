// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angularjs-lsp/angularjs-lsp/internal/cache"
	"github.com/angularjs-lsp/angularjs-lsp/internal/config"
	"github.com/angularjs-lsp/angularjs-lsp/internal/lock"
	"github.com/angularjs-lsp/angularjs-lsp/internal/proxy"
	"github.com/angularjs-lsp/angularjs-lsp/internal/server"
	"github.com/angularjs-lsp/angularjs-lsp/internal/telemetry"
	"github.com/angularjs-lsp/angularjs-lsp/pkg/logging"
)

// runServeCommand starts the stdio LSP server. It is also rootCmd's
// own RunE, so invoking the binary with no subcommand serves, matching
// how editor launchers expect a language server executable to behave.
//
// # Exit Codes
//
//	0 - Clean shutdown (client sent "exit")
//	1 - Fatal error (working directory unavailable, workspace lock
//	    already held, or the server loop failed). A cache that cannot
//	    be opened is not fatal: serve logs a warning and continues
//	    with an in-memory cache.
func runServeCommand(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   parseLogLevel(serveLogLevel),
		LogDir:  serveLogDir,
		Service: "angularjs-lsp",
	})
	defer logger.Close()

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("serve: resolve workspace root: %w", err)
	}

	workspaceLock, err := lock.Acquire(root, uuid.NewString())
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer workspaceLock.Release()

	ajsCfg := config.LoadFromDir(root, logger.Slog())

	var store *cache.Store
	if ajsCfg.Cache && !serveNoCache {
		store, err = cache.Open(cache.DefaultConfig(filepath.Join(root, cache.DirName)))
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "error", err)
			store = nil
		}
	}
	if store == nil {
		if memStore, err := cache.Open(cache.InMemoryConfig()); err == nil {
			store = memStore
		}
	}

	var fallback *proxy.Proxy
	if serveProxyCmd != "" {
		fallback = proxy.New(proxy.Config{
			Command: serveProxyCmd,
			Args:    serveProxyArgs,
			RootURI: "file://" + root,
			Logger:  logger,
		})
	}

	srv := server.New(server.Config{
		WorkspaceRoot: root,
		AJSConfig:     ajsCfg,
		Cache:         store,
		Proxy:         fallback,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveDebugAddr != "" {
		debug := telemetry.NewDebugServer(telemetry.DebugServerConfig{
			Addr:  serveDebugAddr,
			Stats: srv.Index(),
		})
		go func() {
			if err := debug.Start(ctx); err != nil {
				logger.Warn("debug server stopped", "error", err)
			}
		}()
		defer debug.Shutdown(context.Background())
	}

	conn := server.NewStdioConn(os.Stdin, os.Stdout)
	if err := srv.Run(ctx, conn); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
