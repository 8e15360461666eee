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
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/angularjs-lsp/angularjs-lsp/internal/cache"
	"github.com/angularjs-lsp/angularjs-lsp/internal/config"
	"github.com/angularjs-lsp/angularjs-lsp/internal/server"
	"github.com/angularjs-lsp/angularjs-lsp/pkg/logging"
)

// runRefreshIndexCommand rebuilds a workspace's index from scratch
// without starting the LSP server, for use from scripts and CI
// pipelines that want a warm cache before an editor session starts.
//
// # Exit Codes
//
//	0 - Index rebuilt successfully
//	1 - Any error, including an invalid path argument and a failed
//	    workspace scan or cache setup
func runRefreshIndexCommand(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("refresh-index: invalid path %q: %w", root, err)
	}

	logger := logging.Default()
	if refreshQuiet {
		logger = logging.New(logging.Config{Level: logging.LevelError, Service: "angularjs-lsp"})
	}

	ajsCfg := config.LoadFromDir(absRoot, logger.Slog())

	store, err := cache.Open(cache.DefaultConfig(filepath.Join(absRoot, cache.DirName)))
	if err != nil {
		return fmt.Errorf("refresh-index: open cache: %w", err)
	}
	defer store.Close()

	srv := server.New(server.Config{
		WorkspaceRoot: absRoot,
		AJSConfig:     ajsCfg,
		Cache:         store,
		Logger:        logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	if err := srv.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("refresh-index: %w", err)
	}

	stats := srv.Index().Stats()
	if !refreshQuiet {
		fmt.Printf("Indexed %d files, %d symbols in %s\n", stats.FileCount, stats.TotalSymbols, time.Since(start).Round(time.Millisecond))
	}
	return nil
}
