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

import "github.com/spf13/cobra"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	serveNoCache    bool   // Disable the persistent badger cache
	serveDebugAddr  string // Bind address for the ambient debug HTTP surface, empty disables it
	serveLogLevel   string // debug, info, warn, error
	serveLogDir     string // optional file-logging directory
	serveProxyCmd   string // fallback JS language server executable
	serveProxyArgs  []string

	refreshQuiet bool // Suppress progress output

	initForce bool // Overwrite an existing ajsconfig.json without prompting
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// rootCmd is the angularjs-lsp entry point. With no subcommand it
// behaves exactly like "serve", so editor launchers that invoke the
// binary bare (the common LSP convention) still get a working server.
var rootCmd = &cobra.Command{
	Use:   "angularjs-lsp",
	Short: "Language server for AngularJS 1.x projects",
	Long: `angularjs-lsp is a Language Server Protocol implementation for
AngularJS 1.x codebases: completion, go-to-definition, find references,
hover, signature help, rename, workspace symbols, code lenses, and
template diagnostics, driven by a semantic index built from each
project's modules, controllers, services, directives, and templates.

Invoked with no subcommand, angularjs-lsp behaves like "serve" and
speaks JSON-RPC over stdio, matching how editors launch language
servers.`,
	RunE: runServeCommand,
}

// serveCmd starts the stdio JSON-RPC LSP server.
//
// Examples:
//
//	angularjs-lsp serve
//	angularjs-lsp serve --no-cache
//	angularjs-lsp serve --debug-addr 127.0.0.1:7357
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LSP server on stdio",
	RunE:  runServeCommand, // Defined in serve.go
}

// refreshIndexCmd runs a one-shot workspace re-scan without starting
// the LSP server, for use from scripts and CI.
//
// Examples:
//
//	angularjs-lsp refresh-index
//	angularjs-lsp refresh-index ./frontend
var refreshIndexCmd = &cobra.Command{
	Use:   "refresh-index [path]",
	Short: "Re-scan a workspace and rebuild its index",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRefreshIndexCommand, // Defined in refresh_index.go
}

// initCmd walks the operator through producing an ajsconfig.json.
//
// Examples:
//
//	angularjs-lsp init
//	angularjs-lsp init --force
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Interactively create ajsconfig.json for a workspace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitCommand, // Defined in init.go
}

// versionCmd prints the server's version string.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the angularjs-lsp version",
	RunE:  runVersionCommand, // Defined in version.go
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&serveNoCache, "no-cache", false,
			"Disable the persistent workspace cache")
		cmd.Flags().StringVar(&serveDebugAddr, "debug-addr", "",
			"Bind address for the ambient debug HTTP surface (empty disables it)")
		cmd.Flags().StringVar(&serveLogLevel, "log-level", "info",
			"Log level: debug, info, warn, error")
		cmd.Flags().StringVar(&serveLogDir, "log-dir", "",
			"Directory for file logging, in addition to stderr")
		cmd.Flags().StringVar(&serveProxyCmd, "proxy-command", "",
			"Fallback JavaScript language server executable")
		cmd.Flags().StringSliceVar(&serveProxyArgs, "proxy-args", nil,
			"Arguments passed to --proxy-command")
	}

	refreshIndexCmd.Flags().BoolVarP(&refreshQuiet, "quiet", "q", false,
		"Suppress progress output")

	initCmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite an existing ajsconfig.json without prompting")

	rootCmd.AddCommand(serveCmd, refreshIndexCmd, initCmd, versionCmd)
}
