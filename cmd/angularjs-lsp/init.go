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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/angularjs-lsp/angularjs-lsp/internal/config"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// runInitCommand walks the operator through producing an
// ajsconfig.json via an interactive huh form, falling back to
// config.Default() for any question the operator skips.
//
// # Exit Codes
//
//	0 - ajsconfig.json written, or an existing file left untouched
//	    because the operator declined to overwrite it
//	1 - any error (for example stdin is not a terminal, or the write
//	    failed)
func runInitCommand(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("init: stdin is not a terminal; run interactively or write ajsconfig.json by hand")
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("init: invalid path %q: %w", root, err)
	}
	cfgPath := filepath.Join(absRoot, config.FileName)

	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		overwrite := false
		confirm := huh.NewConfirm().
			Title(cfgPath + " already exists").
			Description("Overwrite it?").
			Value(&overwrite)
		if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if !overwrite {
			fmt.Println(mutedStyle.Render("Left existing ajsconfig.json untouched."))
			return nil
		}
	}

	cfg := config.Default()

	var (
		includeCSV, excludeCSV string
		cacheEnabled           = cfg.Cache
		diagnosticsEnabled     = cfg.Diagnostics.Enabled
		unusedScopeVars        = cfg.Diagnostics.UnusedScopeVariables
		severity               = string(cfg.Diagnostics.Severity)
		startSymbol            = cfg.Interpolate.StartSymbol
		endSymbol              = cfg.Interpolate.EndSymbol
	)

	fmt.Println(headingStyle.Render("angularjs-lsp init"))
	fmt.Println(mutedStyle.Render("Configuring " + cfgPath))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Include globs (comma-separated, blank = everything in scope)").
				Value(&includeCSV),
			huh.NewInput().
				Title("Additional exclude globs (comma-separated)").
				Value(&excludeCSV),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Interpolation start symbol").
				Value(&startSymbol),
			huh.NewInput().
				Title("Interpolation end symbol").
				Value(&endSymbol),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable the persistent workspace cache?").
				Value(&cacheEnabled),
			huh.NewConfirm().
				Title("Emit template diagnostics?").
				Value(&diagnosticsEnabled),
			huh.NewSelect[string]().
				Title("Template diagnostic severity").
				Options(
					huh.NewOption("error", "error"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("hint", "hint"),
					huh.NewOption("information", "information"),
				).
				Value(&severity),
			huh.NewConfirm().
				Title("Hint on unused scope/controller-as members?").
				Value(&unusedScopeVars),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	cfg.Include = splitCSV(includeCSV)
	cfg.Exclude = append(cfg.Exclude, splitCSV(excludeCSV)...)
	cfg.Interpolate.StartSymbol = startSymbol
	cfg.Interpolate.EndSymbol = endSymbol
	cfg.Cache = cacheEnabled
	cfg.Diagnostics.Enabled = diagnosticsEnabled
	cfg.Diagnostics.Severity = config.Severity(severity)
	cfg.Diagnostics.UnusedScopeVariables = unusedScopeVars

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Println(headingStyle.Render("Wrote " + cfgPath))
	return nil
}

func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
