// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates `ajsconfig.json`, the per-workspace
// configuration file read on server startup and by `angularjs-lsp init`.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/angularjs-lsp/angularjs-lsp/internal/workspace"
)

// FileName is the configuration file read from a workspace root.
const FileName = "ajsconfig.json"

// Severity is the diagnostic severity applied to template diagnostics.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityHint        Severity = "hint"
	SeverityInformation Severity = "information"
)

// configValidate is the shared validator instance, following the
// package-level-singleton pattern used for request validation
// elsewhere in the stack.
var configValidate = validator.New()

// InterpolateConfig configures the AngularJS interpolation delimiters
// the Template Analyzer looks for (`{{ }}` by default, but projects
// commonly rebind these via `$interpolateProvider`).
type InterpolateConfig struct {
	StartSymbol string `json:"startSymbol" validate:"required"`
	EndSymbol   string `json:"endSymbol" validate:"required"`
}

// DefaultInterpolateConfig returns AngularJS's built-in `{{ }}` delimiters.
func DefaultInterpolateConfig() InterpolateConfig {
	return InterpolateConfig{StartSymbol: "{{", EndSymbol: "}}"}
}

// DiagnosticsConfig controls template diagnostic emission.
type DiagnosticsConfig struct {
	Enabled              bool     `json:"enabled"`
	Severity             Severity `json:"severity" validate:"omitempty,oneof=error warning hint information"`
	UnusedScopeVariables bool     `json:"unusedScopeVariables"`
}

// DefaultDiagnosticsConfig returns diagnostics enabled at warning
// severity, with unused-scope-variable hints on.
func DefaultDiagnosticsConfig() DiagnosticsConfig {
	return DiagnosticsConfig{
		Enabled:              true,
		Severity:             SeverityWarning,
		UnusedScopeVariables: true,
	}
}

// Config is the fully-resolved contents of `ajsconfig.json`.
type Config struct {
	Interpolate InterpolateConfig `json:"interpolate"`
	Include     []string          `json:"include"`
	Exclude     []string          `json:"exclude"`
	Cache       bool              `json:"cache"`
	Diagnostics DiagnosticsConfig `json:"diagnostics"`
}

// defaultExclude mirrors the original implementation's exclusion set:
// node_modules, dist, build, and any dotted directory, at any depth.
func defaultExclude() []string {
	return []string{
		"**/node_modules",
		"**/node_modules/**",
		"**/dist",
		"**/dist/**",
		"**/build",
		"**/build/**",
		"**/.*",
		"**/.*/**",
	}
}

// Default returns the configuration applied when no `ajsconfig.json`
// is present: no include allow-list (everything in scope), the
// standard exclusions, caching on, and diagnostics on at warning
// severity.
func Default() Config {
	return Config{
		Interpolate: DefaultInterpolateConfig(),
		Include:     nil,
		Exclude:     defaultExclude(),
		Cache:       true,
		Diagnostics: DefaultDiagnosticsConfig(),
	}
}

// Validate checks Config against its struct tags (required
// interpolation symbols, an in-range diagnostics severity).
func (c *Config) Validate() error {
	return configValidate.Struct(c)
}

// Matcher builds a workspace.GlobMatcher from Include/Exclude, so the
// same glob engine backs both file scanning and `ajsconfig.json`'s
// patterns.
func (c *Config) Matcher() *workspace.GlobMatcher {
	return workspace.NewGlobMatcher(c.Include, c.Exclude)
}

// LoadFromDir reads `ajsconfig.json` from dir. A missing file is not
// an error: Default() is returned silently. A present but unreadable
// or unparseable file logs a warning and falls back to Default(),
// matching the graceful-degradation behavior of the original
// implementation this was ported from — a malformed config must never
// prevent the server from starting.
func LoadFromDir(dir string, logger *slog.Logger) Config {
	return loadFromPath(filepath.Join(dir, FileName), logger)
}

func loadFromPath(path string, logger *slog.Logger) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Warn("failed to read ajsconfig.json", slog.String("error", err.Error()))
		}
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		if logger != nil {
			logger.Warn("failed to parse ajsconfig.json", slog.String("error", err.Error()))
		}
		return Default()
	}

	if err := cfg.Validate(); err != nil {
		if logger != nil {
			logger.Warn("ajsconfig.json failed validation, using defaults", slog.String("error", err.Error()))
		}
		return Default()
	}

	return cfg
}

// Load reads and strictly validates `ajsconfig.json` at path, returning
// read, parse and validation errors to the caller instead of silently
// falling back to defaults as LoadFromDir does.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON to path, creating its parent
// directory if needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: refusing to save invalid config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0644)
}
