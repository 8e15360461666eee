// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workspace

import "testing"

func TestGlobMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		includes []string
		excludes []string
		path     string
		want     bool
	}{
		{"simple extension match", []string{"*.js"}, nil, "app.js", true},
		{"simple extension mismatch", []string{"*.js"}, nil, "app.html", false},
		{"doublestar matches nested path", []string{"**/*.js"}, nil, "controllers/main.js", true},
		{"doublestar matches root path", []string{"**/*.js"}, nil, "app.js", true},
		{"exclude directory wins over include", []string{"**/*.js"}, []string{"node_modules/**"}, "node_modules/angular/angular.js", false},
		{"exclude specific suffix", []string{"**/*.js"}, []string{"**/*.min.js"}, "vendor/angular.min.js", false},
		{"exclude specific suffix allows non-matching file", []string{"**/*.js"}, []string{"**/*.min.js"}, "app.js", true},
		{"empty includes matches everything not excluded", nil, []string{"node_modules/**"}, "anything.txt", true},
		{"empty includes still honors excludes", nil, []string{"node_modules/**"}, "node_modules/x.js", false},
		{"html extension", []string{"**/*.html"}, nil, "views/home.html", true},
		{"spec file excluded", []string{"**/*.js"}, []string{"**/*.spec.js"}, "app.spec.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewGlobMatcher(tt.includes, tt.excludes)
			got := m.Match(tt.path)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDefaultPatterns_AngularWorkspace(t *testing.T) {
	m := NewGlobMatcher(DefaultIncludes, DefaultExcludes)

	included := []string{
		"app.js",
		"controllers/main-controller.js",
		"views/home.html",
		"index.htm",
	}
	for _, path := range included {
		if !m.Match(path) {
			t.Errorf("Match(%q) = false, want true", path)
		}
	}

	excluded := []string{
		"node_modules/angular/angular.js",
		"bower_components/angular-route/angular-route.js",
		".git/HEAD",
		"dist/app.bundle.js",
		"build/app.js",
		"vendor/jquery.js",
		"app.min.js",
		"app.spec.js",
		"controllers/main.test.js",
		"README.md",
	}
	for _, path := range excluded {
		if m.Match(path) {
			t.Errorf("Match(%q) = true, want false", path)
		}
	}
}

func TestMatchDoublestar(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"node_modules/**", "node_modules/a/b/c.js", true},
		{"node_modules/**", "node_modules", true},
		{"**/*.js", "a.js", true},
		{"**/*.js", "a/b/c.js", true},
		{"**/*.js", "a/b/c.html", false},
		{"src/**/test.js", "src/a/b/test.js", true},
		{"src/**/test.js", "src/test.js", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.path, func(t *testing.T) {
			got := matchDoublestar(tt.pattern, tt.path)
			if got != tt.want {
				t.Errorf("matchDoublestar(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
