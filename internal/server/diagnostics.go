// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"context"
	"fmt"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
)

// unusedScopeVariableKinds are the Symbol kinds the second diagnostic
// sweep (diagnostics.unusedScopeVariables) considers: scope and
// controller-as members. Globals ($rootScope members) and DI-bearing
// registrants are excluded — a service with no direct template
// reference is still reachable via injection, so "unused" has no
// useful meaning there.
var unusedScopeVariableKinds = []model.SymbolKind{
	model.KindScopeProperty, model.KindScopeMethod,
	model.KindControllerAsProperty, model.KindControllerAsMethod,
}

// unusedScopeVariableDiagnostics is the second diagnostic sweep named
// in SPEC_FULL.md's Template Analyzer section: unlike the Template
// Analyzer's single-tree walk, this runs once over the whole
// workspace Index and emits a hint diagnostic for every scope/
// controller-as member with zero References anywhere in the
// workspace, keyed by the defining file's path.
func (s *Server) unusedScopeVariableDiagnostics() map[string][]protocol.Diagnostic {
	out := make(map[string][]protocol.Diagnostic)
	if !s.cfg.AJSConfig.Diagnostics.UnusedScopeVariables {
		return out
	}
	for _, kind := range unusedScopeVariableKinds {
		for _, sym := range s.idx.GetByKind(kind) {
			if len(s.idx.ReferencesByTarget(sym.Name)) > 0 {
				continue
			}
			path := sym.Location.FilePath
			out[path] = append(out[path], protocol.Diagnostic{
				Range:    toWireRange(sym.DefinitionRange),
				Severity: protocol.DiagnosticSeverityHint,
				Source:   "angularjs-lsp",
				Message:  fmt.Sprintf("%q is never referenced from a template", sym.Name),
			})
		}
	}
	return out
}

// publishUnusedScopeVariableDiagnostics runs the sweep and notifies
// the client for every file it has a finding for. Files with no
// findings are not notified: reindexDocument and the HTML analysis
// path already publish (possibly empty) diagnostics for the file
// actually being edited, and re-publishing every unused-variable
// file on every edit would flood the client with redundant
// notifications for files whose content hasn't changed.
func (s *Server) publishUnusedScopeVariableDiagnostics(ctx context.Context) {
	if s.conn == nil {
		return
	}
	for path, diags := range s.unusedScopeVariableDiagnostics() {
		_ = s.conn.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: diags,
		})
	}
}
