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
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/resolver"
	"github.com/angularjs-lsp/angularjs-lsp/internal/template"
)

// This file holds the one-way conversions between the domain types
// internal/resolver and internal/model speak and the wire types
// internal/protocol speaks. internal/resolver never imports
// internal/protocol; this is the only place that bridges them.

func toWirePosition(p model.Position) protocol.Position {
	return protocol.Position{Line: p.Line, Character: p.Character}
}

func fromWirePosition(p protocol.Position) model.Position {
	return model.Position{Line: p.Line, Character: p.Character}
}

func toWireRange(r model.Range) protocol.Range {
	return protocol.Range{Start: toWirePosition(r.Start), End: toWirePosition(r.End)}
}

func toWireLocation(loc model.Location) protocol.Location {
	return protocol.Location{URI: pathToURI(loc.FilePath), Range: toWireRange(loc.Range)}
}

func toWireLocations(locs []model.Location) []protocol.Location {
	out := make([]protocol.Location, len(locs))
	for i, loc := range locs {
		out[i] = toWireLocation(loc)
	}
	return out
}

func toWireSymbolKind(kind model.SymbolKind) protocol.SymbolKind {
	switch kind {
	case model.KindModule:
		return protocol.SymbolKindModule
	case model.KindController, model.KindService, model.KindFactory, model.KindProvider:
		return protocol.SymbolKindClass
	case model.KindDirective, model.KindComponent:
		return protocol.SymbolKindInterface
	case model.KindFilter:
		return protocol.SymbolKindFunction
	case model.KindScopeMethod, model.KindControllerAsMethod, model.KindRootScopeMethod:
		return protocol.SymbolKindMethod
	case model.KindScopeProperty, model.KindControllerAsProperty, model.KindRootScopeProperty:
		return protocol.SymbolKindProperty
	case model.KindRouteBinding:
		return protocol.SymbolKindConstant
	default:
		return protocol.SymbolKindVariable
	}
}

func toWireCompletionKind(kind model.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case model.KindController, model.KindService, model.KindFactory, model.KindProvider:
		return protocol.CompletionItemKindClass
	case model.KindDirective, model.KindComponent:
		return protocol.CompletionItemKindInterface
	case model.KindFilter:
		return protocol.CompletionItemKindFunction
	case model.KindScopeMethod, model.KindControllerAsMethod, model.KindRootScopeMethod:
		return protocol.CompletionItemKindMethod
	case model.KindScopeProperty, model.KindControllerAsProperty, model.KindRootScopeProperty:
		return protocol.CompletionItemKindProperty
	default:
		return protocol.CompletionItemKindText
	}
}

func toWireCompletionItems(items []resolver.CompletionItem) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, len(items))
	for i, it := range items {
		sortText := "1-" + it.Label
		if it.DIVisible {
			sortText = "0-" + it.Label
		}
		out[i] = protocol.CompletionItem{
			Label:      it.Label,
			Kind:       toWireCompletionKind(it.Kind),
			Detail:     it.Detail,
			SortText:   sortText,
			InsertText: it.Label,
		}
	}
	return out
}

func toWireHover(h *resolver.Hover) *protocol.HoverResult {
	if h == nil {
		return nil
	}
	rng := toWireRange(h.Range)
	return &protocol.HoverResult{
		Contents: protocol.MarkupContent{Kind: "markdown", Value: h.Contents},
		Range:    &rng,
	}
}

func toWireSignatureHelp(sh *resolver.SignatureHelp) *protocol.SignatureHelp {
	if sh == nil {
		return nil
	}
	params := make([]protocol.ParameterInformation, len(sh.Parameters))
	for i, p := range sh.Parameters {
		params[i] = protocol.ParameterInformation{Label: p}
	}
	return &protocol.SignatureHelp{
		Signatures: []protocol.SignatureInformation{{
			Label:         sh.Label,
			Documentation: sh.Documentation,
			Parameters:    params,
		}},
	}
}

func toWireWorkspaceEdit(we *resolver.WorkspaceEdit) *protocol.WorkspaceEdit {
	if we == nil {
		return nil
	}
	changes := make(map[string][]protocol.TextEdit, len(we.Changes))
	for path, edits := range we.Changes {
		wireEdits := make([]protocol.TextEdit, len(edits))
		for i, e := range edits {
			wireEdits[i] = protocol.TextEdit{Range: toWireRange(e.Range), NewText: e.NewText}
		}
		changes[pathToURI(path)] = wireEdits
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}

func toWireCodeLenses(lenses []resolver.CodeLens) []protocol.CodeLens {
	out := make([]protocol.CodeLens, len(lenses))
	for i, l := range lenses {
		args := make([]interface{}, len(l.Locations))
		for j, loc := range l.Locations {
			args[j] = toWireLocation(loc)
		}
		out[i] = protocol.CodeLens{
			Range: toWireRange(l.Range),
			Command: &protocol.Command{
				Title:     l.Title,
				Command:   commandOpenLocation,
				Arguments: args,
			},
		}
	}
	return out
}

func toWireDiagnosticSeverity(severity string) protocol.DiagnosticSeverity {
	switch severity {
	case "error":
		return protocol.DiagnosticSeverityError
	case "hint":
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func toWireDiagnostic(d template.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    toWireRange(d.Location.Range),
		Severity: toWireDiagnosticSeverity(d.Severity),
		Source:   "angularjs-lsp",
		Message:  d.Message,
	}
}

func toWireDiagnostics(diags []template.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = toWireDiagnostic(d)
	}
	return out
}

func symbolContainerName(sym *model.Symbol) string {
	if sym.OwnerModule != "" {
		return sym.OwnerModule
	}
	return ""
}
