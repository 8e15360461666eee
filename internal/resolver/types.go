// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolver

import "github.com/angularjs-lsp/angularjs-lsp/internal/model"

// CompletionItem is one candidate the client can insert at the cursor.
type CompletionItem struct {
	Label     string
	Kind      model.SymbolKind
	Detail    string
	DIVisible bool
}

// Hover is the rendered contents shown for the symbol under the
// cursor, and the range it applies to.
type Hover struct {
	Contents string
	Range    model.Range
}

// SignatureHelp describes a DI-bearing construct's dependency list,
// shown while the client is editing its registration call.
type SignatureHelp struct {
	Label         string
	Parameters    []string
	Documentation string
}

// TextEdit is one replacement within a single file.
type TextEdit struct {
	Range   model.Range
	NewText string
}

// WorkspaceEdit is a Rename result: every file touched, and the edits
// to apply within it.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit
}

// CodeLens is one lens anchored to a range, linking a Controller to
// its RouteBinding templates or a template to its linked Controllers.
type CodeLens struct {
	Range     model.Range
	Title     string
	Locations []model.Location
}
