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

import (
	"context"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Hover renders the first matching Symbol's kind, dependency list, and
// leading JSDoc block.
func (r *Resolver) Hover(ctx context.Context, tree *syntax.Tree, pos model.Position) (*Hover, error) {
	candidates, err := r.candidatesAt(ctx, tree, pos)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoLocalAnswer
	}
	sym := candidates[0]
	return &Hover{Contents: renderHover(sym), Range: sym.DefinitionRange}, nil
}

// SignatureHelp describes the dependency list of the DI-bearing
// construct whose registration call the cursor is inside — the
// construct being filled in, not whatever identifier the cursor
// happens to sit on.
func (r *Resolver) SignatureHelp(ctx context.Context, tree *syntax.Tree, pos model.Position) (*SignatureHelp, error) {
	if tree.Language == languageHTML {
		return nil, ErrNoLocalAnswer
	}
	gate := enclosingDIBearingSymbol(r.idx, tree.FilePath, tree.OffsetAt(pos))
	if gate == nil {
		return nil, ErrNoLocalAnswer
	}
	return &SignatureHelp{
		Label:         gate.Name + "(" + strings.Join(gate.Dependencies, ", ") + ")",
		Parameters:    gate.Dependencies,
		Documentation: gate.Docs,
	}, nil
}

func renderHover(sym *model.Symbol) string {
	var b strings.Builder
	b.WriteString(sym.Kind.String())
	b.WriteString(" ")
	b.WriteString(sym.Name)
	if len(sym.Dependencies) > 0 {
		b.WriteString("\n\nDependencies: ")
		b.WriteString(strings.Join(sym.Dependencies, ", "))
	}
	if sym.Docs != "" {
		b.WriteString("\n\n")
		b.WriteString(sym.Docs)
	}
	return b.String()
}
