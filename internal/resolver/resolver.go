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

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/template"
)

const languageHTML = "html"

// Resolver answers semantic queries against one workspace's Index.
// It is safe for concurrent use: every method only reads the Index
// and the Tree it's given.
type Resolver struct {
	idx      *index.SymbolIndex
	template *template.Analyzer
}

// New creates a Resolver over idx.
func New(idx *index.SymbolIndex) *Resolver {
	return &Resolver{idx: idx, template: template.New(idx)}
}

// referenceAt finds the template.Analyzer Reference (if any) whose
// Location.Range contains pos, reusing the Template Analyzer's already
// -computed expression references rather than re-parsing expressions
// at the cursor.
func (r *Resolver) referenceAt(ctx context.Context, tree *syntax.Tree, pos model.Position) (*model.Reference, error) {
	result, err := r.template.Analyze(ctx, tree)
	if err != nil {
		return nil, err
	}
	for i := range result.References {
		ref := &result.References[i]
		if withinRange(ref.Location.Range, pos) {
			return ref, nil
		}
	}
	return nil, nil
}

func withinRange(rng model.Range, pos model.Position) bool {
	if pos.Line < rng.Start.Line || pos.Line > rng.End.Line {
		return false
	}
	if pos.Line == rng.Start.Line && pos.Character < rng.Start.Character {
		return false
	}
	if pos.Line == rng.End.Line && pos.Character > rng.End.Character {
		return false
	}
	return true
}

// htmlKindPartition returns the Kind set a KindHint from the Template
// Analyzer resolves against (a Reference's KindHint already names one
// specific kind, except Filter/Controller which stand alone).
func htmlKindPartition(hint model.SymbolKind) []model.SymbolKind {
	switch hint {
	case model.KindScopeProperty:
		return []model.SymbolKind{model.KindScopeProperty, model.KindScopeMethod}
	case model.KindControllerAsProperty:
		return []model.SymbolKind{model.KindControllerAsProperty, model.KindControllerAsMethod}
	case model.KindRootScopeProperty:
		return []model.SymbolKind{model.KindRootScopeProperty, model.KindRootScopeMethod}
	default:
		return []model.SymbolKind{hint}
	}
}
