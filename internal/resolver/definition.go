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
	"strconv"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Definition resolves the construct under pos in tree. It returns
// ErrNoLocalAnswer when the cursor isn't on a recognized AngularJS
// construct (or the DI-visibility gate rejects it), signaling the
// caller to forward the request to the fallback Proxy.
func (r *Resolver) Definition(ctx context.Context, tree *syntax.Tree, pos model.Position) ([]model.Location, error) {
	candidates, err := r.candidatesAt(ctx, tree, pos)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoLocalAnswer
	}
	locs := make([]model.Location, 0, len(candidates))
	for _, sym := range candidates {
		loc := sym.Location
		loc.Range = sym.DefinitionRange
		locs = append(locs, loc)
	}
	return locs, nil
}

// References resolves the construct under pos in tree and returns
// every textual use of it in the workspace, plus its own definition
// location (References-of(sym) union the definition site, per spec).
func (r *Resolver) References(ctx context.Context, tree *syntax.Tree, pos model.Position) ([]model.Location, error) {
	candidates, err := r.candidatesAt(ctx, tree, pos)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoLocalAnswer
	}

	var locs []model.Location
	seen := make(map[string]bool)
	for _, sym := range candidates {
		locs = append(locs, sym.Location)
		for _, ref := range r.idx.ReferencesByTarget(sym.Name) {
			key := locationKey(ref.Location)
			if seen[key] {
				continue
			}
			seen[key] = true
			locs = append(locs, ref.Location)
		}
	}
	return locs, nil
}

func locationKey(loc model.Location) string {
	return loc.FilePath + ":" + strconv.Itoa(loc.ByteStart) + ":" + strconv.Itoa(loc.ByteEnd)
}

// candidatesAt classifies the cursor position and returns every
// index Symbol matching the resulting name/kind partition.
func (r *Resolver) candidatesAt(ctx context.Context, tree *syntax.Tree, pos model.Position) ([]*model.Symbol, error) {
	if tree.Language == languageHTML {
		ref, err := r.referenceAt(ctx, tree, pos)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			return nil, nil
		}
		return symbolsByNameAndKind(r.idx, ref.ReferencedName, htmlKindPartition(ref.KindHint)), nil
	}

	offset := tree.OffsetAt(pos)
	q := classifyJS(r.idx, tree, offset)
	if !q.ok {
		return nil, nil
	}
	return symbolsByNameAndKind(r.idx, q.name, q.kinds), nil
}
