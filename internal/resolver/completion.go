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
	"sort"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Completion returns candidates for the cursor position, sorted with
// DI-visible candidates first within each kind partition (a stable
// sort, so Index iteration order is preserved within a partition) per
// the original implementation's injected_services priority rule.
func (r *Resolver) Completion(ctx context.Context, tree *syntax.Tree, pos model.Position) ([]CompletionItem, error) {
	var items []CompletionItem
	var gate *model.Symbol

	if tree.Language == languageHTML {
		items = r.completionHTML(ctx, tree, pos)
	} else {
		offset := tree.OffsetAt(pos)
		gate = enclosingDIBearingSymbol(r.idx, tree.FilePath, offset)
		items = r.completionJS(tree, offset, gate)
	}

	sortDIVisibleFirst(items)
	return items, nil
}

func (r *Resolver) completionJS(tree *syntax.Tree, offset int, gate *model.Symbol) []CompletionItem {
	q := classifyJS(r.idx, tree, offset)
	kinds := q.kinds
	if !q.ok {
		// No specific role recognized at the cursor (e.g. mid-identifier
		// inside a registration call position): offer every module-wide
		// registrant kind, the broadest useful default.
		kinds = registrantKinds
	}
	return r.itemsForKinds(kinds, gate)
}

func (r *Resolver) completionHTML(ctx context.Context, tree *syntax.Tree, pos model.Position) []CompletionItem {
	ref, err := r.referenceAt(ctx, tree, pos)
	if err != nil || ref == nil {
		// Bare identifier in a template expression with no recognized
		// prefix: visible scope members and filters.
		kinds := []model.SymbolKind{
			model.KindScopeProperty, model.KindScopeMethod,
			model.KindControllerAsProperty, model.KindControllerAsMethod,
			model.KindFilter,
		}
		return r.itemsForKinds(kinds, nil)
	}
	return r.itemsForKinds(htmlKindPartition(ref.KindHint), nil)
}

func (r *Resolver) itemsForKinds(kinds []model.SymbolKind, gate *model.Symbol) []CompletionItem {
	var items []CompletionItem
	for _, kind := range kinds {
		for _, sym := range r.idx.GetByKind(kind) {
			items = append(items, CompletionItem{
				Label:     sym.Name,
				Kind:      sym.Kind,
				Detail:    sym.Kind.String(),
				DIVisible: gate != nil && gate.HasDependency(sym.Name),
			})
		}
	}
	return items
}

// sortDIVisibleFirst stable-sorts items so DI-visible candidates come
// first, without disturbing relative order within either group or
// across kind partitions.
func sortDIVisibleFirst(items []CompletionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DIVisible && !items[j].DIVisible
	})
}
