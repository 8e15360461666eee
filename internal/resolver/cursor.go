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
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// registrantKinds is the "module-wide known kinds" set: every
// construct registered directly on a Module rather than owned by
// another Symbol.
var registrantKinds = []model.SymbolKind{
	model.KindController, model.KindService, model.KindFactory,
	model.KindDirective, model.KindComponent, model.KindFilter,
	model.KindProvider, model.KindConstant, model.KindValue,
}

// cursorQuery is the outcome of classifying the token under the
// cursor: the name to look up, the Kinds a matching Symbol must have,
// and (for DI-gated bare identifiers) the enclosing construct whose
// dependency list the name must appear in.
type cursorQuery struct {
	name  string
	kinds []model.SymbolKind
	gate  *model.Symbol // non-nil: name must be in gate.Dependencies
	ok    bool
}

// enclosingDIBearingSymbol returns the smallest DI-bearing Symbol in
// filePath whose Location contains offset, or nil outside any such
// body.
func enclosingDIBearingSymbol(idx *index.SymbolIndex, filePath string, offset int) *model.Symbol {
	var best *model.Symbol
	bestSpan := -1
	for _, sym := range idx.GetByFile(filePath) {
		if !sym.Kind.IsDIBearing() {
			continue
		}
		if offset < sym.Location.ByteStart || offset > sym.Location.ByteEnd {
			continue
		}
		span := sym.Location.ByteEnd - sym.Location.ByteStart
		if best == nil || span < bestSpan {
			best, bestSpan = sym, span
		}
	}
	return best
}

// classifyJS determines what a cursor position inside a JavaScript
// file is pointing at: a $scope/$rootScope/this/controller-as member
// access, a DI-array dependency string, or a bare identifier that may
// name a DI-visible registrant.
func classifyJS(idx *index.SymbolIndex, tree *syntax.Tree, offset int) cursorQuery {
	node := tree.NodeAt(offset)
	if node == nil {
		return cursorQuery{}
	}
	gate := enclosingDIBearingSymbol(idx, tree.FilePath, offset)

	switch node.Type() {
	case syntax.JSPropertyIdentifier:
		if parent := node.Parent(); parent != nil && parent.Type() == syntax.JSMemberExpression {
			return classifyMember(tree, parent, gate)
		}
		return cursorQuery{}

	case syntax.JSIdentifier:
		name := tree.Text(node)
		if name == "$scope" || name == "$rootScope" || name == "this" {
			// These have no Symbol of their own to resolve to; only
			// member access off them (handled via JSPropertyIdentifier)
			// does.
			return cursorQuery{}
		}
		if gate != nil && !gate.HasDependency(name) {
			return cursorQuery{}
		}
		return cursorQuery{name: name, kinds: registrantKinds, ok: true}

	case syntax.JSString:
		if isDIArrayDependencySlot(node) {
			if name, ok := syntax.StringValue(node, tree.Source()); ok {
				return cursorQuery{name: name, kinds: registrantKinds, ok: true}
			}
		}
		return cursorQuery{}

	default:
		return cursorQuery{}
	}
}

// classifyMember resolves a `<object>.<property>` member expression
// into the kind partition the property belongs to.
func classifyMember(tree *syntax.Tree, member *sitter.Node, gate *model.Symbol) cursorQuery {
	obj := member.ChildByFieldName("object")
	prop := member.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return cursorQuery{}
	}
	objText := tree.Text(obj)
	propText := tree.Text(prop)

	switch {
	case objText == "$scope":
		return cursorQuery{name: propText, kinds: []model.SymbolKind{model.KindScopeProperty, model.KindScopeMethod}, ok: true}
	case objText == "$rootScope":
		return cursorQuery{name: propText, kinds: []model.SymbolKind{model.KindRootScopeProperty, model.KindRootScopeMethod}, ok: true}
	case objText == "this":
		return cursorQuery{name: propText, kinds: []model.SymbolKind{model.KindControllerAsProperty, model.KindControllerAsMethod}, ok: true}
	case gate != nil && gate.HasDependency(objText):
		// ServiceName.member: the extractor does not model generic
		// service-internal members as Symbols (only the registrant
		// itself and its $scope/this/alias assignments are), so the
		// best local answer is the service's own definition.
		return cursorQuery{name: objText, kinds: registrantKinds, ok: true}
	default:
		// Could be an ALIAS.member controller-as access; the alias
		// itself isn't indexed; fall back to the ControllerAsMember
		// kinds by property name alone (spec: "if multiple, return all").
		return cursorQuery{name: propText, kinds: []model.SymbolKind{model.KindControllerAsProperty, model.KindControllerAsMethod}, ok: true}
	}
}

// isDIArrayDependencySlot reports whether n is one of the leading
// string elements of a `[...]` DI array (every element but the last,
// which is the registrant function/class).
func isDIArrayDependencySlot(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Type() != syntax.JSArray {
		return false
	}
	items := syntax.NamedChildren(parent)
	if len(items) == 0 {
		return false
	}
	return items[len(items)-1] != n
}

// symbolsByNameAndKind filters idx.GetByName(name) down to the given
// Kinds, preserving Index iteration order.
func symbolsByNameAndKind(idx *index.SymbolIndex, name string, kinds []model.SymbolKind) []*model.Symbol {
	want := make(map[model.SymbolKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []*model.Symbol
	for _, sym := range idx.GetByName(name) {
		if want[sym.Kind] {
			out = append(out, sym)
		}
	}
	return out
}
