// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// extractScopeMembers walks a registrant's body for $scope.x / this.x /
// <controller-as-alias>.x assignments (becoming ScopeProperty/Method or
// ControllerAsProperty/Method Symbols owned by owner), $rootScope.x
// assignments (RootScopeProperty/Method, globally visible), and
// $watch/$on/$broadcast/$emit calls (becoming References, per the data
// model — these never produce new Symbols).
func (w *walker) extractScopeMembers(owner *model.Symbol, fnNode *sitter.Node, deps []string) {
	body := fnNode.ChildByFieldName("body")
	if body == nil {
		return
	}

	hasScope := containsString(deps, "$scope")
	aliases := w.findControllerAsAliases(body)

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}

		switch n.Type() {
		case syntax.JSAssignmentExpression:
			w.handleScopeAssignment(owner, n, hasScope, aliases)
		case syntax.JSCallExpression:
			w.handleScopeEventCall(owner, n, hasScope, aliases)
		}

		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			visit(n.Child(i))
		}
	}
	visit(body)
}

func (w *walker) handleScopeAssignment(owner *model.Symbol, n *sitter.Node, hasScope bool, aliases map[string]bool) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || left.Type() != syntax.JSMemberExpression {
		return
	}
	obj := left.ChildByFieldName("object")
	prop := left.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return
	}
	objText := w.tree.Text(obj)

	switch {
	case hasScope && objText == "$scope":
		w.recordScopeMember(owner, left, prop, right, model.KindScopeProperty, model.KindScopeMethod)
	case objText == "$rootScope":
		w.recordScopeMember(owner, left, prop, right, model.KindRootScopeProperty, model.KindRootScopeMethod)
	case objText == "this" || aliases[objText]:
		w.recordScopeMember(owner, left, prop, right, model.KindControllerAsProperty, model.KindControllerAsMethod)
	}
}

func (w *walker) recordScopeMember(owner *model.Symbol, memberExpr, propNode, valueNode *sitter.Node, propertyKind, methodKind model.SymbolKind) {
	kind := propertyKind
	if valueNode != nil {
		switch valueNode.Type() {
		case syntax.JSFunction, syntax.JSFunctionExpression, syntax.JSArrowFunction:
			kind = methodKind
		}
	}
	w.record.Symbols = append(w.record.Symbols, model.Symbol{
		ID:              model.NewID(),
		Kind:            kind,
		Name:            w.tree.Text(propNode),
		OwnerSymbolID:   owner.ID,
		Location:        w.tree.LocationOf(memberExpr),
		DefinitionRange: w.tree.RangeOf(propNode),
	})
}

func (w *walker) handleScopeEventCall(owner *model.Symbol, n *sitter.Node, hasScope bool, aliases map[string]bool) {
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Type() != syntax.JSMemberExpression {
		return
	}
	obj := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return
	}
	objText := w.tree.Text(obj)
	isScopeish := (hasScope && objText == "$scope") || objText == "$rootScope" || objText == "this" || aliases[objText]
	if !isScopeish {
		return
	}

	switch w.tree.Text(prop) {
	case "$watch", "$on", "$broadcast", "$emit":
		args := n.ChildByFieldName("arguments")
		nameNode := firstNamedArg(args)
		if nameNode == nil {
			return
		}
		name, ok := syntax.StringValue(nameNode, w.tree.Source())
		if !ok {
			return
		}
		w.record.References = append(w.record.References, model.Reference{
			ID:             model.NewID(),
			OwnerSymbolID:  owner.ID,
			ReferencedName: name,
			KindHint:       model.KindScopeProperty,
			Location:       w.tree.LocationOf(nameNode),
		})
	}
}

// findControllerAsAliases finds every local variable bound to `this`
// inside body (the "controller-as" idiom: `var vm = this;`,
// `self = this;`, etc.).
func (w *walker) findControllerAsAliases(body *sitter.Node) map[string]bool {
	aliases := make(map[string]bool)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case syntax.JSVariableDeclarator:
			nameNode := n.ChildByFieldName("name")
			valueNode := n.ChildByFieldName("value")
			if nameNode != nil && valueNode != nil && valueNode.Type() == syntax.JSThis {
				aliases[w.tree.Text(nameNode)] = true
			}
		case syntax.JSAssignmentExpression:
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			if left != nil && left.Type() == syntax.JSIdentifier && right != nil && right.Type() == syntax.JSThis {
				aliases[w.tree.Text(left)] = true
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			visit(n.Child(i))
		}
	}
	visit(body)
	return aliases
}
