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

// walker holds the per-file state threaded through a single Extract
// call: the tree being walked, the FileRecord being built, and the
// lookahead tables the DI shapes need ($inject assignments, named
// function bindings, module variable aliases).
type walker struct {
	tree   *syntax.Tree
	record *model.FileRecord
	errs   []error

	moduleAliases     map[string]string
	injectAssignments map[string][]string
	namedFunctions    map[string]*sitter.Node

	// consumed holds byte ranges already fully explored by
	// extractScopeMembers, so the generic call-dispatch walk doesn't
	// re-visit (and double-record) a registrant's own function body.
	consumed [][2]uint32
}

func newWalker(tree *syntax.Tree, record *model.FileRecord) *walker {
	return &walker{
		tree:              tree,
		record:            record,
		moduleAliases:     make(map[string]string),
		injectAssignments: make(map[string][]string),
		namedFunctions:    make(map[string]*sitter.Node),
	}
}

func (w *walker) run() {
	root := w.tree.RootNode()
	w.prePass(root)
	w.walk(root)
}

// prePass collects `X.$inject = [...]` assignments and named function
// bindings (function and class declarations and `var X = function(){...}`)
// from anywhere in the file, so DI shapes 2 ($inject) and 4 (class) can
// resolve regardless of declaration order relative to the registration
// call.
func (w *walker) prePass(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case syntax.JSAssignmentExpression:
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left != nil && left.Type() == syntax.JSMemberExpression && right != nil && right.Type() == syntax.JSArray {
			obj := left.ChildByFieldName("object")
			prop := left.ChildByFieldName("property")
			if obj != nil && prop != nil && w.tree.Text(prop) == "$inject" {
				w.injectAssignments[w.tree.Text(obj)] = stringArrayValues(right, w.tree)
			}
		}
	case syntax.JSFunctionDeclaration, syntax.JSClassDeclaration:
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			w.namedFunctions[w.tree.Text(nameNode)] = n
		}
	case syntax.JSVariableDeclarator:
		nameNode := n.ChildByFieldName("name")
		valueNode := n.ChildByFieldName("value")
		if nameNode != nil && valueNode != nil {
			switch valueNode.Type() {
			case syntax.JSFunction, syntax.JSFunctionExpression, syntax.JSArrowFunction, syntax.JSClass:
				w.namedFunctions[w.tree.Text(nameNode)] = valueNode
			}
		}
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		w.prePass(n.Child(i))
	}
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil || w.isConsumed(n) {
		return
	}

	if n.Type() == syntax.JSCallExpression {
		w.handleCall(n)
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) isConsumed(n *sitter.Node) bool {
	s, e := n.StartByte(), n.EndByte()
	for _, r := range w.consumed {
		if s >= r[0] && e <= r[1] {
			return true
		}
	}
	return false
}

func (w *walker) markConsumed(n *sitter.Node) {
	if n == nil {
		return
	}
	w.consumed = append(w.consumed, [2]uint32{n.StartByte(), n.EndByte()})
}

func (w *walker) handleCall(n *sitter.Node) {
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Type() != syntax.JSMemberExpression {
		return
	}

	obj := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return
	}
	propName := w.tree.Text(prop)
	args := n.ChildByFieldName("arguments")

	switch propName {
	case "module":
		if w.tree.Text(obj) == "angular" {
			w.handleModuleCall(n, args)
		}
	case "controller", "service", "factory", "directive", "component", "filter", "provider":
		w.handleRegistrant(n, obj, propName, args)
	case "constant", "value":
		w.handleConstantOrValue(n, obj, propName, args)
	case "decorator":
		w.handleDecorator(n, args)
	case "when", "state":
		w.handleRouteBinding(n, obj, propName, args)
	}
}

func firstNamedArg(args *sitter.Node) *sitter.Node {
	named := syntax.NamedChildren(args)
	if len(named) == 0 {
		return nil
	}
	return named[0]
}

func stringArrayValues(arr *sitter.Node, tree *syntax.Tree) []string {
	var values []string
	for _, item := range syntax.NamedChildren(arr) {
		if v, ok := syntax.StringValue(item, tree.Source()); ok {
			values = append(values, v)
		}
	}
	return values
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
