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

// handleModuleCall records `angular.module(name, [deps])` (a
// declaration) or `angular.module(name)` (an extend-form handle).
// Per the data model, declarations are never merged: every call site
// produces its own Module record.
func (w *walker) handleModuleCall(n, args *sitter.Node) {
	nameNode := firstNamedArg(args)
	if nameNode == nil {
		return
	}
	name, ok := syntax.StringValue(nameNode, w.tree.Source())
	if !ok {
		return
	}

	named := syntax.NamedChildren(args)
	mod := model.Module{Name: name, Location: w.tree.LocationOf(n)}
	if len(named) >= 2 && named[1].Type() == syntax.JSArray {
		mod.Dependencies = stringArrayValues(named[1], w.tree)
		mod.Declared = true
	}
	w.record.Modules = append(w.record.Modules, mod)

	if parent := n.Parent(); parent != nil && parent.Type() == syntax.JSVariableDeclarator {
		if varName := parent.ChildByFieldName("name"); varName != nil {
			w.moduleAliases[w.tree.Text(varName)] = name
		}
	}
}

// resolveOwnerModule walks the object expression a registrant call was
// made against (e.g. the `angular.module('app')` in
// `angular.module('app').controller(...)`) back to the declaring
// module's name. It handles a chain of fluent `.controller(...)`
// calls, a variable alias assigned from a module call, and falls back
// to the bare identifier text when neither resolves — an
// approximation that still gives the Resolver something to group by.
func (w *walker) resolveOwnerModule(n *sitter.Node) string {
	for n != nil {
		switch n.Type() {
		case syntax.JSIdentifier:
			if mod, ok := w.moduleAliases[w.tree.Text(n)]; ok {
				return mod
			}
			return w.tree.Text(n)
		case syntax.JSCallExpression:
			callee := n.ChildByFieldName("function")
			if callee == nil || callee.Type() != syntax.JSMemberExpression {
				return ""
			}
			obj := callee.ChildByFieldName("object")
			prop := callee.ChildByFieldName("property")
			if obj == nil || prop == nil {
				return ""
			}
			if w.tree.Text(obj) == "angular" && w.tree.Text(prop) == "module" {
				args := n.ChildByFieldName("arguments")
				if nameNode := firstNamedArg(args); nameNode != nil {
					if name, ok := syntax.StringValue(nameNode, w.tree.Source()); ok {
						return name
					}
				}
				return ""
			}
			n = obj
		default:
			return ""
		}
	}
	return ""
}
