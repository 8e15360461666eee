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

	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// parseDependencies recognizes all five AngularJS dependency-injection
// shapes and returns the resolved dependency name list alongside the
// function (or class constructor) node scope members should be
// extracted from.
//
//  1. Array DSL:        ['$scope', '$http', function($scope, $http) {}]
//  2. $inject:           function Ctrl($scope) {}; Ctrl.$inject = ['$scope'];
//  3. Bare parameters:   function($scope, $http) {}
//  4. Class constructor: class Ctrl { constructor($scope) {} }
//  5. Component config:  { controller: [...] / function(){} / ClassCtrl }
func (w *walker) parseDependencies(defNode *sitter.Node) ([]string, *sitter.Node) {
	if defNode == nil {
		return nil, nil
	}
	switch defNode.Type() {
	case syntax.JSArray:
		return w.parseArrayDIShape(defNode)
	case syntax.JSFunction, syntax.JSFunctionExpression, syntax.JSArrowFunction, syntax.JSFunctionDeclaration:
		return w.parseFunctionShape(defNode)
	case syntax.JSClass, syntax.JSClassDeclaration:
		return w.parseClassShape(defNode)
	case syntax.JSIdentifier:
		name := w.tree.Text(defNode)
		fn, hasFn := w.namedFunctions[name]
		if deps, ok := w.injectAssignments[name]; ok {
			return deps, fn
		}
		if hasFn {
			return w.parseDependencies(fn)
		}
		return nil, nil
	case syntax.JSObject:
		if ctrl := objectProperty(defNode, "controller", w.tree); ctrl != nil {
			return w.parseDependencies(ctrl)
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func (w *walker) parseArrayDIShape(arr *sitter.Node) ([]string, *sitter.Node) {
	items := syntax.NamedChildren(arr)
	if len(items) == 0 {
		return nil, nil
	}
	last := items[len(items)-1]
	var deps []string
	for _, item := range items[:len(items)-1] {
		if name, ok := syntax.StringValue(item, w.tree.Source()); ok {
			deps = append(deps, name)
		}
	}
	return deps, last
}

func (w *walker) parseFunctionShape(fn *sitter.Node) ([]string, *sitter.Node) {
	if fn == nil {
		return nil, nil
	}
	if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
		if deps, ok := w.injectAssignments[w.tree.Text(nameNode)]; ok {
			return deps, fn
		}
	}
	return paramNames(fn.ChildByFieldName("parameters"), w.tree), fn
}

func (w *walker) parseClassShape(cls *sitter.Node) ([]string, *sitter.Node) {
	body := cls.ChildByFieldName("body")
	if body == nil {
		return nil, nil
	}

	var ctor *sitter.Node
	var injected []string
	hasInject := false
	for _, member := range syntax.NamedChildren(body) {
		switch member.Type() {
		case syntax.JSMethodDefinition:
			if nameNode := member.ChildByFieldName("name"); nameNode != nil && w.tree.Text(nameNode) == "constructor" {
				ctor = member
			}
		case syntax.JSFieldDefinition:
			nameNode := member.ChildByFieldName("property")
			if nameNode == nil {
				nameNode = member.ChildByFieldName("name")
			}
			if nameNode != nil && w.tree.Text(nameNode) == "$inject" {
				if val := member.ChildByFieldName("value"); val != nil && val.Type() == syntax.JSArray {
					injected, hasInject = stringArrayValues(val, w.tree), true
				}
			}
		}
	}

	if hasInject {
		return injected, ctor
	}
	if ctor == nil {
		return nil, ctor
	}
	return paramNames(ctor.ChildByFieldName("parameters"), w.tree), ctor
}

// paramNames extracts the plain identifier names of a formal_parameters
// node, skipping destructuring/default-value/rest patterns this
// catalog doesn't need to resolve further.
func paramNames(params *sitter.Node, tree *syntax.Tree) []string {
	if params == nil {
		return nil
	}
	var names []string
	for _, p := range syntax.NamedChildren(params) {
		if p.Type() == syntax.JSIdentifier {
			names = append(names, tree.Text(p))
		}
	}
	return names
}

// objectProperty returns the value node of the first key: value pair
// in obj whose key text matches key (quotes stripped).
func objectProperty(obj *sitter.Node, key string, tree *syntax.Tree) *sitter.Node {
	if obj == nil {
		return nil
	}
	for _, pair := range syntax.NamedChildren(obj) {
		if pair.Type() != syntax.JSPair {
			continue
		}
		keyNode := pair.ChildByFieldName("key")
		valueNode := pair.ChildByFieldName("value")
		if keyNode == nil || valueNode == nil {
			continue
		}
		keyText := tree.Text(keyNode)
		if unquoted, ok := syntax.StringValue(keyNode, tree.Source()); ok {
			keyText = unquoted
		}
		if keyText == key {
			return valueNode
		}
	}
	return nil
}
