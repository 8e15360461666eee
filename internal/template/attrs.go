// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package template recognizes AngularJS template constructs in a
// parsed HTML Tree: interpolation expressions, ng-controller,
// ng-repeat locals, and ng-* directive attribute expressions.
package template

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

func tagNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == syntax.HTMLSelfClosingTag {
		return n
	}
	for _, c := range syntax.NamedChildren(n) {
		if c.Type() == syntax.HTMLStartTag {
			return c
		}
	}
	return nil
}

// elementName returns tag's lowercase tag name (e.g. "my-widget"), or
// "" if tag is nil or has no tag_name child.
func elementName(tag *sitter.Node, tree *syntax.Tree) string {
	if tag == nil {
		return ""
	}
	for _, c := range syntax.NamedChildren(tag) {
		if c.Type() == syntax.HTMLTagName {
			return strings.ToLower(tree.Text(c))
		}
	}
	return ""
}

func attributeNodes(tag *sitter.Node) []*sitter.Node {
	if tag == nil {
		return nil
	}
	var attrs []*sitter.Node
	for _, c := range syntax.NamedChildren(tag) {
		if c.Type() == syntax.HTMLAttribute {
			attrs = append(attrs, c)
		}
	}
	return attrs
}

// attrNameValue returns an attribute's name, its unquoted value text,
// and the node the value's Location should be reported against.
func attrNameValue(attr *sitter.Node, tree *syntax.Tree) (name, value string, valueNode *sitter.Node) {
	for _, c := range syntax.NamedChildren(attr) {
		switch c.Type() {
		case syntax.HTMLAttributeName:
			name = tree.Text(c)
		case syntax.HTMLAttributeValue:
			value = tree.Text(c)
			valueNode = c
		case syntax.HTMLQuotedAttributeValue:
			for _, inner := range syntax.NamedChildren(c) {
				if inner.Type() == syntax.HTMLAttributeValue {
					value = tree.Text(inner)
					valueNode = inner
				}
			}
			if valueNode == nil {
				value = strings.Trim(tree.Text(c), `"'`)
				valueNode = c
			}
		}
	}
	return name, value, valueNode
}
