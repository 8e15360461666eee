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
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

func kindForRegistrant(name string) model.SymbolKind {
	switch name {
	case "controller":
		return model.KindController
	case "service":
		return model.KindService
	case "factory":
		return model.KindFactory
	case "directive":
		return model.KindDirective
	case "component":
		return model.KindComponent
	case "filter":
		return model.KindFilter
	case "provider":
		return model.KindProvider
	default:
		return model.KindUnknown
	}
}

// handleRegistrant recognizes a DI-bearing registration call
// (controller/service/factory/directive/component/filter/provider),
// resolves its dependency list via one of the five DI shapes, and
// recurses into the registration body for scope/controller-as members
// and $watch/$on/$broadcast/$emit references.
func (w *walker) handleRegistrant(n, obj *sitter.Node, kindName string, args *sitter.Node) {
	nameNode := firstNamedArg(args)
	if nameNode == nil {
		return
	}
	name, ok := syntax.StringValue(nameNode, w.tree.Source())
	if !ok {
		w.errs = append(w.errs, fmt.Errorf("%w: %s at %s", ErrNonLiteralName, kindName, w.tree.FilePath))
		return
	}

	named := syntax.NamedChildren(args)
	var defNode *sitter.Node
	if len(named) >= 2 {
		defNode = named[1]
	}

	deps, fnNode := w.parseDependencies(defNode)
	kind := kindForRegistrant(kindName)

	sym := model.Symbol{
		ID:              model.NewID(),
		Kind:            kind,
		Name:            name,
		OwnerModule:     w.resolveOwnerModule(obj),
		Location:        w.tree.LocationOf(n),
		DefinitionRange: w.tree.RangeOf(nameNode),
		Dependencies:    deps,
		Docs:            w.leadingDoc(n),
	}

	switch kind {
	case model.KindDirective:
		sym.Metadata.Directive = w.extractDirectiveMetadata(fnNode)
	case model.KindComponent:
		sym.Metadata.Component = w.extractComponentMetadata(defNode)
	}

	w.record.Symbols = append(w.record.Symbols, sym)

	if kind == model.KindComponent && sym.Metadata.Component != nil {
		w.emitComponentBindingSymbols(sym.ID, defNode)
	}

	if fnNode != nil {
		w.extractScopeMembers(&sym, fnNode, deps)
		w.markConsumed(fnNode.ChildByFieldName("body"))
	}
}

func (w *walker) leadingDoc(n *sitter.Node) string {
	target := n
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == syntax.JSExpressionStatement || p.Type() == syntax.JSVariableDeclaration {
			target = p
			break
		}
	}
	prev := target.PrevSibling()
	if prev != nil && prev.Type() == syntax.JSComment {
		return strings.TrimSpace(w.tree.Text(prev))
	}
	return ""
}

func (w *walker) extractDirectiveMetadata(fnNode *sitter.Node) *model.DirectiveMetadata {
	if fnNode == nil {
		return nil
	}
	obj := findReturnedObject(fnNode.ChildByFieldName("body"))
	if obj == nil {
		return nil
	}
	meta := &model.DirectiveMetadata{}
	if restrict := objectProperty(obj, "restrict", w.tree); restrict != nil {
		if v, ok := syntax.StringValue(restrict, w.tree.Source()); ok {
			meta.Restrict = v
		}
	}
	if scope := objectProperty(obj, "scope", w.tree); scope != nil && scope.Type() == syntax.JSObject {
		meta.IsolateScope = true
		meta.Bindings = make(map[string]string)
		for _, pair := range syntax.NamedChildren(scope) {
			if pair.Type() != syntax.JSPair {
				continue
			}
			keyNode := pair.ChildByFieldName("key")
			valueNode := pair.ChildByFieldName("value")
			if keyNode == nil || valueNode == nil {
				continue
			}
			bindKind, _ := syntax.StringValue(valueNode, w.tree.Source())
			meta.Bindings[w.tree.Text(keyNode)] = bindKind
		}
	}
	return meta
}

func (w *walker) extractComponentMetadata(defNode *sitter.Node) *model.ComponentMetadata {
	if defNode == nil || defNode.Type() != syntax.JSObject {
		return nil
	}
	meta := &model.ComponentMetadata{}

	if ctrl := objectProperty(defNode, "controller", w.tree); ctrl != nil && ctrl.Type() == syntax.JSString {
		if name, ok := syntax.StringValue(ctrl, w.tree.Source()); ok {
			meta.ControllerRef = name
		}
	}
	meta.ControllerAs = "$ctrl"
	if as := objectProperty(defNode, "controllerAs", w.tree); as != nil {
		if name, ok := syntax.StringValue(as, w.tree.Source()); ok {
			meta.ControllerAs = name
		}
	}
	if tmpl := objectProperty(defNode, "templateUrl", w.tree); tmpl != nil {
		if name, ok := syntax.StringValue(tmpl, w.tree.Source()); ok {
			meta.TemplateURL = name
		}
	}
	if bindings := objectProperty(defNode, "bindings", w.tree); bindings != nil && bindings.Type() == syntax.JSObject {
		meta.Bindings = make(map[string]string)
		for _, pair := range syntax.NamedChildren(bindings) {
			if pair.Type() != syntax.JSPair {
				continue
			}
			keyNode := pair.ChildByFieldName("key")
			valueNode := pair.ChildByFieldName("value")
			if keyNode == nil || valueNode == nil {
				continue
			}
			bindKind, _ := syntax.StringValue(valueNode, w.tree.Source())
			meta.Bindings[w.tree.Text(keyNode)] = bindKind
		}
	}
	return meta
}

// emitComponentBindingSymbols synthesizes a ControllerAsProperty Symbol
// for each entry in a component's `bindings` map, owned by the
// component itself. This is what lets a template's `$ctrl.value` (or
// `<alias>.value` under a custom controllerAs) resolve to a
// definition: without it, a binding declared only in `bindings` has no
// Symbol of its own to find.
func (w *walker) emitComponentBindingSymbols(ownerID string, defNode *sitter.Node) {
	bindings := objectProperty(defNode, "bindings", w.tree)
	if bindings == nil || bindings.Type() != syntax.JSObject {
		return
	}
	for _, pair := range syntax.NamedChildren(bindings) {
		if pair.Type() != syntax.JSPair {
			continue
		}
		keyNode := pair.ChildByFieldName("key")
		if keyNode == nil {
			continue
		}
		w.record.Symbols = append(w.record.Symbols, model.Symbol{
			ID:              model.NewID(),
			Kind:            model.KindControllerAsProperty,
			Name:            w.tree.Text(keyNode),
			OwnerSymbolID:   ownerID,
			Location:        w.tree.LocationOf(pair),
			DefinitionRange: w.tree.RangeOf(keyNode),
		})
	}
}

func findReturnedObject(body *sitter.Node) *sitter.Node {
	if body == nil {
		return nil
	}
	var found *sitter.Node
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Type() == syntax.JSReturnStatement {
			// return_statement has no named field for its value; take
			// the first named child that is an object literal.
			for _, arg := range syntax.NamedChildren(n) {
				if arg.Type() == syntax.JSObject {
					found = arg
					return
				}
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			visit(n.Child(i))
		}
	}
	visit(body)
	return found
}
