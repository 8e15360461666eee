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

func (w *walker) handleConstantOrValue(n, obj *sitter.Node, kindName string, args *sitter.Node) {
	nameNode := firstNamedArg(args)
	if nameNode == nil {
		return
	}
	name, ok := syntax.StringValue(nameNode, w.tree.Source())
	if !ok {
		return
	}

	kind := model.KindValue
	if kindName == "constant" {
		kind = model.KindConstant
	}

	w.record.Symbols = append(w.record.Symbols, model.Symbol{
		ID:              model.NewID(),
		Kind:            kind,
		Name:            name,
		OwnerModule:     w.resolveOwnerModule(obj),
		Location:        w.tree.LocationOf(n),
		DefinitionRange: w.tree.RangeOf(nameNode),
		Docs:            w.leadingDoc(n),
	})
}

// handleDecorator records `$provide.decorator(name, ...)` as a
// Reference to the decorated construct rather than a new Symbol: per
// the resolved Open Question on decorator target identity, the
// decorated name is resolved lazily against whatever Symbol kind it
// turns out to match at query time.
func (w *walker) handleDecorator(n, args *sitter.Node) {
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
		ReferencedName: name,
		KindHint:       model.KindUnknown,
		Location:       w.tree.LocationOf(nameNode),
	})
}
