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

// handleRouteBinding recognizes `$routeProvider.when(path, {...})` and
// `$stateProvider.state(name, {...})`, recording a RouteBinding Symbol
// that carries the bound controller name and template URL.
func (w *walker) handleRouteBinding(n, obj *sitter.Node, kindName string, args *sitter.Node) {
	objText := w.tree.Text(obj)
	if objText != "$routeProvider" && objText != "$stateProvider" {
		return
	}

	named := syntax.NamedChildren(args)
	if len(named) < 2 {
		return
	}
	key, ok := syntax.StringValue(named[0], w.tree.Source())
	if !ok {
		return
	}
	cfg := named[1]
	if cfg.Type() != syntax.JSObject {
		return
	}
	_ = kindName

	meta := &model.RouteBindingMetadata{Path: key}
	if ctrl := objectProperty(cfg, "controller", w.tree); ctrl != nil {
		if name, ok := syntax.StringValue(ctrl, w.tree.Source()); ok {
			meta.ControllerName = name
		}
	}
	if tmpl := objectProperty(cfg, "templateUrl", w.tree); tmpl != nil {
		if name, ok := syntax.StringValue(tmpl, w.tree.Source()); ok {
			meta.TemplateURL = name
		}
	}

	w.record.Symbols = append(w.record.Symbols, model.Symbol{
		ID:              model.NewID(),
		Kind:            model.KindRouteBinding,
		Name:            key,
		OwnerModule:     w.resolveOwnerModule(obj),
		Location:        w.tree.LocationOf(n),
		DefinitionRange: w.tree.RangeOf(named[0]),
		Metadata:        model.Metadata{RouteBinding: meta},
	})
}
