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
	"strconv"
	"strings"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// CodeLens returns one lens per Controller Symbol in filePath linking
// to its RouteBinding-reachable templates, and (when filePath is
// itself a RouteBinding's template) one lens linking back to its
// Controllers.
func (r *Resolver) CodeLens(filePath string) []CodeLens {
	bindings := r.idx.GetByKind(model.KindRouteBinding)

	var lenses []CodeLens
	for _, ctrl := range r.idx.GetByFile(filePath) {
		if ctrl.Kind != model.KindController {
			continue
		}
		var locs []model.Location
		for _, b := range bindings {
			if b.Metadata.RouteBinding != nil && b.Metadata.RouteBinding.ControllerName == ctrl.Name {
				locs = append(locs, b.Location)
			}
		}
		if len(locs) == 0 {
			continue
		}
		lenses = append(lenses, CodeLens{
			Range:     ctrl.DefinitionRange,
			Title:     routeCountTitle(len(locs)),
			Locations: locs,
		})
	}

	for _, b := range bindings {
		if b.Metadata.RouteBinding == nil || b.Metadata.RouteBinding.TemplateURL == "" {
			continue
		}
		if !templateMatchesFile(b.Metadata.RouteBinding.TemplateURL, filePath) {
			continue
		}
		ctrls := symbolsByNameAndKind(r.idx, b.Metadata.RouteBinding.ControllerName, []model.SymbolKind{model.KindController})
		if len(ctrls) == 0 {
			continue
		}
		var locs []model.Location
		for _, c := range ctrls {
			locs = append(locs, c.Location)
		}
		lenses = append(lenses, CodeLens{
			Range:     b.DefinitionRange,
			Title:     controllerCountTitle(len(locs)),
			Locations: locs,
		})
	}

	return lenses
}

func templateMatchesFile(templateURL, filePath string) bool {
	return filePath == templateURL || strings.HasSuffix(filePath, templateURL)
}

func routeCountTitle(n int) string {
	if n == 1 {
		return "1 route template"
	}
	return pluralCount(n, "route templates")
}

func controllerCountTitle(n int) string {
	if n == 1 {
		return "1 controller"
	}
	return pluralCount(n, "controllers")
}

func pluralCount(n int, noun string) string {
	return strconv.Itoa(n) + " " + noun
}
