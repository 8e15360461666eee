// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package model defines the AngularJS semantic data model: the Symbol and
// Reference records the Extractor and Template Analyzer emit, and the File
// and Module records the Index keys them by.
package model

import "fmt"

// SymbolKind is the closed catalog of AngularJS constructs the Extractor
// and Template Analyzer recognize.
type SymbolKind int

const (
	KindUnknown SymbolKind = iota
	KindModule
	KindController
	KindService
	KindFactory
	KindDirective
	KindComponent
	KindFilter
	KindProvider
	KindConstant
	KindValue
	KindScopeProperty
	KindScopeMethod
	KindControllerAsProperty
	KindControllerAsMethod
	KindRootScopeProperty
	KindRootScopeMethod
	KindRouteBinding
)

var kindNames = map[SymbolKind]string{
	KindUnknown:              "Unknown",
	KindModule:               "Module",
	KindController:           "Controller",
	KindService:              "Service",
	KindFactory:              "Factory",
	KindDirective:            "Directive",
	KindComponent:            "Component",
	KindFilter:               "Filter",
	KindProvider:             "Provider",
	KindConstant:             "Constant",
	KindValue:                "Value",
	KindScopeProperty:        "ScopeProperty",
	KindScopeMethod:          "ScopeMethod",
	KindControllerAsProperty: "ControllerAsProperty",
	KindControllerAsMethod:   "ControllerAsMethod",
	KindRootScopeProperty:    "RootScopeProperty",
	KindRootScopeMethod:      "RootScopeMethod",
	KindRouteBinding:         "RouteBinding",
}

// String returns the canonical name of the kind, or "Unknown" for an
// unrecognized value.
func (k SymbolKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseSymbolKind resolves a canonical name back to a SymbolKind.
func ParseSymbolKind(name string) (SymbolKind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("model: unknown symbol kind %q", name)
}

// IsDIBearing reports whether constructs of this kind carry a dependency
// list populated from the registration call (array DSL, $inject, or bare
// parameter names).
func (k SymbolKind) IsDIBearing() bool {
	switch k {
	case KindController, KindService, KindFactory, KindDirective, KindComponent, KindFilter, KindProvider:
		return true
	default:
		return false
	}
}

// IsScopeMember reports whether the kind is owned by an enclosing
// controller/service/component rather than directly by a Module.
func (k SymbolKind) IsScopeMember() bool {
	switch k {
	case KindScopeProperty, KindScopeMethod,
		KindControllerAsProperty, KindControllerAsMethod,
		KindRootScopeProperty, KindRootScopeMethod:
		return true
	default:
		return false
	}
}
