// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import "github.com/google/uuid"

// Position is a zero-indexed line/column pair, matching LSP convention.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span within a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is a byte-range-and-line/col span within a specific file.
//
// ByteStart/ByteEnd are offsets into the file's UTF-8 content, used by
// Syntax for cursor queries; Range carries the line/column form LSP wire
// types need. Both are always populated together.
type Location struct {
	FilePath  string `json:"filePath"`
	ByteStart int    `json:"byteStart"`
	ByteEnd   int    `json:"byteEnd"`
	Range     Range  `json:"range"`
}

// NewID returns a fresh stable identifier for a Symbol or Reference.
func NewID() string {
	return uuid.NewString()
}

// DirectiveMetadata carries the fields recognized only for Directive
// symbols: the `restrict` string (e.g. "AE") and whether the directive
// declares an isolate scope.
type DirectiveMetadata struct {
	Restrict     string            `json:"restrict,omitempty"`
	IsolateScope bool              `json:"isolateScope,omitempty"`
	Bindings     map[string]string `json:"bindings,omitempty"` // isolate scope propName -> binding kind (=, &, @, <)
}

// ComponentMetadata carries the fields recognized only for Component
// symbols.
type ComponentMetadata struct {
	Bindings      map[string]string `json:"bindings,omitempty"` // propName -> binding kind (=, &, @, <)
	ControllerAs  string            `json:"controllerAs,omitempty"`
	TemplateURL   string            `json:"templateUrl,omitempty"`
	ControllerRef string            `json:"controllerRef,omitempty"` // name, when controller is a string reference
}

// RouteBindingMetadata carries the fields recognized only for
// RouteBinding symbols.
type RouteBindingMetadata struct {
	ControllerName string `json:"controllerName,omitempty"`
	TemplateURL    string `json:"templateUrl,omitempty"`
	Path           string `json:"path,omitempty"` // .when path or .state name
}

// Metadata is the per-kind payload attached to a Symbol. Exactly one of
// these fields is populated, chosen by Kind; the rest are zero.
type Metadata struct {
	Directive    *DirectiveMetadata    `json:"directive,omitempty"`
	Component    *ComponentMetadata    `json:"component,omitempty"`
	RouteBinding *RouteBindingMetadata `json:"routeBinding,omitempty"`
}

// Symbol is one recognized AngularJS construct: a Module, a DI-bearing
// registration, a scope/controller-as member, or a route binding.
type Symbol struct {
	ID   string     `json:"id"`
	Kind SymbolKind `json:"kind"`

	// Name is the construct's string-DSL name, e.g. "UserService" or, for
	// scope members, the bare property name (the owner disambiguates it).
	Name string `json:"name"`

	// Owner is the id of the enclosing Symbol for scope/controller-as
	// members, or the module name for top-level constructs and route
	// bindings.
	// Exactly one of OwnerSymbolID / OwnerModule is set.
	OwnerSymbolID string `json:"ownerSymbolId,omitempty"`
	OwnerModule   string `json:"ownerModule,omitempty"`

	// Location is the full extent of the construct (e.g. the whole
	// registration call); DefinitionRange narrows to just the name token.
	Location        Location `json:"location"`
	DefinitionRange Range    `json:"definitionRange"`

	// Dependencies is the ordered DI list for DI-bearing kinds, empty
	// otherwise.
	Dependencies []string `json:"dependencies,omitempty"`

	// Docs is the first JSDoc block immediately preceding the definition,
	// if any, used for Hover.
	Docs string `json:"docs,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// HasDependency reports whether name appears in the symbol's DI list,
// which is the gate the Resolver applies for plain-identifier service
// references (DI-visibility).
func (s *Symbol) HasDependency(name string) bool {
	for _, d := range s.Dependencies {
		if d == name {
			return true
		}
	}
	return false
}

// Reference is a textual use of a symbol, resolved lazily against the
// Index at query time rather than stored as a direct pointer.
type Reference struct {
	ID string `json:"id"`

	// OwnerSymbolID is the enclosing controller/service/template-scope
	// Symbol id the reference was found inside, used for DI-visibility
	// and scope resolution. May be empty for top-level references.
	OwnerSymbolID string `json:"ownerSymbolId,omitempty"`

	ReferencedName string     `json:"referencedName"`
	KindHint       SymbolKind `json:"kindHint"`

	Location Location `json:"location"`
}

// Module is a named registry of AngularJS constructs.
//
// A module is *declared* by `angular.module(name, [deps])` and *extended*
// by `angular.module(name)`. Per the data model, multiple declarations of
// the same name with differing dependency lists are NOT merged: each
// declaration site produces its own Module record.
type Module struct {
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies"`
	Location     Location `json:"location"`
	Declared     bool     `json:"declared"` // false when produced by an extend-form chain handle
}

// FileRecord tracks what a single file currently contributes to the
// workspace index: its content hash, when it was last parsed, and the
// full set of Symbols/References/Modules it defines. Index.ReplaceFile
// uses this as the unit of atomic replacement.
type FileRecord struct {
	Path       string `json:"path"`
	ContentSHA string `json:"contentSha"`
	ParseEpoch int64  `json:"parseEpoch"`

	Symbols    []Symbol    `json:"symbols"`
	References []Reference `json:"references"`
	Modules    []Module    `json:"modules"`
}
