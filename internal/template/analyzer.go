// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package template

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Diagnostic is a single template-analysis finding, surfaced to the
// client as an LSP diagnostic.
type Diagnostic struct {
	Severity string // "error" | "warning" | "hint"
	Message  string
	Location model.Location
}

// Result is everything the Template Analyzer recognized in one HTML
// file.
type Result struct {
	References  []model.Reference
	Diagnostics []Diagnostic
}

// ngExpressionAttrs is the set of built-in ng-* attributes whose value
// is an AngularJS expression to scan for scope/controller-as member
// references, beyond the specially-handled ng-controller/ng-repeat.
var ngExpressionAttrs = map[string]bool{
	"ng-click": true, "ng-dblclick": true, "ng-change": true, "ng-submit": true,
	"ng-if": true, "ng-show": true, "ng-hide": true, "ng-model": true,
	"ng-value": true, "ng-checked": true, "ng-disabled": true, "ng-readonly": true,
	"ng-required": true, "ng-selected": true, "ng-class": true, "ng-style": true,
	"ng-bind": true, "ng-href": true, "ng-src": true,
}

var reservedWords = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
}

var (
	interpolationRe  = regexp.MustCompile(`\{\{(.*?)\}\}`)
	ngRepeatRe       = regexp.MustCompile(`^\s*([\w$]+)(?:\s*,\s*([\w$]+))?\s+in\s+([^|]+?)(?:\s+track\s+by\s+(.+))?\s*$`)
	ngControllerRe   = regexp.MustCompile(`^\s*([\w$.]+)(?:\s+as\s+([\w$]+))?\s*$`)
	rootIdentifierRe = regexp.MustCompile(`^\s*([A-Za-z_$][\w$]*)(?:\.([A-Za-z_$][\w$]*))?`)
	filterNameRe     = regexp.MustCompile(`^\s*([A-Za-z_$][\w$]*)`)
)

// SymbolLookup is the subset of index.SymbolIndex the Template
// Analyzer needs: resolving a custom element's tag name to the
// Component/Directive Symbol that declares its bindings.
type SymbolLookup interface {
	GetByName(name string) []*model.Symbol
}

// Analyzer walks an HTML Tree recognizing AngularJS template
// constructs.
type Analyzer struct {
	lookup SymbolLookup
}

// New creates an Analyzer backed by lookup, used to resolve custom
// element tag names against the workspace Index's Component/Directive
// symbols. lookup may be nil, in which case custom element bindings
// are never recognized (interpolation and ng-* attributes still are).
// Analyzer holds no other state between calls and is safe for
// concurrent use.
func New(lookup SymbolLookup) *Analyzer {
	return &Analyzer{lookup: lookup}
}

// scopeFrame tracks the controller-as alias and ng-repeat locals in
// effect for the element subtree currently being walked.
type scopeFrame struct {
	alias  string
	locals []string
}

func (f scopeFrame) withLocal(name string) scopeFrame {
	locals := make([]string, len(f.locals), len(f.locals)+1)
	copy(locals, f.locals)
	locals = append(locals, name)
	return scopeFrame{alias: f.alias, locals: locals}
}

func (f scopeFrame) withAlias(alias string) scopeFrame {
	locals := make([]string, len(f.locals))
	copy(locals, f.locals)
	return scopeFrame{alias: alias, locals: locals}
}

func (f scopeFrame) isLocal(name string) bool {
	for _, l := range f.locals {
		if l == name {
			return true
		}
	}
	return false
}

// Analyze walks tree and returns every Reference and Diagnostic it
// recognizes.
func (a *Analyzer) Analyze(ctx context.Context, tree *syntax.Tree) (*Result, error) {
	result := &Result{References: []model.Reference{}, Diagnostics: []Diagnostic{}}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	w := &walker{tree: tree, result: result, lookup: a.lookup}
	w.walkElement(tree.RootNode(), scopeFrame{})
	return result, nil
}

type walker struct {
	tree   *syntax.Tree
	result *Result
	lookup SymbolLookup
}

func (w *walker) walkElement(n *sitter.Node, frame scopeFrame) {
	if n == nil {
		return
	}

	next := frame
	switch n.Type() {
	case syntax.HTMLElement, syntax.HTMLSelfClosingTag:
		next = w.applyElementAttributes(n, frame)
	case syntax.HTMLText:
		w.scanInterpolations(n, frame)
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		w.walkElement(n.Child(i), next)
	}
}

func (w *walker) applyElementAttributes(n *sitter.Node, frame scopeFrame) scopeFrame {
	next := frame
	tag := tagNode(n)
	bindings := w.customElementBindings(tag)
	for _, attr := range attributeNodes(tag) {
		name, value, valueNode := attrNameValue(attr, w.tree)
		if valueNode == nil {
			continue
		}

		switch name {
		case "ng-controller":
			next = w.applyNgController(value, valueNode, next)
		case "ng-repeat":
			next = w.applyNgRepeat(value, valueNode, next)
		case "ng-include", "src":
			if name == "src" && elementName(tag, w.tree) != "ng-include" {
				break
			}
			w.applyNgInclude(value, valueNode)
		default:
			if ngExpressionAttrs[name] {
				w.recordExpressionReferences(value, next, valueNode)
			} else if kind := bindings[attrToBindingKey(name)]; kind == "=" || kind == "&" {
				w.recordExpressionReferences(value, next, valueNode)
			}
		}
	}
	return next
}

// customElementBindings resolves tag's element name against the Index
// for a Component or Directive Symbol declaring isolate-scope
// bindings, returning its propName->bindingKind map (nil if tag isn't
// a recognized custom element, or declares none).
func (w *walker) customElementBindings(tag *sitter.Node) map[string]string {
	if w.lookup == nil {
		return nil
	}
	name := elementName(tag, w.tree)
	if name == "" {
		return nil
	}
	for _, sym := range w.lookup.GetByName(kebabToCamel(name)) {
		switch sym.Kind {
		case model.KindComponent:
			if sym.Metadata.Component != nil {
				return sym.Metadata.Component.Bindings
			}
		case model.KindDirective:
			if sym.Metadata.Directive != nil {
				return sym.Metadata.Directive.Bindings
			}
		}
	}
	return nil
}

func (w *walker) applyNgController(value string, valueNode *sitter.Node, frame scopeFrame) scopeFrame {
	m := ngControllerRe.FindStringSubmatch(value)
	if m == nil {
		w.diagnose("warning", "unrecognized ng-controller expression: "+value, valueNode)
		return frame
	}
	ctrlName, alias := m[1], m[2]
	w.addReference(ctrlName, model.KindController, w.tree.LocationOf(valueNode))
	if alias != "" {
		return frame.withAlias(alias)
	}
	return frame
}

func (w *walker) applyNgRepeat(value string, valueNode *sitter.Node, frame scopeFrame) scopeFrame {
	m := ngRepeatRe.FindStringSubmatch(value)
	if m == nil {
		w.diagnose("warning", "unrecognized ng-repeat expression: "+value, valueNode)
		return frame
	}
	itemVar, indexVar, collectionExpr := m[1], m[2], strings.TrimSpace(m[3])
	w.recordExpressionReferences(collectionExpr, frame, valueNode)

	next := frame.withLocal(itemVar)
	if indexVar != "" {
		next = next.withLocal(indexVar)
	}
	return next
}

// applyNgInclude recognizes the `ng-include="'path.html'"` attribute
// form and the `<ng-include src="'path.html'">` element form. Per
// SPEC_FULL.md §2.3/§4.5, a statically-known included template is a
// workspace cross-file link the Cache's GlobalRecord tracks; it is
// recorded here as a Reference (kind RouteBinding, same as a route's
// templateUrl) rather than a new Result field, so it flows through the
// same per-file Index storage every other reference does. A dynamic
// `ng-include` expression (no quoted literal) can't be resolved
// statically and is left unrecorded.
func (w *walker) applyNgInclude(value string, valueNode *sitter.Node) {
	path, ok := quotedStringLiteral(value)
	if !ok {
		return
	}
	w.addReference(path, model.KindRouteBinding, w.tree.LocationOf(valueNode))
}

// quotedStringLiteral strips a surrounding '...' or "..." from an
// AngularJS expression, reporting ok=false for anything else (a
// dynamic expression, a bare identifier).
func quotedStringLiteral(expr string) (string, bool) {
	s := strings.TrimSpace(expr)
	if len(s) < 2 {
		return "", false
	}
	quote := s[0]
	if (quote != '\'' && quote != '"') || s[len(s)-1] != quote {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func (w *walker) scanInterpolations(n *sitter.Node, frame scopeFrame) {
	text := w.tree.Text(n)
	for _, m := range interpolationRe.FindAllStringSubmatch(text, -1) {
		w.recordExpressionReferences(m[1], frame, n)
	}
}

// recordExpressionReferences scans a single AngularJS expression
// (e.g. an interpolation body or an ng-* attribute value) for the
// identifiers worth resolving: the base scope/controller-as member of
// the value expression, and any filter names in its pipe chain.
// anchor's Location is used for every Reference found — template
// expressions are short enough that per-identifier column precision
// isn't worth the bookkeeping.
func (w *walker) recordExpressionReferences(expr string, frame scopeFrame, anchor *sitter.Node) {
	loc := w.tree.LocationOf(anchor)
	segments := splitFilterChain(expr)
	if len(segments) == 0 {
		return
	}

	if m := rootIdentifierRe.FindStringSubmatch(segments[0]); m != nil {
		first, second := m[1], m[2]
		switch {
		case reservedWords[first] || frame.isLocal(first):
			// a literal keyword or loop-local: not an Index Symbol.
		case first == frame.alias && second != "":
			w.addReference(second, model.KindControllerAsProperty, loc)
		case first == "$rootScope" && second != "":
			w.addReference(second, model.KindRootScopeProperty, loc)
		case frame.alias == "":
			w.addReference(first, model.KindScopeProperty, loc)
		}
	}

	for _, seg := range segments[1:] {
		if m := filterNameRe.FindStringSubmatch(seg); m != nil {
			w.addReference(m[1], model.KindFilter, loc)
		}
	}
}

func (w *walker) addReference(name string, kindHint model.SymbolKind, loc model.Location) {
	if name == "" {
		return
	}
	w.result.References = append(w.result.References, model.Reference{
		ID:             model.NewID(),
		ReferencedName: name,
		KindHint:       kindHint,
		Location:       loc,
	})
}

func (w *walker) diagnose(severity, message string, n *sitter.Node) {
	w.result.Diagnostics = append(w.result.Diagnostics, Diagnostic{
		Severity: severity,
		Message:  message,
		Location: w.tree.LocationOf(n),
	})
}

// kebabToCamel converts a hyphenated HTML name ("my-widget",
// "on-save") to the camelCase identifier AngularJS normalizes it to
// ("myWidget", "onSave") when matching directive/component names and
// binding keys.
func kebabToCamel(s string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range s {
		if r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// attrToBindingKey maps an HTML attribute name to the bindings map key
// AngularJS would match it against.
func attrToBindingKey(name string) string {
	return kebabToCamel(name)
}

// splitFilterChain splits an AngularJS expression on its top-level `|`
// filter separators, treating `||` (logical OR) as not a separator.
func splitFilterChain(expr string) []string {
	const placeholder = "\x00OR\x00"
	tmp := strings.ReplaceAll(expr, "||", placeholder)
	parts := strings.Split(tmp, "|")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, placeholder, "||")
	}
	return parts
}
