// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// DefaultMaxSymbols bounds the number of Symbols a SymbolIndex accepts
// before Add/AddBatch/ReplaceFile start returning ErrMaxSymbolsExceeded.
const DefaultMaxSymbols = 500_000

// Option configures a SymbolIndex at construction time.
type Option func(*SymbolIndex)

// WithMaxSymbols overrides DefaultMaxSymbols.
func WithMaxSymbols(n int) Option {
	return func(idx *SymbolIndex) {
		if n > 0 {
			idx.maxSymbols = n
		}
	}
}

// IndexStats is a point-in-time snapshot of the index's contents.
type IndexStats struct {
	TotalSymbols int
	FileCount    int
	MaxSymbols   int
	ByKind       map[model.SymbolKind]int
}

// SymbolIndex is the concurrent-safe in-memory index of every Symbol,
// Reference, and Module the Extractor/Template Analyzer have produced
// across the workspace.
type SymbolIndex struct {
	mu sync.RWMutex

	byID    map[string]*model.Symbol
	byName  map[string][]*model.Symbol
	byFile  map[string][]*model.Symbol
	byKind  map[model.SymbolKind][]*model.Symbol
	byOwner map[string][]*model.Symbol // keyed by Symbol.OwnerSymbolID

	referencesByFile   map[string][]*model.Reference
	referencesByTarget map[string][]*model.Reference // keyed by Reference.ReferencedName

	modulesByFile map[string][]model.Module

	maxSymbols int
}

// NewSymbolIndex constructs an empty SymbolIndex.
func NewSymbolIndex(opts ...Option) *SymbolIndex {
	idx := &SymbolIndex{
		byID:               make(map[string]*model.Symbol),
		byName:             make(map[string][]*model.Symbol),
		byFile:             make(map[string][]*model.Symbol),
		byKind:             make(map[model.SymbolKind][]*model.Symbol),
		byOwner:            make(map[string][]*model.Symbol),
		referencesByFile:   make(map[string][]*model.Reference),
		referencesByTarget: make(map[string][]*model.Reference),
		modulesByFile:      make(map[string][]model.Module),
		maxSymbols:         DefaultMaxSymbols,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Add inserts a single symbol. It fails without mutating the index if
// sym is nil, fails Validate(), duplicates an existing ID, or would
// exceed the configured capacity.
func (idx *SymbolIndex) Add(sym *model.Symbol) error {
	ctx, span := startOperationSpan(context.Background(), "Add")
	defer span.End()
	start := time.Now()

	idx.mu.Lock()
	err := idx.addLocked(sym)
	size := len(idx.byID)
	idx.mu.Unlock()

	recordOperationMetrics(ctx, "Add", time.Since(start), 1, err == nil)
	if err == nil {
		recordIndexSize(ctx, size)
	}
	return err
}

// addLocked validates and inserts sym. Callers must hold idx.mu for
// writing.
func (idx *SymbolIndex) addLocked(sym *model.Symbol) error {
	if sym == nil {
		return fmt.Errorf("%w: nil symbol", ErrInvalidSymbol)
	}
	if err := sym.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSymbol, err)
	}
	if _, exists := idx.byID[sym.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, sym.ID)
	}
	if len(idx.byID) >= idx.maxSymbols {
		return ErrMaxSymbolsExceeded
	}

	idx.byID[sym.ID] = sym
	idx.byName[sym.Name] = append(idx.byName[sym.Name], sym)
	idx.byFile[sym.Location.FilePath] = append(idx.byFile[sym.Location.FilePath], sym)
	idx.byKind[sym.Kind] = append(idx.byKind[sym.Kind], sym)
	if sym.OwnerSymbolID != "" {
		idx.byOwner[sym.OwnerSymbolID] = append(idx.byOwner[sym.OwnerSymbolID], sym)
	}
	return nil
}

// AddBatch validates every symbol before inserting any of them: on any
// failure the index is left completely unchanged and a *BatchError
// reporting every problem is returned.
func (idx *SymbolIndex) AddBatch(symbols []*model.Symbol) error {
	ctx, span := startOperationSpan(context.Background(), "AddBatch")
	defer span.End()
	start := time.Now()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.validateBatchLocked(symbols); err != nil {
		recordOperationMetrics(ctx, "AddBatch", time.Since(start), len(symbols), false)
		return err
	}
	for _, sym := range symbols {
		_ = idx.addLocked(sym) // validated above; cannot fail now
	}

	recordOperationMetrics(ctx, "AddBatch", time.Since(start), len(symbols), true)
	recordIndexSize(ctx, len(idx.byID))
	return nil
}

// validateBatchLocked dry-runs addLocked's checks against a scratch
// view of seen IDs, so a batch containing an internal duplicate is
// rejected the same way a duplicate-of-an-existing-symbol is.
func (idx *SymbolIndex) validateBatchLocked(symbols []*model.Symbol) error {
	var errs []error
	seen := make(map[string]bool, len(symbols))
	projected := len(idx.byID)

	for i, sym := range symbols {
		if sym == nil {
			errs = append(errs, fmt.Errorf("symbol[%d]: %w: nil symbol", i, ErrInvalidSymbol))
			continue
		}
		if err := sym.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("symbol[%d]: %w: %v", i, ErrInvalidSymbol, err))
			continue
		}
		if _, exists := idx.byID[sym.ID]; exists || seen[sym.ID] {
			errs = append(errs, fmt.Errorf("symbol[%d]: %w: %s", i, ErrDuplicateSymbol, sym.ID))
			continue
		}
		seen[sym.ID] = true
		projected++
		if projected > idx.maxSymbols {
			errs = append(errs, fmt.Errorf("symbol[%d]: %w", i, ErrMaxSymbolsExceeded))
		}
	}

	if len(errs) > 0 {
		return &BatchError{Errors: errs}
	}
	return nil
}

// GetByID returns the symbol with the given ID, if present.
func (idx *SymbolIndex) GetByID(id string) (*model.Symbol, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sym, ok := idx.byID[id]
	return sym, ok
}

// GetByName returns every symbol with the given name, or nil if none
// match. The returned slice is a defensive copy.
func (idx *SymbolIndex) GetByName(name string) []*model.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copySymbols(idx.byName[name])
}

// GetByFile returns every symbol defined in path, or nil if none match.
func (idx *SymbolIndex) GetByFile(path string) []*model.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copySymbols(idx.byFile[path])
}

// GetByKind returns every symbol of the given kind, or nil if none
// match.
func (idx *SymbolIndex) GetByKind(kind model.SymbolKind) []*model.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copySymbols(idx.byKind[kind])
}

// GetByOwner returns every symbol owned by ownerID (scope/controller-as
// members owned by a registrant symbol), or nil if none match. Route
// bindings are owned by a module name, not a symbol, and are not
// returned here.
func (idx *SymbolIndex) GetByOwner(ownerID string) []*model.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copySymbols(idx.byOwner[ownerID])
}

// ReferencesByTarget returns every reference whose ReferencedName is
// name, the view the Resolver uses to answer References for a symbol
// once it has been resolved by name.
func (idx *SymbolIndex) ReferencesByTarget(name string) []*model.Reference {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copyReferences(idx.referencesByTarget[name])
}

// ReferencesByKindHint returns every reference across the whole
// workspace whose KindHint is kind, e.g. every statically-resolved
// ng-include template path (KindRouteBinding) the Template Analyzer
// recognized, for building the Cache's cross-file GlobalRecord.
func (idx *SymbolIndex) ReferencesByKindHint(kind model.SymbolKind) []*model.Reference {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []*model.Reference
	for _, refs := range idx.referencesByFile {
		for _, ref := range refs {
			if ref.KindHint == kind {
				out = append(out, ref)
			}
		}
	}
	return copyReferences(out)
}

// ReferencesByFile returns every reference recorded in path.
func (idx *SymbolIndex) ReferencesByFile(path string) []*model.Reference {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return copyReferences(idx.referencesByFile[path])
}

// ModulesByFile returns every Module declaration/extension recorded in
// path.
func (idx *SymbolIndex) ModulesByFile(path string) []model.Module {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if mods := idx.modulesByFile[path]; mods != nil {
		out := make([]model.Module, len(mods))
		copy(out, mods)
		return out
	}
	return nil
}

// RemoveByFile deletes every symbol, reference, and module belonging to
// path and returns the number of symbols removed.
func (idx *SymbolIndex) RemoveByFile(path string) int {
	ctx, span := startOperationSpan(context.Background(), "RemoveByFile")
	defer span.End()
	start := time.Now()
	span.SetAttributes(attribute.String("index.file", path))

	idx.mu.Lock()
	removed := idx.removeByFileLocked(path)
	size := len(idx.byID)
	idx.mu.Unlock()

	recordOperationMetrics(ctx, "RemoveByFile", time.Since(start), removed, true)
	recordIndexSize(ctx, size)
	return removed
}

func (idx *SymbolIndex) removeByFileLocked(path string) int {
	victims := idx.byFile[path]
	for _, sym := range victims {
		delete(idx.byID, sym.ID)
		idx.byName[sym.Name] = removeSymbol(idx.byName[sym.Name], sym)
		idx.byKind[sym.Kind] = removeSymbol(idx.byKind[sym.Kind], sym)
		if sym.OwnerSymbolID != "" {
			idx.byOwner[sym.OwnerSymbolID] = removeSymbol(idx.byOwner[sym.OwnerSymbolID], sym)
		}
	}
	if len(victims) > 0 {
		delete(idx.byFile, path)
	}

	for _, ref := range idx.referencesByFile[path] {
		idx.referencesByTarget[ref.ReferencedName] = removeReference(idx.referencesByTarget[ref.ReferencedName], ref)
	}
	delete(idx.referencesByFile, path)
	delete(idx.modulesByFile, path)

	return len(victims)
}

// ReplaceFile atomically replaces everything previously recorded for
// record.Path with record's contents: the old Symbols/References/
// Modules are removed, then the new ones are validated and inserted,
// all under one write lock. Invalid entries are skipped and reported
// together as a *BatchError; valid entries are still committed.
func (idx *SymbolIndex) ReplaceFile(record *model.FileRecord) error {
	ctx, span := startOperationSpan(context.Background(), "ReplaceFile")
	defer span.End()
	start := time.Now()
	span.SetAttributes(attribute.String("index.file", record.Path))

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeByFileLocked(record.Path)

	var errs []error
	for i := range record.Symbols {
		sym := &record.Symbols[i]
		if err := idx.addLocked(sym); err != nil {
			errs = append(errs, fmt.Errorf("symbol[%d]: %w", i, err))
		}
	}
	for i := range record.References {
		ref := &record.References[i]
		if err := ref.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("reference[%d]: %w: %v", i, ErrInvalidReference, err))
			continue
		}
		idx.referencesByFile[record.Path] = append(idx.referencesByFile[record.Path], ref)
		idx.referencesByTarget[ref.ReferencedName] = append(idx.referencesByTarget[ref.ReferencedName], ref)
	}
	if len(record.Modules) > 0 {
		idx.modulesByFile[record.Path] = append([]model.Module(nil), record.Modules...)
	}

	recordOperationMetrics(ctx, "ReplaceFile", time.Since(start), len(record.Symbols), len(errs) == 0)
	recordIndexSize(ctx, len(idx.byID))

	if len(errs) > 0 {
		return &BatchError{Errors: errs}
	}
	return nil
}

// Clear removes every symbol, reference, and module from the index.
func (idx *SymbolIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.byID = make(map[string]*model.Symbol)
	idx.byName = make(map[string][]*model.Symbol)
	idx.byFile = make(map[string][]*model.Symbol)
	idx.byKind = make(map[model.SymbolKind][]*model.Symbol)
	idx.byOwner = make(map[string][]*model.Symbol)
	idx.referencesByFile = make(map[string][]*model.Reference)
	idx.referencesByTarget = make(map[string][]*model.Reference)
	idx.modulesByFile = make(map[string][]model.Module)
}

// Stats returns a snapshot of the index's current size. The ByKind map
// is an independent copy safe to mutate.
func (idx *SymbolIndex) Stats() IndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	byKind := make(map[model.SymbolKind]int, len(idx.byKind))
	for k, v := range idx.byKind {
		byKind[k] = len(v)
	}
	return IndexStats{
		TotalSymbols: len(idx.byID),
		FileCount:    len(idx.byFile),
		MaxSymbols:   idx.maxSymbols,
		ByKind:       byKind,
	}
}

// Clone returns a SymbolIndex with independent lookup maps that share
// the same underlying Symbol/Reference pointers as idx. Mutating the
// clone's maps (Add/RemoveByFile/Clear) never affects idx, consistent
// with the package's read-only ownership model for the pointees
// themselves.
func (idx *SymbolIndex) Clone() *SymbolIndex {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	clone := NewSymbolIndex(WithMaxSymbols(idx.maxSymbols))
	for id, sym := range idx.byID {
		clone.byID[id] = sym
	}
	for name, syms := range idx.byName {
		clone.byName[name] = copySymbols(syms)
	}
	for path, syms := range idx.byFile {
		clone.byFile[path] = copySymbols(syms)
	}
	for kind, syms := range idx.byKind {
		clone.byKind[kind] = copySymbols(syms)
	}
	for owner, syms := range idx.byOwner {
		clone.byOwner[owner] = copySymbols(syms)
	}
	for path, refs := range idx.referencesByFile {
		clone.referencesByFile[path] = copyReferences(refs)
	}
	for name, refs := range idx.referencesByTarget {
		clone.referencesByTarget[name] = copyReferences(refs)
	}
	for path, mods := range idx.modulesByFile {
		clone.modulesByFile[path] = append([]model.Module(nil), mods...)
	}
	return clone
}

// searchTier ranks how a candidate matched a Search query; lower sorts
// first.
const (
	searchTierExact = iota
	searchTierPrefix
	searchTierSubstring
	searchTierFuzzyBase
)

const fuzzyMaxDistance = 3

// Search ranks symbols by name against query: an exact case-insensitive
// match first, then prefix, then substring, then a fuzzy Levenshtein
// match within fuzzyMaxDistance edits. Results are capped at limit.
func (idx *SymbolIndex) Search(ctx context.Context, query string, limit int) ([]*model.Symbol, error) {
	spanCtx, span := startOperationSpan(ctx, "Search")
	defer span.End()
	start := time.Now()

	if query == "" {
		recordOperationMetrics(spanCtx, "Search", time.Since(start), 0, true)
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	lowerQuery := strings.ToLower(query)
	type scored struct {
		sym  *model.Symbol
		tier int
	}
	var candidates []scored

	for _, sym := range idx.byID {
		if err := ctx.Err(); err != nil {
			recordOperationMetrics(spanCtx, "Search", time.Since(start), 0, false)
			return nil, err
		}

		lowerName := strings.ToLower(sym.Name)
		var tier int
		switch {
		case lowerName == lowerQuery:
			tier = searchTierExact
		case strings.HasPrefix(lowerName, lowerQuery):
			tier = searchTierPrefix
		case strings.Contains(lowerName, lowerQuery):
			tier = searchTierSubstring
		default:
			dist := levenshteinDistance(lowerName, lowerQuery)
			if dist > fuzzyMaxDistance {
				continue
			}
			tier = searchTierFuzzyBase + dist
		}
		candidates = append(candidates, scored{sym, tier})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier < candidates[j].tier
		}
		return candidates[i].sym.Name < candidates[j].sym.Name
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]*model.Symbol, len(candidates))
	for i, c := range candidates {
		results[i] = c.sym
	}

	recordSearchResults(spanCtx, len(results))
	recordOperationMetrics(spanCtx, "Search", time.Since(start), len(results), true)
	return results, nil
}

func copySymbols(syms []*model.Symbol) []*model.Symbol {
	if syms == nil {
		return nil
	}
	out := make([]*model.Symbol, len(syms))
	copy(out, syms)
	return out
}

func copyReferences(refs []*model.Reference) []*model.Reference {
	if refs == nil {
		return nil
	}
	out := make([]*model.Reference, len(refs))
	copy(out, refs)
	return out
}

func removeSymbol(list []*model.Symbol, target *model.Symbol) []*model.Symbol {
	out := list[:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func removeReference(list []*model.Reference, target *model.Reference) []*model.Reference {
	out := list[:0]
	for _, r := range list {
		if r != target {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
