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
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

func makeSymbol(id, name string, kind model.SymbolKind, filePath string) *model.Symbol {
	return &model.Symbol{
		ID:   id,
		Name: name,
		Kind: kind,
		Location: model.Location{
			FilePath:  filePath,
			ByteStart: 0,
			ByteEnd:   len(name),
		},
	}
}

// testSymbols mirrors three files: one with a single symbol, one with
// two, and one with a single symbol of a different kind.
var testSymbols = []*model.Symbol{
	makeSymbol("app.js:1:MainCtrl", "MainCtrl", model.KindController, "app.js"),
	makeSymbol("handlers.js:10:HandleAgent", "HandleAgent", model.KindService, "handlers.js"),
	makeSymbol("handlers.js:20:HandleChat", "HandleChat", model.KindService, "handlers.js"),
	makeSymbol("types.js:5:Request", "Request", model.KindFactory, "types.js"),
}

func TestNewSymbolIndex(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		idx := NewSymbolIndex()
		stats := idx.Stats()

		if stats.TotalSymbols != 0 {
			t.Errorf("expected 0 symbols, got %d", stats.TotalSymbols)
		}
		if stats.MaxSymbols != DefaultMaxSymbols {
			t.Errorf("expected max %d, got %d", DefaultMaxSymbols, stats.MaxSymbols)
		}
	})

	t.Run("custom max symbols", func(t *testing.T) {
		idx := NewSymbolIndex(WithMaxSymbols(100))
		stats := idx.Stats()

		if stats.MaxSymbols != 100 {
			t.Errorf("expected max 100, got %d", stats.MaxSymbols)
		}
	})
}

func TestSymbolIndex_Add(t *testing.T) {
	t.Run("add single symbol success", func(t *testing.T) {
		idx := NewSymbolIndex()
		sym := makeSymbol("app.js:1:MainCtrl", "MainCtrl", model.KindController, "app.js")

		if err := idx.Add(sym); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got, ok := idx.GetByID("app.js:1:MainCtrl"); !ok || got != sym {
			t.Error("GetByID failed")
		}
		if byName := idx.GetByName("MainCtrl"); len(byName) != 1 || byName[0] != sym {
			t.Error("GetByName failed")
		}
		if byFile := idx.GetByFile("app.js"); len(byFile) != 1 || byFile[0] != sym {
			t.Error("GetByFile failed")
		}
		if byKind := idx.GetByKind(model.KindController); len(byKind) != 1 || byKind[0] != sym {
			t.Error("GetByKind failed")
		}
	})

	t.Run("add nil symbol returns error", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.Add(nil); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("add invalid symbol returns error", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.Add(&model.Symbol{}); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("add duplicate ID returns error", func(t *testing.T) {
		idx := NewSymbolIndex()
		sym1 := makeSymbol("app.js:1:MainCtrl", "MainCtrl", model.KindController, "app.js")
		sym2 := makeSymbol("app.js:1:MainCtrl", "Other", model.KindService, "app.js")

		if err := idx.Add(sym1); err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		if err := idx.Add(sym2); !errors.Is(err, ErrDuplicateSymbol) {
			t.Errorf("expected ErrDuplicateSymbol, got %v", err)
		}
		if got, ok := idx.GetByID("app.js:1:MainCtrl"); !ok || got != sym1 {
			t.Error("original symbol should still be in index")
		}
	})

	t.Run("add at max capacity returns error", func(t *testing.T) {
		idx := NewSymbolIndex(WithMaxSymbols(2))
		sym1 := makeSymbol("a.js:1:a", "a", model.KindService, "a.js")
		sym2 := makeSymbol("b.js:1:b", "b", model.KindService, "b.js")
		sym3 := makeSymbol("c.js:1:c", "c", model.KindService, "c.js")

		if err := idx.Add(sym1); err != nil {
			t.Fatalf("add 1 failed: %v", err)
		}
		if err := idx.Add(sym2); err != nil {
			t.Fatalf("add 2 failed: %v", err)
		}
		if err := idx.Add(sym3); !errors.Is(err, ErrMaxSymbolsExceeded) {
			t.Errorf("expected ErrMaxSymbolsExceeded, got %v", err)
		}
	})
}

func TestSymbolIndex_AddBatch(t *testing.T) {
	t.Run("add batch success", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.AddBatch(testSymbols); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stats := idx.Stats()
		if stats.TotalSymbols != len(testSymbols) {
			t.Errorf("expected %d symbols, got %d", len(testSymbols), stats.TotalSymbols)
		}
		for _, sym := range testSymbols {
			if got, ok := idx.GetByID(sym.ID); !ok || got != sym {
				t.Errorf("symbol %s not found", sym.ID)
			}
		}
	})

	t.Run("add empty batch is noop", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.AddBatch(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := idx.AddBatch([]*model.Symbol{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("add batch with invalid symbol fails atomically", func(t *testing.T) {
		idx := NewSymbolIndex()
		batch := []*model.Symbol{
			makeSymbol("a.js:1:a", "a", model.KindService, "a.js"),
			{},
			makeSymbol("c.js:1:c", "c", model.KindService, "c.js"),
		}

		err := idx.AddBatch(batch)
		var batchErr *BatchError
		if !errors.As(err, &batchErr) {
			t.Fatalf("expected BatchError, got %T", err)
		}
		if stats := idx.Stats(); stats.TotalSymbols != 0 {
			t.Errorf("expected 0 symbols (atomic failure), got %d", stats.TotalSymbols)
		}
	})

	t.Run("add batch with nil symbol fails atomically", func(t *testing.T) {
		idx := NewSymbolIndex()
		batch := []*model.Symbol{
			makeSymbol("a.js:1:a", "a", model.KindService, "a.js"),
			nil,
		}

		var batchErr *BatchError
		if err := idx.AddBatch(batch); !errors.As(err, &batchErr) {
			t.Fatalf("expected BatchError, got %T", err)
		}
		if stats := idx.Stats(); stats.TotalSymbols != 0 {
			t.Errorf("expected 0 symbols (atomic failure), got %d", stats.TotalSymbols)
		}
	})

	t.Run("add batch with duplicate in batch fails atomically", func(t *testing.T) {
		idx := NewSymbolIndex()
		batch := []*model.Symbol{
			makeSymbol("a.js:1:a", "a", model.KindService, "a.js"),
			makeSymbol("a.js:1:a", "other", model.KindFactory, "a.js"),
		}

		var batchErr *BatchError
		if err := idx.AddBatch(batch); !errors.As(err, &batchErr) {
			t.Fatalf("expected BatchError, got %T", err)
		}
		if stats := idx.Stats(); stats.TotalSymbols != 0 {
			t.Errorf("expected 0 symbols (atomic failure), got %d", stats.TotalSymbols)
		}
	})

	t.Run("add batch with existing duplicate fails atomically", func(t *testing.T) {
		idx := NewSymbolIndex()
		existing := makeSymbol("existing.js:1:existing", "existing", model.KindService, "existing.js")
		if err := idx.Add(existing); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		batch := []*model.Symbol{
			makeSymbol("a.js:1:a", "a", model.KindService, "a.js"),
			makeSymbol("existing.js:1:existing", "different", model.KindFactory, "existing.js"),
		}
		var batchErr *BatchError
		if err := idx.AddBatch(batch); !errors.As(err, &batchErr) {
			t.Fatalf("expected BatchError, got %T", err)
		}
		if stats := idx.Stats(); stats.TotalSymbols != 1 {
			t.Errorf("expected 1 symbol (only original), got %d", stats.TotalSymbols)
		}
	})

	t.Run("add batch exceeding capacity fails", func(t *testing.T) {
		idx := NewSymbolIndex(WithMaxSymbols(2))
		batch := []*model.Symbol{
			makeSymbol("a.js:1:a", "a", model.KindService, "a.js"),
			makeSymbol("b.js:1:b", "b", model.KindService, "b.js"),
			makeSymbol("c.js:1:c", "c", model.KindService, "c.js"),
		}

		if err := idx.AddBatch(batch); !errors.Is(err, ErrMaxSymbolsExceeded) {
			t.Errorf("expected ErrMaxSymbolsExceeded, got %v", err)
		}
		if stats := idx.Stats(); stats.TotalSymbols != 0 {
			t.Errorf("expected 0 symbols (atomic failure), got %d", stats.TotalSymbols)
		}
	})
}

func TestSymbolIndex_GetBy(t *testing.T) {
	idx := NewSymbolIndex()
	if err := idx.AddBatch(testSymbols); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	t.Run("GetByID existing", func(t *testing.T) {
		sym, ok := idx.GetByID("handlers.js:10:HandleAgent")
		if !ok || sym.Name != "HandleAgent" {
			t.Fatalf("expected to find HandleAgent, got %v ok=%v", sym, ok)
		}
	})

	t.Run("GetByID non-existent", func(t *testing.T) {
		if _, ok := idx.GetByID("does-not-exist"); ok {
			t.Error("expected not to find symbol")
		}
	})

	t.Run("GetByName with multiple matches", func(t *testing.T) {
		dup := makeSymbol("other.js:1:MainCtrl", "MainCtrl", model.KindController, "other.js")
		if err := idx.Add(dup); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if results := idx.GetByName("MainCtrl"); len(results) != 2 {
			t.Errorf("expected 2 matches, got %d", len(results))
		}
	})

	t.Run("GetByName non-existent", func(t *testing.T) {
		if results := idx.GetByName("does-not-exist"); results != nil {
			t.Errorf("expected nil, got %v", results)
		}
	})

	t.Run("GetByFile returns multiple symbols", func(t *testing.T) {
		if results := idx.GetByFile("handlers.js"); len(results) != 2 {
			t.Errorf("expected 2 symbols in handlers.js, got %d", len(results))
		}
	})

	t.Run("GetByKind returns correct symbols", func(t *testing.T) {
		if services := idx.GetByKind(model.KindService); len(services) != 2 {
			t.Errorf("expected 2 services, got %d", len(services))
		}
		if factories := idx.GetByKind(model.KindFactory); len(factories) != 1 {
			t.Errorf("expected 1 factory, got %d", len(factories))
		}
	})

	t.Run("GetBy* returns defensive copy", func(t *testing.T) {
		results1 := idx.GetByFile("handlers.js")
		origLen := len(results1)

		results1[0] = nil
		results1 = append(results1, nil, nil, nil)

		results2 := idx.GetByFile("handlers.js")
		if len(results2) != origLen {
			t.Errorf("index was mutated: expected %d, got %d", origLen, len(results2))
		}
		if results2[0] == nil {
			t.Error("index was mutated: first element is nil")
		}
	})

	t.Run("GetByOwner returns scope members", func(t *testing.T) {
		owner := makeSymbol("app.js:1:OwnerCtrl", "OwnerCtrl", model.KindController, "app.js")
		member := makeSymbol("app.js:2:title", "title", model.KindControllerAsProperty, "app.js")
		member.OwnerSymbolID = owner.ID
		if err := idx.AddBatch([]*model.Symbol{owner, member}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if results := idx.GetByOwner(owner.ID); len(results) != 1 || results[0] != member {
			t.Errorf("expected [member], got %v", results)
		}
	})
}

func TestSymbolIndex_ReferencesAndModules(t *testing.T) {
	record := &model.FileRecord{
		Path:       "app.js",
		ContentSHA: "deadbeef",
		Symbols: []model.Symbol{
			*makeSymbol("app.js:1:MainCtrl", "MainCtrl", model.KindController, "app.js"),
		},
		References: []model.Reference{
			{ID: "ref-1", ReferencedName: "someEvent", KindHint: model.KindScopeProperty,
				Location: model.Location{FilePath: "app.js"}},
		},
		Modules: []model.Module{
			{Name: "app", Dependencies: []string{"ngRoute"}, Declared: true,
				Location: model.Location{FilePath: "app.js"}},
		},
	}

	idx := NewSymbolIndex()
	if err := idx.ReplaceFile(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refs := idx.ReferencesByTarget("someEvent"); len(refs) != 1 {
		t.Errorf("expected 1 reference, got %d", len(refs))
	}
	if mods := idx.ModulesByFile("app.js"); len(mods) != 1 || mods[0].Name != "app" {
		t.Errorf("expected 1 module named app, got %v", mods)
	}

	// Replacing again with a smaller set drops what's no longer present.
	record2 := &model.FileRecord{
		Path: "app.js",
		Symbols: []model.Symbol{
			*makeSymbol("app.js:1:MainCtrl", "MainCtrl", model.KindController, "app.js"),
		},
	}
	if err := idx.ReplaceFile(record2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refs := idx.ReferencesByTarget("someEvent"); refs != nil {
		t.Errorf("expected stale reference to be gone, got %v", refs)
	}
	if mods := idx.ModulesByFile("app.js"); mods != nil {
		t.Errorf("expected stale module to be gone, got %v", mods)
	}
}

func TestSymbolIndex_ReferencesByKindHint(t *testing.T) {
	record := &model.FileRecord{
		Path: "template.html",
		References: []model.Reference{
			{ID: "ref-1", ReferencedName: "partials/header.html", KindHint: model.KindRouteBinding,
				Location: model.Location{FilePath: "template.html"}},
			{ID: "ref-2", ReferencedName: "save", KindHint: model.KindControllerAsProperty,
				Location: model.Location{FilePath: "template.html"}},
		},
	}

	idx := NewSymbolIndex()
	if err := idx.ReplaceFile(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refs := idx.ReferencesByKindHint(model.KindRouteBinding)
	if len(refs) != 1 || refs[0].ReferencedName != "partials/header.html" {
		t.Errorf("expected 1 RouteBinding-hint reference, got %v", refs)
	}
}

func TestSymbolIndex_Search(t *testing.T) {
	idx := NewSymbolIndex()
	if err := idx.AddBatch(testSymbols); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	t.Run("exact match", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "HandleAgent", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) == 0 || results[0].Name != "HandleAgent" {
			t.Fatalf("expected HandleAgent first, got %v", results)
		}
	})

	t.Run("prefix match", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "Handle", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 Handle* matches, got %d", len(results))
		}
	})

	t.Run("substring match", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "Agent", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) == 0 {
			t.Fatal("expected substring match")
		}
	})

	t.Run("fuzzy match", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "MainCtrlx", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, r := range results {
			if r.Name == "MainCtrl" {
				found = true
			}
		}
		if !found {
			t.Fatal("expected fuzzy match for 'MainCtrlx' -> 'MainCtrl'")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "handleagent", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) == 0 {
			t.Fatal("expected case-insensitive match")
		}
	})

	t.Run("limit results", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "a", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) > 2 {
			t.Errorf("expected max 2 results, got %d", len(results))
		}
	})

	t.Run("empty query returns nil", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results != nil {
			t.Errorf("expected nil for empty query, got %v", results)
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := idx.Search(ctx, "test", 10); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "xyznonexistent", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected 0 results, got %d", len(results))
		}
	})
}

func TestSymbolIndex_RemoveByFile(t *testing.T) {
	t.Run("remove existing file", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.AddBatch(testSymbols); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		initialCount := idx.Stats().TotalSymbols

		removed := idx.RemoveByFile("handlers.js")
		if removed != 2 {
			t.Errorf("expected 2 removed, got %d", removed)
		}
		if stats := idx.Stats(); stats.TotalSymbols != initialCount-2 {
			t.Errorf("expected %d symbols, got %d", initialCount-2, stats.TotalSymbols)
		}
		if _, ok := idx.GetByID("handlers.js:10:HandleAgent"); ok {
			t.Error("symbol should be removed from byID")
		}
		if byFile := idx.GetByFile("handlers.js"); byFile != nil {
			t.Error("file should have no symbols")
		}
		if _, ok := idx.GetByID("app.js:1:MainCtrl"); !ok {
			t.Error("app.js symbol should still exist")
		}
	})

	t.Run("remove non-existent file returns 0", func(t *testing.T) {
		idx := NewSymbolIndex()
		if removed := idx.RemoveByFile("does-not-exist.js"); removed != 0 {
			t.Errorf("expected 0 removed, got %d", removed)
		}
	})

	t.Run("remove updates counters correctly", func(t *testing.T) {
		idx := NewSymbolIndex()
		if err := idx.AddBatch(testSymbols); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		initialServices := idx.Stats().ByKind[model.KindService]

		idx.RemoveByFile("handlers.js")

		stats := idx.Stats()
		if expected := initialServices - 2; stats.ByKind[model.KindService] != expected {
			t.Errorf("expected %d services, got %d", expected, stats.ByKind[model.KindService])
		}
		if stats.FileCount != 2 {
			t.Errorf("expected 2 files, got %d", stats.FileCount)
		}
	})
}

func TestSymbolIndex_Clear(t *testing.T) {
	idx := NewSymbolIndex()
	if err := idx.AddBatch(testSymbols); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	idx.Clear()

	stats := idx.Stats()
	if stats.TotalSymbols != 0 {
		t.Errorf("expected 0 symbols after clear, got %d", stats.TotalSymbols)
	}
	if stats.FileCount != 0 {
		t.Errorf("expected 0 files after clear, got %d", stats.FileCount)
	}
	if len(stats.ByKind) != 0 {
		t.Errorf("expected empty ByKind after clear, got %v", stats.ByKind)
	}

	sym := makeSymbol("new.js:1:new", "new", model.KindService, "new.js")
	if err := idx.Add(sym); err != nil {
		t.Errorf("add after clear failed: %v", err)
	}
}

func TestSymbolIndex_Stats(t *testing.T) {
	idx := NewSymbolIndex(WithMaxSymbols(500))

	t.Run("empty index", func(t *testing.T) {
		stats := idx.Stats()
		if stats.TotalSymbols != 0 || stats.FileCount != 0 || stats.MaxSymbols != 500 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("after adding symbols", func(t *testing.T) {
		if err := idx.AddBatch(testSymbols); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		stats := idx.Stats()
		if stats.TotalSymbols != 4 {
			t.Errorf("expected 4, got %d", stats.TotalSymbols)
		}
		if stats.FileCount != 3 {
			t.Errorf("expected 3 files, got %d", stats.FileCount)
		}
		if stats.ByKind[model.KindService] != 2 {
			t.Errorf("expected 2 services, got %d", stats.ByKind[model.KindService])
		}
		if stats.ByKind[model.KindFactory] != 1 {
			t.Errorf("expected 1 factory, got %d", stats.ByKind[model.KindFactory])
		}
	})

	t.Run("stats is O(1) - returns copy of counters", func(t *testing.T) {
		stats1 := idx.Stats()
		stats1.ByKind[model.KindService] = 9999

		stats2 := idx.Stats()
		if stats2.ByKind[model.KindService] == 9999 {
			t.Error("stats should return independent copies")
		}
	})
}

func TestSymbolIndex_Concurrent(t *testing.T) {
	idx := NewSymbolIndex()
	for i := 0; i < 100; i++ {
		sym := makeSymbol(fmt.Sprintf("file.js:%d:sym", i), fmt.Sprintf("sym%d", i), model.KindService, "file.js")
		if err := idx.Add(sym); err != nil {
			t.Fatalf("setup failed at %d: %v", i, err)
		}
	}

	t.Run("concurrent reads", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					idx.Stats()
					idx.GetByFile("file.js")
					idx.GetByKind(model.KindService)
					_, _ = idx.Search(context.Background(), "sym", 10)
				}
			}()
		}
		wg.Wait()
	})

	t.Run("concurrent read and write", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					idx.Stats()
					idx.GetByKind(model.KindService)
				}
			}()
		}
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(workerID int) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					sym := makeSymbol(fmt.Sprintf("concurrent.js:%d:%d:fn", workerID, j), "concurrent_fn", model.KindService, "concurrent.js")
					_ = idx.Add(sym) // may fail with duplicate, that's fine
				}
			}(i)
		}
		wg.Wait()
	})
}

func TestBatchError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := &BatchError{Errors: []error{errors.New("test error")}}
		if err.Error() != "test error" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := &BatchError{Errors: []error{errors.New("first"), errors.New("second"), errors.New("third")}}
		if msg := err.Error(); msg != "3 errors: first (and 2 more)" {
			t.Errorf("unexpected message: %s", msg)
		}
	})

	t.Run("error list", func(t *testing.T) {
		err := &BatchError{Errors: []error{errors.New("first"), errors.New("second")}}
		if list := err.ErrorList(); list != "first\nsecond" {
			t.Errorf("unexpected list: %q", list)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		err := &BatchError{Errors: []error{errors.New("inner1"), errors.New("inner2")}}
		if len(err.Unwrap()) != 2 {
			t.Errorf("expected 2 unwrapped errors")
		}
	})

	t.Run("errors.Is works with wrapped errors", func(t *testing.T) {
		err := &BatchError{Errors: []error{ErrDuplicateSymbol, ErrInvalidSymbol}}
		if !errors.Is(err, ErrDuplicateSymbol) || !errors.Is(err, ErrInvalidSymbol) {
			t.Error("errors.Is should find both sentinels")
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"a", "a", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"ctrl", "ctlr", 2},
		{"Service", "Servce", 1},
		{"HandleAgent", "HandleAgent", 0},
		{"handle", "Handle", 1},
	}
	for _, tc := range tests {
		if got := levenshteinDistance(tc.a, tc.b); got != tc.expected {
			t.Errorf("levenshtein(%q, %q) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestSymbolIndex_Clone(t *testing.T) {
	t.Run("clone creates independent copy sharing pointers", func(t *testing.T) {
		idx := NewSymbolIndex(WithMaxSymbols(1000))
		sym1 := makeSymbol("a.js:1:funcA", "funcA", model.KindService, "a.js")
		sym2 := makeSymbol("b.js:1:funcB", "funcB", model.KindService, "b.js")
		sym3 := makeSymbol("a.js:10:TypeA", "TypeA", model.KindFactory, "a.js")
		idx.Add(sym1)
		idx.Add(sym2)
		idx.Add(sym3)

		clone := idx.Clone()

		origStats, cloneStats := idx.Stats(), clone.Stats()
		if cloneStats.TotalSymbols != origStats.TotalSymbols {
			t.Errorf("clone TotalSymbols = %d, expected %d", cloneStats.TotalSymbols, origStats.TotalSymbols)
		}
		if cloneStats.FileCount != origStats.FileCount {
			t.Errorf("clone FileCount = %d, expected %d", cloneStats.FileCount, origStats.FileCount)
		}

		if got, ok := clone.GetByID("a.js:1:funcA"); !ok || got != sym1 {
			t.Error("GetByID failed on clone (should share the same pointer)")
		}
		if byName := clone.GetByName("funcA"); len(byName) != 1 {
			t.Errorf("clone GetByName = %d, expected 1", len(byName))
		}
		if byFile := clone.GetByFile("a.js"); len(byFile) != 2 {
			t.Errorf("clone GetByFile = %d, expected 2", len(byFile))
		}
	})

	t.Run("modifying clone does not affect original", func(t *testing.T) {
		idx := NewSymbolIndex()
		sym1 := makeSymbol("a.js:1:funcA", "funcA", model.KindService, "a.js")
		idx.Add(sym1)

		clone := idx.Clone()
		sym2 := makeSymbol("b.js:1:funcB", "funcB", model.KindService, "b.js")
		clone.Add(sym2)

		if idx.Stats().TotalSymbols != 1 {
			t.Errorf("original TotalSymbols = %d, expected 1", idx.Stats().TotalSymbols)
		}
		if clone.Stats().TotalSymbols != 2 {
			t.Errorf("clone TotalSymbols = %d, expected 2", clone.Stats().TotalSymbols)
		}
		if _, ok := idx.GetByID("b.js:1:funcB"); ok {
			t.Error("original should not have the new symbol")
		}
	})

	t.Run("remove from clone does not affect original", func(t *testing.T) {
		idx := NewSymbolIndex()
		idx.Add(makeSymbol("a.js:1:funcA", "funcA", model.KindService, "a.js"))
		idx.Add(makeSymbol("a.js:10:funcB", "funcB", model.KindService, "a.js"))

		clone := idx.Clone()
		clone.RemoveByFile("a.js")

		if idx.Stats().TotalSymbols != 2 {
			t.Errorf("original TotalSymbols = %d, expected 2", idx.Stats().TotalSymbols)
		}
		if clone.Stats().TotalSymbols != 0 {
			t.Errorf("clone TotalSymbols = %d, expected 0", clone.Stats().TotalSymbols)
		}
	})

	t.Run("clone of empty index", func(t *testing.T) {
		clone := NewSymbolIndex().Clone()
		if clone.Stats().TotalSymbols != 0 {
			t.Errorf("clone TotalSymbols = %d, expected 0", clone.Stats().TotalSymbols)
		}
	})
}
