// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/angularjs-lsp/angularjs-lsp/internal/cache"
	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/workspace"
)

// indexWorkspace performs the initial full scan of the server's
// workspace root: one goroutine per CPU parses and extracts files
// independently, a single committer goroutine owns the Index write
// end and serializes the resulting ReplaceFile calls, per the
// concurrency model: fan-out parse/extract, fan-in commit.
func (s *Server) indexWorkspace(ctx context.Context) error {
	mgr := workspace.NewManager(
		workspace.WithIncludes(s.cfg.AJSConfig.Include...),
		workspace.WithExcludes(s.cfg.AJSConfig.Exclude...),
	)
	manifest, err := mgr.Scan(ctx, s.cfg.WorkspaceRoot)
	if err != nil {
		return err
	}

	records := make(chan *model.FileRecord, runtime.NumCPU())
	var committed sync.WaitGroup
	committed.Add(1)
	go func() {
		defer committed.Done()
		for rec := range records {
			if err := s.idx.ReplaceFile(rec); err != nil {
				s.logger.Warn("index commit failed", "path", rec.Path, "error", err)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for relPath, entry := range manifest.Files {
		relPath, entry := relPath, entry
		g.Go(func() error {
			rec, err := s.indexFile(gctx, filepath.Join(s.cfg.WorkspaceRoot, relPath), entry.Hash)
			if err != nil {
				s.logger.Debug("skipping file", "path", relPath, "error", err)
				return nil
			}
			if rec != nil {
				select {
				case records <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	werr := g.Wait()
	close(records)
	committed.Wait()
	if werr == nil {
		s.refreshGlobalRecord(ctx, manifest)
	}
	return werr
}

// refreshGlobalRecord recomputes the workspace-global RouteBinding/
// ng-include cross-file record from the just-committed Index and
// persists it, per SPEC_FULL.md §2.3/§4.5: "one small global record
// for RouteBinding/ng-include cross-file links, invalidated whenever
// its deriving file set changes." The previous record (if any) is read
// first purely to log what changed — recomputation itself is a cheap
// in-memory read over the Index already built by this scan, so there
// is nothing to gain by skipping it even when the source set is
// unchanged.
func (s *Server) refreshGlobalRecord(ctx context.Context, manifest *workspace.Manifest) {
	if s.cfg.Cache == nil {
		return
	}

	prev, err := s.cfg.Cache.GetGlobal(ctx)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Debug("read previous global cache record failed", "error", err)
	}

	hashes := make(map[string]string, len(manifest.Files))
	for relPath, entry := range manifest.Files {
		hashes[relPath] = entry.Hash
	}

	var bindings []model.RouteBindingMetadata
	for _, sym := range s.idx.GetByKind(model.KindRouteBinding) {
		if sym.Metadata.RouteBinding != nil {
			bindings = append(bindings, *sym.Metadata.RouteBinding)
		}
	}
	for _, ref := range s.idx.ReferencesByKindHint(model.KindRouteBinding) {
		bindings = append(bindings, model.RouteBindingMetadata{TemplateURL: ref.ReferencedName})
	}

	rec := cache.GlobalRecord{RouteBindings: bindings, SourceHashes: hashes}
	if prev != nil && !sameSourceHashes(prev.SourceHashes, hashes) {
		s.logger.Debug("global cache record's source file set changed since last scan",
			"previousFiles", len(prev.SourceHashes), "currentFiles", len(hashes))
	}

	if err := s.cfg.Cache.PutGlobal(ctx, rec); err != nil {
		s.logger.Warn("persist global cache record failed", "error", err)
	}
}

func sameSourceHashes(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// indexFile parses and extracts a single file, consulting the cache
// first by content hash and persisting the result back on a miss. A
// nil record with a nil error means the file's language is
// unsupported and should be silently skipped.
func (s *Server) indexFile(ctx context.Context, absPath, hash string) (*model.FileRecord, error) {
	lang := languageFromPath(absPath)
	if lang == "" {
		return nil, nil
	}

	if s.cfg.Cache != nil {
		if entry, err := s.cfg.Cache.GetFile(ctx, absPath, hash); err == nil && entry != nil {
			return &model.FileRecord{
				Path:       entry.Path,
				ContentSHA: entry.Hash,
				Symbols:    entry.Symbols,
				References: entry.References,
				Modules:    entry.Modules,
			}, nil
		}
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	parser, ok := s.parsers.GetByLanguage(lang)
	if !ok {
		return nil, ErrUnsupportedLanguage
	}
	tree, err := parser.Parse(ctx, content, absPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	rec, err := s.extractRecord(ctx, tree, lang, absPath)
	if err != nil {
		return nil, err
	}

	if s.cfg.Cache != nil && rec != nil {
		_ = s.cfg.Cache.PutFile(ctx, cache.FileEntry{
			Path:       rec.Path,
			Hash:       hash,
			Symbols:    rec.Symbols,
			References: rec.References,
			Modules:    rec.Modules,
		})
	}
	return rec, nil
}

const languageHTML = "html"

// extractRecord runs the right analysis (Template Analyzer for HTML,
// Extractor for JavaScript) over an already-parsed tree.
func (s *Server) extractRecord(ctx context.Context, tree *syntax.Tree, lang, absPath string) (*model.FileRecord, error) {
	if lang == languageHTML {
		result, err := s.analyzer.Analyze(ctx, tree)
		if err != nil {
			return nil, err
		}
		return &model.FileRecord{
			Path:       absPath,
			ContentSHA: tree.ContentSHA,
			ParseEpoch: tree.ParsedAtMilli,
			Symbols:    []model.Symbol{},
			References: result.References,
			Modules:    []model.Module{},
		}, nil
	}
	rec, _ := s.extract.Extract(ctx, tree)
	return rec, nil
}
