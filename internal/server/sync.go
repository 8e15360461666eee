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
	"encoding/json"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
)

func handleDidOpen(s *Server, ctx context.Context, params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := unmarshalParams(params, &p); err != nil {
		s.logger.Warn("malformed didOpen", "error", err)
		return
	}
	doc := &document{
		URI:      p.TextDocument.URI,
		Path:     uriToPath(p.TextDocument.URI),
		Language: p.TextDocument.LanguageID,
		Text:     p.TextDocument.Text,
		Version:  p.TextDocument.Version,
	}
	s.docs.open(doc)
	s.reindexDocument(doc.URI, doc.Generation)
}

func handleDidChange(s *Server, ctx context.Context, params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := unmarshalParams(params, &p); err != nil {
		s.logger.Warn("malformed didChange", "error", err)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	// Full document sync: the last change carries the complete text.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	version := 0
	if p.TextDocument.Version != nil {
		version = *p.TextDocument.Version
	}
	doc, gen, ok := s.docs.updateWithGeneration(p.TextDocument.URI, text, version)
	if !ok {
		return
	}
	s.reindexDocument(doc.URI, gen)
}

func handleDidSave(s *Server, ctx context.Context, params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := unmarshalParams(params, &p); err != nil {
		s.logger.Warn("malformed didSave", "error", err)
		return
	}
	if p.Text == nil {
		return
	}
	doc, gen, ok := s.docs.updateWithGeneration(p.TextDocument.URI, *p.Text, 0)
	if !ok {
		return
	}
	s.reindexDocument(doc.URI, gen)
}

func handleDidClose(s *Server, ctx context.Context, params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := unmarshalParams(params, &p); err != nil {
		s.logger.Warn("malformed didClose", "error", err)
		return
	}
	s.docs.close(p.TextDocument.URI)
}

// reindexDocument re-extracts and re-indexes the single document at
// uri and publishes fresh diagnostics, in its own goroutine so the
// request/notification loop is never blocked on parsing. gen is the
// generation captured at the time of the edit that triggered this
// call: if a newer edit has superseded it by the time the re-index
// would commit, the result is dropped (drop-intermediate, per the
// concurrency model).
func (s *Server) reindexDocument(uri string, gen uint64) {
	go func() {
		doc, ok := s.docs.get(uri)
		if !ok {
			return
		}
		ctx := context.Background()
		lang := doc.Language
		if lang == "" {
			lang = languageFromPath(doc.Path)
		}
		parser, ok := s.parsers.GetByLanguage(lang)
		if !ok {
			return
		}
		tree, err := parser.Parse(ctx, []byte(doc.Text), doc.Path)
		if err != nil {
			s.logger.Debug("reindex parse failed", "uri", uri, "error", err)
			return
		}
		defer tree.Close()

		var diagnostics []protocol.Diagnostic
		if lang == languageHTML {
			result, err := s.analyzer.Analyze(ctx, tree)
			if err != nil {
				s.logger.Debug("reindex analyze failed", "uri", uri, "error", err)
				return
			}
			if !s.docs.stillCurrent(uri, gen) {
				return
			}
			rec := &model.FileRecord{
				Path:       doc.Path,
				ContentSHA: tree.ContentSHA,
				ParseEpoch: tree.ParsedAtMilli,
				Symbols:    []model.Symbol{},
				References: result.References,
				Modules:    []model.Module{},
			}
			if err := s.idx.ReplaceFile(rec); err != nil {
				s.logger.Warn("reindex commit failed", "uri", uri, "error", err)
			}
			if s.cfg.AJSConfig.Diagnostics.Enabled {
				diagnostics = toWireDiagnostics(result.Diagnostics)
			}
		} else {
			rec, _ := s.extract.Extract(ctx, tree)
			if !s.docs.stillCurrent(uri, gen) {
				return
			}
			if err := s.idx.ReplaceFile(rec); err != nil {
				s.logger.Warn("reindex commit failed", "uri", uri, "error", err)
			}
		}

		if s.conn != nil {
			_ = s.conn.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
				URI:         uri,
				Diagnostics: diagnostics,
			})
		}

		// The edit just committed may have changed the workspace's
		// reference graph (a deleted call site, a renamed member), so
		// the unused-scope-variable sweep is re-run after every
		// successful reindex, not just the initial scan.
		s.publishUnusedScopeVariableDiagnostics(ctx)
	}()
}
