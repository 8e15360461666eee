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
	"errors"
	"os"
	"time"

	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/resolver"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// proxyTimeout bounds a single fallback Proxy round trip; on timeout
// the caller degrades to the (possibly empty) local answer rather than
// blocking the client indefinitely.
const proxyTimeout = 2 * time.Second

// openTree parses a document's current in-memory text (if open) or,
// failing that, its on-disk content, returning the Tree a resolver
// query needs. Callers must Close the returned Tree.
func (s *Server) openTree(ctx context.Context, uri string) (*syntax.Tree, error) {
	path := uriToPath(uri)
	doc, ok := s.docs.get(uri)
	var text []byte
	var lang string
	if ok {
		text = []byte(doc.Text)
		lang = doc.Language
	} else {
		lang = languageFromPath(path)
	}
	if lang == "" {
		return nil, ErrUnsupportedLanguage
	}
	parser, ok := s.parsers.GetByLanguage(lang)
	if !ok {
		return nil, ErrUnsupportedLanguage
	}
	if text == nil {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = content
	}
	return parser.Parse(ctx, text, path)
}

// forwardToProxy asks the fallback Proxy to answer method with the
// original request params, honoring proxyTimeout. If no Proxy is
// configured or the forward itself fails, it returns (nil, nil): a
// degraded-but-valid empty local answer, per the error handling model.
func (s *Server) forwardToProxy(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	if s.cfg.Proxy == nil {
		return nil, nil
	}
	pctx, cancel := context.WithTimeout(ctx, proxyTimeout)
	defer cancel()
	result, err := s.cfg.Proxy.Forward(pctx, method, params)
	if err != nil {
		s.logger.Debug("proxy forward failed", "method", method, "error", err)
		return nil, nil
	}
	return result, nil
}

func handleDefinition(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.TextDocumentPositionParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	locs, err := s.resolve.Definition(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/definition", params)
	}
	if err != nil {
		return nil, err
	}
	return toWireLocations(locs), nil
}

func handleReferences(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ReferenceParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	locs, err := s.resolve.References(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/references", params)
	}
	if err != nil {
		return nil, err
	}
	return toWireLocations(locs), nil
}

func handleCompletion(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.CompletionParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	items, err := s.resolve.Completion(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/completion", params)
	}
	if err != nil {
		return nil, err
	}
	return protocol.CompletionList{Items: toWireCompletionItems(items)}, nil
}

func handleHover(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.TextDocumentPositionParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	hover, err := s.resolve.Hover(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/hover", params)
	}
	if err != nil {
		return nil, err
	}
	return toWireHover(hover), nil
}

func handleSignatureHelp(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.TextDocumentPositionParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	sh, err := s.resolve.SignatureHelp(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/signatureHelp", params)
	}
	if err != nil {
		return nil, err
	}
	return toWireSignatureHelp(sh), nil
}

func handlePrepareRename(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.PrepareRenameParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	rng, err := s.resolve.PrepareRename(ctx, tree, fromWirePosition(p.Position))
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/prepareRename", params)
	}
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, nil
	}
	wireRng := toWireRange(*rng)
	return protocol.PrepareRenameResult{Range: wireRng, Placeholder: ""}, nil
}

func handleRename(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.RenameParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	tree, err := s.openTree(ctx, p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	defer tree.Close()

	s.mu.RLock()
	clientSupportsDocChanges := s.clientDocumentChanges
	s.mu.RUnlock()

	edit, err := s.resolve.Rename(ctx, tree, fromWirePosition(p.Position), p.NewName, clientSupportsDocChanges)
	if errors.Is(err, resolver.ErrNoLocalAnswer) {
		return s.forwardToProxy(ctx, "textDocument/rename", params)
	}
	if err != nil {
		return nil, protocol.NewRPCError(protocol.CodeInvalidRequest, err.Error())
	}
	return toWireWorkspaceEdit(edit), nil
}

func handleDocumentSymbol(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.DocumentSymbolParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	path := uriToPath(p.TextDocument.URI)
	symbols := s.idx.GetByFile(path)
	out := make([]protocol.SymbolInformation, len(symbols))
	for i, sym := range symbols {
		out[i] = protocol.SymbolInformation{
			Name:          sym.Name,
			Kind:          toWireSymbolKind(sym.Kind),
			Location:      toWireLocation(sym.Location),
			ContainerName: symbolContainerName(sym),
		}
	}
	return out, nil
}

func handleWorkspaceSymbol(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.WorkspaceSymbolParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	const limit = 200
	symbols, err := s.idx.Search(ctx, p.Query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]protocol.SymbolInformation, len(symbols))
	for i, sym := range symbols {
		out[i] = protocol.SymbolInformation{
			Name:          sym.Name,
			Kind:          toWireSymbolKind(sym.Kind),
			Location:      toWireLocation(sym.Location),
			ContainerName: symbolContainerName(sym),
		}
	}
	return out, nil
}

func handleCodeLens(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.CodeLensParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	path := uriToPath(p.TextDocument.URI)
	lenses := s.resolve.CodeLens(path)
	return toWireCodeLenses(lenses), nil
}
