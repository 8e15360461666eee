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

	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
)

const serverName = "angularjs-lsp"

// ServerVersion is stamped into InitializeResult.ServerInfo and the
// `angularjs-lsp version` CLI output. Set by the main package via
// -ldflags, defaulting to "dev" for a plain build.
var ServerVersion = "dev"

func handleInitialize(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.InitializeParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}

	root := uriToPath(p.RootURI)
	if root == "" && len(p.WorkspaceFolders) > 0 {
		root = uriToPath(p.WorkspaceFolders[0].URI)
	}
	if root != "" {
		s.cfg.WorkspaceRoot = root
	}

	s.mu.Lock()
	s.clientDocumentChanges = p.Capabilities.Workspace.WorkspaceEdit != nil &&
		p.Capabilities.Workspace.WorkspaceEdit.DocumentChanges
	s.clientWorkspaceFolders = p.WorkspaceFolders
	s.mu.Unlock()

	s.setState(StateInitializing)

	result := protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{Name: serverName, Version: ServerVersion},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync:        1, // Full document sync.
			DefinitionProvider:      true,
			ReferencesProvider:      true,
			HoverProvider:           true,
			RenameProvider:          map[string]bool{"prepareProvider": true},
			CompletionProvider:      map[string]interface{}{"triggerCharacters": []string{".", "$"}},
			SignatureHelpProvider:   map[string][]string{"triggerCharacters": {"(", ","}},
			DocumentSymbolProvider:  true,
			CodeLensProvider:        map[string]bool{"resolveProvider": false},
			WorkspaceSymbolProvider: true,
			ExecuteCommandProvider:  map[string][]string{"commands": {commandRefreshIndex}},
		},
	}
	return result, nil
}

// handleInitialized runs the initial workspace scan in the
// background: the client is free to send requests immediately after
// "initialized", and the Index simply answers with whatever it has
// indexed so far (empty at worst) until the scan commits its results.
func handleInitialized(s *Server, ctx context.Context, params json.RawMessage) {
	s.setState(StateReady)
	go func() {
		if err := s.indexWorkspace(context.Background()); err != nil {
			s.logger.Warn("initial workspace index failed", "error", err)
			return
		}
		stats := s.idx.Stats()
		s.logger.Info("workspace indexed", "files", stats.FileCount, "symbols", stats.TotalSymbols)
		s.publishUnusedScopeVariableDiagnostics(context.Background())
	}()
	s.startWatcher()
}

func handleShutdown(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.setState(StateShuttingDown)
	return nil, nil
}

func handleExit(s *Server, ctx context.Context, params json.RawMessage) {
	s.setState(StateStopped)
	s.stopWatcher()
	if s.cfg.Cache != nil {
		_ = s.cfg.Cache.Close()
	}
	if s.cfg.Proxy != nil {
		_ = s.cfg.Proxy.Close(context.Background())
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
