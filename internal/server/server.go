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
	"io"
	"sync"

	"github.com/angularjs-lsp/angularjs-lsp/internal/cache"
	"github.com/angularjs-lsp/angularjs-lsp/internal/config"
	"github.com/angularjs-lsp/angularjs-lsp/internal/extractor"
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
	"github.com/angularjs-lsp/angularjs-lsp/internal/proxy"
	"github.com/angularjs-lsp/angularjs-lsp/internal/resolver"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
	"github.com/angularjs-lsp/angularjs-lsp/internal/template"
	"github.com/angularjs-lsp/angularjs-lsp/pkg/logging"
)

// Config configures a Server for one workspace.
type Config struct {
	// WorkspaceRoot is the absolute path of the folder being served.
	WorkspaceRoot string

	// AJSConfig is the resolved ajsconfig.json contents (defaults if
	// none present), per internal/config.LoadFromDir.
	AJSConfig config.Config

	// Cache persists per-file and global indexing results across
	// restarts. May be nil to disable caching even if AJSConfig.Cache
	// is true (e.g. `angularjs-lsp refresh-index --no-cache`).
	Cache *cache.Store

	// Proxy forwards queries the Resolver declines to answer. May be
	// nil, in which case such queries simply return no result.
	Proxy *proxy.Proxy

	// Logger receives lifecycle and error events. Defaults to
	// logging.Default() if nil.
	Logger *logging.Logger
}

// Server is the editor-facing LSP server: one per workspace
// connection, implementing protocol.Handler over a single Conn.
//
// Thread Safety: Handle/Notify are invoked concurrently by
// protocol.Conn.ReadLoop's dispatch and must themselves be safe for
// concurrent use; all mutable state below is guarded accordingly.
type Server struct {
	cfg    Config
	logger *logging.Logger

	conn *protocol.Conn

	idx      *index.SymbolIndex
	resolve  *resolver.Resolver
	extract  *extractor.Extractor
	analyzer *template.Analyzer
	parsers  *syntax.ParserRegistry

	docs *documentStore

	mu                     sync.RWMutex
	state                  State
	clientDocumentChanges  bool
	clientWorkspaceFolders []protocol.WorkspaceFolder

	watcher *fileWatcher

	fileGenMu sync.Mutex
	fileGen   map[string]uint64
}

// New creates a Server for cfg. The Index is empty until Run performs
// the initial workspace scan.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	idx := index.NewSymbolIndex()
	return &Server{
		cfg:      cfg,
		logger:   logger,
		idx:      idx,
		resolve:  resolver.New(idx),
		extract:  extractor.New(),
		analyzer: template.New(idx),
		parsers:  syntax.NewDefaultParserRegistry(),
		docs:     newDocumentStore(),
		state:    StateUninitialized,
		fileGen:  make(map[string]uint64),
	}
}

// Index exposes the underlying SymbolIndex, e.g. so a caller can wire
// it as telemetry.StatsProvider for the debug HTTP surface.
func (s *Server) Index() *index.SymbolIndex {
	return s.idx
}

// RefreshIndex discards and rebuilds the workspace index from
// scratch, for one-shot callers like `angularjs-lsp refresh-index`
// that never go through the initialize/initialized handshake.
func (s *Server) RefreshIndex(ctx context.Context) error {
	s.idx.Clear()
	return s.indexWorkspace(ctx)
}

// Run attaches conn and blocks serving requests/notifications until
// "exit" closes conn (Run then returns nil), the peer disconnects, or
// ctx is cancelled. The caller is responsible
// for constructing conn over stdin/stdout (or any other transport).
func (s *Server) Run(ctx context.Context, conn *protocol.Conn) error {
	s.conn = conn
	return conn.ReadLoop(ctx, s)
}

func (s *Server) getState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Server) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Handle implements protocol.Handler for request/response methods.
func (s *Server) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	if err := s.checkState(method); err != nil {
		return nil, err
	}
	if fn, ok := requestHandlers[method]; ok {
		return fn(s, ctx, params)
	}
	return nil, protocol.NewRPCError(protocol.CodeMethodNotFound, "unknown method: "+method)
}

// Notify implements protocol.Handler for notifications.
func (s *Server) Notify(ctx context.Context, method string, params json.RawMessage) {
	if fn, ok := notificationHandlers[method]; ok {
		fn(s, ctx, params)
		return
	}
	s.logger.Debug("unhandled notification", "method", method)
}

// checkState enforces the initialize/shutdown lifecycle gate shared by
// every request method.
func (s *Server) checkState(method string) error {
	switch method {
	case "initialize":
		if s.getState() != StateUninitialized {
			return protocol.NewRPCError(protocol.CodeInvalidRequest, ErrAlreadyInitialized.Error())
		}
	case "shutdown":
		// Always accepted.
	default:
		st := s.getState()
		if st == StateUninitialized {
			return protocol.NewRPCError(protocol.CodeServerNotInitialized, ErrNotInitialized.Error())
		}
		if st == StateShuttingDown || st == StateStopped {
			return protocol.NewRPCError(protocol.CodeInvalidRequest, "server: shutting down")
		}
	}
	return nil
}

// NewStdioConn is a convenience constructor for the common case: an
// LSP client talking over the process's own stdin/stdout.
func NewStdioConn(r io.Reader, w io.Writer) *protocol.Conn {
	return protocol.NewConn(r, w)
}
