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

// requestHandlerFunc answers one JSON-RPC request method.
type requestHandlerFunc func(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error)

// notificationHandlerFunc handles one JSON-RPC notification method.
type notificationHandlerFunc func(s *Server, ctx context.Context, params json.RawMessage)

// requestHandlers is the dispatch table for every LSP request method
// this server answers. Implementations live alongside the concern
// they belong to: lifecycle.go, queries.go, commands.go.
var requestHandlers = map[string]requestHandlerFunc{
	"initialize":                 handleInitialize,
	"shutdown":                   handleShutdown,
	"textDocument/definition":    handleDefinition,
	"textDocument/references":    handleReferences,
	"textDocument/completion":    handleCompletion,
	"textDocument/hover":         handleHover,
	"textDocument/signatureHelp": handleSignatureHelp,
	"textDocument/documentSymbol": handleDocumentSymbol,
	"textDocument/codeLens":      handleCodeLens,
	"textDocument/rename":        handleRename,
	"textDocument/prepareRename": handlePrepareRename,
	"workspace/symbol":           handleWorkspaceSymbol,
	"workspace/executeCommand":   handleExecuteCommand,
}

// notificationHandlers is the dispatch table for every LSP
// notification method this server observes.
var notificationHandlers = map[string]notificationHandlerFunc{
	"initialized":                       handleInitialized,
	"exit":                              handleExit,
	"textDocument/didOpen":              handleDidOpen,
	"textDocument/didChange":            handleDidChange,
	"textDocument/didSave":              handleDidSave,
	"textDocument/didClose":             handleDidClose,
	"workspace/didChangeWatchedFiles":   handleDidChangeWatchedFiles,
}

// unmarshalParams is a small convenience wrapper shared by every
// handler: a malformed params payload becomes a CodeInvalidParams
// RPCError rather than a panic.
func unmarshalParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return protocol.NewRPCError(protocol.CodeInvalidParams, err.Error())
	}
	return nil
}
