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

const (
	// commandOpenLocation is a client-side-only command: CodeLens
	// attaches it with a Location[] argument so the editor can jump to
	// one of several targets (e.g. a controller's route templates). It
	// is never sent back to the server and so has no handler here.
	commandOpenLocation = "angularjs.openLocation"

	// commandRefreshIndex is the one server-executed command: a full
	// re-scan of the workspace, discarding and rebuilding the Index.
	commandRefreshIndex = "angularjs-lsp.refreshIndex"
)

func handleExecuteCommand(s *Server, ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p protocol.ExecuteCommandParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}

	switch p.Command {
	case commandRefreshIndex:
		go s.refreshIndex()
		return nil, nil
	default:
		return nil, protocol.NewRPCError(protocol.CodeInvalidParams, "unknown command: "+p.Command)
	}
}

// refreshIndex clears the Index and re-runs the initial workspace
// scan, then notifies the client with a showMessage so a user-invoked
// "refresh index" command has a visible result.
func (s *Server) refreshIndex() {
	s.idx.Clear()
	ctx := context.Background()
	message := "AngularJS index refreshed"
	if err := s.indexWorkspace(ctx); err != nil {
		s.logger.Warn("refresh index failed", "error", err)
		message = "AngularJS index refresh failed: " + err.Error()
	} else {
		s.publishUnusedScopeVariableDiagnostics(ctx)
	}
	if s.conn != nil {
		_ = s.conn.Notify("window/showMessage", struct {
			Type    int    `json:"type"`
			Message string `json:"message"`
		}{Type: 3, Message: message})
	}
}
