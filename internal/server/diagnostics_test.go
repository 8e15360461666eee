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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

func TestUnusedScopeVariableDiagnostics_FlagsZeroReferenceMembers(t *testing.T) {
	s := newTestServer(t)
	require.True(t, s.cfg.AJSConfig.Diagnostics.UnusedScopeVariables, "default config must have the sweep on")

	ctrlID := model.NewID()
	loc := model.Location{FilePath: "/ws/main.js"}
	rec := &model.FileRecord{
		Path: "/ws/main.js",
		Symbols: []model.Symbol{
			{ID: ctrlID, Kind: model.KindController, Name: "MainCtrl", OwnerModule: "app", Location: loc},
			{ID: model.NewID(), Kind: model.KindScopeProperty, Name: "used", OwnerSymbolID: ctrlID, Location: loc},
			{ID: model.NewID(), Kind: model.KindScopeProperty, Name: "dead", OwnerSymbolID: ctrlID, Location: loc},
		},
		References: []model.Reference{
			{ID: model.NewID(), ReferencedName: "used", KindHint: model.KindScopeProperty, Location: loc},
		},
	}
	require.NoError(t, s.idx.ReplaceFile(rec))

	diags := s.unusedScopeVariableDiagnostics()
	found := diags["/ws/main.js"]
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "dead")
}

func TestUnusedScopeVariableDiagnostics_DisabledByConfig(t *testing.T) {
	s := newTestServer(t)
	s.cfg.AJSConfig.Diagnostics.UnusedScopeVariables = false

	rec := &model.FileRecord{
		Path: "/ws/main.js",
		Symbols: []model.Symbol{
			{ID: model.NewID(), Kind: model.KindScopeProperty, Name: "dead", Location: model.Location{FilePath: "/ws/main.js"}},
		},
	}
	require.NoError(t, s.idx.ReplaceFile(rec))

	assert.Empty(t, s.unusedScopeVariableDiagnostics())
}
