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
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := newDocumentStore()
	doc := &document{URI: "file:///app.js", Path: "/app.js", Language: "javascript", Text: "angular.module('app', []);"}
	store.open(doc)

	got, ok := store.get("file:///app.js")
	require.True(t, ok)
	assert.Equal(t, doc.Text, got.Text)

	store.close("file:///app.js")
	_, ok = store.get("file:///app.js")
	assert.False(t, ok)
}

func TestDocumentStore_UpdateWithGeneration_BumpsCounter(t *testing.T) {
	store := newDocumentStore()
	store.open(&document{URI: "file:///app.js", Text: "v1"})

	_, gen1, ok := store.updateWithGeneration("file:///app.js", "v2", 2)
	require.True(t, ok)
	assert.Equal(t, uint64(1), gen1)

	_, gen2, ok := store.updateWithGeneration("file:///app.js", "v3", 3)
	require.True(t, ok)
	assert.Equal(t, uint64(2), gen2)

	assert.True(t, store.stillCurrent("file:///app.js", gen2))
	assert.False(t, store.stillCurrent("file:///app.js", gen1))
}

func TestDocumentStore_UpdateWithGeneration_UnopenedDocument(t *testing.T) {
	store := newDocumentStore()
	_, _, ok := store.updateWithGeneration("file:///missing.js", "text", 1)
	assert.False(t, ok)
}
