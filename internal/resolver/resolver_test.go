// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/extractor"
	"github.com/angularjs-lsp/angularjs-lsp/internal/index"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// parseJS parses src as a JavaScript file, extracts it, and indexes
// the result, returning the Tree (for cursor queries) and the Index.
func parseJS(t *testing.T, src, path string) (*syntax.Tree, *index.SymbolIndex) {
	t.Helper()
	tree, err := syntax.NewJSParser().Parse(context.Background(), []byte(src), path)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	record, err := extractor.New().Extract(context.Background(), tree)
	require.NoError(t, err)

	idx := index.NewSymbolIndex()
	require.NoError(t, idx.ReplaceFile(record))
	return tree, idx
}

// parseHTML parses src as an HTML file and returns the Tree; callers
// build the Index separately since templates contribute References,
// not Symbols.
func parseHTML(t *testing.T, src, path string) *syntax.Tree {
	t.Helper()
	tree, err := syntax.NewHTMLParser().Parse(context.Background(), []byte(src), path)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

// indexOf returns the byte offset of the first occurrence of needle in
// src, or -1.
func indexOf(src, needle string) int {
	for i := 0; i+len(needle) <= len(src); i++ {
		if src[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
