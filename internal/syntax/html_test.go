// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLParser_ParseTemplate(t *testing.T) {
	src := []byte(`<div ng-controller="MainCtrl as vm">
  <p>{{ vm.greeting }}</p>
  <ul>
    <li ng-repeat="item in vm.items">{{ item.name }}</li>
  </ul>
</div>
`)

	p := NewHTMLParser()
	tree, err := p.Parse(context.Background(), src, "app.html")
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, "html", tree.Language)
	assert.False(t, tree.HasErrors)
	assert.Equal(t, HTMLDocument, tree.RootNode().Type())
}

func TestHTMLParser_RejectsOversizedFile(t *testing.T) {
	p := NewHTMLParser(WithHTMLMaxFileSize(4))
	_, err := p.Parse(context.Background(), []byte("<div></div>"), "big.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestParserRegistry_LookupByExtension(t *testing.T) {
	r := NewDefaultParserRegistry()

	jsParser, ok := r.GetByExtension(".js")
	require.True(t, ok)
	assert.Equal(t, "javascript", jsParser.Language())

	htmlParser, ok := r.GetByExtension(".html")
	require.True(t, ok)
	assert.Equal(t, "html", htmlParser.Language())

	_, ok = r.GetByExtension(".css")
	assert.False(t, ok)
}

func TestParserRegistry_LookupByLanguage(t *testing.T) {
	r := NewDefaultParserRegistry()

	p, ok := r.GetByLanguage("html")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{".html", ".htm"}, p.Extensions())
}
