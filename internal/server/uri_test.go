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
)

func TestPathToURI_RoundTrips(t *testing.T) {
	uri := pathToURI("/workspace/app/controllers/user.js")
	assert.Equal(t, "file:///workspace/app/controllers/user.js", uri)
	assert.Equal(t, "/workspace/app/controllers/user.js", uriToPath(uri))
}

func TestPathToURI_EncodesSpaces(t *testing.T) {
	uri := pathToURI("/workspace/my app/index.html")
	assert.Contains(t, uri, "%20")
	assert.Equal(t, "/workspace/my app/index.html", uriToPath(uri))
}

func TestUriToPath_FallsBackOnUnparseableURI(t *testing.T) {
	// "%gg" is not a valid percent-escape; url.Parse rejects it, so
	// uriToPath falls back to a plain "file://" prefix trim.
	assert.Equal(t, "/%gg/app.js", uriToPath("file:///%gg/app.js"))
}

func TestLanguageFromPath(t *testing.T) {
	assert.Equal(t, "javascript", languageFromPath("/app/controllers/user.js"))
	assert.Equal(t, "html", languageFromPath("/app/views/user.html"))
	assert.Equal(t, "html", languageFromPath("/app/views/user.HTM"))
	assert.Equal(t, "", languageFromPath("/app/styles/app.css"))
}
