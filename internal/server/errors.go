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

import "errors"

// Sentinel errors for server lifecycle and document-store misuse.
var (
	// ErrAlreadyInitialized is returned if "initialize" is received
	// more than once.
	ErrAlreadyInitialized = errors.New("server: already initialized")

	// ErrNotInitialized is returned if a request arrives before
	// "initialize" has completed.
	ErrNotInitialized = errors.New("server: not initialized")

	// ErrDocumentNotOpen is returned for a didChange/didClose/query
	// against a URI the client never opened.
	ErrDocumentNotOpen = errors.New("server: document not open")

	// ErrUnsupportedLanguage is returned when a document's language
	// is neither "javascript" nor "html".
	ErrUnsupportedLanguage = errors.New("server: unsupported document language")
)
