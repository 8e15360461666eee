// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server implements the editor-facing side of the Language
// Server Protocol: the stdio JSON-RPC loop, the open-document store,
// initial and incremental workspace indexing, and the dispatch table
// that maps LSP requests onto internal/resolver and, when the
// Resolver declines to answer, onto internal/proxy.
//
// Server owns every concern internal/resolver deliberately does not:
// LSP wire-type conversion, document lifecycle, workspace scanning,
// caching, and fallback proxying. internal/resolver stays a pure
// *syntax.Tree + *index.SymbolIndex query layer; this package is the
// only place that imports both it and internal/protocol.
package server
