// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolver answers semantic queries (definition, references,
// completion, hover, signature help, rename, code lens) against a
// parsed Syntax tree and the workspace's SymbolIndex.
//
// Resolver is a pure domain-query layer: it takes a *syntax.Tree and a
// cursor Position, classifies the lexical role of the token under the
// cursor (bare identifier, member-expression property, DI-array string
// literal, or an HTML template expression reference), and answers from
// the Index. It knows nothing about the LSP wire format or the
// fallback JavaScript language server — that's internal/server's job:
// server maps Resolver's domain result types to internal/protocol wire
// types, and forwards to internal/proxy whenever Resolver reports
// ErrNoLocalAnswer.
//
// The one rule every operation shares is DI-visibility: inside a
// controller/service/directive/etc. body, a plain-identifier reference
// to a named service only resolves if that name appears in the
// enclosing construct's dependency list (Symbol.HasDependency). Outside
// any DI-bearing body — or for HTML templates, which have no DI list of
// their own — that gate does not apply.
package resolver
