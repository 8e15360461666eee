// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package protocol implements the Language Server Protocol's base
// JSON-RPC framing (Content-Length-delimited messages over stdio) and
// the LSP wire types exchanged over it.
//
// # Architecture
//
// Conn is bidirectional: internal/server uses it in the server role
// (ReadLoop dispatches incoming requests/notifications to a Handler,
// Notify pushes diagnostics back to the client), and internal/proxy
// reuses the same type in the client role (Call/Notify) to drive a
// child JavaScript language server process over its stdin/stdout.
//
// # Thread Safety
//
// Conn is safe for concurrent use: many goroutines may call Call,
// Notify, or Reply while a single goroutine runs ReadLoop.
package protocol
