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

import "errors"

// ErrNoLocalAnswer signals that the cursor position is not a construct
// the Resolver recognizes (or the DI-visibility gate rejected it).
// internal/server treats this as "forward to the fallback Proxy", not
// as a failure to surface to the client.
var ErrNoLocalAnswer = errors.New("resolver: no local answer")

// ErrReadOnlyFile is returned by Rename when the write set includes a
// site in a file the process cannot write to.
var ErrReadOnlyFile = errors.New("resolver: rename touches a read-only file")

// ErrClientCannotApplyEdit is returned by Rename when the LSP client
// didn't advertise workspace.workspaceEdit.documentChanges support,
// since a multi-file WorkspaceEdit depends on it.
var ErrClientCannotApplyEdit = errors.New("resolver: client does not support documentChanges")
