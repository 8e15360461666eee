// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package proxy

import "errors"

// Sentinel errors for Proxy operations.
var (
	// ErrNotInstalled indicates the configured fallback server binary
	// was not found on PATH.
	ErrNotInstalled = errors.New("proxy: fallback server not installed")

	// ErrDisabled indicates the Proxy has exhausted its one automatic
	// respawn and will not attempt to start the child again this
	// session.
	ErrDisabled = errors.New("proxy: disabled after repeated crashes")

	// ErrInitializeFailed indicates the child's initialize handshake
	// failed.
	ErrInitializeFailed = errors.New("proxy: child initialize failed")
)
