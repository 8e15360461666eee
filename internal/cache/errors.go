// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import "errors"

var (
	// ErrMiss is returned by lookups that find no entry for the key.
	ErrMiss = errors.New("cache: miss")

	// ErrVersionMismatch is returned internally when the stored cache
	// format version doesn't match FormatVersion; callers never see
	// it directly since Open discards and recreates the manifest key.
	ErrVersionMismatch = errors.New("cache: format version mismatch")

	// ErrClosed is returned by any operation on a Store after Close.
	ErrClosed = errors.New("cache: store is closed")
)
