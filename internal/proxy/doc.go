// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package proxy maintains a child process running a generic
// JavaScript language server and forwards to it any request the
// Resolver declines to answer (queries outside the AngularJS idiom
// catalog this project understands).
//
// # Lifecycle
//
// The child is spawned lazily on first Forward call, killed on
// Close, and respawned once automatically after a crash; a second
// crash within the same session disables the Proxy for its
// remaining lifetime rather than looping forever.
package proxy
