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

// State is the lifecycle state of the Server, modeled after the
// teacher's child-process ServerState enum but for the host role:
// this process is the one being initialized, not the one spawning a
// child.
type State int

const (
	// StateUninitialized is the state before "initialize" arrives.
	StateUninitialized State = iota

	// StateInitializing covers the span between "initialize" and the
	// "initialized" notification, during which workspace indexing
	// runs in the background.
	StateInitializing

	// StateReady means the server accepts and answers requests.
	StateReady

	// StateShuttingDown means "shutdown" was received; other requests
	// (except a repeated "shutdown") are rejected with InvalidRequest.
	StateShuttingDown

	// StateStopped means "exit" was received; the connection is closed
	// and the read loop returns.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
