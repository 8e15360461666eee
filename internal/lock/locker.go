// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lock guards a workspace against being indexed by two server
// instances at once. A single advisory lock file under
// `<workspace>/.angularjs-lsp/server.lock` is held for the lifetime of
// the process that successfully acquires it.
package lock

import (
	"errors"
	"os"
)

// ErrAlreadyLocked is returned by Acquire when another process already
// holds the workspace lock.
var ErrAlreadyLocked = errors.New("lock: workspace is already locked by another process")

// fileLocker abstracts platform-specific advisory file locking. Unix
// uses syscall.Flock; Windows uses LockFileEx.
//
// Thread Safety: implementations are safe for concurrent use on
// different files. Locking the same file from multiple goroutines in
// one process is undefined behavior.
type fileLocker interface {
	// lock acquires a non-blocking exclusive lock on f, returning
	// ErrAlreadyLocked if another process holds it.
	lock(f *os.File) error

	// unlock releases a previously acquired lock. Safe to call even
	// if the file was never locked.
	unlock(f *os.File) error
}

// isProcessAlive reports whether a process with the given PID is
// still running, used to tell a genuinely stale lock file (from a
// crashed process) apart from one still in use.
func isProcessAlive(pid int) bool {
	return platformIsProcessAlive(pid)
}

func newFileLocker() fileLocker {
	return newPlatformLocker()
}
