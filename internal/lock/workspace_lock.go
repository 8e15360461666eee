// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LockFileName is the advisory lock file created under a workspace's
// `.angularjs-lsp` directory.
const LockFileName = "server.lock"

// Info records who holds a WorkspaceLock, written into the lock file
// itself for `angularjs-lsp refresh-index`/debug visibility.
type Info struct {
	PID       int       `json:"pid"`
	SessionID string    `json:"sessionId"`
	LockedAt  time.Time `json:"lockedAt"`
}

// WorkspaceLock is an exclusive, process-scoped advisory lock on one
// workspace root, preventing two server instances from indexing (and
// writing to the cache of) the same workspace concurrently.
//
// Thread Safety: a WorkspaceLock is not safe for concurrent Release
// calls; Acquire/Release are expected to bracket one server's
// lifetime from one goroutine.
type WorkspaceLock struct {
	file     *os.File
	lockPath string
	locker   fileLocker
}

// Acquire takes the workspace lock for workspaceRoot, creating the
// `.angularjs-lsp` directory if needed. It returns ErrAlreadyLocked if
// another live process already holds it. A lock file left behind by a
// crashed process is detected (the held flock dies with its process)
// and silently reclaimed.
func Acquire(workspaceRoot, sessionID string) (*WorkspaceLock, error) {
	dir := filepath.Join(workspaceRoot, ".angularjs-lsp")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("lock: create %s: %w", dir, err)
	}

	lockPath := filepath.Join(dir, LockFileName)
	f, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("lock: open %s: %w", lockPath, err)
	}

	locker := newFileLocker()
	if err := locker.lock(f); err != nil {
		f.Close()
		return nil, err
	}

	info := Info{PID: os.Getpid(), SessionID: sessionID, LockedAt: time.Now()}
	if data, err := json.MarshalIndent(info, "", "  "); err == nil {
		_ = f.Truncate(0)
		_, _ = f.WriteAt(data, 0)
	}

	return &WorkspaceLock{file: f, lockPath: lockPath, locker: locker}, nil
}

// Release unlocks and closes the lock file. Safe to call once; a
// second call is a no-op.
func (l *WorkspaceLock) Release() error {
	if l.file == nil {
		return nil
	}
	err := l.locker.unlock(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return closeErr
}

// Path returns the lock file's path.
func (l *WorkspaceLock) Path() string {
	return l.lockPath
}

// ReadInfo reads the Info written by whoever currently holds (or most
// recently held) the lock file at lockPath.
func ReadInfo(lockPath string) (*Info, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
