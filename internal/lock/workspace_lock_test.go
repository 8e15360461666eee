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
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquire_CreatesLockDirAndFile(t *testing.T) {
	tmpDir := t.TempDir()

	wl, err := Acquire(tmpDir, "session-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer wl.Release()

	lockPath := filepath.Join(tmpDir, ".angularjs-lsp", LockFileName)
	if wl.Path() != lockPath {
		t.Errorf("Path() = %s, want %s", wl.Path(), lockPath)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestAcquire_SecondAcquireFails(t *testing.T) {
	tmpDir := t.TempDir()

	first, err := Acquire(tmpDir, "session-1")
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	_, err = Acquire(tmpDir, "session-2")
	if !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("second Acquire error = %v, want ErrAlreadyLocked", err)
	}
}

func TestAcquire_AfterReleaseSucceeds(t *testing.T) {
	tmpDir := t.TempDir()

	first, err := Acquire(tmpDir, "session-1")
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	second, err := Acquire(tmpDir, "session-2")
	if err != nil {
		t.Fatalf("second Acquire after release: %v", err)
	}
	defer second.Release()
}

func TestWorkspaceLock_ReleaseIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	wl, err := Acquire(tmpDir, "session-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := wl.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := wl.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestReadInfo(t *testing.T) {
	tmpDir := t.TempDir()

	wl, err := Acquire(tmpDir, "session-abc")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer wl.Release()

	info, err := ReadInfo(wl.Path())
	if err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	if info == nil {
		t.Fatal("ReadInfo returned nil info")
	}
	if info.SessionID != "session-abc" {
		t.Errorf("SessionID = %s, want session-abc", info.SessionID)
	}
	if info.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", info.PID, os.Getpid())
	}
}

func TestReadInfo_NonexistentFile(t *testing.T) {
	_, err := ReadInfo("/nonexistent/server.lock")
	if err == nil {
		t.Error("ReadInfo = nil error, want error for missing file")
	}
}

func TestIsProcessAlive(t *testing.T) {
	t.Run("current process is alive", func(t *testing.T) {
		if !isProcessAlive(os.Getpid()) {
			t.Error("current process should be alive")
		}
	})
}
