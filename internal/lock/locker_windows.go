// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

//go:build windows

package lock

import (
	"os"

	"golang.org/x/sys/windows"
)

// windowsFileLocker implements fileLocker using LockFileEx/UnlockFileEx.
type windowsFileLocker struct{}

func (l *windowsFileLocker) lock(f *os.File) error {
	handle := windows.Handle(f.Fd())
	overlapped := new(windows.Overlapped)
	err := windows.LockFileEx(handle, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, overlapped)
	if err != nil {
		if err == windows.ERROR_LOCK_VIOLATION {
			return ErrAlreadyLocked
		}
		return err
	}
	return nil
}

func (l *windowsFileLocker) unlock(f *os.File) error {
	handle := windows.Handle(f.Fd())
	overlapped := new(windows.Overlapped)
	return windows.UnlockFileEx(handle, 0, 1, 0, overlapped)
}

func platformIsProcessAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}
	return exitCode == 259 // STILL_ACTIVE
}

func newPlatformLocker() fileLocker {
	return &windowsFileLocker{}
}
