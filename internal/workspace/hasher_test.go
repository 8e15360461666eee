// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSHA256Hasher_HashFile(t *testing.T) {
	t.Run("known content produces known digest", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "hello.txt")
		if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(0)
		hash, err := hasher.HashFile(path)
		if err != nil {
			t.Fatalf("HashFile: %v", err)
		}

		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if hash != want {
			t.Errorf("hash = %s, want %s", hash, want)
		}
		if len(hash) != 64 {
			t.Errorf("len(hash) = %d, want 64", len(hash))
		}
	})

	t.Run("empty file produces the empty-string digest", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "empty.txt")
		if err := os.WriteFile(path, []byte{}, 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(0)
		hash, err := hasher.HashFile(path)
		if err != nil {
			t.Fatalf("HashFile: %v", err)
		}

		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if hash != want {
			t.Errorf("hash = %s, want %s", hash, want)
		}
	})

	t.Run("nonexistent file returns error", func(t *testing.T) {
		hasher := NewSHA256Hasher(0)
		_, err := hasher.HashFile("/nonexistent/path/angular.js")
		if err == nil {
			t.Error("HashFile = nil, want error")
		}
	})

	t.Run("oversized file returns ErrFileTooLarge", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "big.js")
		if err := os.WriteFile(path, make([]byte, 1024), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(100)
		_, err := hasher.HashFile(path)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("error = %v, want ErrFileTooLarge", err)
		}
	})

	t.Run("negative maxFileSize falls back to default", func(t *testing.T) {
		hasher := NewSHA256Hasher(-1)
		if hasher.maxFileSize != DefaultMaxFileSize {
			t.Errorf("maxFileSize = %d, want %d", hasher.maxFileSize, DefaultMaxFileSize)
		}
	})

	t.Run("zero maxFileSize means unlimited", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "anything.js")
		if err := os.WriteFile(path, make([]byte, 10_000), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(0)
		if _, err := hasher.HashFile(path); err != nil {
			t.Errorf("HashFile: %v, want nil", err)
		}
	})
}

func TestSHA256Hasher_HashFileAtomic(t *testing.T) {
	t.Run("stable file hashes successfully", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "stable.js")
		if err := os.WriteFile(path, []byte("angular.module('x', []);"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(0)
		entry, err := hasher.HashFileAtomic(path, 3)
		if err != nil {
			t.Fatalf("HashFileAtomic: %v", err)
		}
		if entry.Hash == "" {
			t.Error("entry.Hash is empty")
		}
		if entry.Size != int64(len("angular.module('x', []);")) {
			t.Errorf("entry.Size = %d, want %d", entry.Size, len("angular.module('x', []);"))
		}
	})

	t.Run("oversized file returns ErrFileTooLarge before reading", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "big.js")
		if err := os.WriteFile(path, make([]byte, 1024), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		hasher := NewSHA256Hasher(100)
		_, err := hasher.HashFileAtomic(path, 3)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("error = %v, want ErrFileTooLarge", err)
		}
	})

	t.Run("nonexistent file returns error, not ErrFileUnstable", func(t *testing.T) {
		hasher := NewSHA256Hasher(0)
		_, err := hasher.HashFileAtomic("/nonexistent/angular.js", 3)
		if errors.Is(err, ErrFileUnstable) {
			t.Error("error = ErrFileUnstable, want a plain stat error")
		}
		if err == nil {
			t.Error("HashFileAtomic = nil, want error")
		}
	})
}
