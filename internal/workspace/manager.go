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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// Manager scans a project root for AngularJS source files and compares
// successive Manifests to find what changed.
//
// Thread Safety: Manager is safe for concurrent use.
type Manager struct {
	hasher         Hasher
	matcher        *GlobMatcher
	maxFileSize    int64
	followSymlinks bool
	maxRetries     int
}

// NewManager creates a Manager.
//
// Default configuration:
//   - maxFileSize: 100MB
//   - followSymlinks: false
//   - maxRetries: 3
//   - includes: DefaultIncludes
//   - excludes: DefaultExcludes
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		maxFileSize:    DefaultMaxFileSize,
		followSymlinks: false,
		maxRetries:     DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.hasher == nil {
		m.hasher = NewSHA256Hasher(m.maxFileSize)
	}
	if m.matcher == nil {
		m.matcher = NewGlobMatcher(DefaultIncludes, DefaultExcludes)
	}
	return m
}

// WithIncludes sets the include glob patterns.
func WithIncludes(patterns ...string) ManagerOption {
	return func(m *Manager) {
		excludes := DefaultExcludes
		if m.matcher != nil {
			excludes = m.matcher.excludes
		}
		m.matcher = NewGlobMatcher(patterns, excludes)
	}
}

// WithExcludes sets the exclude glob patterns.
func WithExcludes(patterns ...string) ManagerOption {
	return func(m *Manager) {
		includes := DefaultIncludes
		if m.matcher != nil {
			includes = m.matcher.includes
		}
		m.matcher = NewGlobMatcher(includes, patterns)
	}
}

// WithMaxFileSize sets the maximum file size eligible for hashing.
func WithMaxFileSize(bytes int64) ManagerOption {
	return func(m *Manager) { m.maxFileSize = bytes }
}

// WithFollowSymlinks enables or disables following symlinks during Scan.
func WithFollowSymlinks(follow bool) ManagerOption {
	return func(m *Manager) { m.followSymlinks = follow }
}

// WithHasher overrides the default SHA256Hasher.
func WithHasher(h Hasher) ManagerOption {
	return func(m *Manager) { m.hasher = h }
}

// WithMaxRetries sets the TOCTOU retry budget for HashFileAtomic.
func WithMaxRetries(n int) ManagerOption {
	return func(m *Manager) { m.maxRetries = n }
}

type inodeKey struct {
	dev uint64
	ino uint64
}

func getInodeKey(info os.FileInfo) inodeKey {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return inodeKey{dev: uint64(stat.Dev), ino: stat.Ino}
	}
	return inodeKey{}
}

// validatePath ensures path stays within projectRoot.
func validatePath(projectRoot, path string) error {
	var absPath string
	if filepath.IsAbs(path) {
		absPath = filepath.Clean(path)
	} else {
		absPath = filepath.Clean(filepath.Join(projectRoot, path))
	}

	rel, err := filepath.Rel(projectRoot, absPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}
	if strings.HasPrefix(rel, "..") || rel == ".." {
		return fmt.Errorf("%w: %s escapes root", ErrPathTraversal, path)
	}
	return nil
}

// Scan walks root and returns a Manifest of every matching file.
//
// Symlinks are not followed unless WithFollowSymlinks(true). Files over
// maxFileSize and permission errors are recorded in the manifest's
// Errors and do not stop the scan. Context cancellation marks the
// manifest Incomplete and returns the partial result with a nil error.
func (m *Manager) Scan(ctx context.Context, root string) (*Manifest, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	manifest := NewManifest(absRoot)
	visited := make(map[inodeKey]bool)

	if err := m.scanDir(ctx, absRoot, absRoot, manifest, visited); err != nil {
		if ctx.Err() != nil {
			manifest.Incomplete = true
			return manifest, nil
		}
		return manifest, err
	}

	manifest.UpdatedAtMilli = time.Now().UnixMilli()
	return manifest, nil
}

func (m *Manager) scanDir(ctx context.Context, root, dir string, manifest *Manifest, visited map[inodeKey]bool) error {
	select {
	case <-ctx.Done():
		manifest.Incomplete = true
		return ctx.Err()
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		relPath, _ := filepath.Rel(root, dir)
		manifest.Errors = append(manifest.Errors, ScanError{Path: relPath, Err: err})
		return nil
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			manifest.Incomplete = true
			return ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			manifest.Errors = append(manifest.Errors, ScanError{Path: path, Err: err})
			continue
		}
		relPathSlash := filepath.ToSlash(relPath)

		info, err := os.Lstat(path)
		if err != nil {
			manifest.Errors = append(manifest.Errors, ScanError{Path: relPath, Err: err})
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !m.followSymlinks {
				continue
			}
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				manifest.Errors = append(manifest.Errors, ScanError{Path: relPath, Err: err})
				continue
			}
			if err := validatePath(root, target); err != nil {
				manifest.Errors = append(manifest.Errors, ScanError{
					Path: relPath,
					Err:  fmt.Errorf("symlink target outside root: %s", target),
				})
				continue
			}
			targetInfo, err := os.Stat(target)
			if err != nil {
				manifest.Errors = append(manifest.Errors, ScanError{Path: relPath, Err: err})
				continue
			}
			key := getInodeKey(targetInfo)
			if visited[key] {
				manifest.Errors = append(manifest.Errors, ScanError{
					Path: relPath,
					Err:  fmt.Errorf("%w: %s", ErrSymlinkCycle, target),
				})
				continue
			}
			visited[key] = true
			info = targetInfo
			path = target
		}

		if info.IsDir() {
			isExcluded := false
			for _, pattern := range m.matcher.excludes {
				if matchGlob(pattern, relPathSlash) || matchGlob(pattern, relPathSlash+"/") {
					isExcluded = true
					break
				}
			}
			if !isExcluded {
				if err := m.scanDir(ctx, root, path, manifest, visited); err != nil {
					return err
				}
			}
			continue
		}

		if !m.matcher.Match(relPathSlash) {
			continue
		}
		if m.maxFileSize > 0 && info.Size() > m.maxFileSize {
			manifest.Errors = append(manifest.Errors, ScanError{
				Path: relPath,
				Err:  fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size()),
			})
			continue
		}

		entry, err := m.hasher.HashFileAtomic(path, m.maxRetries)
		if err != nil {
			manifest.Errors = append(manifest.Errors, ScanError{Path: relPath, Err: err})
			continue
		}
		entry.Path = relPath
		manifest.Files[relPath] = entry
	}

	return nil
}

// Diff compares two Manifests by hash (not mtime) and reports which
// files were added, modified, or deleted. If old is nil, every file in
// new counts as added.
func (m *Manager) Diff(old, new *Manifest) *Changes {
	changes := &Changes{Added: []string{}, Modified: []string{}, Deleted: []string{}}

	if old == nil {
		for path := range new.Files {
			changes.Added = append(changes.Added, path)
		}
		return changes
	}

	for path, newEntry := range new.Files {
		oldEntry, exists := old.Files[path]
		switch {
		case !exists:
			changes.Added = append(changes.Added, path)
		case oldEntry.Hash != newEntry.Hash:
			changes.Modified = append(changes.Modified, path)
		}
	}
	for path := range old.Files {
		if _, exists := new.Files[path]; !exists {
			changes.Deleted = append(changes.Deleted, path)
		}
	}
	return changes
}

// QuickCheck reports whether entry's file has changed since it was
// hashed, using an mtime-first fast path before falling back to
// rehashing.
func (m *Manager) QuickCheck(ctx context.Context, root string, entry FileEntry) (changed bool, err error) {
	if err := validatePath(root, entry.Path); err != nil {
		return false, err
	}
	absPath := filepath.Join(root, entry.Path)

	info, err := os.Lstat(absPath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if info.ModTime().UnixNano() == entry.Mtime && info.Size() == entry.Size {
		return false, nil
	}

	newEntry, err := m.hasher.HashFileAtomic(absPath, m.maxRetries)
	if err != nil {
		return false, err
	}
	return newEntry.Hash != entry.Hash, nil
}
