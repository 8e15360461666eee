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

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// FormatVersion is bumped whenever FileEntry or GlobalRecord's shape
// changes in a way that would break decoding of previously-cached
// bytes. Open discards the entire cache when the stored version
// doesn't match.
const FormatVersion = 1

const (
	manifestKey  = "manifest:version"
	globalKey    = "global"
	filePrefix   = "file:"
	keySeparator = "\x00"
)

// FileEntry is the cached result of parsing and extracting one file,
// keyed by that file's content hash so a later scan with the same
// hash can skip re-parsing entirely.
type FileEntry struct {
	Path       string
	Hash       string
	Symbols    []model.Symbol
	References []model.Reference
	Modules    []model.Module
}

// GlobalRecord holds workspace-wide derived data that spans multiple
// files — RouteBinding and ng-include cross-file bindings — and is
// invalidated whenever any file contributing to it changes.
type GlobalRecord struct {
	RouteBindings []model.RouteBindingMetadata
	// SourceHashes are the content hashes of every file that
	// contributed to this record at the time it was computed; Store
	// callers compare this against the current workspace scan to
	// decide whether the record is stale.
	SourceHashes map[string]string
}

// Store is a BadgerDB-backed cache of per-file and workspace-global
// AngularJS indexing results.
//
// Thread Safety: Store is safe for concurrent use.
type Store struct {
	db     *badger.DB
	gc     *gcRunner
	path   string
	closed atomic.Bool
	mu     sync.Mutex
}

// Open opens (and creates if needed) a cache at cfg.Path, or an
// in-memory cache if cfg.InMemory is set. A stored format version
// older or newer than FormatVersion causes the whole cache to be
// wiped and restarted empty rather than risk decoding mismatched gob
// data.
func Open(cfg Config) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: cfg.Path}

	if err := s.checkVersion(); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.gc = newGCRunner(db, cfg.GCInterval, cfg.GCDiscardRatio, cfg.Logger)
		s.gc.start()
	}

	return s, nil
}

// checkVersion reads the manifest key and, on mismatch or absence,
// drops every key and writes the current FormatVersion.
func (s *Store) checkVersion() error {
	var stored uint32
	found := false

	err := withReadTxn(context.Background(), s.db, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(manifestKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return nil
			}
			stored = binary.BigEndian.Uint32(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("read cache manifest: %w", err)
	}

	if found && stored == FormatVersion {
		return nil
	}
	return s.reset()
}

// reset drops every key in the database and rewrites the manifest.
func (s *Store) reset() error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, FormatVersion)
	return withTxn(context.Background(), s.db, func(txn *badger.Txn) error {
		return txn.Set([]byte(manifestKey), buf)
	})
}

func fileKey(path, hash string) []byte {
	return []byte(filePrefix + path + keySeparator + hash)
}

// GetFile returns the cached entry for path at hash, or ErrMiss if
// absent or the hash no longer matches (a stale entry under a
// different hash for the same path is simply a miss, not an error).
func (s *Store) GetFile(ctx context.Context, path, hash string) (*FileEntry, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var entry FileEntry
	err := withReadTxn(ctx, s.db, func(txn *badger.Txn) error {
		item, err := txn.Get(fileKey(path, hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMiss
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutFile writes entry to the cache under its Path and Hash.
func (s *Store) PutFile(ctx context.Context, entry FileEntry) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if entry.Path == "" || entry.Hash == "" {
		return fmt.Errorf("cache: PutFile requires Path and Hash")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	return withTxn(ctx, s.db, func(txn *badger.Txn) error {
		return txn.Set(fileKey(entry.Path, entry.Hash), buf.Bytes())
	})
}

// InvalidateFile removes every cached entry for path regardless of
// hash, used when a file is deleted from the workspace.
func (s *Store) InvalidateFile(ctx context.Context, path string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	prefix := []byte(filePrefix + path + keySeparator)
	var keys [][]byte
	err := withReadTxn(ctx, s.db, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return withTxn(ctx, s.db, func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetGlobal returns the cached workspace-global record, or ErrMiss if
// none has been written yet.
func (s *Store) GetGlobal(ctx context.Context) (*GlobalRecord, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var rec GlobalRecord
	err := withReadTxn(ctx, s.db, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(globalKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMiss
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutGlobal writes the workspace-global record.
func (s *Store) PutGlobal(ctx context.Context, rec GlobalRecord) error {
	if s.closed.Load() {
		return ErrClosed
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encode global cache record: %w", err)
	}
	return withTxn(ctx, s.db, func(txn *badger.Txn) error {
		return txn.Set([]byte(globalKey), buf.Bytes())
	})
}

// Close stops background GC (if running) and closes the database.
// Safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}
	if s.gc != nil {
		s.gc.stop()
	}
	return s.db.Close()
}

// Path returns the cache directory, or empty string for an in-memory
// cache.
func (s *Store) Path() string {
	return s.path
}
