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

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/angularjs-lsp/angularjs-lsp/internal/protocol"
)

// watcherDebounce batches rapid-fire fsnotify events (e.g. an
// editor's atomic-save-via-rename dance) into a single re-index per
// file.
const watcherDebounce = 150 * time.Millisecond

var defaultIgnoreDirs = []string{".git", "node_modules", ".angularjs-lsp", ".idea", "dist", "build"}

// fileWatcher is the server's own recursive fsnotify watch, used when
// the client doesn't register its own workspace/didChangeWatchedFiles
// (per spec §6, a native fallback, not the sole source of truth).
type fileWatcher struct {
	root   string
	server *Server
	fsw    *fsnotify.Watcher

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
}

func newFileWatcher(root string, server *Server) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fileWatcher{
		root:    root,
		server:  server,
		fsw:     fsw,
		changes: make(chan string, 256),
		done:    make(chan struct{}),
	}, nil
}

func (w *fileWatcher) start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.processEvents()
	go w.debounceLoop(ctx)
	return nil
}

func (w *fileWatcher) stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
	})
}

func (w *fileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnoreWatchPath(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func shouldIgnoreWatchPath(path string) bool {
	base := filepath.Base(path)
	for _, ignored := range defaultIgnoreDirs {
		if base == ignored || strings.Contains(path, string(filepath.Separator)+ignored+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *fileWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if shouldIgnoreWatchPath(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(event.Name)
					continue
				}
			}
			select {
			case w.changes <- event.Name:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *fileWatcher) debounceLoop(ctx context.Context) {
	pending := make(map[string]*time.Timer)
	var mu sync.Mutex

	fire := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()
		w.server.handleFileChanged(path)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			mu.Lock()
			if t, ok := pending[path]; ok {
				t.Reset(watcherDebounce)
			} else {
				pending[path] = time.AfterFunc(watcherDebounce, func() { fire(path) })
			}
			mu.Unlock()
		}
	}
}

// startWatcher starts the native fallback watch over the workspace
// root. A failure to start (e.g. too many open inotify handles) only
// disables live re-indexing on external changes; it is logged, not
// fatal.
func (s *Server) startWatcher() {
	if s.cfg.WorkspaceRoot == "" {
		return
	}
	w, err := newFileWatcher(s.cfg.WorkspaceRoot, s)
	if err != nil {
		s.logger.Warn("file watcher unavailable", "error", err)
		return
	}
	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	if err := w.start(context.Background()); err != nil {
		s.logger.Warn("file watcher failed to start", "error", err)
	}
}

func (s *Server) stopWatcher() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		w.stop()
	}
}

// handleFileChanged re-indexes a single on-disk file outside the
// document-sync path (i.e. a change the editor didn't report via
// didChange, such as a git checkout or an external tool). Superseded
// by a newer change to the same path via the same generation-counter
// drop-intermediate rule used for didChange.
func (s *Server) handleFileChanged(absPath string) {
	if languageFromPath(absPath) == "" {
		return
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		s.idx.RemoveByFile(absPath)
		return
	}

	s.fileGenMu.Lock()
	s.fileGen[absPath]++
	gen := s.fileGen[absPath]
	s.fileGenMu.Unlock()

	go func() {
		ctx := context.Background()
		content, err := os.ReadFile(absPath)
		if err != nil {
			return
		}
		lang := languageFromPath(absPath)
		parser, ok := s.parsers.GetByLanguage(lang)
		if !ok {
			return
		}
		tree, err := parser.Parse(ctx, content, absPath)
		if err != nil {
			return
		}
		defer tree.Close()

		rec, err := s.extractRecord(ctx, tree, lang, absPath)
		if err != nil {
			return
		}

		s.fileGenMu.Lock()
		current := s.fileGen[absPath] == gen
		s.fileGenMu.Unlock()
		if !current {
			return
		}
		if err := s.idx.ReplaceFile(rec); err != nil {
			s.logger.Warn("watch reindex commit failed", "path", absPath, "error", err)
		}
	}()
}

func handleDidChangeWatchedFiles(s *Server, ctx context.Context, params json.RawMessage) {
	var p protocol.DidChangeWatchedFilesParams
	if err := unmarshalParams(params, &p); err != nil {
		s.logger.Warn("malformed didChangeWatchedFiles", "error", err)
		return
	}
	for _, change := range p.Changes {
		path := uriToPath(change.URI)
		if change.Type == protocol.FileTypeDeleted {
			s.idx.RemoveByFile(path)
			continue
		}
		s.handleFileChanged(path)
	}
}
