// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolver

import (
	"context"
	"os"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// PrepareRename reports whether pos is on a renameable construct,
// returning its current range (the range the client highlights for
// in-place editing) without computing the full edit set.
func (r *Resolver) PrepareRename(ctx context.Context, tree *syntax.Tree, pos model.Position) (*model.Range, error) {
	candidates, err := r.candidatesAt(ctx, tree, pos)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoLocalAnswer
	}
	rng := candidates[0].DefinitionRange
	return &rng, nil
}

// Rename computes the write set (definition plus every reference) for
// the construct under pos and renames it to newName. It refuses if
// the client lacks workspace.workspaceEdit.documentChanges support (a
// multi-file edit depends on it) or if any touched file isn't
// writable on disk.
//
// clientSupportsDocumentChanges is passed in by internal/server from
// the capabilities negotiated at initialize; Resolver has no LSP
// protocol dependency of its own.
func (r *Resolver) Rename(ctx context.Context, tree *syntax.Tree, pos model.Position, newName string, clientSupportsDocumentChanges bool) (*WorkspaceEdit, error) {
	if !clientSupportsDocumentChanges {
		return nil, ErrClientCannotApplyEdit
	}

	locs, err := r.References(ctx, tree, pos)
	if err != nil {
		return nil, err
	}

	for _, loc := range locs {
		if !isWritable(loc.FilePath) {
			return nil, ErrReadOnlyFile
		}
	}

	edit := &WorkspaceEdit{Changes: make(map[string][]TextEdit)}
	for _, loc := range locs {
		edit.Changes[loc.FilePath] = append(edit.Changes[loc.FilePath], TextEdit{
			Range:   loc.Range,
			NewText: newName,
		})
	}
	return edit, nil
}

// isWritable probes whether path can be written to, per the spec's
// "filesystem writability probe": it checks the file's own
// permission bits (never attempting a speculative open-for-write,
// which would touch the file on disk or race a concurrent editor).
// No helper for this already existed in the wider example pack, so
// this is a direct os.Stat-based check rather than an adapted one.
func isWritable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Missing file: treat as writable, since it will be created.
		return os.IsNotExist(err)
	}
	const writeBits = 0200
	return info.Mode().Perm()&writeBits != 0
}
