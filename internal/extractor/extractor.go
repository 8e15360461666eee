// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extractor

import (
	"context"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

// Extractor recognizes AngularJS constructs in a parsed JavaScript
// Tree and emits them as a model.FileRecord.
type Extractor struct{}

// New creates an Extractor. Extractor holds no state between calls and
// is safe for concurrent use.
func New() *Extractor {
	return &Extractor{}
}

// Extract walks tree and returns the FileRecord of everything it
// recognized. Unrecognized or malformed constructs (e.g. a
// registration whose name isn't a string literal) are skipped rather
// than aborting the whole extraction; Extract still returns a non-nil
// *model.FileRecord in that case, alongside a *BatchError describing
// what was skipped.
func (e *Extractor) Extract(ctx context.Context, tree *syntax.Tree) (*model.FileRecord, error) {
	record := &model.FileRecord{
		Path:       tree.FilePath,
		ContentSHA: tree.ContentSHA,
		ParseEpoch: tree.ParsedAtMilli,
		Symbols:    []model.Symbol{},
		References: []model.Reference{},
		Modules:    []model.Module{},
	}

	if err := ctx.Err(); err != nil {
		return record, err
	}

	w := newWalker(tree, record)
	w.run()

	if len(w.errs) > 0 {
		return record, &BatchError{Errors: w.errs}
	}
	return record, nil
}
