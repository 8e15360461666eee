// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// WarnFileSize is the threshold at which JSParser logs a warning about
// a large file before parsing it.
const WarnFileSize = 1 * 1024 * 1024

// JSParserOption configures a JSParser.
type JSParserOption func(*JSParser)

// WithJSMaxFileSize overrides the parser's maximum accepted file size.
func WithJSMaxFileSize(bytes int64) JSParserOption {
	return func(p *JSParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// JSParser parses JavaScript source (AngularJS module/controller/
// service/directive/component registration files) using tree-sitter's
// javascript grammar.
type JSParser struct {
	maxFileSize int64
}

// NewJSParser creates a JSParser with the given options applied over
// sensible defaults.
func NewJSParser(opts ...JSParserOption) *JSParser {
	p := &JSParser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses content and returns the resulting Tree. Parsing is
// error-tolerant: syntactically invalid code still yields a Tree with
// HasErrors set, rather than failing outright. Parse fails only for
// oversized or non-UTF-8 input, or context cancellation.
func (p *JSParser) Parse(ctx context.Context, content []byte, filePath string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("syntax: parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if len(content) > WarnFileSize {
		slog.Warn("parsing large javascript file", slog.String("file", filePath), slog.Int("size_bytes", len(content)))
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w", ErrInvalidContent)
	}

	hash := sha256.Sum256(content)

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	st, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("syntax: tree-sitter parse failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		st.Close()
		return nil, fmt.Errorf("syntax: parse canceled after tree-sitter: %w", err)
	}

	return newTree(st, content, filePath, "javascript", hex.EncodeToString(hash[:]), time.Now().UnixMilli()), nil
}

// Language returns "javascript".
func (p *JSParser) Language() string { return "javascript" }

// Extensions returns the file extensions JSParser handles.
func (p *JSParser) Extensions() []string { return []string{".js"} }
