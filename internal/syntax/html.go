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
	"github.com/smacker/go-tree-sitter/html"
)

// HTMLParserOption configures an HTMLParser.
type HTMLParserOption func(*HTMLParser)

// WithHTMLMaxFileSize overrides the parser's maximum accepted file
// size.
func WithHTMLMaxFileSize(bytes int64) HTMLParserOption {
	return func(p *HTMLParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// HTMLParser parses AngularJS templates using tree-sitter's html
// grammar. The Template Analyzer walks the resulting Tree for
// interpolation expressions, ng-controller/ng-repeat locals, and
// directive attribute bindings.
type HTMLParser struct {
	maxFileSize int64
}

// NewHTMLParser creates an HTMLParser with the given options applied
// over sensible defaults.
func NewHTMLParser(opts ...HTMLParserOption) *HTMLParser {
	p := &HTMLParser{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses content and returns the resulting Tree.
func (p *HTMLParser) Parse(ctx context.Context, content []byte, filePath string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("syntax: parse canceled before start: %w", err)
	}

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}

	if len(content) > WarnFileSize {
		slog.Warn("parsing large template file", slog.String("file", filePath), slog.Int("size_bytes", len(content)))
	}

	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w", ErrInvalidContent)
	}

	hash := sha256.Sum256(content)

	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	st, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("syntax: tree-sitter parse failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		st.Close()
		return nil, fmt.Errorf("syntax: parse canceled after tree-sitter: %w", err)
	}

	return newTree(st, content, filePath, "html", hex.EncodeToString(hash[:]), time.Now().UnixMilli()), nil
}

// Language returns "html".
func (p *HTMLParser) Language() string { return "html" }

// Extensions returns the file extensions HTMLParser handles.
func (p *HTMLParser) Extensions() []string { return []string{".html", ".htm"} }
