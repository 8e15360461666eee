// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package syntax wraps tree-sitter parsing of JavaScript and HTML
// source into a common Tree type, with cursor helpers the Extractor,
// Template Analyzer, and Resolver all build on.
package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
)

// Tree is a parsed source file: the tree-sitter syntax tree plus enough
// bookkeeping (source bytes, line offsets, content hash) to translate
// node positions into the byte-offset/line-column form the rest of the
// system uses.
type Tree struct {
	st         *sitter.Tree
	source     []byte
	lineStarts []int

	FilePath      string
	Language      string
	ContentSHA    string
	ParsedAtMilli int64
	HasErrors     bool
}

func newTree(st *sitter.Tree, source []byte, filePath, language, contentSHA string, parsedAtMilli int64) *Tree {
	t := &Tree{
		st:            st,
		source:        source,
		lineStarts:    computeLineStarts(source),
		FilePath:      filePath,
		Language:      language,
		ContentSHA:    contentSHA,
		ParsedAtMilli: parsedAtMilli,
	}
	if root := st.RootNode(); root != nil {
		t.HasErrors = root.HasError()
	}
	return t
}

// Close releases the underlying tree-sitter tree. Callers must call
// this once they are done reading from the Tree.
func (t *Tree) Close() {
	if t.st != nil {
		t.st.Close()
	}
}

// RootNode returns the tree's root node.
func (t *Tree) RootNode() *sitter.Node {
	return t.st.RootNode()
}

// Source returns the original file content the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Text returns the verbatim source text spanned by n.
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(t.source[n.StartByte():n.EndByte()])
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// PositionAt converts a byte offset into a zero-indexed line/column
// Position.
func (t *Tree) PositionAt(byteOffset int) model.Position {
	if len(t.lineStarts) == 0 {
		return model.Position{}
	}
	lo, hi := 0, len(t.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.lineStarts[mid] <= byteOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return model.Position{Line: lo, Character: byteOffset - t.lineStarts[lo]}
}

// OffsetAt converts a zero-indexed line/column Position into a byte
// offset, the inverse of PositionAt. A line or column past the end of
// the source clamps to the file's length.
func (t *Tree) OffsetAt(pos model.Position) int {
	if pos.Line < 0 || len(t.lineStarts) == 0 {
		return 0
	}
	if pos.Line >= len(t.lineStarts) {
		return len(t.source)
	}
	offset := t.lineStarts[pos.Line] + pos.Character
	if offset > len(t.source) {
		return len(t.source)
	}
	return offset
}

// RangeOf returns the half-open Range spanned by n.
func (t *Tree) RangeOf(n *sitter.Node) model.Range {
	if n == nil {
		return model.Range{}
	}
	return model.Range{
		Start: t.PositionAt(int(n.StartByte())),
		End:   t.PositionAt(int(n.EndByte())),
	}
}

// LocationOf returns the full Location (byte offsets and Range) spanned
// by n.
func (t *Tree) LocationOf(n *sitter.Node) model.Location {
	if n == nil {
		return model.Location{FilePath: t.FilePath}
	}
	return model.Location{
		FilePath:  t.FilePath,
		ByteStart: int(n.StartByte()),
		ByteEnd:   int(n.EndByte()),
		Range:     t.RangeOf(n),
	}
}

// NodeAt returns the smallest node containing byteOffset, descending
// from the root. A JS string literal is returned whole, not its quote
// or fragment children. A node that merely ends at byteOffset is chosen
// only when no sibling starts there. Resolver operations that work from
// a cursor position (hover, definition, completion, signature help)
// start here.
func (t *Tree) NodeAt(byteOffset int) *sitter.Node {
	n := t.RootNode()
	if n == nil {
		return nil
	}
	for {
		if n.Type() == JSString {
			return n
		}
		child := childContaining(n, byteOffset)
		if child == nil {
			return n
		}
		n = child
	}
}

func childContaining(n *sitter.Node, byteOffset int) *sitter.Node {
	count := int(n.ChildCount())
	var touching *sitter.Node
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		start, end := int(c.StartByte()), int(c.EndByte())
		if start <= byteOffset && byteOffset < end {
			return c
		}
		if end == byteOffset && touching == nil {
			touching = c
		}
	}
	return touching
}

// EnclosingOfType walks up from n's parent chain (inclusive of n) and
// returns the nearest ancestor whose Type() matches one of nodeTypes,
// or nil if none matches before the root.
func EnclosingOfType(n *sitter.Node, nodeTypes ...string) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		for _, want := range nodeTypes {
			if cur.Type() == want {
				return cur
			}
		}
	}
	return nil
}

// ChildByFieldNameAll returns every direct child of n, in order. Used
// in place of ChildByFieldName where the grammar doesn't expose a
// field name for the child we want (e.g. array elements).
func ChildByFieldNameAll(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.Child(i); c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NamedChildren returns every named (non-anonymous) direct child of n,
// in order.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil {
			children = append(children, c)
		}
	}
	return children
}

// StringValue returns the unquoted value of a JS string node, stripping
// the surrounding quote characters. ok is false if n is not a string
// node.
func StringValue(n *sitter.Node, source []byte) (value string, ok bool) {
	if n == nil || n.Type() != JSString {
		return "", false
	}
	raw := string(source[n.StartByte():n.EndByte()])
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1], true
	}
	return "", true
}
