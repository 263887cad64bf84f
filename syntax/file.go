// Copyright © 2024 The XCTLint authors

package syntax

import (
	"fmt"
	"slices"
	"sort"
	"unicode/utf8"
)

// Location is a human-facing position in a file. Line and Col are 1-based;
// Col counts characters, not bytes.
type Location struct {
	File string
	Line int
	Col  int
}

func (loc Location) String() string {
	switch {
	case loc.Line == 0:
		return loc.File
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// File is a parsed source file: its text, the root of its syntax tree and
// the classified comment and string literal spans.
type File struct {
	name       string
	text       []byte
	root       *Node
	tokens     []Token
	lineStarts []int
	hasErrors  bool
}

// FileOption sets an optional attribute while building a File.
type FileOption func(*File)

// WithSyntaxErrors records that the parser recovered from syntax errors.
func WithSyntaxErrors(hasErrors bool) FileOption {
	return func(f *File) { f.hasErrors = hasErrors }
}

// NewFile builds an immutable parsed file. Tokens may be given in any order.
func NewFile(name string, text []byte, root *Node, tokens []Token, opts ...FileOption) *File {
	f := &File{
		name:   name,
		text:   slices.Clone(text),
		root:   root,
		tokens: slices.Clone(tokens),
	}
	if f.root == nil {
		f.root = NewNode(KindSourceFile, 0, len(text))
	}
	sort.SliceStable(f.tokens, func(i, j int) bool {
		return f.tokens[i].Span.Offset < f.tokens[j].Span.Offset
	})
	f.lineStarts = append(f.lineStarts, 0)
	for i, b := range f.text {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *File) Name() string { return f.name }

// Text returns the file contents. The returned slice must not be modified.
func (f *File) Text() []byte { return f.text }

func (f *File) Root() *Node { return f.root }

// HasErrors reports whether the parser had to recover from syntax errors.
func (f *File) HasErrors() bool { return f.hasErrors }

// Slice returns the text covered by span, or "" for a span outside the file.
func (f *File) Slice(span Span) string {
	if !f.inBounds(span) {
		return ""
	}
	return string(f.text[span.Offset:span.End()])
}

// Location converts a byte offset into a line and column. Offsets outside
// the file are clamped.
func (f *File) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.text) {
		offset = len(f.text)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	})
	start := f.lineStarts[line-1]
	col := utf8.RuneCount(f.text[start:offset]) + 1
	return Location{File: f.name, Line: line, Col: col}
}

// Tokens returns the classified spans overlapping span, in file order.
func (f *File) Tokens(span Span) []Token {
	var out []Token
	i := sort.Search(len(f.tokens), func(i int) bool {
		return f.tokens[i].Span.End() > span.Offset
	})
	for ; i < len(f.tokens); i++ {
		tok := f.tokens[i]
		if tok.Span.Offset >= span.End() {
			break
		}
		if tok.Span.Overlaps(span) {
			out = append(out, tok)
		}
	}
	return out
}

// AllTokens returns a copy of every classified span in the file.
func (f *File) AllTokens() []Token { return slices.Clone(f.tokens) }

// BodyRange returns the body of node as a byte range of this file. It
// reports false when the node has no body or the body falls outside the
// file text.
func (f *File) BodyRange(node *Node) (Span, bool) {
	if node == nil {
		return Span{}, false
	}
	body, ok := node.Body()
	if !ok || !f.inBounds(body) {
		return Span{}, false
	}
	return body, true
}

func (f *File) inBounds(span Span) bool {
	return span.Valid() && span.End() <= len(f.text)
}
