// Copyright © 2024 The XCTLint authors

package syntax

import "fmt"

// Span is a half-open byte range [Offset, Offset+Length).
type Span struct {
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Offset + s.Length }

// Valid reports whether the span has a non-negative start and length.
func (s Span) Valid() bool { return s.Offset >= 0 && s.Length >= 0 }

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.Length <= 0 }

// Contains reports whether offset lies within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Offset && offset < s.End()
}

// ContainsSpan reports whether other lies entirely within s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Offset >= s.Offset && other.End() <= s.End()
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Offset < other.End() && other.Offset < s.End()
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Offset, s.End())
}

// TokenKind classifies a lexical span of the file that is not code.
type TokenKind int

const (
	TokenComment TokenKind = iota
	TokenDocComment
	TokenString
	numTokenKinds
)

func (k TokenKind) String() string {
	switch k {
	case TokenComment:
		return "comment"
	case TokenDocComment:
		return "doccomment"
	case TokenString:
		return "string"
	default:
		return "unknown"
	}
}

// Token is a classified span of the file text.
type Token struct {
	Kind TokenKind
	Span Span
}

// TokenKinds is a set of token kinds.
type TokenKinds uint32

// NewTokenKinds returns the set holding kinds.
func NewTokenKinds(kinds ...TokenKind) TokenKinds {
	var set TokenKinds
	for _, k := range kinds {
		set |= 1 << uint(k)
	}
	return set
}

// Has reports whether k is in the set.
func (s TokenKinds) Has(k TokenKind) bool {
	return k >= 0 && k < numTokenKinds && s&(1<<uint(k)) != 0
}

// CommentAndStringKinds are the spans pattern matches are not allowed to
// touch.
var CommentAndStringKinds = NewTokenKinds(TokenComment, TokenDocComment, TokenString)
