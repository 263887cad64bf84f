// Copyright © 2024 The XCTLint authors

package syntax

import "github.com/grafana/regexp"

// CompilePattern compiles pattern with ^ and $ matching at line breaks and
// . matching newlines.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?ms)" + pattern)
}

// Match returns the start offsets of every match of re inside rng, in file
// order. A match that overlaps a token whose kind is in excluded is dropped.
// An invalid or empty range, or a range that leaves the file, yields no
// matches.
func (f *File) Match(re *regexp.Regexp, rng Span, excluded TokenKinds) []int {
	if re == nil || rng.Empty() || !f.inBounds(rng) {
		return nil
	}
	var offsets []int
	for _, loc := range re.FindAllIndex(f.text[rng.Offset:rng.End()], -1) {
		m := Span{Offset: rng.Offset + loc[0], Length: loc[1] - loc[0]}
		if f.touchesExcluded(m, excluded) {
			continue
		}
		offsets = append(offsets, m.Offset)
	}
	return offsets
}

// MatchPattern compiles pattern with CompilePattern and runs Match. A
// pattern that does not compile matches nothing.
func (f *File) MatchPattern(pattern string, rng Span, excluded TokenKinds) []int {
	re, err := CompilePattern(pattern)
	if err != nil {
		return nil
	}
	return f.Match(re, rng, excluded)
}

func (f *File) touchesExcluded(m Span, excluded TokenKinds) bool {
	if excluded == 0 {
		return false
	}
	for _, tok := range f.Tokens(m) {
		if excluded.Has(tok.Kind) {
			return true
		}
	}
	return false
}
