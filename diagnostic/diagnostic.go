// Copyright © 2024 The XCTLint authors

// Package diagnostic renders lint findings as annotated source snippets in
// the style of rustc. It does not depend on the lint package so any command
// can use it.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column, in runes
	EndCol int    // 1-based end column (0 = end of the identifier at Col)
	Label  string // text shown after the underline
}

// Diagnostic is a single finding with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // rendered as "= note:" lines
}
