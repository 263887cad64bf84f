// Copyright © 2024 The XCTLint authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/logrusorgru/aurora"
)

const tabWidth = 4

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw, au: newAurora(r.Color, w)}

	p.header(d)
	for _, span := range d.Spans {
		p.span(span, r.sourceLine(span.File, span.Line))
	}
	for _, note := range d.Notes {
		p.printf("   %s note: %s\n", p.au.Bold(p.au.Cyan("=")), note)
	}

	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// printer keeps the first write error and drops later writes.
type printer struct {
	w   io.Writer
	au  aurora.Aurora
	err error
}

func (p *printer) printf(format string, a ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) header(d Diagnostic) {
	sev := p.au.Bold(p.au.Red(d.Severity))
	if d.Severity == SeverityWarning {
		sev = p.au.Bold(p.au.Brown(d.Severity))
	}
	p.printf("%s: %s\n", sev, p.au.Bold(d.Message))
}

func (p *printer) gutter(s string) aurora.Value {
	return p.au.Bold(p.au.Blue(s))
}

func (p *printer) span(span Span, source string) {
	p.printf("  %s %s\n", p.gutter("-->"), location(span))

	if source == "" {
		p.printf("   %s\n", p.gutter("|"))
		return
	}

	num := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(num))
	runes := []rune(source)

	col := max(span.Col, 1)
	end := span.EndCol
	if end <= 0 {
		end = identifierEnd(runes, col)
	}
	end = max(end, col)

	prefix := runes[:min(col-1, len(runes))]
	marks := p.au.Bold(p.au.Red(strings.Repeat("^", end-col+1)))

	p.printf(" %s\n", p.gutter(pad+" |"))
	p.printf(" %s  %s\n", p.gutter(num+" |"), expandTabs(source))
	p.printf(" %s  %s%s", p.gutter(pad+" |"), strings.Repeat(" ", displayWidth(prefix)), marks)
	if span.Label != "" {
		p.printf(" %s", p.au.Bold(p.au.Red(span.Label)))
	}
	p.printf("\n %s\n", p.gutter(pad+" |"))
}

func location(span Span) string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	}
}

func (r *Renderer) sourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// identifierEnd returns the 1-based column of the last rune of the Swift
// identifier starting at col. A non-identifier rune is underlined alone.
func identifierEnd(runes []rune, col int) int {
	end := col - 1
	for end < len(runes) && isIdentRune(runes[end]) {
		end++
	}
	if end == col-1 {
		return col
	}
	return end
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		if r == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}
