// Copyright © 2024 The XCTLint authors

package diagnostic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"FooTests.swift": "class FooTests: XCTestCase {\n  var api: API!\n}\n",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "XCTestCase should nullify all stored properties in tearDown().",
		Spans:    []Span{{File: "FooTests.swift", Line: 2, Col: 7}},
		Notes:    []string{"rule: xct_nullify_stored_properties"},
	})

	want := strings.Join([]string{
		"warning: XCTestCase should nullify all stored properties in tearDown().",
		"  --> FooTests.swift:2:7",
		"   |",
		" 2 |    var api: API!",
		"   |        ^^^",
		"   |",
		"   = note: rule: xct_nullify_stored_properties",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderErrorWithLabel(t *testing.T) {
	r := testRenderer(map[string]string{
		"FooTests.swift": "  override func setUp() {",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "missing super call",
		Spans:    []Span{{File: "FooTests.swift", Line: 1, Col: 17, EndCol: 23, Label: "call super.setUp()"}},
	})
	assert.Contains(t, got, "error: missing super call\n")
	assert.Contains(t, got, "^^^^^^^ call super.setUp()")
}

func TestRenderTabs(t *testing.T) {
	r := testRenderer(map[string]string{
		"FooTests.swift": "\tvar api: API!",
	})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "m",
		Spans:    []Span{{File: "FooTests.swift", Line: 1, Col: 6}},
	})
	assert.Contains(t, got, " 1 |      var api: API!\n")
	assert.Contains(t, got, "   |          ^^^\n")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans:    []Span{{File: "<stdin>", Line: 5, Col: 3}},
	})
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderLineOutOfRange(t *testing.T) {
	r := testRenderer(map[string]string{"A.swift": "one line"})
	got := render(t, r, Diagnostic{
		Message: "m",
		Spans:   []Span{{File: "A.swift", Line: 9}},
	})
	assert.Contains(t, got, "--> A.swift:9\n")
	assert.NotContains(t, got, "^")
}

func TestRenderNoSpans(t *testing.T) {
	got := render(t, testRenderer(nil), Diagnostic{
		Severity: SeverityError,
		Message:  "configuration error",
	})
	assert.Equal(t, "error: configuration error\n", got)
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(map[string]string{
		"A.swift": "var a = 1\nvar b = 2",
	})
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityWarning, Message: "first", Spans: []Span{{File: "A.swift", Line: 1, Col: 5}}},
		{Severity: SeverityWarning, Message: "second", Spans: []Span{{File: "A.swift", Line: 2, Col: 5}}},
	}))
	parts := strings.Split(buf.String(), "\n\n")
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "warning: first"))
	assert.True(t, strings.HasPrefix(parts[1], "warning: second"))
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{Severity: SeverityWarning, Message: "m"})
	assert.Contains(t, got, "\x1b[")
	assert.Regexp(t, `\x1b\[[0-9;]*33m`, got, "warnings are yellow")
	got = render(t, r, Diagnostic{Severity: SeverityError, Message: "m"})
	assert.Regexp(t, `\x1b\[[0-9;]*31m`, got, "errors are red")

	r.Color = ColorAuto
	got = render(t, r, Diagnostic{Severity: SeverityWarning, Message: "m"})
	assert.NotContains(t, got, "\x1b[", "a buffer is not a terminal")
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAuto, ParseColorMode("auto"))
	assert.Equal(t, ColorAuto, ParseColorMode(""))
}

func TestIdentifierEnd(t *testing.T) {
	runes := []rune("  var apiClient2 = nil")
	assert.Equal(t, 16, identifierEnd(runes, 7))
	assert.Equal(t, 18, identifierEnd(runes, 18)) // "=" alone
	assert.Equal(t, 30, identifierEnd(runes, 30)) // past the end
}
