// Copyright © 2024 The XCTLint authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/xctlint/lint"
)

const testURI = "file:///work/FooTests.swift"

const testSource = `class FooTests: XCTestCase {
  var api: API!

  override func setUp() {
    super.setUp()
  }

  // first
  // second
  func testThing() {
    print("ok")
  }
}
`

func testServer(opts ...Option) *Server {
	s := New(opts...)
	s.exitFn = func(int) {}
	return s
}

// capturingContext returns a context that captures published diagnostics.
func capturingContext() (*glsp.Context, *[]*protocol.PublishDiagnosticsParams) {
	var captured []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
	return ctx, &captured
}

func openDoc(t *testing.T, s *Server, ctx *glsp.Context, text string) {
	t.Helper()
	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "swift",
			Version:    1,
			Text:       text,
		},
	}))
}

func TestPositionConversion(t *testing.T) {
	text := "ab\nçd\n𝔸x"
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, offsetToPosition(text, 0))
	assert.Equal(t, protocol.Position{Line: 0, Character: 2}, offsetToPosition(text, 2))
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, offsetToPosition(text, 3))
	assert.Equal(t, protocol.Position{Line: 1, Character: 1}, offsetToPosition(text, 5)) // after ç
	// 𝔸 is outside the BMP: two UTF-16 units.
	assert.Equal(t, protocol.Position{Line: 2, Character: 2}, offsetToPosition(text, 11))
	assert.Equal(t, protocol.Position{Line: 2, Character: 3}, offsetToPosition(text, 100))
	assert.Equal(t, protocol.Position{}, offsetToPosition(text, -4))
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 0, utf16Len(""))
	assert.Equal(t, 3, utf16Len("abc"))
	assert.Equal(t, 2, utf16Len("çd"))
	assert.Equal(t, 3, utf16Len("𝔸x"))
}

func TestIdentifierRange(t *testing.T) {
	text := "  var api: API!"
	r := identifierRange(text, 6)
	assert.Equal(t, protocol.Position{Line: 0, Character: 6}, r.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 9}, r.End)

	r = identifierRange(text, 9) // ":"
	assert.Equal(t, protocol.UInteger(10), r.End.Character)
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/work/a.swift", uriToPath("file:///work/a.swift"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
	assert.Equal(t, "file:///work/a.swift", pathToURI("/work/a.swift"))
}

func TestDiagnosticsOnOpen(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	openDoc(t, s, ctx, testSource)

	require.Len(t, *captured, 1)
	pub := (*captured)[0]
	assert.Equal(t, testURI, pub.URI)
	require.Len(t, pub.Diagnostics, 1)

	d := pub.Diagnostics[0]
	assert.Equal(t, "xctlint", *d.Source)
	assert.Equal(t, lint.NullifyStoredPropertiesID, d.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 6},
		End:   protocol.Position{Line: 1, Character: 9},
	}, d.Range)
}

func TestDiagnosticsWithConfiguredRules(t *testing.T) {
	rule := lint.NewNullifyStoredPropertiesRule()
	require.NoError(t, rule.Configure(map[string]any{"severity": "error"}))
	s := testServer(WithRules(rule))
	ctx, captured := capturingContext()
	openDoc(t, s, ctx, testSource)

	require.Len(t, (*captured)[0].Diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *(*captured)[0].Diagnostics[0].Severity)
}

func TestDiagnosticsSyntaxErrors(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	openDoc(t, s, ctx, "class FooTests: XCTestCase {\n  func (\n")

	require.Len(t, *captured, 1)
	require.NotEmpty(t, (*captured)[0].Diagnostics)
	assert.Equal(t, protocol.DiagnosticSeverityInformation, *(*captured)[0].Diagnostics[0].Severity)
}

func TestDiagnosticsOnSaveAndClose(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	openDoc(t, s, ctx, testSource)

	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "class FooTests: XCTestCase {}\n"},
		},
	}))
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))

	require.Len(t, *captured, 2)
	assert.Empty(t, (*captured)[1].Diagnostics)

	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	require.Len(t, *captured, 3)
	assert.Empty(t, (*captured)[2].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestDocumentSymbols(t *testing.T) {
	s := testServer()
	ctx, _ := capturingContext()
	openDoc(t, s, ctx, testSource)

	result, err := s.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 1)

	class := symbols[0]
	assert.Equal(t, "FooTests", class.Name)
	assert.Equal(t, protocol.SymbolKindClass, class.Kind)
	var names []string
	for _, c := range class.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"api", "setUp()", "testThing()"}, names)
	assert.Equal(t, protocol.SymbolKindMethod, class.Children[1].Kind)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 3, Character: 16},
		End:   protocol.Position{Line: 3, Character: 21},
	}, class.Children[1].SelectionRange)
}

func TestFoldingRanges(t *testing.T) {
	s := testServer()
	ctx, _ := capturingContext()
	openDoc(t, s, ctx, testSource)

	ranges, err := s.textDocumentFoldingRange(ctx, &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)

	type fold struct {
		start, end protocol.UInteger
		kind       string
	}
	var got []fold
	for _, r := range ranges {
		got = append(got, fold{r.StartLine, r.EndLine, *r.Kind})
	}
	assert.Contains(t, got, fold{0, 12, "region"}) // class body
	assert.Contains(t, got, fold{3, 5, "region"})  // setUp body
	assert.Contains(t, got, fold{7, 8, "comment"})
}

func TestCodeActionSuppress(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	openDoc(t, s, ctx, testSource)
	diag := (*captured)[0].Diagnostics[0]

	result, err := s.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        diag.Range,
		Context:      protocol.CodeActionContext{Diagnostics: []protocol.Diagnostic{diag}},
	})
	require.NoError(t, err)
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)

	assert.Equal(t, "Suppress with // nolint:xct_nullify_stored_properties", actions[0].Title)
	edits := actions[0].Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, " // nolint:xct_nullify_stored_properties", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 1, Character: 15}, edits[0].Range.Start)
}

func TestCodeActionIgnoresForeignDiagnostics(t *testing.T) {
	s := testServer()
	ctx, _ := capturingContext()
	openDoc(t, s, ctx, testSource)

	result, err := s.textDocumentCodeAction(ctx, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Context: protocol.CodeActionContext{Diagnostics: []protocol.Diagnostic{
			{Source: strPtr("swiftc"), Code: &protocol.IntegerOrString{Value: "E1"}},
		}},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestShutdownAndExit(t *testing.T) {
	var code = -1
	s := New()
	s.exitFn = func(c int) { code = c }
	require.NoError(t, s.shutdown(nil))
	require.NoError(t, s.exit(nil))
	assert.Equal(t, 0, code)
}
