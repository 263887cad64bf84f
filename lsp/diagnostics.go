// Copyright © 2024 The XCTLint authors

package lsp

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/xctlint/lint"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.lintAndPublish(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	// Debounce: delay linting to avoid thrashing during rapid edits.
	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }() // don't crash the server on a lint panic
		if d := s.docs.Get(doc.URI); d != nil {
			s.lintAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.lintAndPublish(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// lintAndPublish lints a document and publishes the resulting diagnostics
// to the client.
func (s *Server) lintAndPublish(doc *Document) {
	uri, content, file, parseErr := doc.snapshot()

	diags := []protocol.Diagnostic{}
	switch {
	case parseErr != nil:
		s.log.WithError(parseErr).WithField("uri", uri).Warn("parse failed")
		diags = append(diags, protocol.Diagnostic{
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(sourceName),
			Message:  parseErr.Error(),
		})
	default:
		if file.HasErrors() {
			diags = append(diags, protocol.Diagnostic{
				Severity: severity(protocol.DiagnosticSeverityInformation),
				Source:   strPtr(sourceName),
				Message:  "file has syntax errors; results may be incomplete",
			})
		}
		for _, d := range s.linter.Lint(file) {
			diags = append(diags, convertLintDiagnostic(d, content))
		}
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic
// covering the identifier at the violation offset.
func convertLintDiagnostic(d lint.Diagnostic, content string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    identifierRange(content, d.Offset),
		Severity: severity(mapLintSeverity(d.Severity)),
		Source:   strPtr(sourceName),
		Code:     &protocol.IntegerOrString{Value: d.Rule},
		Message:  d.Message,
	}
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	if sev == lint.SeverityError {
		return protocol.DiagnosticSeverityError
	}
	return protocol.DiagnosticSeverityWarning
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
