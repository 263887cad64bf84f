// Copyright © 2024 The XCTLint authors

package lsp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// Every xctlint diagnostic in the request can be suppressed with a nolint
// comment.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	_, content, _, _ := doc.snapshot()

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != sourceName || diag.Code == nil {
			continue
		}
		rule := fmt.Sprintf("%v", diag.Code.Value)
		if rule == "" {
			continue
		}
		actions = append(actions, suppressLintAction(params.TextDocument.URI, diag, rule, content))
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// suppressLintAction creates a code action that appends a
// "// nolint:rule" comment to the diagnostic line.
func suppressLintAction(uri string, diag protocol.Diagnostic, rule, content string) protocol.CodeAction {
	line := int(diag.Range.Start.Line)
	lines := strings.Split(content, "\n")
	lineEnd := 0
	if line >= 0 && line < len(lines) {
		lineEnd = utf16Len(strings.TrimRight(lines[line], "\r"))
	}

	kind := protocol.CodeActionKindQuickFix
	insertPos := protocol.Position{Line: diag.Range.Start.Line, Character: safeUint(lineEnd)}
	return protocol.CodeAction{
		Title:       fmt.Sprintf("Suppress with // nolint:%s", rule),
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{
				uri: {
					{
						Range:   protocol.Range{Start: insertPos, End: insertPos},
						NewText: " // nolint:" + rule,
					},
				},
			},
		},
	}
}
