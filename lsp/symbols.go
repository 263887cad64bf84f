// Copyright © 2024 The XCTLint authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/xctlint/syntax"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Type declarations are returned with their members as children.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, content, file, _ := doc.snapshot()
	if file == nil {
		return nil, nil
	}
	return documentSymbols(file.Root(), content), nil
}

func documentSymbols(parent *syntax.Node, content string) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, n := range parent.Children() {
		kind, ok := symbolKind(n.Kind())
		if !ok {
			continue
		}
		name, ok := n.Name()
		if !ok {
			continue
		}
		sym := protocol.DocumentSymbol{
			Name:           name,
			Detail:         strPtr(n.Kind().String()),
			Kind:           kind,
			Range:          spanRange(content, n.Span()),
			SelectionRange: nameRange(content, n),
		}
		if n.Kind().IsTypeDecl() {
			sym.Children = documentSymbols(n, content)
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func symbolKind(k syntax.Kind) (protocol.SymbolKind, bool) {
	switch k {
	case syntax.KindClass, syntax.KindActor:
		return protocol.SymbolKindClass, true
	case syntax.KindStruct:
		return protocol.SymbolKindStruct, true
	case syntax.KindEnum:
		return protocol.SymbolKindEnum, true
	case syntax.KindExtension:
		return protocol.SymbolKindNamespace, true
	case syntax.KindProtocol:
		return protocol.SymbolKindInterface, true
	case syntax.KindVarInstance, syntax.KindVarType:
		return protocol.SymbolKindProperty, true
	case syntax.KindMethodInstance, syntax.KindMethodClass, syntax.KindMethodStatic:
		return protocol.SymbolKindMethod, true
	case syntax.KindFunction:
		return protocol.SymbolKindFunction, true
	default:
		return 0, false
	}
}

func spanRange(content string, span syntax.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(content, span.Offset),
		End:   offsetToPosition(content, span.End()),
	}
}

// nameRange covers the identifier part of a node's name, without any
// parameter labels.
func nameRange(content string, n *syntax.Node) protocol.Range {
	name, _ := n.Name()
	ident, _, _ := strings.Cut(name, "(")
	return spanRange(content, syntax.Span{Offset: n.NameOffset(), Length: len(ident)})
}
