// Copyright © 2024 The XCTLint authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/xctlint/syntax"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line declaration bodies and
// consecutive line-comment blocks.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	_, content, file, _ := doc.snapshot()

	var ranges []protocol.FoldingRange
	if file != nil {
		ranges = bodyFoldingRanges(file, content)
	}
	return append(ranges, commentFoldingRanges(content)...), nil
}

// bodyFoldingRanges emits a region for each declaration body that spans
// more than one line.
func bodyFoldingRanges(file *syntax.File, content string) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	syntax.Walk(file.Root(), func(n *syntax.Node, _ int) bool {
		body, ok := file.BodyRange(n)
		if !ok {
			return true
		}
		start := offsetToPosition(content, body.Offset).Line
		end := offsetToPosition(content, body.End()).Line
		if end > start {
			kind := string(protocol.FoldingRangeKindRegion)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: start,
				EndLine:   end,
				Kind:      &kind,
			})
		}
		return true
	})
	return ranges
}

// commentFoldingRanges detects consecutive lines starting with "//" and
// produces a folding range for each block of 2+ lines.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := strings.Split(content, "\n")
	var ranges []protocol.FoldingRange

	flush := func(start, end int) {
		if start < 0 || end <= start {
			return
		}
		kind := string(protocol.FoldingRangeKindComment)
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: safeUint(start),
			EndLine:   safeUint(end),
			Kind:      &kind,
		})
	}

	blockStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		flush(blockStart, i-1)
		blockStart = -1
	}
	flush(blockStart, len(lines)-1)
	return ranges
}
