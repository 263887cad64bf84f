// Copyright © 2024 The XCTLint authors

package lsp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// offsetToPosition converts a byte offset in text to a 0-based LSP position.
// Characters are counted in UTF-16 code units as the protocol requires.
// Offsets outside text are clamped.
func offsetToPosition(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	line := strings.Count(text[:lineStart], "\n")
	return protocol.Position{
		Line:      safeUint(line),
		Character: safeUint(utf16Len(text[lineStart:offset])),
	}
}

// identifierRange returns the range of the Swift identifier starting at
// offset. When no identifier starts there the range covers one character.
func identifierRange(text string, offset int) protocol.Range {
	start := offsetToPosition(text, offset)
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += size
	}
	if end == offset && offset < len(text) {
		_, size := utf8.DecodeRuneInString(text[offset:])
		end += size
	}
	return protocol.Range{Start: start, End: offsetToPosition(text, end)}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2 // surrogate pair
		} else {
			n++
		}
	}
	return n
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
