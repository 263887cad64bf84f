// Copyright © 2024 The XCTLint authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/xctlint/diagnostic"
	"github.com/luthersystems/xctlint/lint"
)

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: diagnostic.ParseColorMode(colorFlag)}
}

// stdinSource serves src as the contents of the stdin pseudo file.
func stdinSource(src []byte) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if name == stdinName {
			return src, nil
		}
		return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
	}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Rule + ")",
	}
	if ld.Severity == lint.SeverityError {
		d.Severity = diagnostic.SeverityError
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	d.Notes = append(d.Notes, "to suppress: add \"// nolint:"+ld.Rule+"\" as a comment on this line")
	return d
}

// renderLintDiagnostics renders lint diagnostics as annotated snippets.
func renderLintDiagnostics(r *diagnostic.Renderer, w io.Writer, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	_ = r.RenderAll(w, ds)
}
