// Copyright © 2024 The XCTLint authors

// Package lint checks XCTest test cases for lifecycle hygiene problems.
//
// The linter is modeled after go vet: each check is an independent Rule
// that receives a parsed file and returns violations. The framework handles
// parsing, running rules, suppressions, collecting results, and formatting
// output.
//
// Rules are composable and extensible; embedders can define custom checks
// alongside the built-in set.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/xctlint/swift"
	"github.com/luthersystems/xctlint/syntax"
)

const tracerName = "github.com/luthersystems/xctlint/lint"

// Severity indicates the severity level of a violation.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
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

// ParseSeverity parses "warning" or "error", ignoring case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	default:
		return severityUnset, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Violation is a rule finding at a byte offset of the validated file.
type Violation struct {
	RuleID   string
	Severity Severity
	Offset   int
}

// Description documents a rule. Examples mark each expected violation with
// a ↓ placed right before the offending offset.
type Description struct {
	Identifier            string
	Name                  string
	Description           string
	Kind                  string
	NonTriggeringExamples []string
	TriggeringExamples    []string
}

// Rule is a single lint check.
type Rule interface {
	// Description documents the rule.
	Description() Description

	// Configure applies a raw configuration section, typically decoded
	// from YAML. On error the rule keeps its previous configuration.
	Configure(raw any) error

	// ConfigurationDescription renders the active configuration.
	ConfigurationDescription() string

	// Validate checks a parsed file. It never fails and returns violations
	// in the order they were found.
	Validate(file *syntax.File) []Violation
}

// Diagnostic is a violation resolved to a file position for reporting.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Offset is the byte offset of the problem in the file.
	Offset int `json:"offset"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Rule is the identifier of the rule that found this problem.
	Rule string `json:"rule"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line:col format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic as file:line:col: severity: message (rule).
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Pos, d.Severity, d.Message, d.Rule)
}

// Parser turns source text into a syntax.File.
type Parser interface {
	Parse(ctx context.Context, filename string, src []byte) (*syntax.File, error)
}

// Linter runs a set of rules over source files.
type Linter struct {
	Rules []Rule

	// Parser parses source files. Nil means the tree-sitter Swift parser.
	Parser Parser

	// Logger receives debug and warning entries. Nil disables logging.
	Logger logrus.FieldLogger

	// TracerProvider creates the spans recorded for each file and rule.
	// Nil means the global OpenTelemetry provider.
	TracerProvider trace.TracerProvider

	// Jobs bounds how many files LintFiles processes at once. Zero or less
	// means GOMAXPROCS.
	Jobs int
}

var discardLogger = func() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}()

func (l *Linter) logger() logrus.FieldLogger {
	if l.Logger != nil {
		return l.Logger
	}
	return discardLogger
}

func (l *Linter) tracer() trace.Tracer {
	tp := l.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

func (l *Linter) parser() Parser {
	if l.Parser != nil {
		return l.Parser
	}
	return swift.Parser{}
}

// Lint runs every rule on an already parsed file and returns the
// unsuppressed diagnostics ordered by offset.
func (l *Linter) Lint(file *syntax.File) []Diagnostic {
	return l.lint(context.Background(), file)
}

func (l *Linter) lint(ctx context.Context, file *syntax.File) []Diagnostic {
	log := l.logger().WithField("file", file.Name())
	var all []Diagnostic
	for _, rule := range l.Rules {
		desc := rule.Description()
		_, span := l.tracer().Start(ctx, "lint.rule", trace.WithAttributes(
			attribute.String("xctlint.rule", desc.Identifier),
		))
		violations := rule.Validate(file)
		span.SetAttributes(attribute.Int("xctlint.violations", len(violations)))
		span.End()
		log.WithFields(logrus.Fields{
			"rule":       desc.Identifier,
			"violations": len(violations),
		}).Debug("rule finished")

		for _, v := range violations {
			all = append(all, toDiagnostic(file, desc, v))
		}
	}

	all = filterSuppressed(all, file)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Offset < all[j].Offset
	})
	return all
}

// toDiagnostic resolves a violation offset to a line and column.
func toDiagnostic(file *syntax.File, desc Description, v Violation) Diagnostic {
	loc := file.Location(v.Offset)
	ruleID := v.RuleID
	if ruleID == "" {
		ruleID = desc.Identifier
	}
	return Diagnostic{
		Pos:      Position{File: loc.File, Line: loc.Line, Col: loc.Col},
		Offset:   v.Offset,
		Message:  desc.Description,
		Rule:     ruleID,
		Severity: v.Severity,
	}
}

// LintFile parses and lints a single source file.
func (l *Linter) LintFile(ctx context.Context, source []byte, filename string) ([]Diagnostic, error) {
	ctx, span := l.tracer().Start(ctx, "lint.file", trace.WithAttributes(
		attribute.String("xctlint.file", filename),
	))
	defer span.End()

	log := l.logger().WithField("file", filename)
	log.Debug("linting file")

	file, err := l.parser().Parse(ctx, filename, source)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if file.HasErrors() {
		log.Warn("file has syntax errors; results may be incomplete")
	}

	diags := l.lint(ctx, file)
	span.SetAttributes(attribute.Int("xctlint.diagnostics", len(diags)))
	return diags, nil
}

// LintFiles reads and lints paths concurrently. Diagnostics are grouped by
// file in the order of paths. The first read or parse error stops the run.
func (l *Linter) LintFiles(ctx context.Context, paths []string) ([]Diagnostic, error) {
	results := make([][]Diagnostic, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			diags, err := l.LintFile(ctx, src, path)
			if err != nil {
				return err
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, diags := range results {
		all = append(all, diags...)
	}
	return all, nil
}

func (l *Linter) jobs() int {
	if l.Jobs > 0 {
		return l.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// FormatText writes diagnostics one per line.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultRules returns fresh, default-configured instances of the built-in
// rules.
func DefaultRules() []Rule {
	return []Rule{
		NewMissingSuperCallRule(),
		NewNullifyStoredPropertiesRule(),
		NewResetSharedStateRule(),
	}
}

// LookupRule returns the rule in rules with the given identifier.
func LookupRule(rules []Rule, id string) (Rule, bool) {
	for _, r := range rules {
		if r.Description().Identifier == id {
			return r, true
		}
	}
	return nil, false
}

// RuleNames returns a sorted list of all default rule identifiers.
func RuleNames() []string {
	rules := DefaultRules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Description().Identifier
	}
	sort.Strings(names)
	return names
}

// RuleDoc returns a formatted documentation string for all default rules.
func RuleDoc() string {
	var b strings.Builder
	for _, r := range DefaultRules() {
		desc := r.Description()
		fmt.Fprintf(&b, "  %s\n", desc.Identifier)
		fmt.Fprintf(&b, "%s\n\n", indent.String(wordwrap.String(desc.Description, 68), 4))
	}
	return b.String()
}
