// Copyright © 2024 The XCTLint authors

package lint

import (
	"slices"
	"strings"

	"github.com/luthersystems/xctlint/syntax"
)

// suppression lists the rules silenced on one line. A nil rules slice
// silences every rule.
type suppression struct {
	rules []string
}

func (s suppression) covers(rule string) bool {
	return s.rules == nil || slices.Contains(s.rules, rule)
}

// filterSuppressed removes diagnostics on lines carrying a "// nolint",
// "// nolint:rule1,rule2" or "// swiftlint:disable:this rule1 rule2"
// comment.
func filterSuppressed(diags []Diagnostic, file *syntax.File) []Diagnostic {
	if len(diags) == 0 {
		return diags
	}
	lines := suppressedLines(file)
	if len(lines) == 0 {
		return diags
	}

	var filtered []Diagnostic
	for _, d := range diags {
		if s, ok := lines[d.Pos.Line]; ok && s.covers(d.Rule) {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

// suppressedLines maps line numbers to the directive found on them.
func suppressedLines(file *syntax.File) map[int]suppression {
	lines := make(map[int]suppression)
	for _, tok := range file.AllTokens() {
		if tok.Kind != syntax.TokenComment && tok.Kind != syntax.TokenDocComment {
			continue
		}
		s, ok := parseDirective(file.Slice(tok.Span))
		if !ok {
			continue
		}
		lines[file.Location(tok.Span.Offset).Line] = s
	}
	return lines
}

func parseDirective(comment string) (suppression, bool) {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimLeft(text, "/*! \t")

	if rest, ok := strings.CutPrefix(text, "nolint"); ok {
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return suppression{}, true
		}
		if rest[0] != ':' {
			return suppression{}, false
		}
		// Anything after the rule list is a free-form reason.
		list, _, _ := strings.Cut(strings.TrimSpace(rest[1:]), " ")
		return ruleList(strings.Split(list, ",")), true
	}
	if rest, ok := strings.CutPrefix(text, "swiftlint:disable:this"); ok {
		// A trailing "- reason" ends the rule list.
		rest, _, _ = strings.Cut(rest, " - ")
		return ruleList(strings.Fields(rest)), true
	}
	return suppression{}, false
}

func ruleList(names []string) suppression {
	rules := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "all" {
			return suppression{}
		}
		if name != "" {
			rules = append(rules, name)
		}
	}
	if len(rules) == 0 {
		return suppression{}
	}
	return suppression{rules: rules}
}
