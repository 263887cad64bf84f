// Copyright © 2024 The XCTLint authors

// Package linttest helps test lint rules against annotated Swift examples.
package linttest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/xctlint/lint"
	"github.com/luthersystems/xctlint/swift"
	"github.com/luthersystems/xctlint/syntax"
)

// Marker flags the byte offset of an expected violation in an example.
const Marker = "↓"

// ParseExample removes every Marker from example and returns the cleaned
// source along with the byte offsets, in the cleaned source, where the
// markers stood.
func ParseExample(example string) (string, []int) {
	var (
		b       strings.Builder
		offsets []int
	)
	for {
		i := strings.Index(example, Marker)
		if i < 0 {
			b.WriteString(example)
			return b.String(), offsets
		}
		b.WriteString(example[:i])
		offsets = append(offsets, b.Len())
		example = example[i+len(Marker):]
	}
}

// Parse parses Swift source for a test, failing it on error.
func Parse(t testing.TB, src string) *syntax.File {
	t.Helper()
	file, err := swift.Parser{}.Parse(context.Background(), "Example.swift", []byte(src))
	require.NoError(t, err)
	return file
}

// Offsets returns the offsets of violations.
func Offsets(violations []lint.Violation) []int {
	if len(violations) == 0 {
		return nil
	}
	out := make([]int, len(violations))
	for i, v := range violations {
		out[i] = v.Offset
	}
	return out
}

// AssertRuleExamples validates rule against its own documented examples.
// Non-triggering examples must produce no violations. Each triggering
// example must produce exactly one violation per marker, at the marked
// offsets, tagged with the rule identifier.
func AssertRuleExamples(t *testing.T, rule lint.Rule) bool {
	t.Helper()
	desc := rule.Description()
	ok := assert.NotEmpty(t, desc.TriggeringExamples, "rule %s has no triggering examples", desc.Identifier)

	for i, example := range desc.NonTriggeringExamples {
		file := Parse(t, example)
		got := rule.Validate(file)
		ok = assert.Empty(t, got, "non-triggering example %d of %s", i, desc.Identifier) && ok
	}
	for i, example := range desc.TriggeringExamples {
		src, want := ParseExample(example)
		require.NotEmpty(t, want, "triggering example %d of %s has no %s marker", i, desc.Identifier, Marker)

		file := Parse(t, src)
		got := rule.Validate(file)
		ok = assert.ElementsMatch(t, want, Offsets(got), "triggering example %d of %s", i, desc.Identifier) && ok
		for _, v := range got {
			ok = assert.Equal(t, desc.Identifier, v.RuleID) && ok
		}
	}
	return ok
}
