// Copyright © 2024 The XCTLint authors

package lint_test

import (
	"testing"

	"github.com/luthersystems/xctlint/lint"
	"github.com/luthersystems/xctlint/linttest"
)

func TestRuleExamples(t *testing.T) {
	for _, rule := range lint.DefaultRules() {
		t.Run(rule.Description().Identifier, func(t *testing.T) {
			linttest.AssertRuleExamples(t, rule)
		})
	}
}
