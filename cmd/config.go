// Copyright © 2024 The XCTLint authors

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/luthersystems/xctlint/lint"
)

// configuredRules configures rules from the rule sections of v and
// selects them by only_rules and disabled_rules. A non-empty checks list
// (the --checks flag) takes the place of only_rules.
func configuredRules(v *viper.Viper, rules []lint.Rule, checks string) ([]lint.Rule, error) {
	if err := configureRules(v, rules); err != nil {
		return nil, err
	}

	only := v.GetStringSlice("only_rules")
	if checks != "" {
		only = splitList(checks)
	}
	return lint.FilterRules(rules, only, v.GetStringSlice("disabled_rules"))
}

// configureRules applies the rule sections of v to every rule.
func configureRules(v *viper.Viper, rules []lint.Rule) error {
	err := lint.ConfigureRules(rules, func(id string) (any, bool) {
		if !v.IsSet(id) {
			return nil, false
		}
		return v.Get(id), true
	})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
