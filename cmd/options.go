// Copyright © 2024 The XCTLint authors

package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/luthersystems/xctlint/lint"
)

// Option configures an exported command factory (LintCommand,
// RulesCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	rules  func() []lint.Rule
	viper  *viper.Viper
	logger logrus.FieldLogger
}

func newCmdConfig(opts []Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// WithRules adds embedder-defined rules after the built-in ones. The
// constructor is called once per run so each run configures fresh rule
// values.
func WithRules(rules func() []lint.Rule) Option {
	return func(c *cmdConfig) {
		prev := c.rules
		c.rules = func() []lint.Rule {
			var out []lint.Rule
			if prev != nil {
				out = prev()
			}
			return append(out, rules()...)
		}
	}
}

// WithViper reads configuration from v instead of the global viper
// instance loaded from --config.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.viper = v }
}

// WithLogger replaces the command logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *cmdConfig) { c.logger = log }
}

// allRules returns fresh built-in rules followed by any embedder rules.
func (c *cmdConfig) allRules() []lint.Rule {
	rules := lint.DefaultRules()
	if c.rules != nil {
		rules = append(rules, c.rules()...)
	}
	return rules
}

// config returns the viper instance and any error from loading it.
func (c *cmdConfig) config() (*viper.Viper, error) {
	if c.viper != nil {
		return c.viper, nil
	}
	return viper.GetViper(), configErr
}

func (c *cmdConfig) log() logrus.FieldLogger {
	if c.logger != nil {
		return c.logger
	}
	return logger
}
