// Copyright © 2024 The XCTLint authors

package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/grafana/regexp"

	"github.com/luthersystems/xctlint/syntax"
)

// ErrUnknownConfiguration is wrapped by every ConfigurationError.
var ErrUnknownConfiguration = errors.New("unknown configuration")

// ConfigurationError reports a rule configuration that could not be applied.
type ConfigurationError struct {
	Rule   string
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	if e.Rule != "" {
		fmt.Fprintf(&b, "%s: ", e.Rule)
	}
	b.WriteString(ErrUnknownConfiguration.Error())
	if e.Key != "" {
		fmt.Fprintf(&b, " for %q", e.Key)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownConfiguration
}

// withRule attributes a configuration error to a rule.
func withRule(id string, err error) error {
	var cerr *ConfigurationError
	if errors.As(err, &cerr) && cerr.Rule == "" {
		cp := *cerr
		cp.Rule = id
		return &cp
	}
	return err
}

// ClassConfiguration selects the test classes a rule inspects.
type ClassConfiguration struct {
	severity    Severity
	testClasses []string
}

// NewClassConfiguration returns a warning-level configuration matching
// classes that directly inherit from XCTestCase.
func NewClassConfiguration() ClassConfiguration {
	return ClassConfiguration{
		severity:    SeverityWarning,
		testClasses: []string{"XCTestCase"},
	}
}

// Severity returns the severity attached to violations.
func (c ClassConfiguration) Severity() Severity {
	if c.severity == severityUnset {
		return SeverityWarning
	}
	return c.severity
}

// TestClasses returns the base class names, in insertion order.
func (c ClassConfiguration) TestClasses() []string {
	return slices.Clone(c.testClasses)
}

// Apply merges raw into the configuration. The severity is replaced and
// test_classes are added to the existing set. Nothing changes on error.
func (c *ClassConfiguration) Apply(raw any) error {
	m, err := asMapping(raw)
	if err != nil {
		return err
	}
	next := ClassConfiguration{severity: c.severity, testClasses: slices.Clone(c.testClasses)}
	if err := next.apply(m); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *ClassConfiguration) apply(m map[string]any) error {
	// A non-string severity is ignored rather than rejected.
	if s, ok := m["severity"].(string); ok {
		sev, err := ParseSeverity(s)
		if err != nil {
			return &ConfigurationError{Key: "severity", Reason: err.Error()}
		}
		c.severity = sev
	}
	// Likewise a test_classes value that is not a list of names.
	if classes, ok := asStrings(m["test_classes"]); ok {
		for _, name := range classes {
			if !slices.Contains(c.testClasses, name) {
				c.testClasses = append(c.testClasses, name)
			}
		}
	}
	return nil
}

func (c ClassConfiguration) String() string {
	return fmt.Sprintf("%s, test_classes: [%s]", c.Severity(), strings.Join(c.testClasses, ", "))
}

// SharedStatePattern pairs a set-up regular expression with the tear-down
// expression that must accompany it.
type SharedStatePattern struct {
	setUp    *regexp.Regexp
	tearDown *regexp.Regexp

	setUpSrc, tearDownSrc string
}

// NewSharedStatePattern compiles a set-up/tear-down pair.
func NewSharedStatePattern(setUp, tearDown string) (SharedStatePattern, error) {
	su, err := syntax.CompilePattern(setUp)
	if err != nil {
		return SharedStatePattern{}, fmt.Errorf("set_up: %w", err)
	}
	td, err := syntax.CompilePattern(tearDown)
	if err != nil {
		return SharedStatePattern{}, fmt.Errorf("tear_down: %w", err)
	}
	return SharedStatePattern{setUp: su, tearDown: td, setUpSrc: setUp, tearDownSrc: tearDown}, nil
}

// SetUp returns the compiled set-up expression.
func (p SharedStatePattern) SetUp() *regexp.Regexp { return p.setUp }

// TearDown returns the compiled tear-down expression.
func (p SharedStatePattern) TearDown() *regexp.Regexp { return p.tearDown }

func (p SharedStatePattern) String() string {
	return fmt.Sprintf("[set_up: %s, tear_down: %s]", p.setUpSrc, p.tearDownSrc)
}

// SharedStateConfiguration extends ClassConfiguration with shared-state
// patterns.
type SharedStateConfiguration struct {
	ClassConfiguration
	patterns []SharedStatePattern
}

// NewSharedStateConfiguration returns the default configuration, which
// watches MySharedStateComponent.setUp and MySharedStateComponent.tearDown.
func NewSharedStateConfiguration() SharedStateConfiguration {
	p, err := NewSharedStatePattern(
		`MySharedStateComponent\s*\.\s*setUp`,
		`MySharedStateComponent\s*\.\s*tearDown`,
	)
	if err != nil {
		panic(err)
	}
	return SharedStateConfiguration{
		ClassConfiguration: NewClassConfiguration(),
		patterns:           []SharedStatePattern{p},
	}
}

// Patterns returns the configured pattern pairs.
func (c SharedStateConfiguration) Patterns() []SharedStatePattern {
	return slices.Clone(c.patterns)
}

// Apply merges raw into the configuration like ClassConfiguration.Apply.
// The patterns key is required and replaces the whole pattern list.
func (c *SharedStateConfiguration) Apply(raw any) error {
	m, err := asMapping(raw)
	if err != nil {
		return err
	}
	next := SharedStateConfiguration{
		ClassConfiguration: ClassConfiguration{
			severity:    c.severity,
			testClasses: slices.Clone(c.testClasses),
		},
		patterns: c.patterns,
	}
	if err := next.ClassConfiguration.apply(m); err != nil {
		return err
	}
	raw, ok := m["patterns"]
	if !ok {
		return &ConfigurationError{Key: "patterns", Reason: "missing required key"}
	}
	patterns, err := parsePatterns(raw)
	if err != nil {
		return err
	}
	next.patterns = patterns
	*c = next
	return nil
}

func parsePatterns(raw any) ([]SharedStatePattern, error) {
	items, ok := raw.([]any)
	if !ok {
		if maps, isMaps := raw.([]map[string]any); isMaps {
			for _, m := range maps {
				items = append(items, m)
			}
			ok = true
		}
	}
	if !ok {
		return nil, &ConfigurationError{Key: "patterns", Reason: "expected a list of mappings"}
	}
	patterns := make([]SharedStatePattern, 0, len(items))
	for i, item := range items {
		m, err := asMapping(item)
		if err != nil {
			return nil, &ConfigurationError{Key: "patterns", Reason: fmt.Sprintf("entry %d is not a mapping", i)}
		}
		setUp, ok1 := m["set_up"].(string)
		tearDown, ok2 := m["tear_down"].(string)
		if !ok1 || !ok2 {
			return nil, &ConfigurationError{
				Key:    "patterns",
				Reason: fmt.Sprintf("entry %d needs string set_up and tear_down", i),
			}
		}
		p, err := NewSharedStatePattern(setUp, tearDown)
		if err != nil {
			return nil, &ConfigurationError{Key: "patterns", Reason: fmt.Sprintf("entry %d: %v", i, err)}
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (c SharedStateConfiguration) String() string {
	parts := make([]string, len(c.patterns))
	for i, p := range c.patterns {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s, patterns: [%s]", c.ClassConfiguration, strings.Join(parts, ", "))
}

// asMapping accepts the map shapes produced by YAML and JSON decoders.
func asMapping(raw any) (map[string]any, error) {
	switch m := raw.(type) {
	case map[string]any:
		return m, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("non-string key %v", k)}
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("expected a mapping, got %T", raw)}
	}
}

func asStrings(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ConfigureRules applies the section returned by lookup to each rule that
// has one. It stops at the first error.
func ConfigureRules(rules []Rule, lookup func(id string) (any, bool)) error {
	for _, r := range rules {
		raw, ok := lookup(r.Description().Identifier)
		if !ok || raw == nil {
			continue
		}
		if err := r.Configure(raw); err != nil {
			return err
		}
	}
	return nil
}

// FilterRules keeps the rules named in only (all rules when only is empty)
// and then removes those named in disabled. Unknown identifiers are errors.
func FilterRules(rules []Rule, only, disabled []string) ([]Rule, error) {
	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		known[r.Description().Identifier] = true
	}
	for _, id := range slices.Concat(only, disabled) {
		if !known[id] {
			return nil, fmt.Errorf("unknown rule: %s", id)
		}
	}
	var out []Rule
	for _, r := range rules {
		id := r.Description().Identifier
		if len(only) > 0 && !slices.Contains(only, id) {
			continue
		}
		if slices.Contains(disabled, id) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
