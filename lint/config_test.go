// Copyright © 2024 The XCTLint authors

package lint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassConfiguration_Defaults(t *testing.T) {
	c := NewClassConfiguration()
	assert.Equal(t, SeverityWarning, c.Severity())
	assert.Equal(t, []string{"XCTestCase"}, c.TestClasses())
	assert.Equal(t, "warning, test_classes: [XCTestCase]", c.String())
}

func TestClassConfiguration_Apply(t *testing.T) {
	c := NewClassConfiguration()
	require.NoError(t, c.Apply(map[string]any{
		"severity":     "error",
		"test_classes": []any{"QuickSpec", "XCTestCase"},
	}))
	assert.Equal(t, SeverityError, c.Severity())
	assert.Equal(t, []string{"XCTestCase", "QuickSpec"}, c.TestClasses())

	// Additive: a second apply keeps earlier classes.
	require.NoError(t, c.Apply(map[any]any{"test_classes": []string{"BaseTests"}}))
	assert.Equal(t, []string{"XCTestCase", "QuickSpec", "BaseTests"}, c.TestClasses())
	assert.Equal(t, SeverityError, c.Severity())
}

func TestClassConfiguration_IgnoresNonStringSeverity(t *testing.T) {
	c := NewClassConfiguration()
	require.NoError(t, c.Apply(map[string]any{"severity": 3}))
	assert.Equal(t, SeverityWarning, c.Severity())
}

func TestClassConfiguration_IgnoresMalformedTestClasses(t *testing.T) {
	for _, raw := range []any{"BaseTests", []any{"BaseTests", 1}, 42} {
		c := NewClassConfiguration()
		require.NoError(t, c.Apply(map[string]any{"severity": "Error", "test_classes": raw}))
		assert.Equal(t, []string{"XCTestCase"}, c.TestClasses())
		assert.Equal(t, SeverityError, c.Severity())
	}
}

func TestClassConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		key  string
	}{
		{"not a mapping", []any{"severity"}, ""},
		{"nil", nil, ""},
		{"non-string key", map[any]any{1: "x"}, ""},
		{"unknown severity", map[string]any{"severity": "fatal"}, "severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassConfiguration()
			err := c.Apply(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownConfiguration)
			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.key, cerr.Key)
			assert.Equal(t, NewClassConfiguration(), c, "configuration changed on error")
		})
	}
}

func TestSharedStateConfiguration_Defaults(t *testing.T) {
	c := NewSharedStateConfiguration()
	require.Len(t, c.Patterns(), 1)
	assert.Equal(t, `(?ms)MySharedStateComponent\s*\.\s*setUp`, c.Patterns()[0].SetUp().String())
	assert.Equal(t, `(?ms)MySharedStateComponent\s*\.\s*tearDown`, c.Patterns()[0].TearDown().String())
	assert.Equal(t,
		`warning, test_classes: [XCTestCase], patterns: [[set_up: MySharedStateComponent\s*\.\s*setUp, tear_down: MySharedStateComponent\s*\.\s*tearDown]]`,
		c.String())
}

func TestSharedStateConfiguration_ReplacesPatterns(t *testing.T) {
	c := NewSharedStateConfiguration()
	require.NoError(t, c.Apply(map[string]any{
		"severity":     "error",
		"test_classes": []any{"QuickSpec"},
		"patterns": []any{
			map[string]any{"set_up": "A.start", "tear_down": "A.stop"},
			map[any]any{"set_up": "B.start", "tear_down": "B.stop"},
		},
	}))
	assert.Equal(t, SeverityError, c.Severity())
	assert.Equal(t, []string{"XCTestCase", "QuickSpec"}, c.TestClasses())
	require.Len(t, c.Patterns(), 2)
	assert.Equal(t, "(?ms)A.start", c.Patterns()[0].SetUp().String())
	assert.Equal(t, "(?ms)B.stop", c.Patterns()[1].TearDown().String())
}

func TestSharedStateConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"missing patterns", map[string]any{"severity": "error"}},
		{"patterns not a list", map[string]any{"patterns": "A.start"}},
		{"entry not a mapping", map[string]any{"patterns": []any{"A.start"}}},
		{"missing tear_down", map[string]any{"patterns": []any{map[string]any{"set_up": "A"}}}},
		{"missing set_up", map[string]any{"patterns": []any{map[string]any{"tear_down": "A"}}}},
		{"non-string set_up", map[string]any{"patterns": []any{map[string]any{"set_up": 1, "tear_down": "A"}}}},
		{"invalid regex", map[string]any{"patterns": []any{map[string]any{"set_up": "(", "tear_down": "A"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSharedStateConfiguration()
			before := c.String()
			err := c.Apply(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownConfiguration)
			assert.Equal(t, before, c.String(), "configuration changed on error")
		})
	}
}

func TestRuleConfigure_AttributesErrors(t *testing.T) {
	rule := NewResetSharedStateRule()
	err := rule.Configure(map[string]any{})
	require.Error(t, err)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ResetSharedStateID, cerr.Rule)
	assert.Equal(t, "patterns", cerr.Key)
	assert.Equal(t, `xct_reset_shared_state: unknown configuration for "patterns": missing required key`, err.Error())

	assert.NoError(t, NewMissingSuperCallRule().Configure(map[string]any{}))
}

func TestConfigureRules(t *testing.T) {
	rules := DefaultRules()
	sections := map[string]any{
		MissingSuperCallID: map[string]any{"severity": "error"},
		ResetSharedStateID: nil,
	}
	require.NoError(t, ConfigureRules(rules, func(id string) (any, bool) {
		raw, ok := sections[id]
		return raw, ok
	}))
	assert.Equal(t, "error, test_classes: [XCTestCase]", rules[0].ConfigurationDescription())
	assert.Equal(t, "warning, test_classes: [XCTestCase]", rules[1].ConfigurationDescription())

	sections[NullifyStoredPropertiesID] = "bogus"
	err := ConfigureRules(DefaultRules(), func(id string) (any, bool) {
		raw, ok := sections[id]
		return raw, ok
	})
	assert.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestFilterRules(t *testing.T) {
	ids := func(rules []Rule) []string {
		var out []string
		for _, r := range rules {
			out = append(out, r.Description().Identifier)
		}
		return out
	}

	all, err := FilterRules(DefaultRules(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{MissingSuperCallID, NullifyStoredPropertiesID, ResetSharedStateID}, ids(all))

	only, err := FilterRules(DefaultRules(), []string{ResetSharedStateID, MissingSuperCallID}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{MissingSuperCallID, ResetSharedStateID}, ids(only))

	some, err := FilterRules(DefaultRules(), nil, []string{NullifyStoredPropertiesID})
	require.NoError(t, err)
	assert.Equal(t, []string{MissingSuperCallID, ResetSharedStateID}, ids(some))

	_, err = FilterRules(DefaultRules(), []string{"nope"}, nil)
	assert.EqualError(t, err, "unknown rule: nope")
}
