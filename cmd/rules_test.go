// Copyright © 2024 The XCTLint authors

package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/xctlint/lint"
)

func TestRulesCommand_List(t *testing.T) {
	stdout, _, code := execute(t, RulesCommand(testOptions(viper.New())...), "")
	assert.Equal(t, 0, code)
	for _, id := range lint.RuleNames() {
		assert.Contains(t, stdout, "  "+id+"\n")
	}
}

func TestRulesCommand_Detail(t *testing.T) {
	v := viper.New()
	v.Set(lint.ResetSharedStateID, map[string]any{
		"patterns": []any{
			map[string]any{"set_up": `Cache\.start\(\)`, "tear_down": `Cache\.stop\(\)`},
		},
	})

	stdout, _, code := execute(t, RulesCommand(testOptions(v)...), "", lint.ResetSharedStateID)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "("+lint.ResetSharedStateID+")")
	assert.Contains(t, stdout, "kind: idiomatic")
	assert.Contains(t, stdout, `configuration: warning, test_classes: [XCTestCase], patterns: [[set_up: Cache\.start\(\), tear_down: Cache\.stop\(\)]]`)
	assert.Contains(t, stdout, "Non-triggering examples:")
	assert.Contains(t, stdout, "Triggering examples:")
	assert.Contains(t, stdout, "↓")
}

func TestRulesCommand_Unknown(t *testing.T) {
	_, _, code := execute(t, RulesCommand(testOptions(viper.New())...), "", "no_such_rule")
	assert.Equal(t, 2, code)
}

func TestRulesCommand_BadConfiguration(t *testing.T) {
	v := viper.New()
	v.Set(lint.ResetSharedStateID, map[string]any{"severity": "error"})

	_, _, code := execute(t, RulesCommand(testOptions(v)...), "", lint.ResetSharedStateID)
	assert.Equal(t, 2, code)
}

func TestStructureCommand(t *testing.T) {
	path := writeSwift(t, t.TempDir(), "ATests.swift", cleanSource)

	stdout, _, code := execute(t, StructureCommand(), "", path)
	require.Equal(t, 0, code)

	var root map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &root))
	assert.NotEmpty(t, root)
	assert.Contains(t, stdout, `"ATests"`)
	assert.Contains(t, stdout, `"tearDown()"`)
}

func TestStructureCommand_MissingFile(t *testing.T) {
	_, _, code := execute(t, StructureCommand(), "", filepath.Join(t.TempDir(), "Missing.swift"))
	assert.Equal(t, 2, code)
}

func TestRulesCommand_Guide(t *testing.T) {
	stdout, _, code := execute(t, RulesCommand(testOptions(viper.New())...), "", "--guide")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "# Configuring xctlint")
	assert.Contains(t, stdout, "disabled_rules")
}
