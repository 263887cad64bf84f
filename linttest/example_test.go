// Copyright © 2024 The XCTLint authors

package linttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExample(t *testing.T) {
	tests := []struct {
		name    string
		example string
		src     string
		offsets []int
	}{
		{"no markers", "class A {}", "class A {}", nil},
		{"one marker", "var ↓api: API!", "var api: API!", []int{4}},
		{"two markers", "↓a ↓b", "a b", []int{0, 2}},
		{"multibyte prefix", "é↓x", "éx", []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, offsets := ParseExample(tt.example)
			assert.Equal(t, tt.src, src)
			assert.Equal(t, tt.offsets, offsets)
		})
	}
}

type recordingTB struct {
	testing.TB
	lines []string
}

func (r *recordingTB) Log(args ...any) {
	for _, a := range args {
		r.lines = append(r.lines, a.(string))
	}
}

func TestLogger(t *testing.T) {
	rec := &recordingTB{TB: t}
	log := NewLogger(rec)

	n, err := log.Write([]byte("first\nsec"))
	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, []string{"first"}, rec.lines)

	_, _ = log.Write([]byte("ond\nthird\nfour"))
	assert.Equal(t, []string{"first", "second", "third"}, rec.lines)

	log.Flush()
	assert.Equal(t, []string{"first", "second", "third", "four"}, rec.lines)
	log.Flush()
	assert.Len(t, rec.lines, 4)
}
