//go:build !integration

package stringutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxLen   int
		expected string
	}{
		{name: "shorter than max", s: "hello", maxLen: 10, expected: "hello"},
		{name: "equal to max", s: "hello", maxLen: 5, expected: "hello"},
		{name: "longer than max", s: "hello world", maxLen: 8, expected: "hello..."},
		{name: "max length 3", s: "hello", maxLen: 3, expected: "hel"},
		{name: "max length 1", s: "hello", maxLen: 1, expected: "h"},
		{name: "empty string", s: "", maxLen: 5, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.s, tt.maxLen))
		})
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "sk-a********", Redact("sk-abcdefghijklmnopqrstuvwxyz", 4))
	assert.Equal(t, "abcd***", Redact("abcdefg", 4))
	assert.Equal(t, "***", Redact("abc", 4))
}

func TestRedact_MultiByte(t *testing.T) {
	got := Redact("пароль-секрет", 4)
	assert.Equal(t, "паро********", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "**", Redact("éé", 4))
}
