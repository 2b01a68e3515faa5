//go:build !integration

package envutil

import (
	"testing"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestGetIntFromEnv(t *testing.T) {
	const testEnvVar = "AGENTKIT_TEST_INT_VALUE"

	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{name: "default when unset", envValue: "", expected: 4},
		{name: "valid value", envValue: "8", expected: 8},
		{name: "value with whitespace", envValue: " 12 ", expected: 12},
		{name: "min boundary", envValue: "1", expected: 1},
		{name: "max boundary", envValue: "64", expected: 64},
		{name: "below min", envValue: "0", expected: 4},
		{name: "above max", envValue: "65", expected: 4},
		{name: "not a number", envValue: "lots", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testEnvVar, tt.envValue)
			log := logger.New("test:envutil")
			assert.Equal(t, tt.expected, GetIntFromEnv(testEnvVar, 4, 1, 64, log))
			assert.Equal(t, tt.expected, GetIntFromEnv(testEnvVar, 4, 1, 64, nil))
		})
	}
}

func TestGetStringFromEnv(t *testing.T) {
	const testEnvVar = "AGENTKIT_TEST_STRING_VALUE"

	t.Setenv(testEnvVar, "")
	assert.Equal(t, "default", GetStringFromEnv(testEnvVar, "default"))

	t.Setenv(testEnvVar, "  strict ")
	assert.Equal(t, "strict", GetStringFromEnv(testEnvVar, "default"))
}
