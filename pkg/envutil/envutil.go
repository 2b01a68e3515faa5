// Package envutil reads typed settings from environment variables.
package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

// GetIntFromEnv reads an integer from envVar. Unset, unparsable or
// out-of-range values yield defaultValue. log may be nil.
func GetIntFromEnv(envVar string, defaultValue, minValue, maxValue int, log *logger.Logger) int {
	raw := strings.TrimSpace(os.Getenv(envVar))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Printf("Ignoring %s=%q: not an integer", envVar, raw)
		}
		return defaultValue
	}
	if v < minValue || v > maxValue {
		if log != nil {
			log.Printf("Ignoring %s=%d: outside [%d, %d]", envVar, v, minValue, maxValue)
		}
		return defaultValue
	}
	return v
}

// GetStringFromEnv returns the trimmed value of envVar or defaultValue when it
// is unset or blank.
func GetStringFromEnv(envVar, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	return defaultValue
}
