// This file provides the inline secret scanner.
//
// # Secret Scanning
//
// ScanSecrets walks the whole document and flags string values that look
// like credentials. A value is flagged when it does not contain "{{" and
// either:
//
//   - its key (the nearest enclosing map key, carried through arrays)
//     matches api[-_]?key, token, secret or password, case-insensitively
//   - the value contains "sk-" followed by 16 or more alphanumerics
//   - the value is at least 32 characters long and contains both a letter
//     and a digit
//
// {"$secret": "<name>"} is the sanctioned way to reference a secret and is
// skipped entirely. Templated values are resolved at run time and never
// flagged.
//
// These are shape heuristics. Long prompts containing digits are flagged and
// short opaque tokens under innocuous keys are not; treat the finding as a
// hygiene signal.

package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
	"github.com/agentkit-dev/agentkit/pkg/stringutil"
)

var secretsLog = logger.New("validator:secrets")

var (
	secretKeyPattern   = regexp.MustCompile(`(?i)api[-_]?key|token|secret|password`)
	secretValuePattern = regexp.MustCompile(`sk-[A-Za-z0-9]{16,}`)
)

const longSecretMinLength = 32

// ScanSecrets reports likely inline secrets anywhere in doc.
func ScanSecrets(doc map[string]any) []Finding {
	var findings []Finding
	scanValue(doc, "$", "", &findings)
	secretsLog.Printf("Secret scan produced %d findings", len(findings))
	return findings
}

func scanValue(value any, path, key string, findings *[]Finding) {
	switch v := value.(type) {
	case string:
		if looksLikeSecret(key, v) {
			*findings = append(*findings, Finding{
				Code:     CodeSecretInline,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Possible inline secret (%s). Reference it with {\"%s\": \"<name>\"} instead.", describeSecret(key, v), constants.SecretRefKey),
				JSONPath: path,
			})
		}
	case []any:
		for i, item := range v {
			scanValue(item, fmt.Sprintf("%s[%d]", path, i), key, findings)
		}
	case map[string]any:
		if isSecretRef(v) {
			return
		}
		for _, k := range sliceutil.SortedKeys(v) {
			scanValue(v[k], path+"."+k, k, findings)
		}
	}
}

// isSecretRef reports whether m is exactly {"$secret": <string>}.
func isSecretRef(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	_, ok := m[constants.SecretRefKey].(string)
	return ok
}

func looksLikeSecret(key, value string) bool {
	if strings.Contains(value, "{{") {
		return false
	}
	if key != "" && secretKeyPattern.MatchString(key) {
		return true
	}
	if secretValuePattern.MatchString(value) {
		return true
	}
	return len(value) >= longSecretMinLength && hasLetterAndDigit(value)
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
		if letter && digit {
			return true
		}
	}
	return false
}

func describeSecret(key, value string) string {
	redacted := stringutil.Redact(value, 4)
	if key == "" {
		return fmt.Sprintf("value %q", redacted)
	}
	return fmt.Sprintf("key '%s', value %q", key, redacted)
}
