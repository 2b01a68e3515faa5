// Package validator is the agent-definition verification pipeline: semantic
// checks, control-flow analysis, capability enforcement, secret scanning and
// lint rules, with a rule catalog and policy packs deciding which findings
// fail a document.
//
// Everything here is a pure function of its inputs. Nothing performs I/O and
// no input document or registry is ever modified, so concurrent calls on
// different documents are safe.
package validator

import (
	"slices"
)

// Severity is the severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IsValid reports whether s is error or warning.
func (s Severity) IsValid() bool {
	return s == SeverityError || s == SeverityWarning
}

// Finding is one validation result.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	JSONPath string   `json:"jsonPath,omitempty"`
	File     string   `json:"file,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	return slices.ContainsFunc(findings, func(f Finding) bool {
		return f.Severity == SeverityError
	})
}

// CountBySeverity returns the number of error and warning findings.
func CountBySeverity(findings []Finding) (errors, warnings int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// WithFile returns a copy of findings with File set on every entry that has
// none.
func WithFile(findings []Finding, file string) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		if f.File == "" {
			f.File = file
		}
		out[i] = f
	}
	return out
}

// FilterCodes returns the findings whose code is in codes, in order.
func FilterCodes(findings []Finding, codes ...string) []Finding {
	var out []Finding
	for _, f := range findings {
		if slices.Contains(codes, f.Code) {
			out = append(out, f)
		}
	}
	return out
}
