// This file provides error aggregation for multi-file runs.
//
// # Error Aggregation
//
// A run over several files keeps going when one of them cannot be loaded or
// hits an internal fault, so the user sees every problem in one pass. The
// collector gathers those failures and joins them with errors.Join.
//
//	collector := NewErrorCollector(failFast)
//	for _, file := range files {
//	    if err := collector.Add(check(file)); err != nil {
//	        break // fail-fast
//	    }
//	}
//	return collector.Error()
//
// # Fail-Fast Mode
//
// When failFast is true, Add returns the first non-nil error immediately
// and the caller stops.

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var errorAggregationLog = logger.New("cli:error_aggregation")

// ErrorCollector collects errors across files.
type ErrorCollector struct {
	errors   []error
	failFast bool
}

// NewErrorCollector creates a new error collector.
// If failFast is true, the collector will stop at the first error.
func NewErrorCollector(failFast bool) *ErrorCollector {
	errorAggregationLog.Printf("Creating error collector: fail_fast=%v", failFast)
	return &ErrorCollector{failFast: failFast}
}

// Add records err. In fail-fast mode it also returns err so the caller can
// stop; otherwise it returns nil. A nil err is ignored.
func (c *ErrorCollector) Add(err error) error {
	if err == nil {
		return nil
	}
	errorAggregationLog.Printf("Adding error to collector: %v", err)
	c.errors = append(c.errors, err)
	if c.failFast {
		errorAggregationLog.Print("Fail-fast enabled, returning error immediately")
		return err
	}
	return nil
}

// HasErrors returns true if any errors have been collected.
func (c *ErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}

// Count returns the number of errors collected.
func (c *ErrorCollector) Count() int {
	return len(c.errors)
}

// Error returns the collected errors joined with errors.Join, the single
// error unchanged when there is only one, or nil.
func (c *ErrorCollector) Error() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	}
	errorAggregationLog.Printf("Aggregating %d errors", len(c.errors))
	return errors.Join(c.errors...)
}

// FormattedError is like Error but prefixes multiple errors with a count
// header and lists them as bullets.
func (c *ErrorCollector) FormattedError(category string) error {
	if len(c.errors) <= 1 {
		return c.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d %s errors:", len(c.errors), category)
	for _, err := range c.errors {
		sb.WriteString("\n  • ")
		sb.WriteString(err.Error())
	}
	return errors.New(sb.String())
}
