package cli

import (
	"errors"
	"fmt"
)

// Exit codes shared by every command.
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitInternal = 2
)

// ExitError carries a non-zero exit code out of a command whose output has
// already been written. main exits with Code and prints nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitWith returns nil for ExitOK and an *ExitError otherwise.
func exitWith(code int) error {
	if code == ExitOK {
		return nil
	}
	return &ExitError{Code: code}
}

// ExitCode maps a command error to a process exit code: 0 for nil, the
// carried code for an *ExitError and ExitInternal for anything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternal
}
