package cli

import (
	"fmt"
	"io"

	"github.com/agentkit-dev/agentkit/pkg/console"
)

// FormatValidationError formats an internal fault for stderr. Findings are
// rendered by the reporters; this is only for errors that stop a command.
func FormatValidationError(err error, color bool) string {
	if err == nil {
		return ""
	}
	return console.FormatErrorMessage(err.Error(), color)
}

// PrintValidationError writes err to w with console formatting.
func PrintValidationError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatValidationError(err, console.StderrColorEnabled()))
}
