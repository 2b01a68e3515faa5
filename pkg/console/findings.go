package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/validator"
)

var findingsLog = logger.New("console:findings")

// FormatFinding renders one finding as
//
//	[SEVERITY] CODE: message (file jsonPath)
//
// The location is omitted when the finding has neither file nor path.
func FormatFinding(f validator.Finding, color bool) string {
	severity := "[" + strings.ToUpper(string(f.Severity)) + "]"
	switch f.Severity {
	case validator.SeverityError:
		severity = styled(errorStyle, severity, color)
	case validator.SeverityWarning:
		severity = styled(warningStyle, severity, color)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", severity, styled(codeStyle, f.Code, color), f.Message)

	var loc []string
	for _, part := range []string{f.File, f.JSONPath} {
		if part != "" {
			loc = append(loc, part)
		}
	}
	if len(loc) > 0 {
		b.WriteString(" ")
		b.WriteString(styled(locationStyle, "("+strings.Join(loc, " ")+")", color))
	}
	return b.String()
}

// RenderFindingsText renders one line per finding, or "OK" when there are
// none. The result always ends in a newline.
func RenderFindingsText(findings []validator.Finding, color bool) string {
	if len(findings) == 0 {
		return styled(successStyle, "OK", color) + "\n"
	}
	var b strings.Builder
	for _, f := range findings {
		b.WriteString(FormatFinding(f, color))
		b.WriteString("\n")
	}
	return b.String()
}

type findingsReport struct {
	Findings []validator.Finding `json:"findings"`
}

// RenderFindingsJSON renders {"findings": [...]} indented by two spaces, with
// a trailing newline. A nil slice renders as an empty array.
func RenderFindingsJSON(findings []validator.Finding) (string, error) {
	if findings == nil {
		findings = []validator.Finding{}
	}
	out, err := MarshalJSON(findingsReport{Findings: findings})
	if err != nil {
		return "", fmt.Errorf("failed to marshal findings: %w", err)
	}
	findingsLog.Printf("Rendered %d findings as JSON (%d bytes)", len(findings), len(out))
	return out, nil
}

// MarshalJSON encodes v as two-space indented JSON with a trailing newline.
// Characters such as '>' are not HTML-escaped.
func MarshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatSummary describes error and warning counts, for example
// "2 errors, 1 warning in 3 files".
func FormatSummary(findings []validator.Finding, files int) string {
	errs, warnings := validator.CountBySeverity(findings)
	return fmt.Sprintf("%s, %s in %s",
		plural(errs, "error"), plural(warnings, "warning"), plural(files, "file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
