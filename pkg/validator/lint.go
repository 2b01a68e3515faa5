package validator

import (
	"fmt"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var lintLog = logger.New("validator:lint")

// actionTypePrefix marks step types with external side effects.
const actionTypePrefix = "action."

// LintAgent reports maintainability issues: a missing description, owner or
// error_handling block, and action steps without an idempotency key.
func LintAgent(doc map[string]any) []Finding {
	var findings []Finding

	if !truthy(doc["description"]) {
		findings = append(findings, Finding{
			Code:     CodeNoDescription,
			Severity: SeverityWarning,
			Message:  "Agent is missing top-level description.",
			JSONPath: "$.description",
		})
	}

	if !truthy(asMap(doc["metadata"])["owner"]) {
		findings = append(findings, Finding{
			Code:     CodeNoMetadataOwner,
			Severity: SeverityWarning,
			Message:  "metadata.owner is recommended for accountability.",
			JSONPath: "$.metadata.owner",
		})
	}

	if !truthy(doc["error_handling"]) {
		findings = append(findings, Finding{
			Code:     CodeMissingErrorHandling,
			Severity: SeverityWarning,
			Message:  "error_handling is recommended to standardize failures and retries.",
			JSONPath: "$.error_handling",
		})
	}

	for _, s := range stepsOf(doc) {
		if !strings.HasPrefix(s.Type, actionTypePrefix) || truthy(s.Params["idempotency_key"]) {
			continue
		}
		findings = append(findings, Finding{
			Code:     CodeActionNoIdempotency,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Action step '%s' is missing params.idempotency_key (recommended).", s.ID),
			JSONPath: stepPath(s.ID) + ".params.idempotency_key",
		})
	}

	lintLog.Printf("Lint produced %d findings", len(findings))
	return findings
}
