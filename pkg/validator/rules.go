package validator

import (
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

// Rule codes raised by this package and by its collaborators.
const (
	CodeSchemaInvalid            = "E_SCHEMA_INVALID"
	CodeSchemaVersionUnsupported = "E_SCHEMA_VERSION_UNSUPPORTED"
	CodeStepIDDuplicate          = "E_STEP_ID_DUPLICATE"
	CodeFlowEntrypointMissing    = "E_FLOW_ENTRYPOINT_MISSING"
	CodeFlowTargetMissing        = "E_FLOW_TARGET_MISSING"
	CodeConnectionMissing        = "E_CONNECTION_MISSING"
	CodeExprParse                = "E_EXPR_PARSE"
	CodeExprNamespace            = "E_EXPR_NAMESPACE"
	CodeOutputReferenceInvalid   = "E_OUTPUT_REFERENCE_INVALID"
	CodeSecretInline             = "E_SECRET_INLINE"
	CodePermissionMissing        = "E_PERMISSION_MISSING"
	CodePermissionDenied         = "E_PERMISSION_DENIED"
	CodePermissionOverbroad      = "W_PERMISSION_OVERBROAD"
	CodeUnreachableStep          = "W_UNREACHABLE_STEP"
	CodeCycleDetected            = "E_CYCLE_DETECTED"
	CodeNoDescription            = "W_NO_DESCRIPTION"
	CodeNoMetadataOwner          = "W_NO_METADATA_OWNER"
	CodeMissingErrorHandling     = "W_MISSING_ERROR_HANDLING"
	CodeActionNoIdempotency      = "W_ACTION_NO_IDEMPOTENCY"
	CodeStepTypeUnknown          = "E_STEP_TYPE_UNKNOWN"
	CodeStepParamsInvalid        = "E_STEP_PARAMS_INVALID"
	CodeStepOutputsInvalid       = "E_STEP_OUTPUTS_INVALID"
	CodeCLIInternal              = "E_CLI_INTERNAL"
)

// RuleMeta describes a finding code.
type RuleMeta struct {
	Code            string   `json:"code"`
	DefaultSeverity Severity `json:"defaultSeverity"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Hint            string   `json:"hint,omitempty"`
}

// rules is the catalog. It is built once and never written afterwards.
var rules = indexRules([]RuleMeta{
	{CodeSchemaInvalid, SeverityError, "Schema invalid",
		"The agent definition failed structural validation against the agent definition schema.",
		"Fix the reported field paths and types."},
	{CodeSchemaVersionUnsupported, SeverityError, "Unsupported schema version",
		"schema_version is not supported by this CLI/runtime version.",
		"Update the CLI or change schema_version to a supported value."},

	{CodeStepIDDuplicate, SeverityError, "Duplicate step id",
		"Two or more steps share the same id.",
		"Make all step.id values unique."},
	{CodeFlowEntrypointMissing, SeverityError, "Entrypoint missing",
		"flow.entrypoint does not match any step.id.",
		"Set flow.entrypoint to an existing step id."},
	{CodeFlowTargetMissing, SeverityError, "Flow target missing",
		"A step flow pointer references a step id that does not exist.",
		"Fix flow pointers (next/true_next/false_next/cases) to existing steps."},
	{CodeConnectionMissing, SeverityError, "Connection missing",
		"A step references a runtime connection key that is not defined.",
		"Add the connection under runtime.connections or fix params.connection."},

	{CodeExprParse, SeverityError, "Expression parse error",
		"An expression inside {{ ... }} is syntactically invalid.",
		"Fix expression syntax and ensure parentheses are balanced."},
	{CodeExprNamespace, SeverityError, "Illegal expression namespace",
		"Expression references a root namespace that is not allowed.",
		"Use one of: input, steps, runtime, connections."},
	{CodeOutputReferenceInvalid, SeverityError, "Invalid output reference",
		"Expression references steps.<id>.outputs.<key> that does not exist or is not declared.",
		"Declare the output key on the referenced step or fix the expression reference."},

	{CodeSecretInline, SeverityWarning, "Inline secret detected",
		"Potential secret/token detected inline instead of a secret reference.",
		`Move secrets to a secret manager and reference them with {$secret: "name"}.`},
	{CodePermissionMissing, SeverityError, "Required permission missing",
		"A step requires a capability that is not declared in agent.permissions.",
		"Declare the needed connector/network/llm capability in agent.permissions."},
	{CodePermissionDenied, SeverityError, "Permission denied by policy",
		"A required capability conflicts with a deny rule (e.g., egress host denied).",
		"Update permissions deny/allow lists to permit the required host."},
	{CodePermissionOverbroad, SeverityWarning, "Permissions overbroad",
		"Permissions are declared that are not used by any step.",
		"Remove unused permissions for least privilege."},

	{CodeUnreachableStep, SeverityWarning, "Unreachable step",
		"A step cannot be reached from flow.entrypoint.",
		"Remove the step or connect it through flow pointers."},
	{CodeCycleDetected, SeverityError, "Cycle detected",
		"Control flow contains a directed cycle (disallowed in schema v1).",
		"Remove the cycle or introduce an approved loop step type in a future schema version."},

	{CodeNoDescription, SeverityWarning, "Missing description",
		"Agent has no top-level description.",
		"Add a concise description for maintainability."},
	{CodeNoMetadataOwner, SeverityWarning, "Missing metadata.owner",
		"metadata.owner is recommended for accountability.",
		"Add metadata.owner as a team or individual identifier."},
	{CodeMissingErrorHandling, SeverityWarning, "Missing error_handling",
		"Agent has no error_handling block.",
		"Define a standard retry/backoff and failure routing policy."},
	{CodeActionNoIdempotency, SeverityWarning, "Missing idempotency key",
		"Action step lacks params.idempotency_key.",
		"Add params.idempotency_key for safe retries."},

	{CodeStepTypeUnknown, SeverityError, "Unknown step type",
		"Step type is not registered.",
		"Add the step type to the registry or fix the step type."},
	{CodeStepParamsInvalid, SeverityError, "Invalid step params",
		"Step params do not match the expected schema.",
		"Fix the params to match the expected schema."},
	{CodeStepOutputsInvalid, SeverityError, "Invalid step outputs",
		"Declared step outputs are not produced by the step type.",
		"Only declare outputs the step type produces."},

	{"E_PLUGIN_NOT_FOUND", SeverityError, "Plugin not found",
		"Plugin is not registered.",
		"Add the plugin to the registry or fix the plugin name."},
	{"E_PLUGIN_UNTRUSTED", SeverityError, "Plugin untrusted",
		"Plugin is not trusted.",
		"Add the plugin to the trust allow list or remove it."},
	{"E_PLUGIN_VERSION_UNPINNED", SeverityError, "Plugin version unpinned",
		"Plugin version is not pinned.",
		"Pin the plugin to an exact version."},
	{"E_PLUGIN_LOAD_FAILED", SeverityError, "Plugin load failed",
		"Plugin load failed.",
		"Check that the plugin is installed and exports a step registry."},
	{"E_PLUGIN_VERSION_UNRESOLVABLE", SeverityWarning, "Plugin version unresolvable",
		"Plugin package was not found in the lockfile.",
		"Ensure the plugin is installed and present in the lockfile."},
	{"E_PLUGIN_PIN_MISMATCH", SeverityWarning, "Plugin pin mismatch",
		"Plugin pin does not match the version in the lockfile.",
		"Align plugin pin with the locked version or update the lockfile."},
	{"E_LOCKFILE_MISSING", SeverityWarning, "Lockfile missing",
		"CI policy requires a lockfile but none was found.",
		"Commit pnpm-lock.yaml/package-lock.json/yarn.lock."},
	{"E_LOCKFILE_UNSUPPORTED", SeverityWarning, "Lockfile unsupported",
		"Lockfile exists but could not be parsed.",
		"Use a supported lockfile format and ensure it is valid JSON/YAML."},
	{"E_BUNDLE_ATTESTATION_INVALID", SeverityWarning, "Bundle attestation invalid",
		"Bundle manifest signature failed verification or is missing.",
		"Regenerate the bundle with a trusted keypair and re-sign."},
	{"E_BUNDLE_PROVENANCE_MISMATCH", SeverityWarning, "Bundle provenance mismatch",
		"Bundle provenance could not be verified against declared sources.",
		"Recreate the bundle with correct plugin sources and lockfiles."},
	{"E_BUNDLE_SIGNATURE_INVALID", SeverityError, "Bundle signature invalid",
		"manifest.json signature failed verification.",
		"Recreate the bundle or ensure the correct public key is present."},
	{"E_BUNDLE_HASH_MISMATCH", SeverityError, "Bundle hash mismatch",
		"Bundle contents hash does not match manifest declaration.",
		"Recreate the bundle to refresh hashes and signatures."},

	{CodeCLIInternal, SeverityError, "Internal error",
		"The validator failed unexpectedly while processing the document.",
		"Re-run with DEBUG=* and report the output."},
})

func indexRules(list []RuleMeta) map[string]RuleMeta {
	m := make(map[string]RuleMeta, len(list))
	for _, r := range list {
		if _, dup := m[r.Code]; dup {
			panic("duplicate rule code " + r.Code)
		}
		m[r.Code] = r
	}
	return m
}

// GetRule returns the catalog entry for code.
func GetRule(code string) (RuleMeta, bool) {
	r, ok := rules[code]
	return r, ok
}

// ListRules returns every catalog entry sorted by code.
func ListRules() []RuleMeta {
	out := make([]RuleMeta, 0, len(rules))
	for _, code := range sliceutil.SortedKeys(rules) {
		out = append(out, rules[code])
	}
	return out
}

// NormalizeFindings fills an empty severity from the catalog default and an
// empty hint from the catalog hint. Findings with unknown codes pass through
// unchanged.
func NormalizeFindings(findings []Finding) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		if meta, ok := rules[f.Code]; ok {
			if f.Severity == "" {
				f.Severity = meta.DefaultSeverity
			}
			if f.Hint == "" {
				f.Hint = meta.Hint
			}
		}
		out[i] = f
	}
	return out
}
