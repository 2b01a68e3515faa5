// Package constants holds names and tables shared by the validator, the
// schema gate and the CLI.
package constants

import "slices"

// CLIName is the binary name used in help text and examples.
const CLIName = "agentkit"

// Version is a semantic version string.
type Version string

// String returns the version as a plain string.
func (v Version) String() string { return string(v) }

// IsValid reports whether the version is non-empty.
func (v Version) IsValid() bool { return v != "" }

// CLIVersion is overridden at build time with -ldflags.
var CLIVersion Version = "dev"

// AgentDefinitionKind is the required value of a document's kind field.
const AgentDefinitionKind = "agent_definition"

// TriggerTypes are the accepted trigger.type values.
var TriggerTypes = []string{"manual", "schedule", "webhook", "event"}

// SupportedSchemaVersions lists the schema_version values this build accepts.
var SupportedSchemaVersions = []Version{"1.0.0"}

// PolicyName names a registered policy pack.
type PolicyName string

// String returns the policy name as a plain string.
func (p PolicyName) String() string { return string(p) }

const (
	PolicyDefault PolicyName = "default"
	PolicyStrict  PolicyName = "strict"
	PolicyRuntime PolicyName = "runtime"
	PolicyCI      PolicyName = "ci"
)

// BuiltinPolicyNames lists the policy packs that ship with the binary.
var BuiltinPolicyNames = []PolicyName{PolicyDefault, PolicyStrict, PolicyRuntime, PolicyCI}

// IsBuiltin reports whether p names a built-in policy pack.
func (p PolicyName) IsBuiltin() bool {
	return slices.Contains(BuiltinPolicyNames, p)
}

// AllowedExpressionRoots are the namespaces an expression may start with.
var AllowedExpressionRoots = []string{"input", "steps", "runtime", "connections"}

// ForbiddenExpressionIdentifiers are rejected by the expression lexer even
// where they would be valid property names.
var ForbiddenExpressionIdentifiers = []string{
	"function", "new", "while", "for", "return", "class", "import", "eval",
}

// FlowPointerFields are the step.flow keys whose string value names the next
// step. flow.cases is handled separately.
var FlowPointerFields = []string{
	"next",
	"true_next",
	"false_next",
	"approved_next",
	"rejected_next",
	"on_error_next",
}

// FlowCasesField is the step.flow key holding a value -> step id map.
const FlowCasesField = "cases"

// SecretRefKey is the single key of the sanctioned secret indirection
// object {"$secret": "<name>"}.
const SecretRefKey = "$secret"

// ConfigFileNames are looked up in the working directory, in order.
var ConfigFileNames = []string{"agentkit.config.yaml", "agentkit.config.yml", "agentkit.config.json"}

// EnvPolicy selects the default policy when neither flag nor config does.
const EnvPolicy = "AGENTKIT_POLICY"

// EnvMaxConcurrency caps how many files are validated in parallel.
const EnvMaxConcurrency = "AGENTKIT_MAX_CONCURRENCY"

// SchemaFileName is the file gen-schema writes when given an output directory.
const SchemaFileName = "agent-definition.schema.json"
