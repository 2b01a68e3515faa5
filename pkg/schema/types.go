// Package schema defines the shape of an agent definition document and the
// structural pre-check that gates the rest of the validation pipeline.
//
// The Go types below are the source of truth for the JSON Schema: Generate
// derives a schema from them and then tightens it with the patterns, enums
// and trigger variants that struct tags cannot express.
package schema

// AgentDefinition is a complete agent definition document.
type AgentDefinition struct {
	SchemaVersion   string         `json:"schema_version" jsonschema:"Version of the agent definition format"`
	Kind            string         `json:"kind" jsonschema:"Always agent_definition"`
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	TemplateVersion string         `json:"template_version" jsonschema:"Version of this agent template"`
	Metadata        map[string]any `json:"metadata,omitempty" jsonschema:"Free-form metadata such as owner"`
	Trigger         Trigger        `json:"trigger"`
	Inputs          map[string]any `json:"inputs,omitempty"`
	Runtime         map[string]any `json:"runtime,omitempty" jsonschema:"Runtime settings including named connections"`
	Permissions     *Permissions   `json:"permissions,omitempty" jsonschema:"Capabilities the agent is allowed to use"`
	Flow            Flow           `json:"flow"`
	Steps           []Step         `json:"steps"`
	ErrorHandling   map[string]any `json:"error_handling,omitempty"`
}

// Trigger starts an agent. Config depends on Type.
type Trigger struct {
	Type   string         `json:"type" jsonschema:"One of manual, schedule, webhook or event"`
	Config map[string]any `json:"config,omitempty"`
}

// ScheduleConfig configures a schedule trigger.
type ScheduleConfig struct {
	Cron     string `json:"cron"`
	Timezone string `json:"timezone,omitempty"`
}

// WebhookConfig configures a webhook trigger.
type WebhookConfig struct {
	Path string `json:"path"`
	Auth string `json:"auth,omitempty" jsonschema:"none, workspace (default) or shared_secret"`
}

// EventConfig configures an event trigger.
type EventConfig struct {
	Source    string `json:"source"`
	EventType string `json:"event_type"`
	Resource  string `json:"resource"`
}

// Flow holds document level flow settings.
type Flow struct {
	Entrypoint string `json:"entrypoint" jsonschema:"ID of the first step"`
}

// Step is one node of the step graph.
type Step struct {
	ID      string         `json:"id"`
	Type    string         `json:"type" jsonschema:"Dotted step type such as llm.prompt"`
	Params  map[string]any `json:"params"`
	Outputs map[string]any `json:"outputs,omitempty" jsonschema:"Output keys this step declares"`
	Flow    map[string]any `json:"flow,omitempty" jsonschema:"Routing pointers such as next and cases"`
}

// Permissions declares what the agent may access.
type Permissions struct {
	Connectors []ConnectorGrant    `json:"connectors,omitempty"`
	Network    *NetworkPermissions `json:"network,omitempty"`
	LLM        *LLMPermissions     `json:"llm,omitempty"`
}

// ConnectorGrant grants access to a connector, optionally limited to scopes.
type ConnectorGrant struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes,omitempty"`
}

// NetworkPermissions declares network access.
type NetworkPermissions struct {
	Egress *EgressRules `json:"egress,omitempty"`
}

// EgressRules lists host patterns. '*' matches any run of characters and
// matching ignores case. Deny wins over allow.
type EgressRules struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// LLMPermissions declares model access.
type LLMPermissions struct {
	AllowedModels []string `json:"allowedModels,omitempty"`
}
