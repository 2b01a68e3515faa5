//go:build !integration

package schema

import (
	"encoding/json"
	"testing"

	"github.com/agentkit-dev/agentkit/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	return map[string]any{
		"schema_version":   "1.0.0",
		"kind":             "agent_definition",
		"id":               "support-triage",
		"name":             "Support triage",
		"template_version": "0.1.0",
		"trigger":          map[string]any{"type": "manual"},
		"flow":             map[string]any{"entrypoint": "classify"},
		"steps": []any{
			map[string]any{
				"id":      "classify",
				"type":    "llm.prompt",
				"params":  map[string]any{"user_prompt": "Classify {{ input.ticket }}"},
				"outputs": map[string]any{"text": map[string]any{}},
				"flow":    map[string]any{"next": "notify"},
			},
			map[string]any{
				"id":     "notify",
				"type":   "action.gmail.send_email",
				"params": map[string]any{"connection": "gmail"},
			},
		},
		"permissions": map[string]any{
			"connectors": []any{map[string]any{"name": "gmail", "scopes": []any{"send_email"}}},
			"network":    map[string]any{"egress": map[string]any{"allow": []any{"*.example.com"}}},
			"llm":        map[string]any{"allowedModels": []any{"gpt-4o"}},
		},
	}
}

func TestCheck_Valid(t *testing.T) {
	findings, ok := Check(validDoc())
	assert.True(t, ok)
	assert.Empty(t, findings)
}

func TestCheck_ValidTriggers(t *testing.T) {
	triggers := []map[string]any{
		{"type": "manual", "config": map[string]any{"anything": 1}},
		{"type": "schedule", "config": map[string]any{"cron": "0 * * * *", "timezone": "UTC"}},
		{"type": "webhook", "config": map[string]any{"path": "/hooks/a"}},
		{"type": "webhook", "config": map[string]any{"path": "/hooks/a", "auth": "shared_secret"}},
		{"type": "event", "config": map[string]any{"source": "crm", "event_type": "created", "resource": "lead"}},
	}
	for _, trigger := range triggers {
		t.Run(trigger["type"].(string), func(t *testing.T) {
			doc := validDoc()
			doc["trigger"] = trigger
			findings, ok := Check(doc)
			assert.True(t, ok, "findings: %v", findings)
		})
	}
}

func TestCheck_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		contains string
	}{
		{
			name:     "missing steps",
			mutate:   func(doc map[string]any) { delete(doc, "steps") },
			contains: "$: ",
		},
		{
			name:     "empty steps",
			mutate:   func(doc map[string]any) { doc["steps"] = []any{} },
			contains: "steps: ",
		},
		{
			name:     "unknown top-level field",
			mutate:   func(doc map[string]any) { doc["extra"] = true },
			contains: "$: ",
		},
		{
			name:     "wrong kind",
			mutate:   func(doc map[string]any) { doc["kind"] = "workflow" },
			contains: "kind: ",
		},
		{
			name:     "schema_version not semver",
			mutate:   func(doc map[string]any) { doc["schema_version"] = "1.0" },
			contains: "schema_version: ",
		},
		{
			name:     "bad step id",
			mutate:   func(doc map[string]any) { step(doc, 0)["id"] = "1abc" },
			contains: "steps.0.id: ",
		},
		{
			name:     "bad step type",
			mutate:   func(doc map[string]any) { step(doc, 1)["type"] = "Gmail" },
			contains: "steps.1.type: ",
		},
		{
			name:     "params missing",
			mutate:   func(doc map[string]any) { delete(step(doc, 1), "params") },
			contains: "steps.1: ",
		},
		{
			name:     "unknown step field",
			mutate:   func(doc map[string]any) { step(doc, 0)["retries"] = 3 },
			contains: "steps.0: ",
		},
		{
			name:     "unknown trigger type",
			mutate:   func(doc map[string]any) { doc["trigger"] = map[string]any{"type": "email"} },
			contains: "trigger.type: ",
		},
		{
			name: "schedule without cron",
			mutate: func(doc map[string]any) {
				doc["trigger"] = map[string]any{"type": "schedule", "config": map[string]any{}}
			},
			contains: "trigger.config: ",
		},
		{
			name: "schedule without config",
			mutate: func(doc map[string]any) {
				doc["trigger"] = map[string]any{"type": "schedule"}
			},
			contains: "trigger: ",
		},
		{
			name: "webhook with unknown auth",
			mutate: func(doc map[string]any) {
				doc["trigger"] = map[string]any{"type": "webhook", "config": map[string]any{"path": "/x", "auth": "basic"}}
			},
			contains: "trigger.config.auth: ",
		},
		{
			name:     "empty name",
			mutate:   func(doc map[string]any) { doc["name"] = "" },
			contains: "name: ",
		},
		{
			name: "egress must be an object",
			mutate: func(doc map[string]any) {
				doc["permissions"] = map[string]any{"network": map[string]any{"egress": []any{"*"}}}
			},
			contains: "permissions.network.egress: ",
		},
		{
			name: "connector grant needs a name",
			mutate: func(doc map[string]any) {
				doc["permissions"] = map[string]any{"connectors": []any{map[string]any{"scopes": []any{"read"}}}}
			},
			contains: "permissions.connectors.0: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)

			findings, ok := Check(doc)
			assert.False(t, ok)
			require.Len(t, findings, 1)
			assert.Equal(t, validator.CodeSchemaInvalid, findings[0].Code)
			assert.Equal(t, validator.SeverityError, findings[0].Severity)
			assert.Equal(t, "$", findings[0].JSONPath)
			assert.Contains(t, findings[0].Message, tt.contains)
		})
	}
}

func TestCheck_JoinsAllViolations(t *testing.T) {
	doc := validDoc()
	doc["kind"] = "workflow"
	step(doc, 0)["id"] = "1abc"

	findings, ok := Check(doc)
	assert.False(t, ok)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "kind: ")
	assert.Contains(t, findings[0].Message, "; ")
	assert.Contains(t, findings[0].Message, "steps.0.id: ")
}

func TestCheck_UnsupportedVersion(t *testing.T) {
	doc := validDoc()
	doc["schema_version"] = "2.0.0"

	findings, ok := Check(doc)
	assert.False(t, ok)
	require.Len(t, findings, 1)
	assert.Equal(t, validator.CodeSchemaVersionUnsupported, findings[0].Code)
	assert.Equal(t, "$.schema_version", findings[0].JSONPath)
	assert.Equal(t, "Unsupported schema_version: 2.0.0. Supported: 1.0.0", findings[0].Message)
}

func TestCheck_GatesValidateAll(t *testing.T) {
	doc := validDoc()
	delete(doc, "flow")

	findings, err := validator.ValidateAll(doc, validator.Options{Structural: Check})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, validator.CodeSchemaInvalid, findings[0].Code)
}

func TestIsSupportedVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0.0", true},
		{"1.0.1", false},
		{"v1.0.0", false},
		{"1.0", false},
		{"1", false},
		{"1.0.0-rc.1", false},
		{"", false},
		{"not-a-version", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupportedVersion(tt.version))
		})
	}
}

func TestGenerateJSON(t *testing.T) {
	data, err := GenerateJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, draft202012, doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t,
		[]any{"schema_version", "kind", "id", "name", "template_version", "trigger", "flow", "steps"},
		doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, semverPattern, props["schema_version"].(map[string]any)["pattern"])
	assert.Contains(t, props, "permissions")
}

func TestDottedPath(t *testing.T) {
	assert.Equal(t, "$", dottedPath(""))
	assert.Equal(t, "$", dottedPath("/"))
	assert.Equal(t, "steps.0.id", dottedPath("/steps/0/id"))
}

func step(doc map[string]any, i int) map[string]any {
	return doc["steps"].([]any)[i].(map[string]any)
}
