//go:build !integration

package validator

import (
	"errors"
	"testing"

	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// llmDoc is testDoc with an llm permission block so prompt steps pass the
// permission checks.
func llmDoc(entrypoint string, steps ...map[string]any) map[string]any {
	doc := testDoc(entrypoint, steps...)
	doc["permissions"] = map[string]any{"llm": map[string]any{}}
	return doc
}

func TestValidateAll_Clean(t *testing.T) {
	doc := llmDoc("a", prompt("a", "hello", next("b")), prompt("b", "bye", nil))

	findings, err := ValidateAll(doc, Options{})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateAll_Cycle(t *testing.T) {
	doc := llmDoc("A", prompt("A", "x", next("B")), prompt("B", "y", next("A")))

	findings, err := ValidateAll(doc, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{CodeCycleDetected}, codes(findings))
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.True(t, HasErrors(findings))
}

func TestValidateAll_MissingEntrypointSkipsStaticAnalysis(t *testing.T) {
	doc := llmDoc("A", prompt("B", "x", next("C")), prompt("C", "y", nil))

	findings, err := ValidateAll(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{CodeFlowEntrypointMissing}, codes(findings))
}

func TestValidateAll_PolicySelection(t *testing.T) {
	orphanDoc := func() map[string]any {
		return llmDoc("a", prompt("a", "x", nil), prompt("orphan", "y", nil))
	}

	tests := []struct {
		name     string
		policy   string
		codes    []string
		severity Severity
	}{
		{name: "default keeps warning", policy: "default", codes: []string{CodeUnreachableStep}, severity: SeverityWarning},
		{name: "empty means default", policy: "", codes: []string{CodeUnreachableStep}, severity: SeverityWarning},
		{name: "unknown falls back to default", policy: "does-not-exist", codes: []string{CodeUnreachableStep}, severity: SeverityWarning},
		{name: "runtime disables unreachable", policy: "runtime", codes: []string{}},
		{name: "strict escalates", policy: "strict", codes: []string{CodeUnreachableStep}, severity: SeverityError},
		{name: "ci escalates", policy: "ci", codes: []string{CodeUnreachableStep}, severity: SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := ValidateAll(orphanDoc(), Options{Policy: tt.policy})
			require.NoError(t, err)
			assert.Equal(t, tt.codes, codes(findings))
			for _, f := range findings {
				assert.Equal(t, tt.severity, f.Severity)
			}
		})
	}
}

func TestValidateAll_CustomPolicy(t *testing.T) {
	policies := NewPolicyRegistry()
	require.NoError(t, policies.Register(PolicyPack{
		Name:              "team-x",
		SeverityOverrides: map[string]Severity{CodeNoDescription: SeverityError},
	}))

	doc := llmDoc("a", prompt("a", "x", nil))
	delete(doc, "description")

	findings, err := ValidateAll(doc, Options{Policy: "team-x", Policies: policies})
	require.NoError(t, err)
	require.Equal(t, []string{CodeNoDescription}, codes(findings))
	assert.Equal(t, SeverityError, findings[0].Severity)

	findings, err = ValidateAll(doc, Options{Policy: "team-x"})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity, "unregistered pack should fall back to default")
}

func TestValidateAll_StageOrder(t *testing.T) {
	doc := testDoc("a",
		testStep("a", "action.gmail.send_email", map[string]any{
			"connection": "gmail", "to": "a@b.c", "subject": "s", "body": "b", "api_token": "t",
		}, nil),
		prompt("orphan", "{{ env.HOME }}", nil),
	)
	doc["permissions"] = map[string]any{"llm": map[string]any{}}
	doc["runtime"] = map[string]any{"connections": map[string]any{"gmail": map[string]any{}}}

	findings, err := ValidateAll(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		CodeStepParamsInvalid,
		CodeExprNamespace,
		CodeUnreachableStep,
		CodeActionNoIdempotency,
		CodeSecretInline,
		CodePermissionMissing,
	}, codes(findings))
}

func TestValidateAll_StructuralShortCircuit(t *testing.T) {
	called := false
	structural := func(map[string]any) ([]Finding, bool) {
		called = true
		return []Finding{{Code: CodeSchemaInvalid, Severity: SeverityError, Message: "steps: required", JSONPath: "$"}}, false
	}

	// Would produce semantic and static findings if those stages ran.
	doc := testDoc("A", prompt("A", "x", next("A")), prompt("A", "x", nil))

	findings, err := ValidateAll(doc, Options{Structural: structural})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{CodeSchemaInvalid}, codes(findings))
}

func TestValidateAll_StructuralFindingsGoThroughPolicy(t *testing.T) {
	structural := func(map[string]any) ([]Finding, bool) {
		return []Finding{{Code: CodeSecretInline, Severity: SeverityWarning, Message: "m", JSONPath: "$"}}, false
	}
	findings, err := ValidateAll(map[string]any{}, Options{Structural: structural, Policy: "strict"})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
}

func TestValidateAll_StructuralPassContinues(t *testing.T) {
	structural := func(map[string]any) ([]Finding, bool) { return nil, true }
	doc := llmDoc("A", prompt("A", "x", next("B")), prompt("B", "y", next("A")))

	findings, err := ValidateAll(doc, Options{Structural: structural})
	require.NoError(t, err)
	assert.Equal(t, []string{CodeCycleDetected}, codes(findings))
}

func TestValidateAll_Idempotent(t *testing.T) {
	doc := testDoc("a",
		gmailStep("a"),
		httpStep("b", "https://api.example.com"),
		prompt("c", "{{ steps.zz.outputs.text }} {{ secrets.x }}", nil),
	)
	doc["permissions"] = map[string]any{
		"connectors": []any{map[string]any{"name": "slack"}},
		"network":    map[string]any{"egress": map[string]any{"allow": []any{"*.example.org"}}},
	}
	snapshot := deepCopy(doc)

	first, err := ValidateAll(doc, Options{Policy: "strict"})
	require.NoError(t, err)
	second, err := ValidateAll(doc, Options{Policy: "strict"})
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, doc)
}

func TestValidateAll_RegistryFault(t *testing.T) {
	boom := errors.New("validator crashed")
	reg := registry.Registry{
		"acme.step": {
			Type: "acme.step",
			Params: registry.ValidatorFunc(func(any) ([]registry.FieldError, error) {
				return nil, boom
			}),
		},
	}
	doc := testDoc("a", testStep("a", "acme.step", map[string]any{}, nil))

	findings, err := ValidateAll(doc, Options{Registry: reg})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, findings)
}

func TestValidateAll_CustomRegistryReplacesBuiltin(t *testing.T) {
	reg := registry.Registry{
		"acme.noop": {Type: "acme.noop", Params: registry.ValidatorFunc(func(any) ([]registry.FieldError, error) { return nil, nil })},
	}
	doc := testDoc("a", testStep("a", "acme.noop", map[string]any{}, next("b")), prompt("b", "x", nil))

	findings, err := ValidateAll(doc, Options{Registry: reg})
	require.NoError(t, err)
	assert.Equal(t, []string{CodeStepTypeUnknown}, codes(findings))
}
