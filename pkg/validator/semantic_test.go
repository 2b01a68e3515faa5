//go:build !integration

package validator

import (
	"errors"
	"testing"

	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prompt(id, text string, flow map[string]any) map[string]any {
	return testStep(id, "llm.prompt", map[string]any{"user_prompt": text}, flow)
}

func TestValidateSemantic_Clean(t *testing.T) {
	doc := testDoc("a",
		prompt("a", "Hi {{ input.name }}", next("b")),
		prompt("b", "Echo {{ steps.a.outputs.text }}", nil),
	)
	doc["steps"].([]any)[0].(map[string]any)["outputs"] = map[string]any{"text": map[string]any{"type": "string"}}

	findings, err := ValidateSemantic(doc, registry.MustBuiltin())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateSemantic_DuplicateIDs(t *testing.T) {
	doc := testDoc("a",
		prompt("a", "x", nil),
		prompt("b", "x", nil),
		prompt("a", "x", nil),
		prompt("a", "x", nil),
	)
	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)

	dups := FilterCodes(findings, CodeStepIDDuplicate)
	require.Len(t, dups, 2)
	assert.Equal(t, "$.steps[2].id", dups[0].JSONPath)
	assert.Equal(t, "$.steps[3].id", dups[1].JSONPath)
	assert.Equal(t, "Duplicate step id 'a'. Step IDs must be unique within an agent.", dups[0].Message)
}

func TestValidateSemantic_Entrypoint(t *testing.T) {
	findings, err := ValidateSemantic(testDoc("missing", prompt("a", "x", nil)), nil)
	require.NoError(t, err)
	require.Equal(t, []string{CodeFlowEntrypointMissing}, codes(findings))
	assert.Equal(t, "$.flow.entrypoint", findings[0].JSONPath)
	assert.Equal(t, "Entrypoint 'missing' does not match any step.id.", findings[0].Message)
}

func TestValidateSemantic_FlowTargets(t *testing.T) {
	doc := testDoc("a",
		prompt("a", "x", map[string]any{
			"next":          "b",
			"on_error_next": "ghost",
			"cases":         map[string]any{"yes": "b", "no": "nowhere"},
		}),
		prompt("b", "x", nil),
	)
	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)

	targets := FilterCodes(findings, CodeFlowTargetMissing)
	require.Len(t, targets, 2)
	assert.Equal(t, `$.steps[?(@.id=="a")].flow.on_error_next`, targets[0].JSONPath)
	assert.Equal(t, "Flow target 'ghost' referenced by step 'a' does not exist.", targets[0].Message)
	assert.Equal(t, `$.steps[?(@.id=="a")].flow.cases.no`, targets[1].JSONPath)
}

func TestValidateSemantic_Connections(t *testing.T) {
	send := func(id, conn string) map[string]any {
		return testStep(id, "action.gmail.send_email", map[string]any{
			"connection": conn, "to": "a@b.c", "subject": "s", "body": "b",
		}, nil)
	}
	doc := testDoc("a", send("a", "gmail_main"), send("b", "gmail_other"))
	doc["runtime"] = map[string]any{"connections": map[string]any{"gmail_main": map[string]any{}}}

	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)
	conns := FilterCodes(findings, CodeConnectionMissing)
	require.Len(t, conns, 1)
	assert.Equal(t, `$.steps[?(@.id=="b")].params.connection`, conns[0].JSONPath)
	assert.Equal(t, "Step 'b' references connection 'gmail_other', but runtime.connections does not define it.", conns[0].Message)
}

func TestValidateSemantic_ConnectionsWithoutRuntime(t *testing.T) {
	doc := testDoc("a", testStep("a", "x.y", map[string]any{"connection": "c"}, nil))
	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{CodeConnectionMissing}, codes(findings))

	doc = testDoc("a", testStep("a", "x.y", map[string]any{"connection": "  "}, nil))
	findings, err = ValidateSemantic(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, findings, "blank connection is ignored")
}

func TestValidateSemantic_StepTypes(t *testing.T) {
	doc := testDoc("a",
		prompt("a", "x", next("b")),
		testStep("b", "acme.unknown", map[string]any{"anything": true}, next("c")),
		testStep("c", "llm.prompt", map[string]any{"user_prompt": "", "extra": 1}, nil),
	)
	doc["steps"].([]any)[0].(map[string]any)["outputs"] = map[string]any{"summary": map[string]any{}}

	findings, err := ValidateSemantic(doc, registry.MustBuiltin())
	require.NoError(t, err)
	require.Equal(t, []string{CodeStepOutputsInvalid, CodeStepTypeUnknown, CodeStepParamsInvalid}, codes(findings))

	assert.Equal(t, `$.steps[?(@.id=="a")].outputs`, findings[0].JSONPath)
	assert.Equal(t, `$.steps[?(@.id=="b")].type`, findings[1].JSONPath)
	assert.Contains(t, findings[1].Message, "unknown type 'acme.unknown'")
	assert.Contains(t, findings[1].Message, "llm.prompt")
	assert.Equal(t, `$.steps[?(@.id=="c")].params`, findings[2].JSONPath)
	assert.Contains(t, findings[2].Message, "Step 'c' params are invalid for type 'llm.prompt': ")
	assert.Contains(t, findings[2].Message, "extra")
	assert.Contains(t, findings[2].Message, "/user_prompt")
}

func TestValidateSemantic_NilRegistrySkipsTypeChecks(t *testing.T) {
	doc := testDoc("a", testStep("a", "acme.unknown", nil, nil))
	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateSemantic_ValidatorFaultPropagates(t *testing.T) {
	boom := errors.New("schema backend unavailable")
	reg := registry.Registry{
		"acme.broken": {
			Type: "acme.broken",
			Params: registry.ValidatorFunc(func(any) ([]registry.FieldError, error) {
				return nil, boom
			}),
		},
	}
	doc := testDoc("a", testStep("a", "acme.broken", map[string]any{}, nil))

	findings, err := ValidateSemantic(doc, reg)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, findings)
	assert.Contains(t, err.Error(), `step "a" (acme.broken): params validator`)
}

func TestValidateSemantic_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		codes    []string
		contains string
	}{
		{name: "valid input reference", text: "{{ input.x }}", codes: []string{}},
		{name: "semicolon", text: "{{ input.x; input.y }}", codes: []string{CodeExprParse}, contains: "Illegal character in expression"},
		{name: "forbidden keyword", text: "{{ eval(input.x) }}", codes: []string{CodeExprParse}, contains: "Forbidden keyword: eval"},
		{name: "unbalanced", text: "{{ (input.x }}", codes: []string{CodeExprParse}, contains: "Unbalanced parentheses"},
		{name: "bad namespace", text: "{{ secrets.token }}", codes: []string{CodeExprNamespace}, contains: `"secrets"`},
		{name: "no root", text: "{{ 1 + 2 }}", codes: []string{CodeExprNamespace}, contains: `"unknown"`},
		{name: "parse error stops namespace check", text: "{{ secrets.x == 'a }}", codes: []string{CodeExprParse}},
		{name: "unknown step output", text: "{{ steps.ghost.outputs.text }}", codes: []string{CodeOutputReferenceInvalid}, contains: "step 'ghost' does not exist"},
		{name: "undeclared output", text: "{{ steps.a.outputs.summary }}", codes: []string{CodeOutputReferenceInvalid}, contains: "does not declare output 'summary'"},
		{name: "declared output", text: "{{ steps.a.outputs.text }}", codes: []string{}},
		{name: "bracket form", text: `{{ steps["a"].outputs['nope'] }}`, codes: []string{CodeOutputReferenceInvalid}},
		{name: "namespace and reference both reported", text: "{{ foo + steps.ghost.outputs.x }}", codes: []string{CodeExprNamespace, CodeOutputReferenceInvalid}},
		{name: "two templates in one string", text: "{{ input.a }} and {{ bad.b }}", codes: []string{CodeExprNamespace}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := prompt("a", "static", next("b"))
			a["outputs"] = map[string]any{"text": map[string]any{}}
			doc := testDoc("a", a, prompt("b", tt.text, nil))

			findings, err := ValidateSemantic(doc, nil)
			require.NoError(t, err)
			got := codes(findings)
			if len(tt.codes) == 0 {
				assert.Empty(t, got)
				return
			}
			require.Equal(t, tt.codes, got)
			assert.Equal(t, `$.steps[1].params.user_prompt`, findings[0].JSONPath)
			if tt.contains != "" {
				assert.Contains(t, findings[0].Message, tt.contains)
			}
		})
	}
}

func TestValidateSemantic_ExpressionsAnywhereInDocument(t *testing.T) {
	doc := testDoc("a", prompt("a", "x", nil))
	doc["metadata"] = map[string]any{"owner": "{{ env.USER }}"}

	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)
	require.Equal(t, []string{CodeExprNamespace}, codes(findings))
	assert.Equal(t, "$.metadata.owner", findings[0].JSONPath)
}

func TestValidateSemantic_IllegalCharactersAlwaysRejected(t *testing.T) {
	for _, expr := range []string{"input.a;", "`input`", "input.a { x"} {
		doc := testDoc("a", prompt("a", "{{ "+expr+" }}", nil))
		findings, err := ValidateSemantic(doc, nil)
		require.NoError(t, err)
		assert.Contains(t, codes(findings), CodeExprParse, expr)
	}
}

func TestValidateSemantic_ClosingBraceEndsOccurrence(t *testing.T) {
	doc := testDoc("a", prompt("a", "{{ input.a } x }}", nil))
	findings, err := ValidateSemantic(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateSemantic_DoesNotModifyDocument(t *testing.T) {
	doc := testDoc("a", prompt("a", "{{ input.x }}", next("zz")))
	before := deepCopy(doc)
	_, err := ValidateSemantic(doc, registry.MustBuiltin())
	require.NoError(t, err)
	assert.Equal(t, before, doc)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}

func TestExtractOutputRefs(t *testing.T) {
	tests := []struct {
		expr string
		want []OutputRef
	}{
		{expr: "steps.a.outputs.text", want: []OutputRef{{"a", "text"}}},
		{expr: "steps.my-step.outputs.out_1 + steps.b.outputs.c", want: []OutputRef{{"my-step", "out_1"}, {"b", "c"}}},
		{expr: `steps["a"].outputs["text"]`, want: []OutputRef{{"a", "text"}}},
		{expr: `steps['a'].outputs['t'] == steps.b.outputs.u`, want: []OutputRef{{"b", "u"}, {"a", "t"}}},
		{expr: "mysteps.a.outputs.text", want: nil},
		{expr: "steps.a.output.text", want: nil},
		{expr: "steps.1a.outputs.text", want: nil},
		{expr: "input.x", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOutputRefs(tt.expr))
		})
	}
}
