//go:build !integration

package validator

// testStep builds a step map. flow may be nil.
func testStep(id, stepType string, params map[string]any, flow map[string]any) map[string]any {
	s := map[string]any{"id": id, "type": stepType, "params": params}
	if flow != nil {
		s["flow"] = flow
	}
	return s
}

// testDoc builds a lint-clean document with the given entrypoint and steps.
func testDoc(entrypoint string, steps ...map[string]any) map[string]any {
	items := make([]any, len(steps))
	for i, s := range steps {
		items[i] = s
	}
	return map[string]any{
		"schema_version":   "1.0.0",
		"kind":             "agent_definition",
		"id":               "agent",
		"name":             "Agent",
		"description":      "Test agent",
		"template_version": "1.0.0",
		"metadata":         map[string]any{"owner": "team-a"},
		"error_handling":   map[string]any{"retries": 1},
		"trigger":          map[string]any{"type": "manual", "config": map[string]any{}},
		"flow":             map[string]any{"entrypoint": entrypoint},
		"steps":            items,
	}
}

func codes(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}

func countCode(findings []Finding, code string) int {
	return len(FilterCodes(findings, code))
}

func next(id string) map[string]any {
	return map[string]any{"next": id}
}
