package validator

import (
	"math"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

// stepView is a read-only view of one entry of the document's steps array.
// Fields of the wrong shape read as their zero value.
type stepView struct {
	Index   int
	ID      string
	Type    string
	Params  map[string]any
	Flow    map[string]any
	Raw     map[string]any
	Outputs map[string]any
}

func (s stepView) hasKey(key string) bool {
	_, ok := s.Raw[key]
	return ok
}

func stepsOf(doc map[string]any) []stepView {
	items, _ := doc["steps"].([]any)
	steps := make([]stepView, 0, len(items))
	for i, item := range items {
		raw := asMap(item)
		steps = append(steps, stepView{
			Index:   i,
			ID:      asString(raw["id"]),
			Type:    asString(raw["type"]),
			Params:  asMap(raw["params"]),
			Flow:    asMap(raw["flow"]),
			Outputs: asMap(raw["outputs"]),
			Raw:     raw,
		})
	}
	return steps
}

func entrypointOf(doc map[string]any) string {
	return asString(asMap(doc["flow"])["entrypoint"])
}

// flowTarget is one routing pointer on a step.
type flowTarget struct {
	Target   string
	JSONPath string
}

// flowTargets lists the step's routing pointers: the named pointer fields in
// their fixed order, then flow.cases in key order.
func flowTargets(s stepView) []flowTarget {
	var out []flowTarget
	base := stepPath(s.ID) + ".flow."
	for _, field := range constants.FlowPointerFields {
		if target, ok := nonEmptyString(s.Flow[field]); ok {
			out = append(out, flowTarget{Target: target, JSONPath: base + field})
		}
	}
	cases := asMap(s.Flow[constants.FlowCasesField])
	for _, key := range sliceutil.SortedKeys(cases) {
		if target, ok := nonEmptyString(cases[key]); ok {
			out = append(out, flowTarget{Target: target, JSONPath: base + constants.FlowCasesField + "." + key})
		}
	}
	return out
}

// stepPath is the filter-expression path used for findings about a step.
func stepPath(id string) string {
	return `$.steps[?(@.id=="` + id + `")]`
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// truthy mirrors how optional document fields are tested for presence: nil,
// false, "", zero and NaN count as absent. Empty maps and lists are present.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	return true
}
