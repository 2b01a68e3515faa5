// This file provides the semantic checks of an agent definition.
//
// # Semantic Validation
//
// ValidateSemantic runs independent checks and accumulates every finding:
//
//   - duplicate step ids (every occurrence after the first)
//   - flow.entrypoint naming an existing step
//   - flow pointer and flow.cases targets naming existing steps
//   - params.connection naming a key of runtime.connections
//   - step types known to the registry, with params and declared outputs
//     accepted by the type's validators
//   - every {{ }} expression passing the syntax gate, starting with an
//     allowed namespace, and referencing only declared step outputs
//
// A syntax error stops the remaining checks for that expression only. An
// unknown step type skips params and outputs validation for that step only.
//
// A registry validator that returns an error aborts validation: the error
// is returned to the caller instead of being turned into a finding.

package validator

import (
	"fmt"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/expressions"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

var semanticLog = logger.New("validator:semantic")

// ValidateSemantic checks doc against itself and reg. A nil reg skips step
// type, params and outputs checks.
func ValidateSemantic(doc map[string]any, reg registry.Registry) ([]Finding, error) {
	steps := stepsOf(doc)
	semanticLog.Printf("Validating semantics of %d steps", len(steps))

	var findings []Finding

	// First occurrence of each id wins; later ones are duplicates.
	byID := make(map[string]stepView, len(steps))
	for _, s := range steps {
		if _, seen := byID[s.ID]; seen {
			findings = append(findings, Finding{
				Code:     CodeStepIDDuplicate,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Duplicate step id '%s'. Step IDs must be unique within an agent.", s.ID),
				JSONPath: fmt.Sprintf("$.steps[%d].id", s.Index),
			})
			continue
		}
		byID[s.ID] = s
	}

	entry := entrypointOf(doc)
	if _, ok := byID[entry]; !ok {
		findings = append(findings, Finding{
			Code:     CodeFlowEntrypointMissing,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Entrypoint '%s' does not match any step.id.", entry),
			JSONPath: "$.flow.entrypoint",
		})
	}

	for _, s := range steps {
		for _, t := range flowTargets(s) {
			if _, ok := byID[t.Target]; !ok {
				findings = append(findings, Finding{
					Code:     CodeFlowTargetMissing,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Flow target '%s' referenced by step '%s' does not exist.", t.Target, s.ID),
					JSONPath: t.JSONPath,
				})
			}
		}
	}

	findings = append(findings, checkConnections(doc, steps)...)

	if reg != nil {
		typeFindings, err := checkStepTypes(steps, reg)
		if err != nil {
			return nil, err
		}
		findings = append(findings, typeFindings...)
	}

	findings = append(findings, checkExpressions(doc, byID)...)

	semanticLog.Printf("Semantic validation produced %d findings", len(findings))
	return findings, nil
}

func checkConnections(doc map[string]any, steps []stepView) []Finding {
	connections := asMap(asMap(doc["runtime"])["connections"])
	var findings []Finding
	for _, s := range steps {
		conn, ok := nonEmptyString(s.Params["connection"])
		if !ok {
			continue
		}
		if _, defined := connections[conn]; defined {
			continue
		}
		findings = append(findings, Finding{
			Code:     CodeConnectionMissing,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Step '%s' references connection '%s', but runtime.connections does not define it.", s.ID, conn),
			JSONPath: stepPath(s.ID) + ".params.connection",
		})
	}
	return findings
}

func checkStepTypes(steps []stepView, reg registry.Registry) ([]Finding, error) {
	var findings []Finding
	for _, s := range steps {
		def, ok := reg.Lookup(s.Type)
		if !ok {
			findings = append(findings, Finding{
				Code:     CodeStepTypeUnknown,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Step '%s' has unknown type '%s'. Known types: %s.", s.ID, s.Type, strings.Join(reg.Types(), ", ")),
				JSONPath: stepPath(s.ID) + ".type",
			})
			continue
		}

		if def.Params != nil {
			fieldErrors, err := def.Params.Validate(s.Raw["params"])
			if err != nil {
				return nil, fmt.Errorf("step %q (%s): params validator: %w", s.ID, s.Type, err)
			}
			if len(fieldErrors) > 0 {
				findings = append(findings, Finding{
					Code:     CodeStepParamsInvalid,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Step '%s' params are invalid for type '%s': %s", s.ID, s.Type, joinFieldErrors(fieldErrors)),
					JSONPath: stepPath(s.ID) + ".params",
				})
			}
		}

		if def.Outputs != nil && s.hasKey("outputs") {
			fieldErrors, err := def.Outputs.Validate(s.Raw["outputs"])
			if err != nil {
				return nil, fmt.Errorf("step %q (%s): outputs validator: %w", s.ID, s.Type, err)
			}
			if len(fieldErrors) > 0 {
				findings = append(findings, Finding{
					Code:     CodeStepOutputsInvalid,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Step '%s' declares outputs not accepted by type '%s': %s", s.ID, s.Type, joinFieldErrors(fieldErrors)),
					JSONPath: stepPath(s.ID) + ".outputs",
				})
			}
		}
	}
	return findings, nil
}

func joinFieldErrors(fieldErrors []registry.FieldError) string {
	parts := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		parts[i] = fe.String()
	}
	return strings.Join(sliceutil.Deduplicate(parts), "; ")
}

func checkExpressions(doc map[string]any, byID map[string]stepView) []Finding {
	var findings []Finding
	for occ := range expressions.Occurrences(doc, "$") {
		if err := expressions.Parse(occ.Expr); err != nil {
			findings = append(findings, Finding{
				Code:     CodeExprParse,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Invalid expression: %s. Expression: \"%s\"", err, occ.Expr),
				JSONPath: occ.JSONPath,
			})
			continue
		}

		if root, ok := expressions.ValidateNamespace(occ.Expr); !ok {
			if root == "" {
				root = "unknown"
			}
			findings = append(findings, Finding{
				Code:     CodeExprNamespace,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Illegal expression root namespace \"%s\". Allowed: %s.", root, strings.Join(constants.AllowedExpressionRoots, ", ")),
				JSONPath: occ.JSONPath,
			})
		}

		for _, ref := range ExtractOutputRefs(occ.Expr) {
			target, exists := byID[ref.StepID]
			if !exists {
				findings = append(findings, Finding{
					Code:     CodeOutputReferenceInvalid,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Expression references steps.%s.outputs.%s, but step '%s' does not exist.", ref.StepID, ref.Key, ref.StepID),
					JSONPath: occ.JSONPath,
				})
				continue
			}
			if _, declared := target.Outputs[ref.Key]; !declared {
				findings = append(findings, Finding{
					Code:     CodeOutputReferenceInvalid,
					Severity: SeverityError,
					Message:  fmt.Sprintf("Expression references steps.%s.outputs.%s, but step '%s' does not declare output '%s'.", ref.StepID, ref.Key, ref.StepID, ref.Key),
					JSONPath: occ.JSONPath,
				})
			}
		}
	}
	return findings
}
