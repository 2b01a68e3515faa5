package validator

import (
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
)

var validateLog = logger.New("validator:validate")

// StructuralCheck validates the shape of a document before any other stage.
// When ok is false the remaining stages are skipped.
type StructuralCheck func(doc map[string]any) (findings []Finding, ok bool)

// Options configures ValidateAll.
type Options struct {
	// Registry supplies step types. Nil uses the built-in registry.
	Registry registry.Registry
	// Policy names the pack to apply. Empty or unknown names use default.
	Policy string
	// Policies resolves Policy. Nil uses the built-in packs only.
	Policies *PolicyRegistry
	// Structural runs first when set.
	Structural StructuralCheck
}

// ValidateAll runs the whole pipeline over doc: structural check, semantic
// checks, static analysis, lint and secret scan, permission checks, then the
// policy. Findings from every stage are returned together in that order.
//
// The returned error is non-nil only for internal faults such as a registry
// validator that fails; findings are never returned as errors.
func ValidateAll(doc map[string]any, opts Options) ([]Finding, error) {
	policies := opts.Policies
	if policies == nil {
		policies = DefaultPolicies()
	}
	pack := policies.Resolve(opts.Policy)

	reg := opts.Registry
	if reg == nil {
		builtin, err := registry.Builtin()
		if err != nil {
			return nil, err
		}
		reg = builtin
	}

	var findings []Finding

	if opts.Structural != nil {
		structural, ok := opts.Structural(doc)
		findings = append(findings, structural...)
		if !ok {
			validateLog.Printf("Structural check failed with %d findings, skipping later stages", len(structural))
			return ApplyPolicy(findings, pack), nil
		}
	}

	semantic, err := ValidateSemantic(doc, reg)
	if err != nil {
		return nil, err
	}
	findings = append(findings, semantic...)
	findings = append(findings, AnalyzeStatic(doc)...)
	findings = append(findings, LintAgent(doc)...)
	findings = append(findings, ScanSecrets(doc)...)
	findings = append(findings, CheckPermissions(doc, reg)...)

	validateLog.Printf("Pipeline produced %d raw findings, applying policy %q", len(findings), pack.Name)
	return ApplyPolicy(findings, pack), nil
}
