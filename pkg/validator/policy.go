package validator

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

var policyLog = logger.New("validator:policy")

// PolicyPack decides which findings are reported and at what severity.
type PolicyPack struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	// Enabled disables a code when set to false. Missing codes are enabled.
	Enabled map[string]bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	// SeverityOverrides replaces the severity of a code.
	SeverityOverrides map[string]Severity `yaml:"severity_overrides,omitempty" json:"severityOverrides,omitempty"`
	// EscalateWarnings turns every warning into an error after overrides
	// have been applied. Packs named strict or ci always escalate.
	EscalateWarnings bool `yaml:"escalate_warnings,omitempty" json:"escalateWarnings,omitempty"`
}

var builtinPolicies = []PolicyPack{
	{
		Name:        string(constants.PolicyDefault),
		Description: "Default validation (errors fail, warnings pass).",
	},
	{
		Name:             string(constants.PolicyStrict),
		Description:      "Strict validation (warnings treated as errors).",
		EscalateWarnings: true,
	},
	{
		Name:        string(constants.PolicyRuntime),
		Description: "Fast preflight checks suitable for runtime admission control.",
		Enabled:     map[string]bool{CodeUnreachableStep: false},
	},
	{
		Name:             string(constants.PolicyCI),
		Description:      "CI policy: strict + governance checks (warnings escalated, pins enforced in CLI).",
		EscalateWarnings: true,
	},
}

// BuiltinPolicies returns copies of the built-in packs in registration order.
func BuiltinPolicies() []PolicyPack {
	out := make([]PolicyPack, len(builtinPolicies))
	for i, p := range builtinPolicies {
		out[i] = p.clone()
	}
	return out
}

// escalates reports whether warnings become errors under p.
func (p PolicyPack) escalates() bool {
	switch constants.PolicyName(p.Name) {
	case constants.PolicyStrict, constants.PolicyCI:
		return true
	}
	return p.EscalateWarnings
}

func (p PolicyPack) clone() PolicyPack {
	p.Enabled = maps.Clone(p.Enabled)
	p.SeverityOverrides = maps.Clone(p.SeverityOverrides)
	return p
}

// PolicyRegistry holds the packs a policy name can select. It starts with the
// built-ins; additional packs are added with Register. Built-in names cannot
// be replaced.
type PolicyRegistry struct {
	mu       sync.RWMutex
	packs    map[string]PolicyPack
	readOnly bool
}

// NewPolicyRegistry returns a registry containing the built-in packs.
func NewPolicyRegistry() *PolicyRegistry {
	r := &PolicyRegistry{packs: make(map[string]PolicyPack, len(builtinPolicies))}
	for _, p := range builtinPolicies {
		r.packs[p.Name] = p.clone()
	}
	return r
}

var defaultPolicies = func() *PolicyRegistry {
	r := NewPolicyRegistry()
	r.readOnly = true
	return r
}()

// ErrPolicyRegistryReadOnly is returned by Register on DefaultPolicies.
var ErrPolicyRegistryReadOnly = errors.New("the default policy registry is read-only; use NewPolicyRegistry to add packs")

// DefaultPolicies is the process-wide registry holding only the built-ins.
// It is used when no registry is supplied and rejects Register.
func DefaultPolicies() *PolicyRegistry {
	return defaultPolicies
}

// Register adds pack. The stored pack is a copy, so later changes to the
// caller's maps have no effect.
func (r *PolicyRegistry) Register(pack PolicyPack) error {
	if r.readOnly {
		return ErrPolicyRegistryReadOnly
	}
	if pack.Name == "" {
		return errors.New("policy pack name is required")
	}
	for code, sev := range pack.SeverityOverrides {
		if !sev.IsValid() {
			return fmt.Errorf("policy %q: severity override for %s must be error or warning, got %q", pack.Name, code, sev)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.packs[pack.Name]; exists {
		if constants.PolicyName(pack.Name).IsBuiltin() {
			return fmt.Errorf("policy %q is built in and cannot be redefined", pack.Name)
		}
		return fmt.Errorf("policy %q is already registered", pack.Name)
	}
	r.packs[pack.Name] = pack.clone()
	policyLog.Printf("Registered policy pack %q", pack.Name)
	return nil
}

// Lookup returns the pack registered under name.
func (r *PolicyRegistry) Lookup(name string) (PolicyPack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.packs[name]
	if !ok {
		return PolicyPack{}, false
	}
	return p.clone(), true
}

// Resolve returns the pack for name, falling back to the default pack for
// empty or unknown names.
func (r *PolicyRegistry) Resolve(name string) PolicyPack {
	if p, ok := r.Lookup(name); ok {
		return p
	}
	if name != "" {
		policyLog.Printf("Unknown policy %q, falling back to %s", name, constants.PolicyDefault)
	}
	p, _ := r.Lookup(string(constants.PolicyDefault))
	return p
}

// Names returns the registered pack names in sorted order.
func (r *PolicyRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sliceutil.SortedKeys(r.packs)
}

// ApplyPolicy filters and re-grades findings under pack. Disabled codes are
// dropped. The severity is the pack override if any, otherwise the finding's
// own severity, otherwise the catalog default, otherwise error. Under strict,
// ci or any pack with EscalateWarnings, a resulting warning becomes an error.
func ApplyPolicy(findings []Finding, pack PolicyPack) []Finding {
	out := make([]Finding, 0, len(findings))
	dropped := 0
	for _, f := range findings {
		if enabled, ok := pack.Enabled[f.Code]; ok && !enabled {
			dropped++
			continue
		}
		f.Severity = effectiveSeverity(f, pack)
		out = append(out, f)
	}
	policyLog.Printf("Applied policy %q: kept=%d dropped=%d", pack.Name, len(out), dropped)
	return out
}

func effectiveSeverity(f Finding, pack PolicyPack) Severity {
	sev, ok := pack.SeverityOverrides[f.Code]
	if !ok {
		sev = f.Severity
	}
	if sev == "" {
		if meta, known := rules[f.Code]; known {
			sev = meta.DefaultSeverity
		}
	}
	if sev == "" {
		sev = SeverityError
	}
	if sev == SeverityWarning && pack.escalates() {
		sev = SeverityError
	}
	return sev
}
