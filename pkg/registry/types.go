// Package registry defines step types: the params and outputs validators and
// the capabilities each step type requires. The validator core only ever sees
// a finished Registry; how it was assembled (built-ins, plugin files, merges)
// is decided here and in the CLI.
package registry

import (
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
)

// FieldError is one field-level validation failure reported by a Validator.
// Path is a JSON pointer relative to the validated value ("" for the value
// itself).
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validator checks a params or outputs value. A nil error with no field errors
// means the value is valid. A non-nil error means the validator itself failed
// and is propagated to the caller of the validation pipeline.
type Validator interface {
	Validate(value any) ([]FieldError, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(value any) ([]FieldError, error)

func (f ValidatorFunc) Validate(value any) ([]FieldError, error) {
	return f(value)
}

// CapabilityKind is the resource class a capability grants access to.
type CapabilityKind string

const (
	CapabilityNetwork   CapabilityKind = "network"
	CapabilityConnector CapabilityKind = "connector"
	CapabilityLLM       CapabilityKind = "llm"
)

// IsValid reports whether k is one of the known kinds.
func (k CapabilityKind) IsValid() bool {
	switch k {
	case CapabilityNetwork, CapabilityConnector, CapabilityLLM:
		return true
	}
	return false
}

// CapabilityDetail names the step params that carry the concrete resource.
type CapabilityDetail struct {
	// HostFromParam names a param holding a URL or bare hostname.
	HostFromParam string `yaml:"hostFromParam,omitempty" json:"hostFromParam,omitempty"`
	// ModelFromParam names a param holding an LLM model name.
	ModelFromParam string `yaml:"modelFromParam,omitempty" json:"modelFromParam,omitempty"`
}

// RequiredCapability is a resource requirement declared by a step type.
type RequiredCapability struct {
	Kind   CapabilityKind    `yaml:"kind" json:"kind"`
	Name   string            `yaml:"name" json:"name"`
	Scope  string            `yaml:"scope,omitempty" json:"scope,omitempty"`
	Detail *CapabilityDetail `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// StepTypeDef describes one step type.
type StepTypeDef struct {
	Type        string
	Title       string
	Description string
	// Params validates step.params. Required.
	Params Validator
	// Outputs validates the step.outputs declaration. Optional.
	Outputs      Validator
	Capabilities []RequiredCapability
	// Source is the file the definition was loaded from, or "builtin".
	Source string
}

// Registry maps step type names to their definitions. Treat a Registry as
// immutable once it has been handed to the validator.
type Registry map[string]*StepTypeDef

// Lookup returns the definition for stepType.
func (r Registry) Lookup(stepType string) (*StepTypeDef, bool) {
	def, ok := r[stepType]
	return def, ok
}

// Types returns the registered step type names in sorted order.
func (r Registry) Types() []string {
	return sliceutil.SortedKeys(r)
}

// Clone returns a shallow copy of r. Definitions are shared.
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for _, t := range r.Types() {
		out[t] = r[t]
	}
	return out
}
