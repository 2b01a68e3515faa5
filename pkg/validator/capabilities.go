package validator

import (
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/stringutil"
)

var capabilitiesLog = logger.New("validator:capabilities")

// ResolvedCapability is a capability required by one step, with the concrete
// host or model filled in when the step's params name one.
type ResolvedCapability struct {
	StepID string
	registry.RequiredCapability
	// Host is set for network capabilities whose detail names a host param.
	Host string
	// Model is set for llm capabilities whose detail names a model param.
	Model string
}

// ResolveCapabilities lists the capabilities every step needs, in step order.
// Steps whose type is not in reg contribute nothing. Params holding a
// template are left unresolved since their value is only known at run time.
func ResolveCapabilities(doc map[string]any, reg registry.Registry) []ResolvedCapability {
	var out []ResolvedCapability
	for _, s := range stepsOf(doc) {
		def, ok := reg.Lookup(s.Type)
		if !ok {
			continue
		}
		for _, c := range def.Capabilities {
			rc := ResolvedCapability{StepID: s.ID, RequiredCapability: c}
			if c.Detail != nil {
				if c.Detail.HostFromParam != "" {
					if raw, ok := staticParam(s, c.Detail.HostFromParam); ok {
						rc.Host = stringutil.ExtractHost(raw)
					}
				}
				if c.Detail.ModelFromParam != "" {
					if raw, ok := staticParam(s, c.Detail.ModelFromParam); ok {
						rc.Model = raw
					}
				}
			}
			out = append(out, rc)
		}
	}
	capabilitiesLog.Printf("Resolved %d capabilities", len(out))
	return out
}

func staticParam(s stepView, name string) (string, bool) {
	v, ok := nonEmptyString(s.Params[name])
	if !ok || strings.Contains(v, "{{") {
		return "", false
	}
	return strings.TrimSpace(v), true
}
