// This file provides permission enforcement for step capabilities.
//
// # Permission Model
//
// Documents declare what they may access under permissions:
//
//	permissions:
//	  connectors:
//	    - name: gmail
//	      scopes: [send_email]
//	  network:
//	    egress:
//	      allow: ["api.example.com", "*.googleapis.com"]
//	      deny: ["*.internal"]
//	  llm:
//	    allowedModels: [gpt-4o]
//
// Every capability resolved from the step registry must be granted:
//
//   - connector: an entry with the same name, holding the scope if one is
//     required
//   - network: an egress block; a resolved host matching a deny pattern is
//     denied, otherwise a non-empty allow list must match it
//   - llm: an llm block; a resolved model must be listed when allowedModels
//     is non-empty
//
// Egress patterns use '*' as the only wildcard and match the whole host,
// case-insensitively.
//
// Declared grants that no step uses are reported as W_PERMISSION_OVERBROAD.
// Hosts and models only known at run time never mark a grant as used.

package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
)

var permissionsLog = logger.New("validator:permissions")

type connectorGrant struct {
	Name   string
	Scopes []string
}

// declaredPermissions is the permissions block read from the document.
type declaredPermissions struct {
	Connectors []connectorGrant

	HasEgress   bool
	EgressAllow []string
	EgressDeny  []string

	HasLLM        bool
	AllowedModels []string
}

func readPermissions(doc map[string]any) declaredPermissions {
	perms := asMap(doc["permissions"])
	var p declaredPermissions

	for _, item := range asSlice(perms["connectors"]) {
		entry := asMap(item)
		grant := connectorGrant{Name: asString(entry["name"])}
		for _, scope := range asSlice(entry["scopes"]) {
			grant.Scopes = append(grant.Scopes, asString(scope))
		}
		p.Connectors = append(p.Connectors, grant)
	}

	if egress, ok := asMap(perms["network"])["egress"].(map[string]any); ok {
		p.HasEgress = true
		p.EgressAllow = stringList(egress["allow"])
		p.EgressDeny = stringList(egress["deny"])
	}

	if llm, ok := perms["llm"].(map[string]any); ok {
		p.HasLLM = true
		p.AllowedModels = stringList(llm["allowedModels"])
	}
	return p
}

func stringList(v any) []string {
	var out []string
	for _, item := range asSlice(v) {
		out = append(out, asString(item))
	}
	return out
}

// grantUsage records which declared grants some step relied on.
type grantUsage struct {
	connectors map[int]bool
	scopes     map[int]map[string]bool
	allow      map[int]bool
	models     map[int]bool
}

// CheckPermissions enforces the capabilities of every step against the
// document's permissions block and reports unused grants.
func CheckPermissions(doc map[string]any, reg registry.Registry) []Finding {
	caps := ResolveCapabilities(doc, reg)
	perms := readPermissions(doc)
	used := grantUsage{
		connectors: map[int]bool{},
		scopes:     map[int]map[string]bool{},
		allow:      map[int]bool{},
		models:     map[int]bool{},
	}

	var findings []Finding
	for _, c := range caps {
		var f *Finding
		switch c.Kind {
		case registry.CapabilityConnector:
			f = checkConnector(c, perms, used)
		case registry.CapabilityNetwork:
			f = checkNetwork(c, perms, used)
		case registry.CapabilityLLM:
			f = checkLLM(c, perms, used)
		}
		if f != nil {
			findings = append(findings, *f)
		}
	}

	findings = append(findings, overbroadFindings(perms, used)...)
	permissionsLog.Printf("Checked %d capabilities: %d findings", len(caps), len(findings))
	return findings
}

func checkConnector(c ResolvedCapability, perms declaredPermissions, used grantUsage) *Finding {
	nameFound := false
	for i, grant := range perms.Connectors {
		if grant.Name != c.Name {
			continue
		}
		nameFound = true
		used.connectors[i] = true
		if c.Scope == "" {
			return nil
		}
		if slices.Contains(grant.Scopes, c.Scope) {
			if used.scopes[i] == nil {
				used.scopes[i] = map[string]bool{}
			}
			used.scopes[i][c.Scope] = true
			return nil
		}
	}

	if !nameFound {
		return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' requires connector '%s', but permissions.connectors does not declare it.", c.StepID, c.Name))
	}
	return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' requires scope '%s' on connector '%s', but permissions.connectors does not grant it.", c.StepID, c.Scope, c.Name))
}

func checkNetwork(c ResolvedCapability, perms declaredPermissions, used grantUsage) *Finding {
	if !perms.HasEgress {
		return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' requires network egress, but permissions.network.egress is not declared.", c.StepID))
	}
	if c.Host == "" {
		return nil
	}

	for _, pattern := range perms.EgressDeny {
		if matchWildcard(pattern, c.Host) {
			return &Finding{
				Code:     CodePermissionDenied,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Step '%s' requires egress to '%s', which is denied by permissions.network.egress.deny pattern '%s'.", c.StepID, c.Host, pattern),
				JSONPath: stepPath(c.StepID),
			}
		}
	}

	if len(perms.EgressAllow) == 0 {
		return nil
	}
	allowed := false
	for i, pattern := range perms.EgressAllow {
		if matchWildcard(pattern, c.Host) {
			used.allow[i] = true
			allowed = true
		}
	}
	if !allowed {
		return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' requires egress to '%s', which is not matched by permissions.network.egress.allow.", c.StepID, c.Host))
	}
	return nil
}

func checkLLM(c ResolvedCapability, perms declaredPermissions, used grantUsage) *Finding {
	if !perms.HasLLM {
		return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' requires LLM access, but permissions.llm is not declared.", c.StepID))
	}
	if c.Model == "" || len(perms.AllowedModels) == 0 {
		return nil
	}
	i := slices.Index(perms.AllowedModels, c.Model)
	if i < 0 {
		return permissionMissing(c.StepID, fmt.Sprintf("Step '%s' uses model '%s', which is not listed in permissions.llm.allowedModels.", c.StepID, c.Model))
	}
	used.models[i] = true
	return nil
}

func permissionMissing(stepID, message string) *Finding {
	return &Finding{
		Code:     CodePermissionMissing,
		Severity: SeverityError,
		Message:  message,
		JSONPath: stepPath(stepID),
	}
}

func overbroadFindings(perms declaredPermissions, used grantUsage) []Finding {
	var findings []Finding
	overbroad := func(path, message string) {
		findings = append(findings, Finding{
			Code:     CodePermissionOverbroad,
			Severity: SeverityWarning,
			Message:  message,
			JSONPath: path,
		})
	}

	for i, grant := range perms.Connectors {
		if !used.connectors[i] {
			overbroad(fmt.Sprintf("$.permissions.connectors[%d]", i),
				fmt.Sprintf("Connector '%s' is declared but no step uses it.", grant.Name))
			continue
		}
		for j, scope := range grant.Scopes {
			if !used.scopes[i][scope] {
				overbroad(fmt.Sprintf("$.permissions.connectors[%d].scopes[%d]", i, j),
					fmt.Sprintf("Connector '%s' scope '%s' is declared but no step uses it.", grant.Name, scope))
			}
		}
	}
	for i, pattern := range perms.EgressAllow {
		if !used.allow[i] {
			overbroad(fmt.Sprintf("$.permissions.network.egress.allow[%d]", i),
				fmt.Sprintf("Egress allow pattern '%s' is declared but no step uses it.", pattern))
		}
	}
	for i, model := range perms.AllowedModels {
		if !used.models[i] {
			overbroad(fmt.Sprintf("$.permissions.llm.allowedModels[%d]", i),
				fmt.Sprintf("LLM model '%s' is allowed but no step uses it.", model))
		}
	}
	return findings
}

// matchWildcard matches value against pattern where '*' matches any run of
// characters. The match is anchored and case-insensitive.
func matchWildcard(pattern, value string) bool {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	re, err := regexp.Compile("(?i)^" + strings.Join(parts, ".*") + "$")
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
