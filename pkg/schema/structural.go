// This file provides the structural pre-check.
//
// # Structural Check
//
// Check validates a decoded document against the generated schema and then
// gates on schema_version. It is the first stage of the validation pipeline
// and matches validator.StructuralCheck, so a failing document never reaches
// the semantic or static stages.
//
// Shape failures are reported as a single E_SCHEMA_INVALID finding at "$"
// whose message joins every violation as "path: message" with "; ". Paths
// are dotted (steps.0.id) and "$" stands for the document root.

package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/registry"
	"github.com/agentkit-dev/agentkit/pkg/validator"
	"golang.org/x/mod/semver"
)

var structuralLog = logger.New("schema:structural")

const resourceName = "agent-definition.schema.json"

var _ validator.StructuralCheck = Check

var compiled = sync.OnceValues(func() (*registry.JSONSchemaValidator, error) {
	s, err := Generate()
	if err != nil {
		return nil, err
	}
	return registry.CompileSchema(resourceName, s)
})

// Check runs the structural pre-check over doc. ok is false when doc has the
// wrong shape or an unsupported schema_version.
func Check(doc map[string]any) ([]validator.Finding, bool) {
	v, err := compiled()
	if err != nil {
		// The schema is generated from package types; failing here is a
		// programming error.
		panic(fmt.Sprintf("agent definition schema: %v", err))
	}

	fieldErrors, err := v.Validate(doc)
	if err != nil {
		structuralLog.Printf("Document could not be validated: %v", err)
		return []validator.Finding{schemaInvalid("$: " + err.Error())}, false
	}
	if len(fieldErrors) > 0 {
		parts := make([]string, len(fieldErrors))
		for i, fe := range fieldErrors {
			parts[i] = dottedPath(fe.Path) + ": " + fe.Message
		}
		structuralLog.Printf("Document failed schema validation with %d violations", len(fieldErrors))
		return []validator.Finding{schemaInvalid(strings.Join(parts, "; "))}, false
	}

	version, _ := doc["schema_version"].(string)
	if !IsSupportedVersion(version) {
		structuralLog.Printf("Unsupported schema_version %q", version)
		return []validator.Finding{{
			Code:     validator.CodeSchemaVersionUnsupported,
			Severity: validator.SeverityError,
			Message:  fmt.Sprintf("Unsupported schema_version: %s. Supported: %s", version, supportedList()),
			JSONPath: "$.schema_version",
		}}, false
	}

	return nil, true
}

// IsSupportedVersion reports whether version (X.Y.Z, without a leading v) is
// one of constants.SupportedSchemaVersions.
func IsSupportedVersion(version string) bool {
	if version == "" || strings.HasPrefix(version, "v") {
		return false
	}
	v := "v" + version
	// semver accepts "v1" and "v1.0" as shorthand for v1.0.0.
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return false
	}
	for _, supported := range constants.SupportedSchemaVersions {
		if semver.Compare(v, "v"+supported.String()) == 0 {
			return true
		}
	}
	return false
}

func supportedList() string {
	names := make([]string, len(constants.SupportedSchemaVersions))
	for i, v := range constants.SupportedSchemaVersions {
		names[i] = v.String()
	}
	return strings.Join(names, ", ")
}

func schemaInvalid(message string) validator.Finding {
	return validator.Finding{
		Code:     validator.CodeSchemaInvalid,
		Severity: validator.SeverityError,
		Message:  message,
		JSONPath: "$",
	}
}

// dottedPath turns a JSON pointer style path into the dotted form.
func dottedPath(pointer string) string {
	p := strings.TrimPrefix(pointer, "/")
	if p == "" {
		return "$"
	}
	return strings.ReplaceAll(p, "/", ".")
}
