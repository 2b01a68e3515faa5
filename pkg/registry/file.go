package registry

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/goccy/go-yaml"
)

var fileLog = logger.New("registry:file")

// stepTypePattern is the dotted-namespace form every step type must have.
var stepTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)+$`)

// registryFile is the on-disk format of a step registry. JSON is accepted as
// well since it is valid YAML.
//
//	step_types:
//	  - type: acme.crm.lookup
//	    title: CRM lookup
//	    params_schema: {type: object, required: [query]}
//	    outputs_schema: {type: object}
//	    capabilities:
//	      - kind: network
//	        name: crm
//	        detail: {hostFromParam: url}
type registryFile struct {
	StepTypes []fileStepType `yaml:"step_types"`
}

type fileStepType struct {
	Type          string               `yaml:"type"`
	Title         string               `yaml:"title"`
	Description   string               `yaml:"description"`
	ParamsSchema  map[string]any       `yaml:"params_schema"`
	OutputsSchema map[string]any       `yaml:"outputs_schema"`
	Capabilities  []RequiredCapability `yaml:"capabilities"`
}

// LoadFile reads a registry file from disk.
func LoadFile(path string) (Registry, error) {
	fileLog.Printf("Loading step registry from %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	reg, err := Parse(content, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a registry document and compiles its schemas. source is
// recorded on every definition and used in schema resource names.
func Parse(content []byte, source string) (Registry, error) {
	var file registryFile
	if err := yaml.UnmarshalWithOptions(content, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	reg := make(Registry, len(file.StepTypes))
	var errs []error
	for i, entry := range file.StepTypes {
		def, err := entry.compile(source)
		if err != nil {
			errs = append(errs, fmt.Errorf("step_types[%d]: %w", i, err))
			continue
		}
		if _, exists := reg[def.Type]; exists {
			errs = append(errs, fmt.Errorf("step_types[%d]: duplicate step type %q", i, def.Type))
			continue
		}
		reg[def.Type] = def
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	fileLog.Printf("Parsed %d step types from %s", len(reg), source)
	return reg, nil
}

func (e fileStepType) compile(source string) (*StepTypeDef, error) {
	if !stepTypePattern.MatchString(e.Type) {
		return nil, fmt.Errorf("invalid step type %q: expected dotted lowercase name like 'llm.prompt'", e.Type)
	}
	if e.ParamsSchema == nil {
		return nil, fmt.Errorf("step type %q: params_schema is required", e.Type)
	}
	for j, c := range e.Capabilities {
		if !c.Kind.IsValid() {
			return nil, fmt.Errorf("step type %q: capabilities[%d]: unknown kind %q (expected network, connector or llm)", e.Type, j, c.Kind)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("step type %q: capabilities[%d]: name is required", e.Type, j)
		}
	}

	params, err := CompileSchema(schemaResourceName(e.Type, "params"), e.ParamsSchema)
	if err != nil {
		return nil, err
	}
	def := &StepTypeDef{
		Type:         e.Type,
		Title:        e.Title,
		Description:  e.Description,
		Params:       params,
		Capabilities: e.Capabilities,
		Source:       source,
	}
	if e.OutputsSchema != nil {
		outputs, err := CompileSchema(schemaResourceName(e.Type, "outputs"), e.OutputsSchema)
		if err != nil {
			return nil, err
		}
		def.Outputs = outputs
	}
	return def, nil
}

// schemaResourceName names a schema resource. Every schema gets its own
// compiler so names only need to be unique within one definition.
func schemaResourceName(stepType, kind string) string {
	return fmt.Sprintf("%s.%s.json", stepType, kind)
}
