package registry

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaValidatorLog = logger.New("registry:jsonschema_validator")

var messagePrinter = message.NewPrinter(language.English)

// JSONSchemaValidator is a Validator backed by a compiled JSON Schema.
type JSONSchemaValidator struct {
	name   string
	schema *jsonschema.Schema
}

// CompileSchema compiles doc (a decoded JSON Schema document) under the
// resource name name. doc may come from any decoder; it is normalised to
// plain JSON values first.
func CompileSchema(name string, doc any) (*JSONSchemaValidator, error) {
	normalized, err := toJSONValue(doc)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, normalized); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	sch, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	schemaValidatorLog.Printf("Compiled schema %s", name)
	return &JSONSchemaValidator{name: name, schema: sch}, nil
}

// Name returns the resource name the schema was compiled under.
func (v *JSONSchemaValidator) Name() string {
	return v.name
}

// Validate checks value against the schema. Schema violations become field
// errors; anything else (for example a value that cannot be represented as
// JSON) is returned as an error.
func (v *JSONSchemaValidator) Validate(value any) ([]FieldError, error) {
	instance, err := toJSONValue(value)
	if err != nil {
		return nil, fmt.Errorf("validator %s: %w", v.name, err)
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return nil, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validator %s: %w", v.name, err)
	}

	var fieldErrors []FieldError
	for _, cause := range flattenValidationErrors(ve) {
		path := ""
		if len(cause.InstanceLocation) > 0 {
			path = "/" + strings.Join(cause.InstanceLocation, "/")
		}
		fieldErrors = append(fieldErrors, FieldError{
			Path:    path,
			Message: cause.ErrorKind.LocalizedString(messagePrinter),
		})
	}
	// Causes come from map iteration inside the schema library.
	slices.SortStableFunc(fieldErrors, func(a, b FieldError) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Message, b.Message))
	})
	schemaValidatorLog.Printf("Validator %s reported %d field errors", v.name, len(fieldErrors))
	return fieldErrors, nil
}

// flattenValidationErrors recursively collects the leaf validation errors.
func flattenValidationErrors(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var flat []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// toJSONValue converts v to the value shapes the schema library expects
// (maps, slices, strings, bools, json.Number) by round-tripping through JSON.
// YAML decoders produce native integer types which this also normalises.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not representable as JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
