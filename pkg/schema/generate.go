// This file provides JSON Schema generation for agent definitions.
//
// # Generation
//
// The base schema is inferred from AgentDefinition with
// github.com/google/jsonschema-go. Inference captures field names, types,
// required fields and descriptions. Generate then applies the constraints
// that have no struct tag equivalent:
//   - semver patterns on schema_version and template_version
//   - identifier patterns on step ids, step types and the entrypoint
//   - a single allowed kind and at least one step
//   - per trigger type config shapes, expressed as if/then branches so a
//     failure only reports the branch for the trigger's own type
//
// Objects derived from structs are closed (additionalProperties: false);
// free-form maps such as params and metadata stay open.

package schema

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/agentkit-dev/agentkit/pkg/constants"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/google/jsonschema-go/jsonschema"
)

var generateLog = logger.New("schema:generate")

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

const (
	semverPattern   = `^\d+\.\d+\.\d+$`
	stepIDPattern   = `^[a-zA-Z][a-zA-Z0-9_-]*$`
	stepTypePattern = `^[a-z][a-z0-9_]*(\.[a-z0-9_]+)+$`
)

var webhookAuthModes = []any{"none", "workspace", "shared_secret"}

// Generate returns the JSON Schema for agent definitions.
func Generate() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[AgentDefinition](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer agent definition schema: %w", err)
	}
	normalize(s)

	s.Schema = draft202012
	s.Title = "Agent Definition"

	props := s.Properties
	props["schema_version"].Pattern = semverPattern
	props["template_version"].Pattern = semverPattern
	props["kind"].Enum = []any{constants.AgentDefinitionKind}
	requireNonEmpty(props["id"], props["name"])

	props["flow"].Properties["entrypoint"].Pattern = stepIDPattern

	steps := props["steps"]
	steps.MinItems = intPtr(1)
	stepProps := steps.Items.Properties
	stepProps["id"].Pattern = stepIDPattern
	stepProps["type"].Pattern = stepTypePattern

	if err := tightenTrigger(props["trigger"]); err != nil {
		return nil, err
	}

	generateLog.Printf("Generated agent definition schema with %d top-level properties", len(props))
	return s, nil
}

// GenerateJSON returns the schema as indented JSON.
func GenerateJSON() ([]byte, error) {
	s, err := Generate()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent definition schema: %w", err)
	}
	return append(data, '\n'), nil
}

func tightenTrigger(trigger *jsonschema.Schema) error {
	trigger.Properties["type"].Enum = toAny(constants.TriggerTypes)

	schedule, err := configSchema[ScheduleConfig]("cron")
	if err != nil {
		return err
	}
	webhook, err := configSchema[WebhookConfig]("path")
	if err != nil {
		return err
	}
	webhook.Properties["auth"].Enum = webhookAuthModes
	event, err := configSchema[EventConfig]("source", "event_type", "resource")
	if err != nil {
		return err
	}

	variants := []struct {
		triggerType string
		config      *jsonschema.Schema
	}{
		{"manual", nil},
		{"schedule", schedule},
		{"webhook", webhook},
		{"event", event},
	}
	for _, v := range variants {
		then := &jsonschema.Schema{}
		if v.config != nil {
			then.Properties = map[string]*jsonschema.Schema{"config": v.config}
			then.Required = []string{"config"}
		}
		trigger.AllOf = append(trigger.AllOf, &jsonschema.Schema{
			If: &jsonschema.Schema{
				Properties: map[string]*jsonschema.Schema{"type": {Enum: []any{v.triggerType}}},
				Required:   []string{"type"},
			},
			Then: then,
		})
	}
	return nil
}

// configSchema infers the schema for a trigger config type and requires the
// named string fields to be non-empty.
func configSchema[T any](nonEmpty ...string) (*jsonschema.Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer trigger config schema: %w", err)
	}
	normalize(s)
	for _, name := range nonEmpty {
		requireNonEmpty(s.Properties[name])
	}
	return s, nil
}

// normalize collapses nullable types to their non-null type and closes every
// object that has declared properties.
func normalize(s *jsonschema.Schema) {
	if s == nil {
		return
	}
	if len(s.Types) == 2 && slices.Contains(s.Types, "null") {
		for _, t := range s.Types {
			if t != "null" {
				s.Type = t
			}
		}
		s.Types = nil
	}
	if s.Properties != nil {
		s.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
		for _, prop := range s.Properties {
			normalize(prop)
		}
	}
	normalize(s.Items)
}

func requireNonEmpty(schemas ...*jsonschema.Schema) {
	for _, s := range schemas {
		s.MinLength = intPtr(1)
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func intPtr(n int) *int {
	return &n
}
