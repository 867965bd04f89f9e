// Package definition loads and validates wire-format action definitions.
// Definitions arrive as JSON (or YAML) produced by a schema designer; they
// are validated against an embedded JSON Schema before unmarshalling so the
// engine never executes a structurally invalid action.
package definition

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/schemaui/actioneer/pkg/schema"
)

// actionSchemaJSON is the JSON Schema for ActionDef validation.
// Embedded as a constant to avoid filesystem dependencies.
const actionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://actioneer.dev/schemas/action.json",
  "$ref": "#/$defs/action",
  "$defs": {
    "action": {
      "type": "object",
      "properties": {
        "type": { "type": "string" },
        "condition": { "type": "string" },
        "disabled": { "type": ["boolean", "string"] },
        "confirmText": { "type": "string" },
        "confirm": {
          "type": "object",
          "required": ["message"],
          "properties": {
            "title": { "type": "string" },
            "message": { "type": "string", "minLength": 1 },
            "confirmText": { "type": "string" },
            "cancelText": { "type": "string" }
          },
          "additionalProperties": false
        },
        "onSuccess": { "$ref": "#/$defs/actionOrList" },
        "onFailure": { "$ref": "#/$defs/actionOrList" },
        "chain": {
          "type": "array",
          "items": { "$ref": "#/$defs/action" }
        },
        "chainMode": {
          "type": "string",
          "enum": ["sequential", "parallel"]
        },
        "successMessage": { "type": "string" },
        "errorMessage": { "type": "string" },
        "toast": {
          "type": "object",
          "properties": {
            "showOnSuccess": { "type": "boolean" },
            "showOnError": { "type": "boolean" },
            "duration": { "type": "integer", "minimum": 0 }
          },
          "additionalProperties": false
        },
        "refreshAfter": { "type": "boolean" },
        "params": { "type": "object" },
        "execute": { "type": "string" },
        "target": {},
        "navigate": {
          "type": "object",
          "required": ["to"],
          "properties": {
            "to": { "type": "string", "minLength": 1 },
            "replace": { "type": "boolean" }
          },
          "additionalProperties": false
        },
        "modal": {},
        "api": {
          "oneOf": [
            { "type": "string" },
            {
              "type": "object",
              "required": ["url"],
              "properties": {
                "url": { "type": "string", "minLength": 1 },
                "method": { "type": "string" },
                "headers": {
                  "type": "object",
                  "additionalProperties": { "type": "string" }
                },
                "body": {},
                "queryParams": {
                  "type": "object",
                  "additionalProperties": { "type": "string" }
                }
              },
              "additionalProperties": false
            }
          ]
        },
        "endpoint": { "type": "string" }
      },
      "additionalProperties": false
    },
    "actionOrList": {
      "oneOf": [
        { "$ref": "#/$defs/action" },
        {
          "type": "array",
          "items": { "$ref": "#/$defs/action" }
        }
      ]
    }
  }
}`

// Loader validates and unmarshals action definitions.
// It is safe for concurrent use.
type Loader struct {
	actionSchema *jsonschema.Schema
}

// NewLoader creates a Loader with the action schema pre-compiled.
func NewLoader() (*Loader, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(actionSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal action schema: %w", err)
	}
	if err := c.AddResource("https://actioneer.dev/schemas/action.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add action schema resource: %w", err)
	}

	compiled, err := c.Compile("https://actioneer.dev/schemas/action.json")
	if err != nil {
		return nil, fmt.Errorf("compile action schema: %w", err)
	}

	return &Loader{actionSchema: compiled}, nil
}

// LoadJSON validates raw JSON against the action schema and unmarshals it
// into an ActionDef.
func (l *Loader) LoadJSON(raw []byte) (*schema.ActionDef, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "action definition is not valid JSON").WithCause(err)
	}

	if err := l.actionSchema.Validate(doc); err != nil {
		return nil, toEngineError(err)
	}

	var def schema.ActionDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "failed to decode action definition").WithCause(err)
	}
	return &def, nil
}

// LoadYAML converts YAML to JSON and delegates to LoadJSON, so YAML and JSON
// definitions pass through identical validation.
func (l *Loader) LoadYAML(raw []byte) (*schema.ActionDef, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "action definition is not valid YAML").WithCause(err)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "failed to convert YAML definition").WithCause(err)
	}
	return l.LoadJSON(b)
}

// toEngineError converts a jsonschema.ValidationError into an EngineError
// with clear, actionable messages.
func toEngineError(err error) *schema.EngineError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeValidation, err.Error())
	}

	violations := collectViolations(verr)
	if len(violations) == 0 {
		return schema.NewError(schema.ErrCodeValidation, verr.Error())
	}

	if len(violations) == 1 {
		return schema.NewError(schema.ErrCodeValidation, violations[0]).
			WithDetails(map[string]any{"violations": violations})
	}

	msg := fmt.Sprintf("validation failed with %d errors", len(violations))
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"violations": violations})
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
