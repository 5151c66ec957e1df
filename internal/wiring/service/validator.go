package service

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	EntityDevice        = "device"
	EntityDeviceIO      = "device_io"
	EntityDiagram       = "diagram"
	EntityDiagramDevice = "diagram_device"
	EntityConnection    = "connection"
)

// Validator checks create payloads against the embedded JSON schemas. The
// schemas only assert that required fields are present and non-null.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	names := []string{EntityDevice, EntityDeviceIO, EntityDiagram, EntityDiagramDevice, EntityConnection}

	for _, name := range names {
		data, err := schemaFS.ReadFile("schema/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s schema: %w", name, err)
		}
		if err := compiler.AddResource(name+".json", strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("failed to add schema resource: %w", err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		schemas[name] = schema
	}

	return &Validator{schemas: schemas}, nil
}

// Validate marshals input and checks it against the schema for entity.
func (v *Validator) Validate(entity string, input interface{}) error {
	schema, ok := v.schemas[entity]
	if !ok {
		return fmt.Errorf("no schema for %s", entity)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", entity, err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Entity: entity, Fields: leafMessages(ve), Err: err}
		}
		return &ValidationError{Entity: entity, Err: err}
	}
	return nil
}

// leafMessages flattens a validation error tree into its most specific causes.
func leafMessages(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			msg := e.Message
			if e.InstanceLocation != "" {
				msg = strings.TrimPrefix(e.InstanceLocation, "/") + ": " + msg
			}
			out = append(out, msg)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}
