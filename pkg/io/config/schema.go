package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/devantler-tech/azdhooks/pkg/apis/lifecycle"
	"github.com/invopop/jsonschema"
)

// durationPattern matches the strings accepted by time.ParseDuration.
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// LogLevels lists the documented values of log.level.
func LogLevels() []string {
	return []string{"debug", "info", "warning", "error"}
}

// JSONSchema describes the azdhooks.yaml file format.
func JSONSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
		Mapper:                    schemaTypeMapper,
	}

	schema := reflector.Reflect(&Config{})

	customizeSchema(schema)

	return schema
}

// MarshalSchema renders JSONSchema as indented JSON.
func MarshalSchema() ([]byte, error) {
	data, err := json.MarshalIndent(JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// customizeSchema applies all schema customizations.
func customizeSchema(schema *jsonschema.Schema) {
	schema.ID = ""
	schema.Title = "azdhooks configuration"
	schema.Description = "JSON schema for azdhooks configuration (" + FileName + ".yaml)"

	// Every section is optional.
	walkSchema(schema, func(s *jsonschema.Schema) {
		s.Required = nil
	})

	if level := property(schema, "log", "level"); level != nil {
		level.Enum = stringsToAny(LogLevels())
	}

	if color := property(schema, "log", "color"); color != nil {
		color.Enum = []any{ColorAuto, ColorAlways, ColorNever}
	}

	if hooks := property(schema, "hooks"); hooks != nil {
		hooks.PropertyNames = &jsonschema.Schema{Type: "string", Enum: stringsToAny(phaseKeys())}
	}
}

// walkSchema traverses the schema tree and calls fn on each node.
func walkSchema(schema *jsonschema.Schema, fn func(*jsonschema.Schema)) {
	if schema == nil {
		return
	}

	fn(schema)

	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			walkSchema(pair.Value, fn)
		}
	}

	if schema.Items != nil {
		walkSchema(schema.Items, fn)
	}

	if schema.AdditionalProperties != nil {
		walkSchema(schema.AdditionalProperties, fn)
	}
}

// property follows path through nested object properties.
func property(schema *jsonschema.Schema, path ...string) *jsonschema.Schema {
	current := schema

	for _, name := range path {
		if current == nil || current.Properties == nil {
			return nil
		}

		next, ok := current.Properties.Get(name)
		if !ok {
			return nil
		}

		current = next
	}

	return current
}

func schemaTypeMapper(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: durationPattern,
		}
	}

	return nil
}

// phaseKeys returns the accepted spellings of every phase under hooks.
func phaseKeys() []string {
	keys := make([]string, 0, 2*len(lifecycle.Phases()))

	for _, phase := range lifecycle.Phases() {
		keys = append(keys, string(phase), strings.ToLower(phase.Title()))
	}

	return keys
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
