package services

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"alfredoptarigan/resume-parser/internal/apperrors"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	SchemaParsedResume = "parsed_resume"
	SchemaJobMatch     = "job_match"
	SchemaATSScore     = "ats_score"
)

// PayloadValidator checks decoded records against the published schemas.
type PayloadValidator struct {
	schemas map[string]*jsonschema.Schema
}

func NewPayloadValidator() (*PayloadValidator, error) {
	compiler := jsonschema.NewCompiler()
	names := []string{SchemaParsedResume, SchemaJobMatch, SchemaATSScore}

	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name+".json", bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	v := &PayloadValidator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		schema, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}

	return v, nil
}

// MustPayloadValidator panics if the embedded schemas do not compile.
func MustPayloadValidator() *PayloadValidator {
	v, err := NewPayloadValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks record (any JSON-marshalable value) against a schema.
func (p *PayloadValidator) Validate(schemaName string, record interface{}) error {
	schema, ok := p.schemas[schemaName]
	if !ok {
		return apperrors.NewInternalError("unknown schema "+schemaName, nil)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewInternalError("failed to encode record for validation", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.NewInternalError("failed to decode record for validation", err)
	}

	if err := schema.Validate(doc); err != nil {
		return apperrors.NewMalformedResponse(schemaName+" does not match schema", err)
	}
	return nil
}

// decodeRecord copies a recovered JSON object into target, smoothing over
// the type slips models make (see coerce). Unknown keys are dropped.
func decodeRecord(obj map[string]interface{}, target interface{}) error {
	coerced := coerce(obj, reflect.TypeOf(target))

	raw, err := json.Marshal(coerced)
	if err != nil {
		return apperrors.NewMalformedResponse("failed to re-encode recovered record", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return apperrors.NewMalformedResponse("recovered record has unexpected field types", err)
	}
	return nil
}

// requireScores fails when any of keys is absent or null in obj. Nested
// keys are written "parent.child". Zero is a real score; a missing one is
// not, so it must not be filled in silently.
func requireScores(obj map[string]interface{}, keys []string) error {
	var missing []string
	for _, key := range keys {
		var cur interface{} = obj
		for _, part := range strings.Split(key, ".") {
			m, ok := cur.(map[string]interface{})
			if !ok {
				cur = nil
				break
			}
			cur = m[part]
		}
		if cur == nil {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return apperrors.NewMalformedResponse(
			fmt.Sprintf("model response is missing scores: %s", strings.Join(missing, ", ")), nil).
			WithDetail("missing", missing)
	}
	return nil
}

// scoreKeys lists the JSON names of a category record's fields under prefix.
func scoreKeys(prefix string, record interface{}) []string {
	t := reflect.TypeOf(record)
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonFieldName(t.Field(i)); name != "" {
			keys = append(keys, prefix+"."+name)
		}
	}
	return keys
}

// coerce walks v alongside t and rewrites values the model commonly gets
// wrong: null anywhere, numbers or booleans where text is expected, numeric
// strings where a score is expected, a lone value where a list is expected.
func coerce(v interface{}, t reflect.Type) interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return coerceString(v)

	case reflect.Float32, reflect.Float64:
		switch x := v.(type) {
		case nil:
			return 0.0
		case string:
			s := strings.TrimSuffix(strings.TrimSpace(x), "%")
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
		return v

	case reflect.Slice:
		elem := t.Elem()
		for elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		records := elem.Kind() == reflect.Struct

		switch x := v.(type) {
		case []interface{}:
			out := make([]interface{}, 0, len(x))
			for _, item := range x {
				if _, isMap := item.(map[string]interface{}); records && !isMap {
					continue
				}
				out = append(out, coerce(item, elem))
			}
			return out
		case map[string]interface{}:
			return []interface{}{coerce(x, elem)}
		case string:
			if records || strings.TrimSpace(x) == "" {
				return []interface{}{}
			}
			return []interface{}{coerce(x, elem)}
		case float64, bool:
			if records {
				return []interface{}{}
			}
			return []interface{}{coerce(x, elem)}
		}
		return []interface{}{}

	case reflect.Struct:
		// "N/A", a list or any other non-object leaves the record empty.
		m, ok := v.(map[string]interface{})
		if !ok {
			return map[string]interface{}{}
		}
		out := make(map[string]interface{}, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := jsonFieldName(f)
			if name == "" {
				continue
			}
			if val, ok := m[name]; ok {
				out[name] = coerce(val, f.Type)
			}
		}
		return out
	}

	return v
}

func coerceString(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := coerceString(item).(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		return ""
	}
	return v
}

func jsonFieldName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}
