package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateDocument validates doc against schema. Both may be raw JSON bytes
// or any value that marshals to JSON. A document that does not match is
// reported as a ValidationError; other failures (bad JSON, bad schema) are
// returned as plain errors.
func ValidateDocument(schema, doc any) error {
	schemaBytes, err := toJSON(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	docBytes, err := toJSON(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(docBytes),
	)
	if err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return verr
}

func toJSON(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	return json.Marshal(v)
}
