package compiler

import (
	"fmt"
	"strings"

	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/vocabulary/shacl"
	"github.com/c360studio/semcred/vocabulary/xsd"
)

// DefaultSchemaBase prefixes the $id of emitted schemas.
const DefaultSchemaBase = "https://github.com/jgmikael/trade-automation"

// Schema is a JSON Schema document.
type Schema map[string]any

// SchemaOptions controls schema identifiers.
type SchemaOptions struct {
	// SchemaBase is the URI prefix of schema $id values.
	SchemaBase string
}

func (o SchemaOptions) base() string {
	if o.SchemaBase == "" {
		return DefaultSchemaBase
	}
	return strings.TrimRight(o.SchemaBase, "/")
}

// SchemaID returns the $id of the VC JSON Schema for a shape.
func (o SchemaOptions) SchemaID(shapeName string) string {
	return fmt.Sprintf("%s/credentials/%s-schema.json", o.base(), naming.FileStem(shapeName))
}

var uriString = map[string]any{"type": "string", "format": "uri"}

// EmitJSONSchema builds the draft-07 schema of a Verifiable Credential whose
// subject is an instance of the shape's target class.
func EmitJSONSchema(rs *shape.ResolvedShape, opts SchemaOptions) Schema {
	label := rs.Shape.Label
	return Schema{
		"$schema":     shacl.JSONSchemaDraft07,
		"$id":         opts.SchemaID(rs.Shape.Name),
		"title":       label + " Verifiable Credential",
		"description": "W3C Verifiable Credential schema for KTDDE " + label,
		"type":        "object",
		"required":    []string{"@context", "type", "issuer", "issuanceDate", "credentialSubject"},
		"properties": map[string]any{
			"@context": map[string]any{
				"type": "array",
				"items": []any{
					map[string]any{"const": shacl.CredentialsV1},
					uriString,
				},
				"minItems": 2,
			},
			"id": uriString,
			"type": map[string]any{
				"type":     "array",
				"contains": map[string]any{"const": "VerifiableCredential"},
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
			},
			"issuer": map[string]any{
				"oneOf": []any{
					uriString,
					map[string]any{
						"type":     "object",
						"required": []string{"id"},
						"properties": map[string]any{
							"id":   uriString,
							"name": map[string]any{"type": "string"},
						},
					},
				},
			},
			"issuanceDate":      map[string]any{"type": "string", "format": "date-time"},
			"expirationDate":    map[string]any{"type": "string", "format": "date-time"},
			"credentialSubject": subjectSchema(rs),
			"proof": map[string]any{
				"type":        "object",
				"description": "Digital signature proof",
			},
		},
	}
}

func subjectSchema(rs *shape.ResolvedShape) map[string]any {
	className := rs.Shape.ClassName()
	props := map[string]any{
		"id": map[string]any{
			"type":        "string",
			"format":      "uri",
			"description": "DID or URI of the " + className,
		},
		"type": map[string]any{"const": className},
	}
	required := []string{"type"}

	for _, p := range rs.Properties {
		props[p.Name] = propertySchema(p)
		if p.Mandatory() {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

func propertySchema(p shape.PropertyShape) map[string]any {
	out := map[string]any{"description": p.DisplayLabel()}
	switch p.Kind() {
	case shape.KindDatatype:
		t, _ := xsd.Lookup(p.Datatype)
		for k, v := range t.Schema() {
			out[k] = v
		}
		addConstraints(out, p)
	case shape.KindClass:
		ref := map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{"const": p.ClassName()},
			},
		}
		if p.Multi() {
			out["type"] = "array"
			out["items"] = ref
		} else {
			for k, v := range ref {
				out[k] = v
			}
		}
	default:
		out["type"] = "string"
		addConstraints(out, p)
	}
	return out
}

func addConstraints(out map[string]any, p shape.PropertyShape) {
	if p.Pattern != "" {
		out["pattern"] = p.Pattern
	}
	if len(p.In) > 0 {
		out["enum"] = p.In
	}
}
