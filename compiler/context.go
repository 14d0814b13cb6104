package compiler

import (
	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/vocabulary/shacl"
	"github.com/c360studio/semcred/vocabulary/xsd"
)

// Context is a JSON-LD context document.
type Context map[string]any

// EmitContext builds the JSON-LD context for a resolved shape. The target
// class gets a scoped context holding one term per property.
func EmitContext(rs *shape.ResolvedShape) Context {
	terms := make(map[string]any, len(rs.Properties))
	for _, p := range rs.Properties {
		term := map[string]any{"@id": p.Path}
		switch p.Kind() {
		case shape.KindDatatype:
			if !xsd.IsString(p.Datatype) {
				term["@type"] = p.Datatype
			}
		case shape.KindClass:
			term["@type"] = "@id"
			if p.Multi() {
				term["@container"] = "@set"
			}
		}
		terms[p.Name] = term
	}

	ctx := map[string]any{
		"@version":   1.1,
		"@protected": true,
		"xsd":        shacl.XSD,
	}
	if rs.Profile.Prefix != "" && rs.Profile.Namespace != "" {
		ctx[rs.Profile.Prefix] = rs.Profile.Namespace
	}
	ctx[rs.Shape.ClassName()] = map[string]any{
		"@id":      rs.Shape.TargetClass,
		"@context": terms,
	}
	return Context{"@context": ctx}
}
