package compiler

import (
	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/vocabulary/shacl"
	"github.com/c360studio/semcred/vocabulary/xsd"
)

// RegistryEntry traces one SD-JWT claim back to its SHACL, OWL and SKOS
// origin.
type RegistryEntry struct {
	SDJWTClaim    string `json:"sdjwt_claim"`
	SHACLShape    string `json:"shacl_shape"`
	SHACLProperty string `json:"shacl_property"`
	OWLProperty   string `json:"owl_property"`
	SKOSConcept   string `json:"skos_concept,omitempty"`
	Label         string `json:"label,omitempty"`
	Description   string `json:"description,omitempty"`
	Mandatory     bool   `json:"mandatory"`
}

// ClaimMapping is the per-claim part of the _semantic_mapping block.
type ClaimMapping struct {
	OWLProperty  string `json:"owl_property"`
	OriginalName string `json:"original_name"`
	SHACLPath    string `json:"shacl_path"`
	SKOSConcept  string `json:"skos_concept,omitempty"`
	Datatype     string `json:"datatype,omitempty"`
	Class        string `json:"class,omitempty"`
	Mandatory    bool   `json:"mandatory"`
}

// SemanticMapping links an SD-JWT schema to the shape it came from.
type SemanticMapping struct {
	SHACLShape  string                  `json:"shacl_shape"`
	TargetClass string                  `json:"target_class"`
	SKOSConcept string                  `json:"skos_concept,omitempty"`
	Properties  map[string]ClaimMapping `json:"properties"`
}

// ClaimSchema describes one flat SD-JWT claim.
type ClaimSchema struct {
	Type        string         `json:"type"`
	Format      string         `json:"format,omitempty"`
	Description string         `json:"description"`
	Pattern     string         `json:"pattern,omitempty"`
	Enum        []string       `json:"enum,omitempty"`
	Items       map[string]any `json:"items,omitempty"`
}

// SDJWTSchema is the JSON Schema of a flat SD-JWT claim set.
type SDJWTSchema struct {
	Schema          string                 `json:"$schema"`
	Type            string                 `json:"type"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Properties      map[string]ClaimSchema `json:"properties"`
	Required        []string               `json:"required"`
	SemanticMapping SemanticMapping        `json:"_semantic_mapping"`
}

// EmitSDJWTSchema builds the SD-JWT schema of a shape and the registry
// entries of its claims. Claims are the snake_case property names; two
// properties landing on one claim is a ClaimCollisionError.
func EmitSDJWTSchema(rs *shape.ResolvedShape) (*SDJWTSchema, []RegistryEntry, error) {
	s := &SDJWTSchema{
		Schema:      shacl.JSONSchemaDraft07,
		Type:        "object",
		Title:       rs.Shape.Label,
		Description: rs.Shape.Description,
		Properties:  make(map[string]ClaimSchema, len(rs.Properties)),
		Required:    []string{},
		SemanticMapping: SemanticMapping{
			SHACLShape:  rs.Shape.ID,
			TargetClass: rs.Shape.TargetClass,
			SKOSConcept: rs.Shape.Concept,
			Properties:  make(map[string]ClaimMapping, len(rs.Properties)),
		},
	}

	owners := make(map[string]string, len(rs.Properties))
	entries := make([]RegistryEntry, 0, len(rs.Properties))
	for _, p := range rs.Properties {
		claim := naming.ToSnake(p.Name)
		if prev, taken := owners[claim]; taken {
			return nil, nil, &ClaimCollisionError{Claim: claim, Shape: rs.Shape.ID, First: prev, Second: p.Path}
		}
		owners[claim] = p.Path

		s.Properties[claim] = claimSchema(p)
		if p.Mandatory() {
			s.Required = append(s.Required, claim)
		}
		s.SemanticMapping.Properties[claim] = ClaimMapping{
			OWLProperty:  p.Path,
			OriginalName: p.Name,
			SHACLPath:    p.Path,
			SKOSConcept:  p.Concept,
			Datatype:     p.Datatype,
			Class:        p.Class,
			Mandatory:    p.Mandatory(),
		}
		entries = append(entries, RegistryEntry{
			SDJWTClaim:    claim,
			SHACLShape:    rs.Shape.ID,
			SHACLProperty: p.Path,
			OWLProperty:   p.Path,
			SKOSConcept:   p.Concept,
			Label:         p.Label,
			Description:   p.Description,
			Mandatory:     p.Mandatory(),
		})
	}
	return s, entries, nil
}

func claimSchema(p shape.PropertyShape) ClaimSchema {
	description := p.Description
	if description == "" {
		description = p.DisplayLabel()
	}
	c := ClaimSchema{Description: description}

	switch p.Kind() {
	case shape.KindDatatype:
		t, _ := xsd.Lookup(p.Datatype)
		c.Type = t.Type
		c.Format = t.Format
	case shape.KindClass:
		if p.Multi() {
			c.Type = "array"
			c.Items = map[string]any{"type": "object"}
		} else {
			c.Type = "object"
		}
		return c
	default:
		c.Type = "string"
	}
	c.Pattern = p.Pattern
	c.Enum = p.In
	return c
}
