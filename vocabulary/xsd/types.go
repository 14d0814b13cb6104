// Package xsd maps XML Schema datatypes onto JSON Schema types.
package xsd

import (
	"strings"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

// JSONType is the JSON Schema rendering of an XSD datatype.
type JSONType struct {
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

// Schema returns the type as a JSON Schema fragment.
func (t JSONType) Schema() map[string]any {
	out := map[string]any{"type": t.Type}
	if t.Format != "" {
		out["format"] = t.Format
	}
	return out
}

// Default is used for every datatype not in the table.
var Default = JSONType{Type: "string"}

var table = map[string]JSONType{
	"string":   {Type: "string"},
	"integer":  {Type: "integer"},
	"int":      {Type: "integer"},
	"decimal":  {Type: "number"},
	"float":    {Type: "number"},
	"double":   {Type: "number"},
	"boolean":  {Type: "boolean"},
	"date":     {Type: "string", Format: "date"},
	"dateTime": {Type: "string", Format: "date-time"},
	"time":     {Type: "string", Format: "time"},
	"anyURI":   {Type: "string", Format: "uri"},
}

// Lookup maps a datatype IRI (or xsd: CURIE) to its JSON type. The boolean
// reports whether the datatype was recognized; unrecognized datatypes map
// to Default.
func Lookup(datatype string) (JSONType, bool) {
	local, ok := Local(datatype)
	if !ok {
		return Default, false
	}
	t, found := table[local]
	if !found {
		return Default, false
	}
	return t, true
}

// Local strips the XSD namespace or xsd: prefix. It reports false for
// datatypes outside the XSD namespace.
func Local(datatype string) (string, bool) {
	switch {
	case strings.HasPrefix(datatype, shacl.XSD):
		return strings.TrimPrefix(datatype, shacl.XSD), true
	case strings.HasPrefix(datatype, "xsd:"):
		return strings.TrimPrefix(datatype, "xsd:"), true
	}
	return "", false
}

// IsString reports whether datatype is xsd:string.
func IsString(datatype string) bool {
	local, ok := Local(datatype)
	return ok && local == "string"
}

// Common datatype IRIs.
const (
	String   = shacl.XSD + "string"
	Integer  = shacl.XSD + "integer"
	Decimal  = shacl.XSD + "decimal"
	Boolean  = shacl.XSD + "boolean"
	Date     = shacl.XSD + "date"
	DateTime = shacl.XSD + "dateTime"
	AnyURI   = shacl.XSD + "anyURI"
)
