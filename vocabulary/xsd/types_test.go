package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		datatype string
		want     JSONType
		known    bool
	}{
		{shacl.XSD + "string", JSONType{Type: "string"}, true},
		{shacl.XSD + "integer", JSONType{Type: "integer"}, true},
		{"xsd:int", JSONType{Type: "integer"}, true},
		{shacl.XSD + "decimal", JSONType{Type: "number"}, true},
		{"xsd:double", JSONType{Type: "number"}, true},
		{shacl.XSD + "boolean", JSONType{Type: "boolean"}, true},
		{shacl.XSD + "date", JSONType{Type: "string", Format: "date"}, true},
		{shacl.XSD + "dateTime", JSONType{Type: "string", Format: "date-time"}, true},
		{shacl.XSD + "time", JSONType{Type: "string", Format: "time"}, true},
		{shacl.XSD + "anyURI", JSONType{Type: "string", Format: "uri"}, true},
		{shacl.XSD + "gYear", Default, false},
		{"https://example.com/customType", Default, false},
		{"", Default, false},
	}

	for _, tt := range tests {
		t.Run(tt.datatype, func(t *testing.T) {
			got, known := Lookup(tt.datatype)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestSchema(t *testing.T) {
	assert.Equal(t, map[string]any{"type": "string", "format": "date"}, JSONType{Type: "string", Format: "date"}.Schema())
	assert.Equal(t, map[string]any{"type": "number"}, JSONType{Type: "number"}.Schema())
}

func TestIsString(t *testing.T) {
	assert.True(t, IsString(String))
	assert.True(t, IsString("xsd:string"))
	assert.False(t, IsString(Decimal))
	assert.False(t, IsString("https://example.com/string"))
}
