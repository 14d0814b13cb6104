package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcred/export"
	"github.com/c360studio/semcred/shape"
)

func loadGraph(t *testing.T, name string) *shape.Graph {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	g, err := shape.LoadBytes(name, content)
	require.NoError(t, err)
	return g
}

type propertySummary struct {
	Name     string
	Path     string
	Datatype string
	Class    string
	MinCount int
	MaxCount int
	Pattern  string
	In       []string
}

// summarize projects resolved shapes onto fields that survive a round trip;
// blank node ids do not.
func summarize(t *testing.T, g *shape.Graph) (string, []propertySummary) {
	t.Helper()
	shapes, err := shape.ResolveAll(g, shape.PolicySkip)
	require.NoError(t, err)
	require.Len(t, shapes, 1)

	var out []propertySummary
	for _, p := range shapes[0].Properties {
		s := propertySummary{
			Name: p.Name, Path: p.Path, Datatype: p.Datatype, Class: p.Class,
			MinCount: p.MinCount, MaxCount: -1, Pattern: p.Pattern, In: p.In,
		}
		if p.MaxCount != nil {
			s.MaxCount = *p.MaxCount
		}
		out = append(out, s)
	}
	return shapes[0].Shape.TargetClass, out
}

func TestExport_RoundTrip(t *testing.T) {
	tests := []struct {
		source string
		format export.Format
		name   string
	}{
		{"purchaseorder.ttl", export.FormatTurtle, "out.ttl"},
		{"purchaseorder.ttl", export.FormatJSONLD, "out.jsonld"},
		{"billoflading.jsonld", export.FormatTurtle, "out.ttl"},
		{"billoflading.jsonld", export.FormatJSONLD, "out.jsonld"},
	}

	for _, tt := range tests {
		t.Run(tt.source+"->"+string(tt.format), func(t *testing.T) {
			g := loadGraph(t, tt.source)
			wantClass, want := summarize(t, g)

			out, err := export.Export(g, tt.format)
			require.NoError(t, err)

			back, err := shape.LoadBytes(tt.name, []byte(out))
			require.NoError(t, err, out)
			gotClass, got := summarize(t, back)

			assert.Equal(t, wantClass, gotClass)
			assert.Equal(t, want, got)
		})
	}
}

func TestExport_Deterministic(t *testing.T) {
	for _, f := range export.Formats() {
		a, err := export.Export(loadGraph(t, "billoflading.jsonld"), f)
		require.NoError(t, err)
		b, err := export.Export(loadGraph(t, "billoflading.jsonld"), f)
		require.NoError(t, err)
		assert.Equal(t, a, b, f)
	}
}

func TestExportTurtle(t *testing.T) {
	out, err := export.Export(loadGraph(t, "purchaseorder.ttl"), export.FormatTurtle)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@prefix dcterms: <http://purl.org/dc/terms/> .\n"))
	assert.Contains(t, out, "@prefix dsipo: <https://iri.suomi.fi/model/dsipo/> .\n")
	assert.NotContains(t, out, "@prefix owl:")
	assert.Contains(t, out, "dsipo:PurchaseOrderShape a sh:NodeShape ;\n    sh:targetClass ktddecv:PurchaseOrder ;")
	assert.Contains(t, out, "sh:property [\n        sh:path ktddecv:orderIdentifier ;")
	assert.Contains(t, out, `sh:description "A buyer's request to a seller\nto supply goods."@en ;`)
	assert.Contains(t, out, `sh:in ( "EXW" "FOB" "CIF" "DAP" )`)
	assert.Contains(t, out, "sh:minCount 1 ;")
	assert.Contains(t, out, "sh:property dsipo:remarks .")
	assert.Contains(t, out, "dsipo:remarks a sh:PropertyShape ;")
	assert.NotContains(t, out, "_:")
}

func TestExportNTriples(t *testing.T) {
	out, err := export.Export(loadGraph(t, "purchaseorder.ttl"), export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}

	assert.Contains(t, lines,
		"<https://iri.suomi.fi/model/dsipo/PurchaseOrderShape> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/shacl#NodeShape> .")
	assert.Contains(t, out, `<http://www.w3.org/ns/shacl#name> "Purchase Order"@en .`)
	assert.Contains(t, out, `<http://www.w3.org/ns/shacl#minCount> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .`)
	assert.Contains(t, out, `<http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "EXW" .`)
	assert.Contains(t, out, `<http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .`)
}

func TestExportJSONLD(t *testing.T) {
	out, err := export.Export(loadGraph(t, "purchaseorder.ttl"), export.FormatJSONLD)
	require.NoError(t, err)

	assert.Contains(t, out, `"@context": {`)
	assert.Contains(t, out, `"ktddecv": "https://iri.suomi.fi/model/ktddecv/"`)
	assert.Contains(t, out, `"@id": "dsipo:PurchaseOrderShape"`)
	assert.Contains(t, out, `"@type": "sh:NodeShape"`)
	assert.Contains(t, out, `"sh:minCount": 1`)
	assert.Contains(t, out, `"@list": [`)
	assert.NotContains(t, out, `"_:`)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := export.Export(loadGraph(t, "purchaseorder.ttl"), export.Format("rdfxml"))
	assert.ErrorContains(t, err, "unsupported format: rdfxml")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"turtle", export.FormatTurtle},
		{"TTL", export.FormatTurtle},
		{".nt", export.FormatNTriples},
		{"jsonld", export.FormatJSONLD},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := export.ParseFormat("xml")
	assert.Error(t, err)
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatTurtle)
	require.True(t, ok)
	assert.Equal(t, "text/turtle", info.MIMEType)
	assert.Equal(t, ".ttl", info.Extension)

	_, ok = export.GetFormatInfo("rdfxml")
	assert.False(t, ok)
}
