package compiler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcred/shape"
)

func newTestCompiler(t *testing.T, cfg Config) *Compiler {
	t.Helper()
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	return New(cfg, WithClock(func() time.Time { return fixedNow }))
}

func copyTestdata(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0644))
	}
}

func readRegistry(t *testing.T, outDir string) RegistryDocument {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(RegistryFile)))
	require.NoError(t, err)
	var doc RegistryDocument
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc
}

func TestCompile(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "purchaseorder.ttl", "billoflading.jsonld")
	out := t.TempDir()

	c := newTestCompiler(t, Config{OutputDir: out})
	report, err := c.Compile(context.Background(), []string{filepath.Join(in, "*")})
	require.NoError(t, err)

	assert.False(t, report.Failed())
	assert.Equal(t, []string{"BillOfLading", "PurchaseOrderShape"}, report.Shapes)
	assert.Len(t, report.Artifacts, 13)
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "https://iri.suomi.fi/model/dsibol/missingProperty", report.Unresolved[0].Ref)
	assert.Equal(t, "2 shapes compiled, 13 artifacts written, 1 unresolved references, 0 failures", report.Summary())

	for _, rel := range []string{
		"contexts/purchaseordershape-context.jsonld",
		"credentials/purchaseordershape-schema.json",
		"sdjwt/purchaseordershape-schema.json",
		"sdjwt/purchaseordershape-docs.md",
		"templates/empty/purchaseordershape-template.jsonld",
		"templates/examples/purchaseordershape-example.jsonld",
		"contexts/billoflading-context.jsonld",
		"sdjwt/semantic-registry.json",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	empty, err := os.ReadFile(filepath.Join(out, "templates", "empty", "purchaseordershape-template.jsonld"))
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"id": "<<CREDENTIAL_ID>>"`)

	docs, err := os.ReadFile(filepath.Join(out, "sdjwt", "purchaseordershape-docs.md"))
	require.NoError(t, err)
	assert.Contains(t, string(docs), "**Generated:** 2026-10-16")

	reg := readRegistry(t, out)
	assert.Len(t, reg.Mappings, 11)
	assert.Equal(t, "https://iri.suomi.fi/model/dsibol/BillOfLading", reg.Mappings["document_identifier"].SHACLShape)
	assert.True(t, reg.Mappings["order_identifier"].Mandatory)
}

func TestCompile_PolicyFail(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "billoflading.jsonld")

	c := newTestCompiler(t, Config{Policy: shape.PolicyFail})
	report, err := c.Compile(context.Background(), []string{filepath.Join(in, "*.jsonld")})
	require.Error(t, err)
	assert.True(t, shape.IsUnresolved(err))
	require.Len(t, report.Failures, 1)
	assert.Empty(t, report.Shapes)
}

func TestCompile_KeepGoing(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "purchaseorder.ttl")
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.ttl"), []byte("ex:S ex:p ,"), 0644))
	pattern := []string{filepath.Join(in, "*.ttl")}

	t.Run("stop", func(t *testing.T) {
		out := t.TempDir()
		c := newTestCompiler(t, Config{OutputDir: out})
		report, err := c.Compile(context.Background(), pattern)
		require.Error(t, err)
		assert.True(t, shape.IsParseError(err))
		assert.Empty(t, report.Shapes)
		assert.NoFileExists(t, filepath.Join(out, filepath.FromSlash(RegistryFile)))
	})

	t.Run("keep going", func(t *testing.T) {
		out := t.TempDir()
		c := newTestCompiler(t, Config{OutputDir: out, KeepGoing: true})
		report, err := c.Compile(context.Background(), pattern)
		require.NoError(t, err)
		assert.True(t, report.Failed())
		require.Len(t, report.Failures, 1)
		assert.Equal(t, filepath.Join(in, "broken.ttl"), report.Failures[0].Path)
		assert.Equal(t, []string{"PurchaseOrderShape"}, report.Shapes)
		assert.Len(t, readRegistry(t, out).Mappings, 6)
	})
}

func TestCompile_ProfileVersion(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "billoflading.jsonld")
	pattern := []string{filepath.Join(in, "*.jsonld")}

	ok, err := ParseVersionConstraint("^1.0")
	require.NoError(t, err)
	_, err = newTestCompiler(t, Config{ProfileVersion: ok}).Compile(context.Background(), pattern)
	assert.NoError(t, err)

	tooNew, err := ParseVersionConstraint(">= 2.0.0")
	require.NoError(t, err)
	_, err = newTestCompiler(t, Config{ProfileVersion: tooNew}).Compile(context.Background(), pattern)
	require.Error(t, err)
	assert.True(t, shape.IsSchemaViolation(err))
}

func TestCompile_CrossFileCollision(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "purchaseorder.ttl")
	other := "@prefix ex: <https://example.com/> .\n" +
		"ex:ReorderShape a sh:NodeShape ; sh:targetClass ex:Reorder ;\n" +
		"    sh:property [ sh:path ex:orderDate ; sh:datatype xsd:date ] .\n"
	require.NoError(t, os.WriteFile(filepath.Join(in, "reorder.ttl"), []byte(other), 0644))

	c := newTestCompiler(t, Config{KeepGoing: true})
	report, err := c.Compile(context.Background(), []string{filepath.Join(in, "*.ttl")})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.True(t, IsClaimCollision(report.Failures[0].Err))
	assert.Equal(t, []string{"PurchaseOrderShape"}, report.Shapes)
}

func TestCompile_FailedFileLeavesNoClaims(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "purchaseorder.ttl")
	// The second shape collides with order_date of the purchase order, so
	// the first shape of the same file must not reach the registry either.
	multi := `{
  "@context": {"sh": "http://www.w3.org/ns/shacl#", "ex": "https://example.com/"},
  "@graph": [
    {"@id": "ex:AlphaShape", "@type": "sh:NodeShape", "sh:targetClass": {"@id": "ex:Alpha"},
     "sh:property": [{"sh:path": {"@id": "ex:uniqueCode"}}]},
    {"@id": "ex:BetaShape", "@type": "sh:NodeShape", "sh:targetClass": {"@id": "ex:Beta"},
     "sh:property": [{"sh:path": {"@id": "ex:orderDate"}}]}
  ]
}`
	require.NoError(t, os.WriteFile(filepath.Join(in, "zz-multi.jsonld"), []byte(multi), 0644))
	out := t.TempDir()

	c := newTestCompiler(t, Config{OutputDir: out, KeepGoing: true})
	report, err := c.Compile(context.Background(), []string{filepath.Join(in, "*")})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.True(t, IsClaimCollision(report.Failures[0].Err))
	assert.Equal(t, []string{"PurchaseOrderShape"}, report.Shapes)

	reg := readRegistry(t, out)
	assert.NotContains(t, reg.Mappings, "unique_code")
	assert.Equal(t, "https://iri.suomi.fi/model/ktddecv/orderDate", reg.Mappings["order_date"].OWLProperty)
	assert.NoFileExists(t, filepath.Join(out, "contexts", "alphashape-context.jsonld"))

	// Forgetting the failed file leaves the registry as it was.
	_, err = c.Forget(filepath.Join(in, "zz-multi.jsonld"))
	require.NoError(t, err)
	assert.Len(t, readRegistry(t, out).Mappings, len(reg.Mappings))
}

func TestRecompileAndForget(t *testing.T) {
	in := t.TempDir()
	copyTestdata(t, in, "purchaseorder.ttl", "billoflading.jsonld")
	out := t.TempDir()
	ctx := context.Background()

	c := newTestCompiler(t, Config{OutputDir: out})
	_, err := c.Compile(ctx, []string{filepath.Join(in, "*")})
	require.NoError(t, err)

	po := filepath.Join(in, "purchaseorder.ttl")
	report, err := c.Recompile(ctx, po)
	require.NoError(t, err)
	assert.Equal(t, []string{"PurchaseOrderShape"}, report.Shapes)
	assert.Len(t, report.Artifacts, 7)
	assert.Len(t, readRegistry(t, out).Mappings, 11)

	_, err = c.Forget(po)
	require.NoError(t, err)
	reg := readRegistry(t, out)
	assert.Len(t, reg.Mappings, 5)
	assert.NotContains(t, reg.Mappings, "order_identifier")
	assert.Contains(t, reg.Mappings, "document_identifier")
}

func TestParseVersionConstraint(t *testing.T) {
	c, err := ParseVersionConstraint("  ")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = ParseVersionConstraint("not a constraint")
	assert.Error(t, err)
}

func TestMarshalJSON_NoHTMLEscape(t *testing.T) {
	out, err := MarshalJSON(map[string]string{"b": "<<X>>", "a": "&"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"&\",\n  \"b\": \"<<X>>\"\n}\n", string(out))
}
