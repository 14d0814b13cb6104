package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func TestRenderTemplate_Empty(t *testing.T) {
	rs := resolveTestdata(t, "purchaseorder.ttl")

	doc := RenderTemplate(rs, TemplateEmpty, TemplateOptions{Now: fixedNow})
	assert.Equal(t, []string{
		shacl.CredentialsV1,
		"https://github.com/jgmikael/trade-automation/contexts/purchaseordershape-context.jsonld",
	}, doc["@context"])
	assert.Equal(t, []string{"VerifiableCredential", "PurchaseOrderCredential"}, doc["type"])
	assert.Equal(t, "<<CREDENTIAL_ID>>", doc["id"])
	assert.Equal(t, "<<ISO_8601_DATETIME>>", doc["issuanceDate"])

	subject := doc["credentialSubject"].(map[string]any)
	assert.Equal(t, "PurchaseOrder", subject["type"])
	assert.Equal(t, "<<SUBJECT_ID>>", subject["id"])
	assert.Equal(t, "<<Order Identifier>>", subject["orderIdentifier"])
	assert.Equal(t, "<<YYYY-MM-DD>>", subject["orderDate"])
	assert.Equal(t, "<<Remarks>>", subject["remarks"])
	assert.Equal(t, map[string]any{
		"type":         "Party",
		"<<PROPERTY>>": "<<VALUE for Party>>",
	}, subject["buyerParty"])

	items, ok := subject["hasItem"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "GoodsItem", items[0].(map[string]any)["type"])

	proof := doc["proof"].(map[string]any)
	assert.Equal(t, "<<SIGNATURE_VALUE>>", proof["proofValue"])
}

func TestRenderTemplate_Example(t *testing.T) {
	rs := resolveTestdata(t, "purchaseorder.ttl")

	doc := RenderTemplate(rs, TemplateExample, TemplateOptions{
		ContextBase: "https://contexts.example.com/",
		Now:         fixedNow,
	})
	assert.Equal(t, []string{
		shacl.CredentialsV1,
		"https://contexts.example.com/purchaseordershape-context.jsonld",
	}, doc["@context"])
	assert.Equal(t, "https://example.com/credentials/purchaseordershape/EXAMPLE-001", doc["id"])
	assert.Equal(t, "2026-10-16T09:30:00Z", doc["issuanceDate"])
	assert.Equal(t, map[string]any{"id": "did:example:issuer123", "name": "Example Purchase Order Issuer"}, doc["issuer"])

	subject := doc["credentialSubject"].(map[string]any)
	assert.Equal(t, "Example Order Identifier", subject["orderIdentifier"])
	assert.Equal(t, "2026-10-16", subject["orderDate"])
	assert.Equal(t, "EXW", subject["incotermsCode"])
	assert.Equal(t, "Example Company Ltd", subject["buyerParty"].(map[string]any)["partyName"])

	items := subject["hasItem"].([]any)
	assert.Equal(t, "Example Product", items[0].(map[string]any)["productDescription"])

	proof := doc["proof"].(map[string]any)
	assert.Equal(t, "Ed25519Signature2020", proof["type"])
	assert.Equal(t, "2026-10-16T09:30:00Z", proof["created"])
}

func TestExampleObject_Fallback(t *testing.T) {
	assert.Equal(t, map[string]any{
		"type":            "Vessel",
		"exampleProperty": "Example value for Vessel",
	}, exampleObject("Vessel"))
}

func TestTemplateKind_String(t *testing.T) {
	assert.Equal(t, "empty", TemplateEmpty.String())
	assert.Equal(t, "example", TemplateExample.String())
}
