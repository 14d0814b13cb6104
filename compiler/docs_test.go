package compiler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderDocs(t *testing.T) {
	rs := resolveTestdata(t, "purchaseorder.ttl")
	generated := time.Date(2026, 10, 16, 23, 30, 0, 0, time.FixedZone("EEST", 3*3600))

	md := RenderDocs(rs, generated)

	assert.True(t, strings.HasPrefix(md, "# SD-JWT Schema: Purchase Order\n"))
	assert.Contains(t, md, "| **Layer 2** | OWL Class | `"+ktddecv+"PurchaseOrder` |")
	assert.Contains(t, md, "| **Layer 1** | SKOS Concept | `https://iri.suomi.fi/terminology/ktdde/purchase-order` |")

	assert.Contains(t, md, "### `order_identifier`\n\n- **Status:** **Required**\n- **Original Property:** `orderIdentifier`")
	assert.Contains(t, md, "- **Pattern:** `^[0-9]{10}$`")
	assert.Contains(t, md, "- **Allowed Values:** `EXW`, `FOB`, `CIF`, `DAP`")
	assert.Contains(t, md, "### `remarks`\n\n- **Status:** Optional")
	assert.Contains(t, md, "- **SKOS Concept:** `Not linked`")

	// The example carries the first three claims only.
	assert.Contains(t, md, `"order_identifier": "example_value"`)
	assert.Contains(t, md, `"order_date": "2024-02-15"`)
	assert.Contains(t, md, `"incoterms_code": "example_value"`)
	assert.NotContains(t, md, `"buyer_party": {}`)

	assert.Contains(t, md, "**Example for `order_identifier`:**")
	assert.Contains(t, md, "SKOS concept: https://iri.suomi.fi/terminology/ktdde/order-number")
	assert.True(t, strings.HasSuffix(md, "**Generated:** 2026-10-16\n"))
}

func TestRenderDocs_NoDescription(t *testing.T) {
	rs := resolveTestdata(t, "billoflading.jsonld")
	rs.Shape.Description = ""

	md := RenderDocs(rs, time.Now())
	assert.Contains(t, md, "## Overview\n\nNo description available.\n")
	assert.Contains(t, md, "| **Layer 1** | SKOS Concept | `N/A` |")
	assert.Contains(t, md, `"total_gross_weight": 123.45`)
}
