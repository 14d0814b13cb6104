package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"orderIdentifier", "order_identifier"},
		{"hasItem", "has_item"},
		{"PurchaseOrder", "purchase_order"},
		{"HTTPServerID", "http_server_id"},
		{"hasISOCode", "has_iso_code"},
		{"invoiceLine2Amount", "invoice_line2_amount"},
		{"already_snake", "already_snake"},
		{"lower", "lower"},
		{"A", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSnake(tt.in))
		})
	}
}

func TestToSnakeIdempotent(t *testing.T) {
	for _, in := range []string{"orderIdentifier", "HTTPServerID", "partyName", "lineAmount", "swiftCode"} {
		once := ToSnake(in)
		assert.Equal(t, once, ToSnake(once), in)
	}
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://iri.suomi.fi/model/ktddecv/PurchaseOrder", "PurchaseOrder"},
		{"http://www.w3.org/ns/shacl#path", "path"},
		{"ktddecv:hasItem", "hasItem"},
		{"https://example.com/ns/", "ns"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LocalName(tt.in), tt.in)
	}
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "purchaseorder", FileStem("PurchaseOrder"))
}
