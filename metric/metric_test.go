package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ShapeCompiled("PurchaseOrder")
		m.ArtifactWritten("context")
		m.UnresolvedReferences(2)
		m.CompileFailed("parse")
		m.ObserveCompile(time.Second)
		m.LookupMissed("partner")
		m.Issued("sd-jwt", "InvoiceCredential")
		m.Request("/health", http.StatusOK)
	})
}

func TestRegistryHandler(t *testing.T) {
	r := NewRegistry()
	r.Metrics.ShapeCompiled("PurchaseOrder")
	r.Metrics.Issued("json-ld", "PurchaseOrderCredential")
	r.Metrics.Request("/health", http.StatusOK)
	r.Metrics.UnresolvedReferences(3)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `semcred_compiler_shapes_compiled_total{shape="PurchaseOrder"} 1`)
	assert.Contains(t, text, `semcred_credential_issued_total{format="json-ld",type="PurchaseOrderCredential"} 1`)
	assert.Contains(t, text, `semcred_http_requests_total{code="200",route="/health"} 1`)
	assert.Contains(t, text, `semcred_compiler_unresolved_references_total 3`)
	assert.Contains(t, text, "go_goroutines")
}
