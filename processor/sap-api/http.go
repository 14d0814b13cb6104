package sapapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/mapper"
	"github.com/c360studio/semcred/sap"
)

const (
	odataPrefix = "/sap/opu/odata/sap/api/v1/"
	vcPrefix    = "/vc/api/v1/"

	serviceName    = "SAP API Simulator for International Trade"
	serviceVersion = "1.0.0"
)

// RegisterHTTPHandlers registers all sap-api handlers on mux:
//
//	GET  /
//	GET  /health
//	GET  /sap/opu/odata/sap/api/v1/{scenarios,purchase-orders,sales-orders,deliveries,invoices}[/{id}]
//	GET  /sap/opu/odata/sap/api/v1/{documentary-credits,partners,materials}[/{id}]
//	GET  /vc/api/v1/scenarios/{id}/verifiable-credentials
//	GET  /vc/api/v1/{purchase-orders,invoices,deliveries,documentary-credits}/{id}/vc
//	GET  /metrics
func (c *Component) RegisterHTTPHandlers(mux *http.ServeMux) {
	c.handle(mux, "/", c.handleRoot)
	c.handle(mux, "/health", c.handleHealth)

	c.handle(mux, odataPrefix+"scenarios", c.handleScenarios)
	c.handle(mux, odataPrefix+"scenarios/{id}", c.handleScenario)
	c.handle(mux, odataPrefix+"purchase-orders", c.handlePurchaseOrders)
	c.handle(mux, odataPrefix+"purchase-orders/{id}", c.handlePurchaseOrder)
	c.handle(mux, odataPrefix+"sales-orders", c.handleSalesOrders)
	c.handle(mux, odataPrefix+"sales-orders/{id}", c.handleSalesOrder)
	c.handle(mux, odataPrefix+"deliveries", c.handleDeliveries)
	c.handle(mux, odataPrefix+"deliveries/{id}", c.handleDelivery)
	c.handle(mux, odataPrefix+"invoices", c.handleInvoices)
	c.handle(mux, odataPrefix+"invoices/{id}", c.handleInvoice)
	c.handle(mux, odataPrefix+"documentary-credits", c.handleDocumentaryCredits)
	c.handle(mux, odataPrefix+"documentary-credits/{id}", c.handleDocumentaryCredit)
	c.handle(mux, odataPrefix+"partners", c.handlePartners)
	c.handle(mux, odataPrefix+"partners/{id}", c.handlePartner)
	c.handle(mux, odataPrefix+"materials", c.handleMaterials)
	c.handle(mux, odataPrefix+"materials/{id}", c.handleMaterial)

	c.handle(mux, vcPrefix+"scenarios/{id}/verifiable-credentials", c.handleScenarioCredentials)
	c.handle(mux, vcPrefix+"purchase-orders/{id}/vc", c.handlePurchaseOrderCredential)
	c.handle(mux, vcPrefix+"invoices/{id}/vc", c.handleInvoiceCredential)
	c.handle(mux, vcPrefix+"deliveries/{id}/vc", c.handleDeliveryCredential)
	c.handle(mux, vcPrefix+"documentary-credits/{id}/vc", c.handleDocumentaryCreditCredential)

	if c.config.Metrics && c.registry != nil {
		mux.Handle("/metrics", c.registry.Handler())
	}
}

// handle wraps h with the GET-only check and request counting. The route
// label is the registration pattern, so ids do not explode the label set.
func (c *Component) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if r.Method != http.MethodGet {
			rec.Header().Set("Allow", http.MethodGet)
			writeError(rec, http.StatusMethodNotAllowed, "Method not allowed")
		} else {
			h(rec, r)
		}
		c.metrics().Request(pattern, rec.status)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// ----------------------------------------------------------------------------
// Service description
// ----------------------------------------------------------------------------

func (c *Component) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Resource "+r.URL.Path+" not found")
		return
	}

	ids := make([]string, 0, len(c.store.Scenarios()))
	for _, sc := range c.store.Scenarios() {
		ids = append(ids, sc.ID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service":     serviceName,
		"version":     serviceVersion,
		"description": "Simulates SAP ERP OData services and provides W3C VC conversion",
		"endpoints": map[string]any{
			"sap_format": map[string]string{
				"scenarios":           odataPrefix + "scenarios",
				"purchase_orders":     odataPrefix + "purchase-orders",
				"sales_orders":        odataPrefix + "sales-orders",
				"deliveries":          odataPrefix + "deliveries",
				"invoices":            odataPrefix + "invoices",
				"documentary_credits": odataPrefix + "documentary-credits",
				"partners":            odataPrefix + "partners",
				"materials":           odataPrefix + "materials",
			},
			"vc_format": map[string]string{
				"scenario_vcs":          vcPrefix + "scenarios/{scenario_id}/verifiable-credentials",
				"purchase_order_vc":     vcPrefix + "purchase-orders/{ebeln}/vc",
				"invoice_vc":            vcPrefix + "invoices/{vbeln}/vc",
				"delivery_vc":           vcPrefix + "deliveries/{vbeln}/vc",
				"documentary_credit_vc": vcPrefix + "documentary-credits/{lcnum}/vc",
			},
		},
		"demo_scenarios": ids,
	})
}

func (c *Component) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "SAP API Simulator",
	})
}

// ----------------------------------------------------------------------------
// SAP format
// ----------------------------------------------------------------------------

// ScenarioSummary lists one scenario and the documents it carries.
type ScenarioSummary struct {
	ID                 string   `json:"scenario_id"`
	Description        string   `json:"description"`
	AvailableDocuments []string `json:"available_documents"`
}

func summarize(sc sap.Scenario) ScenarioSummary {
	s := ScenarioSummary{ID: sc.ID, Description: sc.Description, AvailableDocuments: []string{}}
	if sc.PurchaseOrder != nil {
		s.AvailableDocuments = append(s.AvailableDocuments, "purchase_order")
	}
	if sc.SalesOrder != nil {
		s.AvailableDocuments = append(s.AvailableDocuments, "sales_order")
	}
	if sc.Delivery != nil {
		s.AvailableDocuments = append(s.AvailableDocuments, "delivery")
	}
	if sc.Invoice != nil {
		s.AvailableDocuments = append(s.AvailableDocuments, "invoice")
	}
	if sc.DocumentaryCredit != nil {
		s.AvailableDocuments = append(s.AvailableDocuments, "documentary_credit")
	}
	return s
}

func (c *Component) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	out := make([]ScenarioSummary, 0, len(c.store.Scenarios()))
	for _, sc := range c.store.Scenarios() {
		out = append(out, summarize(sc))
	}
	writeResults(w, out)
}

func (c *Component) handleScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := c.store.Scenario(id)
	if err != nil {
		c.writeLookupError(w, "Scenario", id, err)
		return
	}
	writeSuccess(w, sc)
}

func (c *Component) handlePurchaseOrders(w http.ResponseWriter, _ *http.Request) {
	rows, err := headerRows(c.store.PurchaseOrders())
	if err != nil {
		c.writeInternal(w, "list purchase orders", err)
		return
	}
	writeResults(w, rows)
}

func (c *Component) handlePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.PurchaseOrder(id)
	if err != nil {
		c.writeLookupError(w, "Purchase Order", id, err)
		return
	}
	writeSuccess(w, e.Doc)
}

func (c *Component) handleSalesOrders(w http.ResponseWriter, _ *http.Request) {
	rows, err := headerRows(c.store.SalesOrders())
	if err != nil {
		c.writeInternal(w, "list sales orders", err)
		return
	}
	writeResults(w, rows)
}

func (c *Component) handleSalesOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.SalesOrder(id)
	if err != nil {
		c.writeLookupError(w, "Sales Order", id, err)
		return
	}
	writeSuccess(w, e.Doc)
}

func (c *Component) handleDeliveries(w http.ResponseWriter, _ *http.Request) {
	rows, err := headerRows(c.store.Deliveries())
	if err != nil {
		c.writeInternal(w, "list deliveries", err)
		return
	}
	writeResults(w, rows)
}

func (c *Component) handleDelivery(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.Delivery(id)
	if err != nil {
		c.writeLookupError(w, "Delivery", id, err)
		return
	}
	writeSuccess(w, e.Doc)
}

func (c *Component) handleInvoices(w http.ResponseWriter, _ *http.Request) {
	rows, err := headerRows(c.store.Invoices())
	if err != nil {
		c.writeInternal(w, "list invoices", err)
		return
	}
	writeResults(w, rows)
}

func (c *Component) handleInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.Invoice(id)
	if err != nil {
		c.writeLookupError(w, "Invoice", id, err)
		return
	}
	writeSuccess(w, e.Doc)
}

func (c *Component) handleDocumentaryCredits(w http.ResponseWriter, _ *http.Request) {
	entries := c.store.DocumentaryCredits()
	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		row, err := toRow(e.Doc)
		if err != nil {
			c.writeInternal(w, "list documentary credits", err)
			return
		}
		row["_scenario"] = e.Scenario
		rows = append(rows, row)
	}
	writeResults(w, rows)
}

func (c *Component) handleDocumentaryCredit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.DocumentaryCredit(id)
	if err != nil {
		c.writeLookupError(w, "Documentary Credit", id, err)
		return
	}
	writeSuccess(w, e.Doc)
}

func (c *Component) handlePartners(w http.ResponseWriter, _ *http.Request) {
	writeResults(w, c.dir.Partners())
}

func (c *Component) handlePartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := c.dir.Partner(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Partner "+id+" not found")
		return
	}
	writeSuccess(w, p)
}

func (c *Component) handleMaterials(w http.ResponseWriter, _ *http.Request) {
	writeResults(w, c.dir.Materials())
}

func (c *Component) handleMaterial(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, ok := c.dir.Material(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Material "+id+" not found")
		return
	}
	writeSuccess(w, m)
}

// ----------------------------------------------------------------------------
// W3C VC format
// ----------------------------------------------------------------------------

// ScenarioCredentials is the response of the scenario credentials endpoint.
type ScenarioCredentials struct {
	Scenario    string                         `json:"scenario"`
	Description string                         `json:"description"`
	Credentials map[string]credential.Envelope `json:"credentials"`
}

func (c *Component) handleScenarioCredentials(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := c.store.Scenario(id)
	if err != nil {
		c.writeLookupError(w, "Scenario", id, err)
		return
	}

	vcs, err := c.mapper.Scenario(sc)
	if err != nil {
		c.writeInternal(w, "map scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, ScenarioCredentials{
		Scenario:    sc.ID,
		Description: sc.Description,
		Credentials: vcs,
	})
}

func (c *Component) handlePurchaseOrderCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.PurchaseOrder(id)
	if err != nil {
		c.writeLookupError(w, "Purchase Order", id, err)
		return
	}
	c.writeCredential(w)(c.mapper.PurchaseOrder(e.Doc.Header, e.Doc.Items, mapper.BuyerDID))
}

func (c *Component) handleInvoiceCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.Invoice(id)
	if err != nil {
		c.writeLookupError(w, "Invoice", id, err)
		return
	}
	c.writeCredential(w)(c.mapper.CommercialInvoice(e.Doc.Header, e.Doc.Items, mapper.SellerDID))
}

func (c *Component) handleDeliveryCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.Delivery(id)
	if err != nil {
		c.writeLookupError(w, "Delivery", id, err)
		return
	}
	c.writeCredential(w)(c.mapper.BillOfLading(e.Doc.Header, e.Doc.Items, mapper.CarrierDID))
}

func (c *Component) handleDocumentaryCreditCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := c.store.DocumentaryCredit(id)
	if err != nil {
		c.writeLookupError(w, "Documentary Credit", id, err)
		return
	}
	c.writeCredential(w)(c.mapper.DocumentaryCredit(*e.Doc, mapper.BankDID))
}

// writeCredential returns a sink for a mapper result, so handlers can pass
// the (envelope, error) pair straight through.
func (c *Component) writeCredential(w http.ResponseWriter) func(credential.Envelope, error) {
	return func(env credential.Envelope, err error) {
		if err != nil {
			c.writeInternal(w, "map credential", err)
			return
		}
		writeJSON(w, http.StatusOK, env)
	}
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// ErrorBody is the error envelope.
type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Component) writeLookupError(w http.ResponseWriter, kind, id string, err error) {
	if errors.Is(err, sap.ErrNotFound) {
		writeError(w, http.StatusNotFound, kind+" "+id+" not found")
		return
	}
	c.writeInternal(w, "lookup "+kind, err)
}

func (c *Component) writeInternal(w http.ResponseWriter, op string, err error) {
	c.logger.Error("Request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// headerRow flattens a document header into a row annotated with its item
// count and scenario.
func headerRow(header any, items int, scenario string) (map[string]any, error) {
	row, err := toRow(header)
	if err != nil {
		return nil, err
	}
	row["_items_count"] = items
	row["_scenario"] = scenario
	return row, nil
}

func headerRows[H, I any](entries []sap.Entry[*sap.Document[H, I]]) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		row, err := headerRow(e.Doc.Header, len(e.Doc.Items), e.Scenario)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// toRow converts v into a JSON object. Numbers are kept as json.Number so
// decimals keep their authored scale when written back.
func toRow(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}

// writeResults writes the OData-style success envelope around a list.
func writeResults(w http.ResponseWriter, results any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"d": map[string]any{"results": results},
		"metadata": map[string]string{
			"status":  "success",
			"message": "Success",
		},
	})
}

// writeSuccess wraps a single value in a one-element results list.
func writeSuccess(w http.ResponseWriter, v any) {
	writeResults(w, []any{v})
}

func writeError(w http.ResponseWriter, status int, message string) {
	var body ErrorBody
	body.Error.Code = strconv.Itoa(status)
	body.Error.Message = message
	writeJSON(w, status, body)
}

// writeJSON is a helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
