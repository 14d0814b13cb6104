package sap

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func TestSampleDirectory(t *testing.T) {
	d := SampleDirectory()
	assert.Len(t, d.Partners(), 6)
	assert.Len(t, d.Materials(), 6)
	assert.Equal(t, "100001", d.Partners()[0].Number)

	p, ok := d.Partner("200002")
	require.True(t, ok)
	assert.Equal(t, "Tokyo Industrial Equipment Co Ltd", p.Name1)
	assert.Equal(t, "東京工業設備株式会社", p.Name2)

	m, ok := d.Material("MAT-100001")
	require.True(t, ok)
	assert.Equal(t, "8501.32", m.HSCode)
	assert.Equal(t, Decimal("85.5"), m.GrossWeight)

	_, ok = d.Partner("999999")
	assert.False(t, ok)
}

func TestSampleScenarios(t *testing.T) {
	scenarios := SampleScenarios(today)
	require.Len(t, scenarios, 2)

	sg := scenarios[0]
	assert.Equal(t, ScenarioSingaporeMachinery, sg.ID)
	require.NotNil(t, sg.PurchaseOrder)
	assert.Equal(t, "2026-09-01", sg.PurchaseOrder.Header.Date.String())
	assert.Equal(t, "2026-12-05", sg.DocumentaryCredit.ExpiryDate.String())
	assert.Len(t, sg.DocumentaryCredit.RequiredDocuments, 5)

	jp := scenarios[1]
	assert.Equal(t, ScenarioJapanElectronics, jp.ID)
	assert.Nil(t, jp.PurchaseOrder)
	assert.Len(t, jp.Invoice.Items, 2)
	assert.Equal(t, "DEUTDEMM", jp.DocumentaryCredit.ConfirmingBank)
}

func TestScenario_JSON(t *testing.T) {
	jp := SampleScenarios(today)[1]
	out, err := json.Marshal(jp)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, ScenarioJapanElectronics, doc["scenario"])
	assert.NotContains(t, doc, "purchase_order")

	header := doc["invoice"].(map[string]any)["header"].(map[string]any)
	assert.Equal(t, "9000001012", header["VBELN"])
	assert.Equal(t, 87500.0, header["NETWR"])
	assert.Equal(t, "2026-10-13", header["FKDAT"])
	assert.Contains(t, string(out), `"NETWR":87500.00`)

	var back Scenario
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, jp, back)
}

func TestStore(t *testing.T) {
	s, err := NewStore(SampleScenarios(today))
	require.NoError(t, err)

	po, err := s.PurchaseOrder("4500000123")
	require.NoError(t, err)
	assert.Equal(t, ScenarioSingaporeMachinery, po.Scenario)
	assert.Equal(t, "300001", po.Doc.Header.Vendor)

	inv, err := s.Invoice("9000001012")
	require.NoError(t, err)
	assert.Equal(t, ScenarioJapanElectronics, inv.Scenario)

	lc, err := s.DocumentaryCredit("LC-HSBC-SG-2024-00789")
	require.NoError(t, err)
	assert.Equal(t, "HSBCSGSG", lc.Doc.IssuingBank)

	_, err = s.Delivery("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Scenario("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, s.PurchaseOrders(), 1)
	assert.Len(t, s.SalesOrders(), 2)
	assert.Len(t, s.Deliveries(), 2)
	assert.Len(t, s.Invoices(), 2)
	assert.Len(t, s.DocumentaryCredits(), 2)
}

func TestNewStore_Duplicates(t *testing.T) {
	sc := SampleScenarios(today)

	_, err := NewStore([]Scenario{sc[0], sc[0]})
	assert.Error(t, err)

	clash := sc[1]
	clash.ID = "OTHER"
	clash.Invoice = sc[0].Invoice
	_, err = NewStore([]Scenario{sc[0], clash})
	assert.ErrorContains(t, err, "9000000789")
}
