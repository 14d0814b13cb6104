package mapper

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/sap"
	"github.com/c360studio/semcred/vocabulary/shacl"
)

var today = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func testMapper(opts ...Option) *Mapper {
	opts = append([]Option{WithClock(func() time.Time { return today })}, opts...)
	return New(sap.SampleDirectory(), opts...)
}

func scenario(t *testing.T, id string) sap.Scenario {
	t.Helper()
	store, err := sap.NewStore(sap.SampleScenarios(today))
	require.NoError(t, err)
	sc, err := store.Scenario(id)
	require.NoError(t, err)
	return sc
}

// roundTrip renders an envelope the way it goes over the wire.
func roundTrip(t *testing.T, env credential.Envelope) map[string]any {
	t.Helper()
	doc, err := env.Document()
	require.NoError(t, err)
	return doc
}

func TestPurchaseOrder(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	po := sc.PurchaseOrder

	env, err := testMapper().PurchaseOrder(po.Header, po.Items, BuyerDID)
	require.NoError(t, err)

	assert.Equal(t, []string{shacl.CredentialsV1, "https://github.com/jgmikael/trade-automation/contexts/purchaseorder-context.jsonld"}, env.Context)
	assert.Equal(t, "https://example.com/credentials/po/4500000123", env.ID)
	assert.Equal(t, []string{"VerifiableCredential", "PurchaseOrderCredential"}, env.Type)
	assert.Equal(t, credential.IssuerRef{ID: BuyerDID, Name: "Buyer Company"}, env.Issuer)
	assert.Equal(t, "2026-09-01T00:00:00Z", env.IssuanceDate)
	assert.Nil(t, env.Proof)

	doc := roundTrip(t, env)
	subject := doc["credentialSubject"].(map[string]any)
	assert.Equal(t, "https://example.com/purchase-orders/4500000123", subject["id"])
	assert.Equal(t, "PurchaseOrder", subject["type"])
	assert.Equal(t, "2026-09-01", subject["orderDate"])
	assert.Equal(t, map[string]any{"type": "Amount", "value": 125000.0, "currencyCode": "EUR"}, subject["orderAmount"])
	assert.Equal(t, map[string]any{"type": "Party", "partyName": "Buyer Company", "companyCode": "1000"}, subject["buyerParty"])
	assert.Equal(t, map[string]any{"type": "PaymentTerms", "paymentTermsCode": "LC30"}, subject["definesPaymentTerms"])
	assert.Equal(t, map[string]any{"type": "TradeDeliveryTerms", "incotermsCode": "CIF", "namedPlace": "Singapore Port"}, subject["deliveryTerms"])

	seller := subject["sellerParty"].(map[string]any)
	assert.Equal(t, "European Components AB", seller["partyName"])
	assert.Equal(t, "SE123456789001", seller["taxNumber"])
	assert.Equal(t, map[string]any{
		"type":       "Address",
		"street":     "Exportgatan 10",
		"city":       "Stockholm",
		"postalCode": "11122",
		"country":    map[string]any{"type": "Country", "countryCode": "SE"},
	}, seller["hasAddress"])

	items := subject["hasItem"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, 10.0, item["lineNumber"])
	assert.Equal(t, "Industrial Servo Motor 5kW", item["productDescription"])
	assert.Equal(t, map[string]any{"type": "Quantity", "quantityValue": "50", "unitCode": "EA"}, item["quantity"])
	assert.Equal(t, map[string]any{"type": "Amount", "value": 125000.0, "currencyCode": "EUR"}, item["lineAmount"])
	assert.Equal(t, map[string]any{"type": "Country", "countryCode": "FI"}, item["originCountry"])
}

func TestPurchaseOrder_LineAmountKeepsScale(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	env, err := testMapper().PurchaseOrder(sc.PurchaseOrder.Header, sc.PurchaseOrder.Items, BuyerDID)
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lineAmount":{"currencyCode":"EUR","type":"Amount","value":125000.00}`)
}

func TestPurchaseOrder_OptionalFieldsOmitted(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	h := sc.PurchaseOrder.Header
	h.PaymentTerms, h.Incoterms, h.IncotermsPlace, h.TargetValue = "", "", "", ""
	items := []sap.EKPO{{Item: "00010", Material: "MAT-300001", Quantity: "4", Unit: "EA", NetPrice: "12.5", Currency: "EUR"}}

	env, err := testMapper().PurchaseOrder(h, items, BuyerDID)
	require.NoError(t, err)

	subject := roundTrip(t, env)["credentialSubject"].(map[string]any)
	assert.NotContains(t, subject, "definesPaymentTerms")
	assert.NotContains(t, subject, "deliveryTerms")
	assert.Equal(t, 0.0, subject["orderAmount"].(map[string]any)["value"])

	item := subject["hasItem"].([]any)[0].(map[string]any)
	assert.Equal(t, "High-Precision Bearing Assembly", item["productDescription"])
	assert.NotContains(t, item, "originCountry")
	assert.Equal(t, 50.0, item["lineAmount"].(map[string]any)["value"])
}

func TestPurchaseOrder_BadLineNumber(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	items := []sap.EKPO{{Item: "A10"}}
	_, err := testMapper().PurchaseOrder(sc.PurchaseOrder.Header, items, BuyerDID)
	assert.ErrorContains(t, err, `parse item number "A10"`)
}

func TestCommercialInvoice(t *testing.T) {
	sc := scenario(t, sap.ScenarioJapanElectronics)
	inv := sc.Invoice

	env, err := testMapper().CommercialInvoice(inv.Header, inv.Items, SellerDID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/credentials/invoice/9000001012", env.ID)
	assert.Equal(t, "Seller Company", env.Issuer.Name)
	assert.Equal(t, "2026-10-13T00:00:00Z", env.IssuanceDate)

	subject := roundTrip(t, env)["credentialSubject"].(map[string]any)
	assert.Equal(t, "CommercialInvoice", subject["type"])
	assert.Equal(t, "9000001012", subject["invoiceNumber"])
	assert.Equal(t, map[string]any{"type": "MonetaryAmount", "amountValue": 87500.0, "currencyCode": "EUR"}, subject["totalAmount"])
	assert.Equal(t, "Tokyo Industrial Equipment Co Ltd", subject["buyerParty"].(map[string]any)["partyName"])
	assert.NotContains(t, subject["buyerParty"], "taxNumber")
	assert.Equal(t, "2026-11-27", subject["paymentDueDate"])
	assert.Equal(t, map[string]any{"type": "TransportDocument", "documentIdentifier": "HLCUHAMB20240123"}, subject["relatesToTransportDocument"])
	assert.Equal(t, map[string]any{"type": "DocumentaryCredit", "creditNumber": "LC-MUFG-JP-2024-01234"}, subject["relatesToDocumentaryCredit"])
	assert.Equal(t, "0100000567", subject["purchaseOrderNumber"])

	lines := subject["hasInvoiceLine"].([]any)
	require.Len(t, lines, 2)
	second := lines[1].(map[string]any)
	assert.Equal(t, 20.0, second["lineNumber"])
	assert.Equal(t, map[string]any{"type": "CommodityClassification", "classificationCode": "8537.10"}, second["commodityClassification"])
	assert.Equal(t, map[string]any{"type": "MonetaryAmount", "amountValue": 37500.0, "currencyCode": "EUR"}, second["lineAmount"])
}

func TestCommercialInvoice_NoTermDays(t *testing.T) {
	sc := scenario(t, sap.ScenarioJapanElectronics)
	h := sc.Invoice.Header
	h.PaymentTermDays = 0
	h.LetterOfCredit, h.BillOfLading, h.SalesOrder = "", "", ""

	env, err := testMapper().CommercialInvoice(h, nil, SellerDID)
	require.NoError(t, err)

	subject := env.CredentialSubject
	assert.Contains(t, subject, "invoicePaymentTerms")
	assert.NotContains(t, subject, "paymentDueDate")
	assert.NotContains(t, subject, "relatesToTransportDocument")
	assert.NotContains(t, subject, "relatesToDocumentaryCredit")
	assert.NotContains(t, subject, "purchaseOrderNumber")
	assert.Empty(t, subject["hasInvoiceLine"])
}

func TestBillOfLading(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	d := sc.Delivery

	env, err := testMapper().BillOfLading(d.Header, d.Items, CarrierDID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/credentials/bol/MAEU123456789", env.ID)
	assert.Equal(t, "Carrier Company", env.Issuer.Name)
	assert.Equal(t, "2026-10-11T00:00:00Z", env.IssuanceDate)

	subject := roundTrip(t, env)["credentialSubject"].(map[string]any)
	assert.Equal(t, "MAEU123456789", subject["documentIdentifier"])
	assert.Equal(t, "2026-10-11", subject["issueDate"])
	assert.Equal(t, "Singapore Trading Company Pte Ltd", subject["consigneeParty"].(map[string]any)["partyName"])
	assert.Equal(t, map[string]any{"type": "Quantity", "quantityValue": "4275.0", "unitCode": "KG"}, subject["totalGrossWeight"])
	assert.Equal(t, "CIF Singapore Port", subject["deliveryTermsText"])
	assert.Equal(t, "2026-10-11T00:00:00Z", subject["actualDepartureDateTime"])

	good := subject["hasGoodsItem"].([]any)[0].(map[string]any)
	assert.Equal(t, "Industrial Servo Motor 5kW", good["descriptionOfGoodsText"])
	assert.Equal(t, map[string]any{"type": "Quantity", "quantityValue": "85.5", "unitCode": "KG"}, good["grossWeight"])
}

func TestBillOfLading_Fallbacks(t *testing.T) {
	h := sap.LIKP{
		Number:       "8000000999",
		ShipTo:       "200001",
		DeliveryDate: sap.NewDate(2026, 10, 1),
		Incoterms:    "EXW",
	}
	items := []sap.LIPS{{Item: "10", Material: "MAT-200001", Quantity: "1", Unit: "EA"}}

	env, err := testMapper().BillOfLading(h, items, CarrierDID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/credentials/bol/8000000999", env.ID)
	assert.Equal(t, "2026-10-01T00:00:00Z", env.IssuanceDate)

	subject := env.CredentialSubject
	assert.Equal(t, "EXW", subject["deliveryTermsText"])
	assert.Equal(t, map[string]any{"type": "Quantity", "quantityValue": "0", "unitCode": "KG"}, subject["totalGrossWeight"])

	good := subject["hasGoodsItem"].([]any)[0].(map[string]any)
	assert.Equal(t, "Industrial Control Unit ICU-500", good["descriptionOfGoodsText"])
	assert.NotContains(t, good, "originCountry")
}

func TestCertificateOfOrigin(t *testing.T) {
	sc := scenario(t, sap.ScenarioJapanElectronics)

	t.Run("by date", func(t *testing.T) {
		env, err := testMapper().CertificateOfOrigin(sc.Delivery.Header, sc.Delivery.Items, sc.Invoice.Header, AuthorityDID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/credentials/coo/COO-8000000678-20261016", env.ID)
		assert.Equal(t, "2026-10-16T00:00:00Z", env.IssuanceDate)
		assert.Equal(t, "Chamber of Commerce", env.Issuer.Name)

		subject := roundTrip(t, env)["credentialSubject"].(map[string]any)
		assert.Equal(t, "COO-8000000678-20261016", subject["certificateNumber"])
		assert.Equal(t, "2026-10-16", subject["issueDate"])
		assert.Equal(t, "9000001012", subject["invoiceNumber"])
		assert.Equal(t, "HLCUHAMB20240123", subject["transportDocumentNumber"])
		assert.Equal(t, "Tokyo Industrial Equipment Co Ltd", subject["exporterParty"].(map[string]any)["partyName"])
		assert.Equal(t, "Tokyo Industrial Equipment Co Ltd", subject["importerParty"].(map[string]any)["partyName"])
		assert.Equal(t, map[string]any{"type": "Party", "partyName": "Authorized Official"}, subject["issuerParty"])

		goods := subject["hasGoodsItem"].([]any)
		require.Len(t, goods, 2)
		first := goods[0].(map[string]any)
		assert.Equal(t, "Industrial Control Unit ICU-500", first["descriptionOfGoods"])
		assert.Equal(t, map[string]any{"type": "Country", "countryCode": "SE"}, first["originCountry"])
		assert.NotContains(t, first, "quantity")
	})

	t.Run("by digest", func(t *testing.T) {
		m := testMapper(WithCertificateNumber(CertificateByDigest))
		a, err := m.CertificateOfOrigin(sc.Delivery.Header, sc.Delivery.Items, sc.Invoice.Header, AuthorityDID)
		require.NoError(t, err)

		later := testMapper(WithCertificateNumber(CertificateByDigest),
			WithClock(func() time.Time { return today.AddDate(0, 0, 3) }))
		b, err := later.CertificateOfOrigin(sc.Delivery.Header, sc.Delivery.Items, sc.Invoice.Header, AuthorityDID)
		require.NoError(t, err)

		number := a.CredentialSubject["certificateNumber"].(string)
		assert.Regexp(t, `^COO-8000000678-[0-9a-f]{8}$`, number)
		assert.Equal(t, number, b.CredentialSubject["certificateNumber"])
		assert.NotEqual(t, a.IssuanceDate, b.IssuanceDate)
	})
}

func TestDocumentaryCredit(t *testing.T) {
	sc := scenario(t, sap.ScenarioJapanElectronics)

	env, err := testMapper().DocumentaryCredit(*sc.DocumentaryCredit, BankDID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/credentials/lc/LC-MUFG-JP-2024-01234", env.ID)
	assert.Equal(t, "2026-09-11T00:00:00Z", env.IssuanceDate)
	assert.Equal(t, "2026-12-10T00:00:00Z", env.ExpirationDate)

	subject := roundTrip(t, env)["credentialSubject"].(map[string]any)
	assert.Equal(t, "2026-12-10", subject["expiryDate"])
	assert.Equal(t, map[string]any{"type": "MonetaryAmount", "amountValue": 87500.0, "currencyCode": "EUR"}, subject["creditAmount"])
	assert.Equal(t, "Deutsche Elektronik GmbH", subject["beneficiaryParty"].(map[string]any)["partyName"])
	assert.Equal(t, map[string]any{"type": "Bank", "bankName": "Issuing Bank", "swiftCode": "MUFGJPJT"}, subject["issuingBankParty"])
	assert.Equal(t, map[string]any{"type": "Bank", "bankName": "Confirming Bank", "swiftCode": "DEUTDEMM"}, subject["confirmingBankParty"])
	assert.Equal(t, true, subject["partialShipmentAllowed"])
	assert.Equal(t, 21.0, subject["presentationPeriodDays"])
	assert.Equal(t, "2026-11-10", subject["latestShipmentDate"])

	docs := subject["requiresDocument"].([]any)
	require.Len(t, docs, 4)
	assert.Equal(t, map[string]any{"type": "DocumentRequirement", "documentType": "Commercial Invoice"}, docs[0])
}

func TestDocumentaryCredit_NoConfirmingBank(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	env, err := testMapper().DocumentaryCredit(*sc.DocumentaryCredit, BankDID)
	require.NoError(t, err)
	assert.Contains(t, env.CredentialSubject, "advisingBankParty")
	assert.NotContains(t, env.CredentialSubject, "confirmingBankParty")
}

func TestScenario(t *testing.T) {
	t.Run("full flow", func(t *testing.T) {
		vcs, err := testMapper().Scenario(scenario(t, sap.ScenarioSingaporeMachinery))
		require.NoError(t, err)
		assert.Len(t, vcs, 5)
		assert.Equal(t, BuyerDID, vcs[KeyPurchaseOrder].Issuer.ID)
		assert.Equal(t, CarrierDID, vcs[KeyBillOfLading].Issuer.ID)
		assert.Equal(t, SellerDID, vcs[KeyCommercialInvoice].Issuer.ID)
		assert.Equal(t, AuthorityDID, vcs[KeyCertificateOfOrigin].Issuer.ID)
		assert.Equal(t, BankDID, vcs[KeyDocumentaryCredit].Issuer.ID)
	})

	t.Run("no purchase order", func(t *testing.T) {
		vcs, err := testMapper().Scenario(scenario(t, sap.ScenarioJapanElectronics))
		require.NoError(t, err)
		assert.Len(t, vcs, 4)
		assert.NotContains(t, vcs, KeyPurchaseOrder)
	})

	t.Run("no invoice means no certificate", func(t *testing.T) {
		sc := scenario(t, sap.ScenarioJapanElectronics)
		sc.Invoice = nil
		vcs, err := testMapper().Scenario(sc)
		require.NoError(t, err)
		assert.NotContains(t, vcs, KeyCertificateOfOrigin)
		assert.Contains(t, vcs, KeyBillOfLading)
	})
}

func TestLookupPolicy(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	h := sc.PurchaseOrder.Header
	h.Vendor = "999999"

	t.Run("null", func(t *testing.T) {
		var logs bytes.Buffer
		m := testMapper(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		env, err := m.PurchaseOrder(h, sc.PurchaseOrder.Items, BuyerDID)
		require.NoError(t, err)

		raw, err := json.Marshal(env.CredentialSubject)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"sellerParty":null`)
		assert.Contains(t, logs.String(), "partner=999999")
	})

	t.Run("strict", func(t *testing.T) {
		m := testMapper(WithLookupPolicy(LookupStrict))
		_, err := m.PurchaseOrder(h, sc.PurchaseOrder.Items, BuyerDID)
		require.Error(t, err)
		assert.True(t, IsLookupMiss(err))

		var lm *LookupMiss
		require.ErrorAs(t, err, &lm)
		assert.Equal(t, LookupMiss{Kind: "partner", Key: "999999"}, *lm)
	})

	t.Run("strict wraps through scenario", func(t *testing.T) {
		sc := scenario(t, sap.ScenarioSingaporeMachinery)
		sc.DocumentaryCredit.Beneficiary = "404"
		_, err := testMapper(WithLookupPolicy(LookupStrict)).Scenario(sc)
		assert.True(t, IsLookupMiss(err))
		assert.ErrorContains(t, err, "map documentary credit")
	})

	t.Run("material miss degrades", func(t *testing.T) {
		items := []sap.EKPO{{Item: "10", Material: "MAT-404", Quantity: "1", Unit: "EA", NetPrice: "1", Currency: "EUR"}}
		env, err := testMapper(WithLookupPolicy(LookupStrict)).PurchaseOrder(sc.PurchaseOrder.Header, items, BuyerDID)
		require.NoError(t, err)
		item := env.CredentialSubject["hasItem"].([]any)[0].(map[string]any)
		assert.Equal(t, "", item["productDescription"])
	})
}

func TestParseLookupPolicy(t *testing.T) {
	p, err := ParseLookupPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LookupNull, p)

	p, err = ParseLookupPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, LookupStrict, p)

	_, err = ParseLookupPolicy("lenient")
	assert.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	sc := scenario(t, sap.ScenarioSingaporeMachinery)
	m := testMapper(WithBaseURL("https://trade.example.org/"), WithContextBase("https://ctx.example.org"))
	env, err := m.DocumentaryCredit(*sc.DocumentaryCredit, BankDID)
	require.NoError(t, err)
	assert.Equal(t, "https://trade.example.org/credentials/lc/LC-HSBC-SG-2024-00789", env.ID)
	assert.Equal(t, "https://ctx.example.org/documentarycredit-context.jsonld", env.Context[1])
}
