// Package mapper turns SAP trade documents into W3C Verifiable Credentials
// whose subjects follow the KTDDE data model.
package mapper

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/metric"
	"github.com/c360studio/semcred/sap"
	"github.com/c360studio/semcred/vocabulary/shacl"
)

// DefaultBaseURL prefixes credential and subject ids.
const DefaultBaseURL = "https://example.com"

// Issuer DIDs used when a whole scenario is mapped.
const (
	BuyerDID     = "did:example:buyer"
	SellerDID    = "did:example:seller"
	CarrierDID   = "did:example:carrier"
	AuthorityDID = "did:example:authority"
	BankDID      = "did:example:bank"
)

// CertificateNumbering selects how certificate of origin numbers are made.
type CertificateNumbering int

const (
	// CertificateByDate suffixes the delivery number with today's date.
	CertificateByDate CertificateNumbering = iota

	// CertificateByDigest suffixes it with a digest of delivery and invoice
	// numbers, so the number is stable across days.
	CertificateByDigest
)

// Option configures a Mapper.
type Option func(*Mapper)

// WithBaseURL sets the URL prefix of credential and subject ids.
func WithBaseURL(u string) Option {
	return func(m *Mapper) {
		m.baseURL = strings.TrimRight(u, "/")
	}
}

// WithContextBase sets where the JSON-LD contexts are published.
func WithContextBase(u string) Option {
	return func(m *Mapper) {
		m.contextBase = strings.TrimRight(u, "/")
	}
}

// WithLookupPolicy sets the master-data miss policy.
func WithLookupPolicy(p LookupPolicy) Option {
	return func(m *Mapper) {
		m.policy = p
	}
}

// WithClock sets the clock used for certificates of origin.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

// WithCertificateNumber sets the certificate of origin numbering.
func WithCertificateNumber(n CertificateNumbering) Option {
	return func(m *Mapper) {
		m.numbering = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(mt *metric.Metrics) Option {
	return func(m *Mapper) {
		m.metrics = mt
	}
}

// Mapper maps SAP documents to credentials. It holds no mutable state and is
// safe for concurrent use.
type Mapper struct {
	dir         sap.MasterData
	baseURL     string
	contextBase string
	policy      LookupPolicy
	numbering   CertificateNumbering
	now         func() time.Time
	logger      *slog.Logger
	metrics     *metric.Metrics
}

// New creates a mapper over the given master data.
func New(dir sap.MasterData, opts ...Option) *Mapper {
	m := &Mapper{
		dir:         dir,
		baseURL:     DefaultBaseURL,
		contextBase: compiler.DefaultContextBase,
		policy:      LookupNull,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

func (m *Mapper) envelope(stem, credentialType, id, issuerDID, issuerName string, issued sap.Date, subject credential.Record) credential.Envelope {
	return credential.Envelope{
		Context:           []string{shacl.CredentialsV1, fmt.Sprintf("%s/%s-context.jsonld", m.contextBase, stem)},
		ID:                id,
		Type:              []string{"VerifiableCredential", credentialType},
		Issuer:            credential.IssuerRef{ID: issuerDID, Name: issuerName},
		IssuanceDate:      dateTime(issued),
		CredentialSubject: subject,
	}
}

// PurchaseOrder maps a purchase order to a PurchaseOrderCredential.
func (m *Mapper) PurchaseOrder(header sap.EKKO, items []sap.EKPO, issuerDID string) (credential.Envelope, error) {
	seller, err := m.party(header.Vendor)
	if err != nil {
		return credential.Envelope{}, err
	}

	lines := make([]any, 0, len(items))
	for _, item := range items {
		n, err := lineNumber(item.Item)
		if err != nil {
			return credential.Envelope{}, err
		}
		line := map[string]any{
			"type":               "GoodsItem",
			"lineNumber":         n,
			"productDescription": m.description(item.ShortText, item.Material),
			"quantity":           quantity(item.Quantity, item.Unit),
			"unitPrice":          amount(item.NetPrice, item.Currency),
			"lineAmount":         amount(item.Quantity.Mul(item.NetPrice), item.Currency),
		}
		if item.OriginCountry != "" {
			line["originCountry"] = country(item.OriginCountry)
		}
		lines = append(lines, line)
	}

	subject := credential.Record{
		"id":              fmt.Sprintf("%s/purchase-orders/%s", m.baseURL, header.Number),
		"type":            "PurchaseOrder",
		"orderIdentifier": header.Number,
		"orderDate":       header.Date.String(),
		"orderAmount":     amount(header.TargetValue, header.Currency),
		"buyerParty": map[string]any{
			"type":        "Party",
			"partyName":   "Buyer Company",
			"companyCode": header.CompanyCode,
		},
		"sellerParty": seller,
		"hasItem":     lines,
	}
	if header.PaymentTerms != "" {
		subject["definesPaymentTerms"] = paymentTerms(header.PaymentTerms)
	}
	if header.Incoterms != "" {
		subject["deliveryTerms"] = deliveryTerms(header.Incoterms, header.IncotermsPlace)
	}

	return m.envelope("purchaseorder", "PurchaseOrderCredential",
		fmt.Sprintf("%s/credentials/po/%s", m.baseURL, header.Number),
		issuerDID, "Buyer Company", header.Date, subject), nil
}

// CommercialInvoice maps a billing document to a CommercialInvoiceCredential.
func (m *Mapper) CommercialInvoice(header sap.VBRK, items []sap.VBRP, issuerDID string) (credential.Envelope, error) {
	buyer, err := m.party(header.SoldTo)
	if err != nil {
		return credential.Envelope{}, err
	}

	lines := make([]any, 0, len(items))
	for _, item := range items {
		n, err := lineNumber(item.Item)
		if err != nil {
			return credential.Envelope{}, err
		}
		line := map[string]any{
			"type":               "InvoiceLine",
			"lineNumber":         n,
			"productDescription": m.description(item.Description, item.Material),
			"quantity":           quantity(item.Quantity, item.Unit),
			"lineAmount":         monetary(item.NetValue, item.Currency),
		}
		if item.OriginCountry != "" {
			line["originCountry"] = country(item.OriginCountry)
		}
		if code := m.hsCode(item.Material); code != "" {
			line["commodityClassification"] = classification(code)
		}
		lines = append(lines, line)
	}

	subject := credential.Record{
		"id":             fmt.Sprintf("%s/invoices/%s", m.baseURL, header.Number),
		"type":           "CommercialInvoice",
		"invoiceNumber":  header.Number,
		"invoiceDate":    header.BillingDate.String(),
		"totalAmount":    monetary(header.NetValue, header.Currency),
		"buyerParty":     buyer,
		"sellerParty":    map[string]any{"type": "Party", "partyName": "Seller Company"},
		"hasInvoiceLine": lines,
	}
	if header.PaymentTerms != "" {
		subject["invoicePaymentTerms"] = paymentTerms(header.PaymentTerms)
		if header.PaymentTermDays > 0 {
			subject["paymentDueDate"] = header.BillingDate.AddDays(header.PaymentTermDays).String()
		}
	}
	if header.Incoterms != "" {
		subject["deliveryTerms"] = deliveryTerms(header.Incoterms, header.IncotermsPlace)
	}
	if header.BillOfLading != "" {
		subject["relatesToTransportDocument"] = map[string]any{
			"type":               "TransportDocument",
			"documentIdentifier": header.BillOfLading,
		}
	}
	if header.LetterOfCredit != "" {
		subject["relatesToDocumentaryCredit"] = map[string]any{
			"type":         "DocumentaryCredit",
			"creditNumber": header.LetterOfCredit,
		}
	}
	if header.SalesOrder != "" {
		subject["purchaseOrderNumber"] = header.SalesOrder
	}

	return m.envelope("commercialinvoice", "CommercialInvoiceCredential",
		fmt.Sprintf("%s/credentials/invoice/%s", m.baseURL, header.Number),
		issuerDID, "Seller Company", header.BillingDate, subject), nil
}

// BillOfLading maps a delivery to a BillOfLadingCredential. The document is
// identified by its BOLNR, else by the delivery number.
func (m *Mapper) BillOfLading(header sap.LIKP, items []sap.LIPS, issuerDID string) (credential.Envelope, error) {
	consignee, err := m.party(header.ShipTo)
	if err != nil {
		return credential.Envelope{}, err
	}

	docID := header.BillOfLading
	if docID == "" {
		docID = header.Number
	}
	issued := header.DeliveryDate
	if header.GoodsIssueDate != nil {
		issued = *header.GoodsIssueDate
	}

	goods := make([]any, 0, len(items))
	for _, item := range items {
		unit := weightUnit(item.WeightUnit)
		good := map[string]any{
			"type":                   "GoodsItem",
			"descriptionOfGoodsText": m.description(item.Description, item.Material),
			"grossWeight":            quantity(orZero(item.GrossWeight), unit),
			"netWeight":              quantity(orZero(item.NetWeight), unit),
			"quantity":               quantity(item.Quantity, item.Unit),
		}
		if item.OriginCountry != "" {
			good["originCountry"] = country(item.OriginCountry)
		}
		goods = append(goods, good)
	}

	subject := credential.Record{
		"id":                 fmt.Sprintf("%s/bills-of-lading/%s", m.baseURL, docID),
		"type":               "BillOfLading",
		"documentIdentifier": docID,
		"issueDate":          issued.String(),
		"consigneeParty":     consignee,
		"carrierParty":       map[string]any{"type": "Party", "partyName": "Carrier Company"},
		"hasGoodsItem":       goods,
		"totalGrossWeight":   quantity(orZero(header.TotalWeight), weightUnit(header.WeightUnit)),
	}
	if header.Incoterms != "" {
		subject["deliveryTermsText"] = strings.TrimSpace(header.Incoterms + " " + header.IncotermsPlace)
	}
	if !header.DeliveryDate.IsZero() {
		subject["actualDepartureDateTime"] = dateTime(header.DeliveryDate)
	}

	return m.envelope("billoflading", "BillOfLadingCredential",
		fmt.Sprintf("%s/credentials/bol/%s", m.baseURL, docID),
		issuerDID, "Carrier Company", issued, subject), nil
}

// CertificateOfOrigin derives a CertificateOfOriginCredential from a
// delivery and its invoice. It is issued today by the injected clock.
func (m *Mapper) CertificateOfOrigin(header sap.LIKP, items []sap.LIPS, invoice sap.VBRK, issuerDID string) (credential.Envelope, error) {
	exporter, err := m.party(invoice.SoldTo)
	if err != nil {
		return credential.Envelope{}, err
	}
	importer, err := m.party(header.ShipTo)
	if err != nil {
		return credential.Envelope{}, err
	}

	today := sap.DateOf(m.now().UTC())
	number := m.certificateNumber(header.Number, invoice.Number, today)

	goods := make([]any, 0, len(items))
	for _, item := range items {
		unit := weightUnit(item.WeightUnit)
		good := map[string]any{
			"type":               "GoodsItem",
			"descriptionOfGoods": m.description(item.Description, item.Material),
			"grossWeight":        quantity(orZero(item.GrossWeight), unit),
			"netWeight":          quantity(orZero(item.NetWeight), unit),
		}
		if item.OriginCountry != "" {
			good["originCountry"] = country(item.OriginCountry)
		}
		if code := m.hsCode(item.Material); code != "" {
			good["commodityClassification"] = classification(code)
		}
		goods = append(goods, good)
	}

	subject := credential.Record{
		"id":                    fmt.Sprintf("%s/certificates-of-origin/%s", m.baseURL, number),
		"type":                  "CertificateOfOrigin",
		"certificateNumber":     number,
		"issueDate":             today.String(),
		"exporterParty":         exporter,
		"importerParty":         importer,
		"issuingAuthorityParty": map[string]any{"type": "Party", "partyName": "Chamber of Commerce"},
		"issuerParty":           map[string]any{"type": "Party", "partyName": "Authorized Official"},
		"hasGoodsItem":          goods,
		"invoiceNumber":         invoice.Number,
	}
	if header.BillOfLading != "" {
		subject["transportDocumentNumber"] = header.BillOfLading
	}

	return m.envelope("certificateoforigin", "CertificateOfOriginCredential",
		fmt.Sprintf("%s/credentials/coo/%s", m.baseURL, number),
		issuerDID, "Chamber of Commerce", today, subject), nil
}

func (m *Mapper) certificateNumber(delivery, invoice string, today sap.Date) string {
	if m.numbering == CertificateByDigest {
		sum := blake3.Sum256([]byte(delivery + "|" + invoice))
		return fmt.Sprintf("COO-%s-%s", delivery, hex.EncodeToString(sum[:])[:8])
	}
	return fmt.Sprintf("COO-%s-%s", delivery, today.Compact())
}

// DocumentaryCredit maps a letter of credit to a
// DocumentaryCreditCredential that expires with the credit.
func (m *Mapper) DocumentaryCredit(lc sap.ZBANKF, issuerDID string) (credential.Envelope, error) {
	applicant, err := m.party(lc.Applicant)
	if err != nil {
		return credential.Envelope{}, err
	}
	beneficiary, err := m.party(lc.Beneficiary)
	if err != nil {
		return credential.Envelope{}, err
	}

	subject := credential.Record{
		"id":                     fmt.Sprintf("%s/documentary-credits/%s", m.baseURL, lc.Number),
		"type":                   "DocumentaryCredit",
		"creditNumber":           lc.Number,
		"issueDate":              lc.IssueDate.String(),
		"expiryDate":             lc.ExpiryDate.String(),
		"creditAmount":           monetary(lc.Amount, lc.Currency),
		"applicantParty":         applicant,
		"beneficiaryParty":       beneficiary,
		"issuingBankParty":       bank("Issuing Bank", lc.IssuingBank),
		"partialShipmentAllowed": lc.PartialShipments,
		"transshipmentAllowed":   lc.Transshipment,
		"presentationPeriodDays": lc.PresentationDays,
	}
	if lc.AdvisingBank != "" {
		subject["advisingBankParty"] = bank("Advising Bank", lc.AdvisingBank)
	}
	if lc.ConfirmingBank != "" {
		subject["confirmingBankParty"] = bank("Confirming Bank", lc.ConfirmingBank)
	}
	if lc.Incoterms != "" {
		subject["deliveryTerms"] = deliveryTerms(lc.Incoterms, lc.IncotermsPlace)
	}
	if len(lc.RequiredDocuments) > 0 {
		docs := make([]any, 0, len(lc.RequiredDocuments))
		for _, d := range lc.RequiredDocuments {
			docs = append(docs, map[string]any{"type": "DocumentRequirement", "documentType": d})
		}
		subject["requiresDocument"] = docs
	}
	if lc.LatestShipment != nil {
		subject["latestShipmentDate"] = lc.LatestShipment.String()
	}

	env := m.envelope("documentarycredit", "DocumentaryCreditCredential",
		fmt.Sprintf("%s/credentials/lc/%s", m.baseURL, lc.Number),
		issuerDID, "Issuing Bank", lc.IssueDate, subject)
	env.ExpirationDate = dateTime(lc.ExpiryDate)
	return env, nil
}

// Scenario credential keys.
const (
	KeyPurchaseOrder       = "purchase_order_vc"
	KeyBillOfLading        = "bill_of_lading_vc"
	KeyCommercialInvoice   = "commercial_invoice_vc"
	KeyCertificateOfOrigin = "certificate_of_origin_vc"
	KeyDocumentaryCredit   = "documentary_credit_vc"
)

// Scenario maps every document of a trade flow. A certificate of origin is
// produced when the flow has both a delivery and an invoice.
func (m *Mapper) Scenario(sc sap.Scenario) (map[string]credential.Envelope, error) {
	out := make(map[string]credential.Envelope)

	if sc.PurchaseOrder != nil {
		env, err := m.PurchaseOrder(sc.PurchaseOrder.Header, sc.PurchaseOrder.Items, BuyerDID)
		if err != nil {
			return nil, fmt.Errorf("map purchase order: %w", err)
		}
		out[KeyPurchaseOrder] = env
	}
	if sc.Delivery != nil {
		env, err := m.BillOfLading(sc.Delivery.Header, sc.Delivery.Items, CarrierDID)
		if err != nil {
			return nil, fmt.Errorf("map bill of lading: %w", err)
		}
		out[KeyBillOfLading] = env
	}
	if sc.Invoice != nil {
		env, err := m.CommercialInvoice(sc.Invoice.Header, sc.Invoice.Items, SellerDID)
		if err != nil {
			return nil, fmt.Errorf("map commercial invoice: %w", err)
		}
		out[KeyCommercialInvoice] = env
	}
	if sc.Delivery != nil && sc.Invoice != nil {
		env, err := m.CertificateOfOrigin(sc.Delivery.Header, sc.Delivery.Items, sc.Invoice.Header, AuthorityDID)
		if err != nil {
			return nil, fmt.Errorf("map certificate of origin: %w", err)
		}
		out[KeyCertificateOfOrigin] = env
	}
	if sc.DocumentaryCredit != nil {
		env, err := m.DocumentaryCredit(*sc.DocumentaryCredit, BankDID)
		if err != nil {
			return nil, fmt.Errorf("map documentary credit: %w", err)
		}
		out[KeyDocumentaryCredit] = env
	}
	return out, nil
}

// party resolves a partner. Under LookupNull a miss yields nil, which
// marshals as null.
func (m *Mapper) party(number string) (any, error) {
	p, ok := m.dir.Partner(number)
	if !ok {
		m.metrics.LookupMissed("partner")
		if m.policy == LookupStrict {
			return nil, &LookupMiss{Kind: "partner", Key: number}
		}
		m.logger.Warn("Partner not found in master data", "partner", number)
		return nil, nil
	}

	party := map[string]any{
		"type":      "Party",
		"partyName": p.Name1,
		"hasAddress": map[string]any{
			"type":       "Address",
			"street":     p.Street,
			"city":       p.City,
			"postalCode": p.PostCode,
			"country":    country(p.Country),
		},
	}
	if p.VATNumber != "" {
		party["taxNumber"] = p.VATNumber
	}
	return party, nil
}

// description prefers the document text and falls back to the material
// master. Material misses degrade to an empty string under every policy.
func (m *Mapper) description(text, material string) string {
	if text != "" {
		return text
	}
	if material == "" {
		return ""
	}
	mat, ok := m.dir.Material(material)
	if !ok {
		m.metrics.LookupMissed("material")
		m.logger.Warn("Material not found in master data", "material", material)
		return ""
	}
	return mat.Description
}

func (m *Mapper) hsCode(material string) string {
	if material == "" {
		return ""
	}
	mat, ok := m.dir.Material(material)
	if !ok {
		return ""
	}
	return mat.HSCode
}

func lineNumber(item string) (int, error) {
	n, err := strconv.Atoi(item)
	if err != nil {
		return 0, fmt.Errorf("parse item number %q: %w", item, err)
	}
	return n, nil
}

func dateTime(d sap.Date) string {
	return credential.FormatTime(d.Time())
}

func orZero(d sap.Decimal) sap.Decimal {
	if d.IsZero() {
		return "0"
	}
	return d
}

func weightUnit(u string) string {
	if u == "" {
		return "KG"
	}
	return u
}

func quantity(value sap.Decimal, unit string) map[string]any {
	return map[string]any{"type": "Quantity", "quantityValue": value.String(), "unitCode": unit}
}

func amount(value sap.Decimal, currency string) map[string]any {
	return map[string]any{"type": "Amount", "value": orZero(value), "currencyCode": currency}
}

func monetary(value sap.Decimal, currency string) map[string]any {
	return map[string]any{"type": "MonetaryAmount", "amountValue": orZero(value), "currencyCode": currency}
}

func country(code string) map[string]any {
	return map[string]any{"type": "Country", "countryCode": code}
}

func classification(code string) map[string]any {
	return map[string]any{"type": "CommodityClassification", "classificationCode": code}
}

func paymentTerms(code string) map[string]any {
	return map[string]any{"type": "PaymentTerms", "paymentTermsCode": code}
}

func bank(name, swift string) map[string]any {
	return map[string]any{"type": "Bank", "bankName": name, "swiftCode": swift}
}

func deliveryTerms(incoterms, place string) map[string]any {
	terms := map[string]any{"type": "TradeDeliveryTerms", "incotermsCode": incoterms}
	if place != "" {
		terms["namedPlace"] = place
	}
	return terms
}
