// Package sap models the SAP SD/MM records that trade documents are mapped
// from, plus read-only master data and sample trade scenarios. JSON field
// names follow the SAP table columns.
package sap

// EKKO is a purchase order header.
type EKKO struct {
	Number          string  `json:"EBELN"`
	CompanyCode     string  `json:"BUKRS"`
	Category        string  `json:"BSTYP"`
	DocumentType    string  `json:"BSART"`
	Date            Date    `json:"AEDAT"`
	Vendor          string  `json:"LIFNR"`
	PurchasingOrg   string  `json:"EKORG"`
	PurchasingGroup string  `json:"EKGRP"`
	Currency        string  `json:"WAERS"`
	PaymentTerms    string  `json:"ZTERM,omitempty"`
	Incoterms       string  `json:"INCO1,omitempty"`
	IncotermsPlace  string  `json:"INCO2,omitempty"`
	TargetValue     Decimal `json:"KTWRT,omitempty"`
	Contract        string  `json:"KONNR,omitempty"`
	ContractStart   *Date   `json:"KDATB,omitempty"`
	ContractEnd     *Date   `json:"KDATE,omitempty"`
	YourReference   string  `json:"IHREZ,omitempty"`
	OurReference    string  `json:"UNSEZ,omitempty"`
}

// EKPO is a purchase order item.
type EKPO struct {
	Number        string  `json:"EBELN"`
	Item          string  `json:"EBELP"`
	Material      string  `json:"MATNR,omitempty"`
	ShortText     string  `json:"TXZ01,omitempty"`
	MaterialGroup string  `json:"MATKL,omitempty"`
	Quantity      Decimal `json:"MENGE"`
	Unit          string  `json:"MEINS"`
	NetPrice      Decimal `json:"NETPR"`
	PriceUnit     Decimal `json:"PEINH,omitempty"`
	Currency      string  `json:"WAERS"`
	DeliveryDate  *Date   `json:"EINDT,omitempty"`
	Plant         string  `json:"WERKS,omitempty"`
	StorageLoc    string  `json:"LGORT,omitempty"`
	OriginCountry string  `json:"LAND1,omitempty"`
	TaxCode       string  `json:"MWSKZ,omitempty"`
}

// VBAK is a sales order header.
type VBAK struct {
	Number              string  `json:"VBELN"`
	SalesOrg            string  `json:"VKORG"`
	DistributionChannel string  `json:"VTWEG"`
	Division            string  `json:"SPART"`
	Category            string  `json:"VBTYP"`
	DocumentType        string  `json:"AUART"`
	SoldTo              string  `json:"KUNNR"`
	Created             Date    `json:"ERDAT"`
	OrderDate           Date    `json:"AUDAT"`
	RequestedDelivery   *Date   `json:"VDATU,omitempty"`
	Currency            string  `json:"WAERK"`
	NetValue            Decimal `json:"NETWR"`
	PaymentTerms        string  `json:"ZTERM,omitempty"`
	Incoterms           string  `json:"INCO1,omitempty"`
	IncotermsPlace      string  `json:"INCO2,omitempty"`
	CustomerPO          string  `json:"BSTNK,omitempty"`
	CustomerPODate      *Date   `json:"BSTDK,omitempty"`
	LetterOfCredit      string  `json:"LCNUM,omitempty"`
}

// VBAP is a sales order item.
type VBAP struct {
	Number        string  `json:"VBELN"`
	Item          string  `json:"POSNR"`
	Material      string  `json:"MATNR,omitempty"`
	Description   string  `json:"ARKTX,omitempty"`
	MaterialGroup string  `json:"MATKL,omitempty"`
	Quantity      Decimal `json:"KWMENG"`
	Unit          string  `json:"VRKME"`
	NetValue      Decimal `json:"NETWR"`
	Currency      string  `json:"WAERK"`
	NetPrice      Decimal `json:"NETPR"`
	Plant         string  `json:"WERKS,omitempty"`
	StorageLoc    string  `json:"LGORT,omitempty"`
}

// LIKP is a delivery header.
type LIKP struct {
	Number             string  `json:"VBELN"`
	DeliveryType       string  `json:"LFART"`
	Category           string  `json:"VBTYP"`
	ShippingPoint      string  `json:"VSTEL"`
	ShipTo             string  `json:"KUNNR"`
	SoldTo             string  `json:"KUNAG,omitempty"`
	Created            Date    `json:"ERDAT"`
	DeliveryDate       Date    `json:"LFDAT"`
	GoodsIssueDate     *Date   `json:"WADAT,omitempty"`
	Incoterms          string  `json:"INCO1,omitempty"`
	IncotermsPlace     string  `json:"INCO2,omitempty"`
	Route              string  `json:"ROUTE,omitempty"`
	ShippingConditions string  `json:"VSBED,omitempty"`
	TotalWeight        Decimal `json:"BTGEW,omitempty"`
	WeightUnit         string  `json:"GEWEI,omitempty"`
	Volume             Decimal `json:"VOLUM,omitempty"`
	VolumeUnit         string  `json:"VOLEH,omitempty"`
	BillOfLading       string  `json:"BOLNR,omitempty"`
}

// LIPS is a delivery item.
type LIPS struct {
	Number        string  `json:"VBELN"`
	Item          string  `json:"POSNR"`
	Material      string  `json:"MATNR,omitempty"`
	Description   string  `json:"ARKTX,omitempty"`
	MaterialGroup string  `json:"MATKL,omitempty"`
	Quantity      Decimal `json:"LFIMG"`
	Unit          string  `json:"VRKME"`
	GrossWeight   Decimal `json:"BRGEW,omitempty"`
	NetWeight     Decimal `json:"NTGEW,omitempty"`
	WeightUnit    string  `json:"GEWEI,omitempty"`
	Plant         string  `json:"WERKS,omitempty"`
	StorageLoc    string  `json:"LGORT,omitempty"`
	OriginCountry string  `json:"HERKL,omitempty"`
}

// VBRK is a billing document (invoice) header.
type VBRK struct {
	Number            string  `json:"VBELN"`
	BillingType       string  `json:"FKART"`
	BillingCategory   string  `json:"FKTYP"`
	SoldTo            string  `json:"KUNAG"`
	Payer             string  `json:"KUNRG"`
	Created           Date    `json:"ERDAT"`
	BillingDate       Date    `json:"FKDAT"`
	PaymentTerms      string  `json:"ZTERM,omitempty"`
	PaymentTermDays   int     `json:"ZBD1T,omitempty"`
	Currency          string  `json:"WAERK"`
	NetValue          Decimal `json:"NETWR"`
	TaxAmount         Decimal `json:"MWSBK"`
	SalesOrder        string  `json:"VBELN_REF,omitempty"`
	Delivery          string  `json:"VBELN_DEL,omitempty"`
	Incoterms         string  `json:"INCO1,omitempty"`
	IncotermsPlace    string  `json:"INCO2,omitempty"`
	LetterOfCredit    string  `json:"LCNUM,omitempty"`
	BillOfLading      string  `json:"BOLNR,omitempty"`
	CustomerReference string  `json:"BSTNK,omitempty"`
}

// VBRP is a billing document item.
type VBRP struct {
	Number        string  `json:"VBELN"`
	Item          string  `json:"POSNR"`
	Material      string  `json:"MATNR,omitempty"`
	Description   string  `json:"ARKTX,omitempty"`
	MaterialGroup string  `json:"MATKL,omitempty"`
	Quantity      Decimal `json:"FKIMG"`
	Unit          string  `json:"VRKME"`
	NetValue      Decimal `json:"NETWR"`
	Currency      string  `json:"WAERK"`
	TaxAmount     Decimal `json:"MWSBP"`
	TaxCode       string  `json:"MWSKZ,omitempty"`
	OriginCountry string  `json:"HERKL,omitempty"`
}

// ZBANKF is a documentary credit (letter of credit).
type ZBANKF struct {
	Number            string   `json:"LCNUM"`
	Type              string   `json:"LCTYPE"`
	Applicant         string   `json:"APPLICANT"`
	Beneficiary       string   `json:"BENEFICIARY"`
	IssuingBank       string   `json:"ISSUING_BANK"`
	AdvisingBank      string   `json:"ADVISING_BANK,omitempty"`
	ConfirmingBank    string   `json:"CONFIRMING_BANK,omitempty"`
	Amount            Decimal  `json:"LCAMOUNT"`
	Currency          string   `json:"LCCURRENCY"`
	IssueDate         Date     `json:"ISSUE_DATE"`
	ExpiryDate        Date     `json:"EXPIRY_DATE"`
	LatestShipment    *Date    `json:"LATEST_SHIP_DATE,omitempty"`
	PartialShipments  bool     `json:"PARTIAL_SHIP"`
	Transshipment     bool     `json:"TRANSHIP"`
	Incoterms         string   `json:"INCO1,omitempty"`
	IncotermsPlace    string   `json:"INCO2,omitempty"`
	PresentationDays  int      `json:"PRES_DAYS"`
	RequiredDocuments []string `json:"DOCS_REQUIRED,omitempty"`
	PurchaseOrder     string   `json:"PURCHASE_ORDER,omitempty"`
	SalesOrder        string   `json:"SALES_ORDER,omitempty"`
}

// Partner types.
const (
	PartnerCustomer = "CUSTOMER"
	PartnerVendor   = "VENDOR"
)

// Partner is a customer or vendor master record.
type Partner struct {
	Number      string `json:"PARTNER_NUM"`
	Type        string `json:"PARTNER_TYPE"`
	Name1       string `json:"NAME1"`
	Name2       string `json:"NAME2,omitempty"`
	Name3       string `json:"NAME3,omitempty"`
	Street      string `json:"STREET"`
	City        string `json:"CITY"`
	PostCode    string `json:"POST_CODE"`
	Region      string `json:"REGION,omitempty"`
	Country     string `json:"COUNTRY"`
	Phone       string `json:"TEL_NUMBER,omitempty"`
	Fax         string `json:"FAX_NUMBER,omitempty"`
	Email       string `json:"EMAIL,omitempty"`
	VATNumber   string `json:"STCEG,omitempty"`
	TaxNumber   string `json:"STCD1,omitempty"`
	BankKey     string `json:"BANKL,omitempty"`
	BankAccount string `json:"BANKN,omitempty"`
	SWIFT       string `json:"SWIFT,omitempty"`
}

// Material is a material master record.
type Material struct {
	Number      string  `json:"MATNR"`
	Description string  `json:"MAKTX"`
	Group       string  `json:"MATKL,omitempty"`
	Unit        string  `json:"MEINS"`
	GrossWeight Decimal `json:"BRGEW,omitempty"`
	NetWeight   Decimal `json:"NTGEW,omitempty"`
	WeightUnit  string  `json:"GEWEI,omitempty"`
	HSCode      string  `json:"HSNCODE,omitempty"`
	Origin      string  `json:"HERKL,omitempty"`
	Dangerous   bool    `json:"DANGEROUS"`
	UNNumber    string  `json:"UN_NUMBER,omitempty"`
}

// Document is a header with its items.
type Document[H, I any] struct {
	Header H   `json:"header"`
	Items  []I `json:"items"`
}

// Document kinds.
type (
	PurchaseOrder = Document[EKKO, EKPO]
	SalesOrder    = Document[VBAK, VBAP]
	Delivery      = Document[LIKP, LIPS]
	Invoice       = Document[VBRK, VBRP]
)

// Scenario is one end-to-end trade flow. Documents a flow does not produce
// are nil.
type Scenario struct {
	ID                string         `json:"scenario"`
	Description       string         `json:"description"`
	PurchaseOrder     *PurchaseOrder `json:"purchase_order,omitempty"`
	SalesOrder        *SalesOrder    `json:"sales_order,omitempty"`
	Delivery          *Delivery      `json:"delivery,omitempty"`
	Invoice           *Invoice       `json:"invoice,omitempty"`
	DocumentaryCredit *ZBANKF        `json:"documentary_credit,omitempty"`
}
