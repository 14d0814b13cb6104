package sap

import "time"

// Sample scenario ids.
const (
	ScenarioSingaporeMachinery = "EU_TO_SINGAPORE_MACHINERY_EXPORT"
	ScenarioJapanElectronics   = "EU_TO_JAPAN_ELECTRONICS_EXPORT"
)

func date(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(d Date) *Date {
	return &d
}

// SamplePartners returns the demo customers and vendors.
func SamplePartners() []Partner {
	return []Partner{
		{
			Number: "100001", Type: PartnerCustomer,
			Name1: "Nordic Machinery Oy",
			Street: "Teollisuuskatu 15", City: "Helsinki", PostCode: "00510", Country: "FI",
			Phone: "+358 9 1234 5678", Email: "orders@nordicmachinery.fi",
			VATNumber: "FI12345678", SWIFT: "NDEAFIHH",
		},
		{
			Number: "100002", Type: PartnerCustomer,
			Name1: "Deutsche Elektronik GmbH",
			Street: "Industriestraße 42", City: "Munich", PostCode: "80331", Region: "BY", Country: "DE",
			Phone: "+49 89 1234 5678", Email: "procurement@de-elektronik.de",
			VATNumber: "DE123456789", SWIFT: "DEUTDEMM",
		},
		{
			Number: "200001", Type: PartnerCustomer,
			Name1: "Singapore Trading Company Pte Ltd",
			Street: "1 Marina Boulevard", City: "Singapore", PostCode: "018989", Country: "SG",
			Phone: "+65 6123 4567", Email: "imports@sgtrade.com.sg",
			TaxNumber: "199012345A", SWIFT: "SGTRSGSG",
		},
		{
			Number: "200002", Type: PartnerCustomer,
			Name1: "Tokyo Industrial Equipment Co Ltd", Name2: "東京工業設備株式会社",
			Street: "2-1-1 Marunouchi", City: "Tokyo", PostCode: "100-0005", Country: "JP",
			Phone: "+81 3 1234 5678", Email: "purchasing@tokyo-ind.co.jp",
			TaxNumber: "1234567890123", SWIFT: "TKIDJPJT",
		},
		{
			Number: "300001", Type: PartnerVendor,
			Name1: "European Components AB",
			Street: "Exportgatan 10", City: "Stockholm", PostCode: "11122", Country: "SE",
			Phone: "+46 8 1234 5678", Email: "sales@eurocomp.se",
			VATNumber: "SE123456789001", SWIFT: "ECUPSESS", BankAccount: "12345678",
		},
		{
			Number: "300002", Type: PartnerVendor,
			Name1: "Asia Pacific Supplies Ltd",
			Street: "100 Orchard Road", City: "Singapore", PostCode: "238840", Country: "SG",
			Phone: "+65 6789 0123", Email: "export@apsupplies.sg",
			TaxNumber: "200112345B", SWIFT: "APSUSGSG",
		},
	}
}

// SampleMaterials returns the demo material master.
func SampleMaterials() []Material {
	return []Material{
		{Number: "MAT-100001", Description: "Industrial Servo Motor 5kW", Group: "MACHINERY", Unit: "EA",
			GrossWeight: "85.5", NetWeight: "78.0", WeightUnit: "KG", HSCode: "8501.32", Origin: "FI"},
		{Number: "MAT-100002", Description: "Precision CNC Milling Machine", Group: "MACHINERY", Unit: "EA",
			GrossWeight: "2850.0", NetWeight: "2650.0", WeightUnit: "KG", HSCode: "8459.61", Origin: "DE"},
		{Number: "MAT-200001", Description: "Industrial Control Unit ICU-500", Group: "ELECTRONICS", Unit: "EA",
			GrossWeight: "2.5", NetWeight: "2.2", WeightUnit: "KG", HSCode: "8537.10", Origin: "SE"},
		{Number: "MAT-200002", Description: "Programmable Logic Controller PLC-1200", Group: "ELECTRONICS", Unit: "EA",
			GrossWeight: "1.8", NetWeight: "1.5", WeightUnit: "KG", HSCode: "8537.10", Origin: "DE"},
		{Number: "MAT-300001", Description: "High-Precision Bearing Assembly", Group: "COMPONENTS", Unit: "EA",
			GrossWeight: "0.85", NetWeight: "0.75", WeightUnit: "KG", HSCode: "8482.10", Origin: "FI"},
		{Number: "MAT-300002", Description: "Industrial Cable Assembly 50m", Group: "COMPONENTS", Unit: "EA",
			GrossWeight: "12.5", NetWeight: "11.8", WeightUnit: "KG", HSCode: "8544.49", Origin: "SE"},
	}
}

// SampleDirectory returns a directory over the demo master data.
func SampleDirectory() *Directory {
	return NewDirectory(SamplePartners(), SampleMaterials())
}

// SampleScenarios returns the demo trade flows with dates relative to today.
func SampleScenarios(today time.Time) []Scenario {
	t := DateOf(today)
	return []Scenario{singaporeMachinery(t), japanElectronics(t)}
}

// Finnish machinery maker ships servo motors to Singapore, CIF, paid by
// letter of credit.
func singaporeMachinery(today Date) Scenario {
	const (
		place = "Singapore Port"
		lc    = "LC-HSBC-SG-2024-00789"
	)
	return Scenario{
		ID:          ScenarioSingaporeMachinery,
		Description: "Finnish machinery manufacturer exports servo motors to Singapore via sea freight with L/C payment",
		PurchaseOrder: &PurchaseOrder{
			Header: EKKO{
				Number: "4500000123", CompanyCode: "1000", Category: "F", DocumentType: "NB",
				Date: today.AddDays(-45), Vendor: "300001",
				PurchasingOrg: "1000", PurchasingGroup: "001", Currency: "EUR",
				PaymentTerms: "LC30", Incoterms: "CIF", IncotermsPlace: place,
				TargetValue: "125000.00", YourReference: "SG-PO-2024-0156",
			},
			Items: []EKPO{{
				Number: "4500000123", Item: "00010",
				Material: "MAT-100001", ShortText: "Industrial Servo Motor 5kW", MaterialGroup: "MACHINERY",
				Quantity: "50", Unit: "EA", NetPrice: "2500.00", PriceUnit: "1", Currency: "EUR",
				DeliveryDate: datePtr(today.AddDays(30)), Plant: "1000", OriginCountry: "FI",
			}},
		},
		SalesOrder: &SalesOrder{
			Header: VBAK{
				Number: "0100000234", SalesOrg: "1000", DistributionChannel: "10", Division: "00",
				Category: "C", DocumentType: "ZEXP", SoldTo: "200001",
				Created: today.AddDays(-40), OrderDate: today.AddDays(-40),
				RequestedDelivery: datePtr(today.AddDays(30)),
				Currency: "EUR", NetValue: "125000.00",
				PaymentTerms: "LC30", Incoterms: "CIF", IncotermsPlace: place,
				CustomerPO: "SG-PO-2024-0156", CustomerPODate: datePtr(today.AddDays(-45)),
				LetterOfCredit: lc,
			},
			Items: []VBAP{{
				Number: "0100000234", Item: "000010",
				Material: "MAT-100001", Description: "Industrial Servo Motor 5kW", MaterialGroup: "MACHINERY",
				Quantity: "50", Unit: "EA", NetValue: "125000.00", Currency: "EUR", NetPrice: "2500.00",
				Plant: "1000",
			}},
		},
		Delivery: &Delivery{
			Header: LIKP{
				Number: "8000000456", DeliveryType: "ZLFD", Category: "J", ShippingPoint: "1000",
				ShipTo: "200001", SoldTo: "200001",
				Created: today.AddDays(-10), DeliveryDate: today.AddDays(-5),
				GoodsIssueDate: datePtr(today.AddDays(-5)),
				Incoterms: "CIF", IncotermsPlace: place, Route: "SEA-EU-SG",
				TotalWeight: "4275.0", WeightUnit: "KG", VolumeUnit: "M3",
				BillOfLading: "MAEU123456789",
			},
			Items: []LIPS{{
				Number: "8000000456", Item: "000010",
				Material: "MAT-100001", Description: "Industrial Servo Motor 5kW", MaterialGroup: "MACHINERY",
				Quantity: "50", Unit: "EA", GrossWeight: "85.5", NetWeight: "78.0", WeightUnit: "KG",
				Plant: "1000", OriginCountry: "FI",
			}},
		},
		Invoice: &Invoice{
			Header: VBRK{
				Number: "9000000789", BillingType: "F2", BillingCategory: "F",
				SoldTo: "200001", Payer: "200001",
				Created: today.AddDays(-5), BillingDate: today.AddDays(-5),
				PaymentTerms: "LC30", PaymentTermDays: 30,
				Currency: "EUR", NetValue: "125000.00", TaxAmount: "0.00",
				SalesOrder: "0100000234", Delivery: "8000000456",
				Incoterms: "CIF", IncotermsPlace: place,
				LetterOfCredit: lc, BillOfLading: "MAEU123456789",
				CustomerReference: "SG-PO-2024-0156",
			},
			Items: []VBRP{{
				Number: "9000000789", Item: "000010",
				Material: "MAT-100001", Description: "Industrial Servo Motor 5kW", MaterialGroup: "MACHINERY",
				Quantity: "50", Unit: "EA", NetValue: "125000.00", Currency: "EUR", TaxAmount: "0.00",
				OriginCountry: "FI",
			}},
		},
		DocumentaryCredit: &ZBANKF{
			Number: lc, Type: "IRREVOCABLE",
			Applicant: "200001", Beneficiary: "100001",
			IssuingBank: "HSBCSGSG", AdvisingBank: "NDEAFIHH",
			Amount: "125000.00", Currency: "EUR",
			IssueDate: today.AddDays(-40), ExpiryDate: today.AddDays(50),
			LatestShipment: datePtr(today.AddDays(30)),
			PartialShipments: false, Transshipment: true,
			Incoterms: "CIF", IncotermsPlace: place,
			PresentationDays: 21,
			RequiredDocuments: []string{
				"Commercial Invoice",
				"Bill of Lading",
				"Packing List",
				"Certificate of Origin",
				"Insurance Certificate",
			},
			PurchaseOrder: "SG-PO-2024-0156",
			SalesOrder:    "0100000234",
		},
	}
}

// German electronics maker ships control systems to Japan, FOB, under a
// confirmed letter of credit. No purchase order is on file.
func japanElectronics(today Date) Scenario {
	const (
		place = "Hamburg Port"
		lc    = "LC-MUFG-JP-2024-01234"
	)
	return Scenario{
		ID:          ScenarioJapanElectronics,
		Description: "German electronics manufacturer exports control systems to Japan",
		SalesOrder: &SalesOrder{
			Header: VBAK{
				Number: "0100000567", SalesOrg: "1000", DistributionChannel: "10", Division: "00",
				Category: "C", DocumentType: "ZEXP", SoldTo: "200002",
				Created: today.AddDays(-35), OrderDate: today.AddDays(-35),
				RequestedDelivery: datePtr(today.AddDays(25)),
				Currency: "EUR", NetValue: "87500.00",
				PaymentTerms: "LC45", Incoterms: "FOB", IncotermsPlace: place,
				CustomerPO: "JP-PO-2024-0893", CustomerPODate: datePtr(today.AddDays(-38)),
				LetterOfCredit: lc,
			},
			Items: []VBAP{
				{
					Number: "0100000567", Item: "000010",
					Material: "MAT-200001", Description: "Industrial Control Unit ICU-500", MaterialGroup: "ELECTRONICS",
					Quantity: "100", Unit: "EA", NetValue: "50000.00", Currency: "EUR", NetPrice: "500.00",
					Plant: "2000",
				},
				{
					Number: "0100000567", Item: "000020",
					Material: "MAT-200002", Description: "Programmable Logic Controller PLC-1200", MaterialGroup: "ELECTRONICS",
					Quantity: "50", Unit: "EA", NetValue: "37500.00", Currency: "EUR", NetPrice: "750.00",
					Plant: "2000",
				},
			},
		},
		Delivery: &Delivery{
			Header: LIKP{
				Number: "8000000678", DeliveryType: "ZLFD", Category: "J", ShippingPoint: "2000",
				ShipTo: "200002", SoldTo: "200002",
				Created: today.AddDays(-8), DeliveryDate: today.AddDays(-3),
				GoodsIssueDate: datePtr(today.AddDays(-3)),
				Incoterms: "FOB", IncotermsPlace: place, Route: "SEA-EU-JP",
				TotalWeight: "340.0", WeightUnit: "KG", VolumeUnit: "M3",
				BillOfLading: "HLCUHAMB20240123",
			},
			Items: []LIPS{
				{
					Number: "8000000678", Item: "000010",
					Material: "MAT-200001", Description: "Industrial Control Unit ICU-500", MaterialGroup: "ELECTRONICS",
					Quantity: "100", Unit: "EA", GrossWeight: "2.5", NetWeight: "2.2", WeightUnit: "KG",
					Plant: "2000", OriginCountry: "SE",
				},
				{
					Number: "8000000678", Item: "000020",
					Material: "MAT-200002", Description: "Programmable Logic Controller PLC-1200", MaterialGroup: "ELECTRONICS",
					Quantity: "50", Unit: "EA", GrossWeight: "1.8", NetWeight: "1.5", WeightUnit: "KG",
					Plant: "2000", OriginCountry: "DE",
				},
			},
		},
		Invoice: &Invoice{
			Header: VBRK{
				Number: "9000001012", BillingType: "F2", BillingCategory: "F",
				SoldTo: "200002", Payer: "200002",
				Created: today.AddDays(-3), BillingDate: today.AddDays(-3),
				PaymentTerms: "LC45", PaymentTermDays: 45,
				Currency: "EUR", NetValue: "87500.00", TaxAmount: "0.00",
				SalesOrder: "0100000567", Delivery: "8000000678",
				Incoterms: "FOB", IncotermsPlace: place,
				LetterOfCredit: lc, BillOfLading: "HLCUHAMB20240123",
				CustomerReference: "JP-PO-2024-0893",
			},
			Items: []VBRP{
				{
					Number: "9000001012", Item: "000010",
					Material: "MAT-200001", Description: "Industrial Control Unit ICU-500", MaterialGroup: "ELECTRONICS",
					Quantity: "100", Unit: "EA", NetValue: "50000.00", Currency: "EUR", TaxAmount: "0.00",
					OriginCountry: "SE",
				},
				{
					Number: "9000001012", Item: "000020",
					Material: "MAT-200002", Description: "Programmable Logic Controller PLC-1200", MaterialGroup: "ELECTRONICS",
					Quantity: "50", Unit: "EA", NetValue: "37500.00", Currency: "EUR", TaxAmount: "0.00",
					OriginCountry: "DE",
				},
			},
		},
		DocumentaryCredit: &ZBANKF{
			Number: lc, Type: "IRREVOCABLE_CONFIRMED",
			Applicant: "200002", Beneficiary: "100002",
			IssuingBank: "MUFGJPJT", AdvisingBank: "DEUTDEMM", ConfirmingBank: "DEUTDEMM",
			Amount: "87500.00", Currency: "EUR",
			IssueDate: today.AddDays(-35), ExpiryDate: today.AddDays(55),
			LatestShipment: datePtr(today.AddDays(25)),
			PartialShipments: true, Transshipment: true,
			Incoterms: "FOB", IncotermsPlace: place,
			PresentationDays: 21,
			RequiredDocuments: []string{
				"Commercial Invoice",
				"Bill of Lading",
				"Packing List",
				"Certificate of Origin",
			},
			PurchaseOrder: "JP-PO-2024-0893",
			SalesOrder:    "0100000567",
		},
	}
}
