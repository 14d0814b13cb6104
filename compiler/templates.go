package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/vocabulary/shacl"
	"github.com/c360studio/semcred/vocabulary/xsd"
)

// DefaultContextBase is where emitted JSON-LD contexts are published.
const DefaultContextBase = DefaultSchemaBase + "/contexts"

// TemplateKind selects the template flavour.
type TemplateKind int

const (
	// TemplateEmpty fills every value with a <<PLACEHOLDER>>.
	TemplateEmpty TemplateKind = iota

	// TemplateExample fills every value with a plausible example.
	TemplateExample
)

func (k TemplateKind) String() string {
	if k == TemplateExample {
		return "example"
	}
	return "empty"
}

// TemplateOptions controls template rendering.
type TemplateOptions struct {
	ContextBase string
	Now         time.Time
}

func (o TemplateOptions) contextURI(shapeName string) string {
	base := o.ContextBase
	if base == "" {
		base = DefaultContextBase
	}
	return fmt.Sprintf("%s/%s-context.jsonld", strings.TrimRight(base, "/"), naming.FileStem(shapeName))
}

// RenderTemplate renders a fillable Verifiable Credential for a shape.
func RenderTemplate(rs *shape.ResolvedShape, kind TemplateKind, opts TemplateOptions) map[string]any {
	s := rs.Shape
	className := s.ClassName()
	stem := naming.FileStem(s.Name)
	now := opts.Now.UTC()

	doc := map[string]any{
		"@context": []string{shacl.CredentialsV1, opts.contextURI(s.Name)},
		"type":     []string{"VerifiableCredential", className + "Credential"},
	}
	subject := map[string]any{"type": className}

	if kind == TemplateExample {
		timestamp := now.Format(time.RFC3339)
		doc["id"] = fmt.Sprintf("https://example.com/credentials/%s/EXAMPLE-001", stem)
		doc["issuer"] = map[string]any{"id": "did:example:issuer123", "name": fmt.Sprintf("Example %s Issuer", s.Label)}
		doc["issuanceDate"] = timestamp
		subject["id"] = fmt.Sprintf("https://example.com/%s/EXAMPLE-001", stem)
		doc["proof"] = map[string]any{
			"type":               "Ed25519Signature2020",
			"created":            timestamp,
			"verificationMethod": "did:example:issuer123#key-1",
			"proofPurpose":       "assertionMethod",
			"proofValue":         "z58DAdFfa9SkqZMVPxAQpE1" + strings.Repeat(".", 40),
		}
	} else {
		doc["id"] = "<<CREDENTIAL_ID>>"
		doc["issuer"] = map[string]any{"id": "<<ISSUER_DID>>", "name": "<<ISSUER_NAME>>"}
		doc["issuanceDate"] = "<<ISO_8601_DATETIME>>"
		subject["id"] = "<<SUBJECT_ID>>"
		doc["proof"] = map[string]any{
			"type":               "<<SIGNATURE_TYPE>>",
			"created":            "<<ISO_8601_DATETIME>>",
			"verificationMethod": "<<ISSUER_DID#KEY_ID>>",
			"proofPurpose":       "assertionMethod",
			"proofValue":         "<<SIGNATURE_VALUE>>",
		}
	}

	for _, p := range rs.Properties {
		var v any
		switch {
		case p.Kind() == shape.KindClass && kind == TemplateExample:
			v = exampleObject(p.ClassName())
		case p.Kind() == shape.KindClass:
			v = map[string]any{
				"type":         p.ClassName(),
				"<<PROPERTY>>": fmt.Sprintf("<<VALUE for %s>>", p.ClassName()),
			}
		case kind == TemplateExample:
			v = exampleValue(p, now)
		default:
			v = placeholder(p)
		}
		if p.Kind() == shape.KindClass && p.Multi() {
			v = []any{v}
		}
		subject[p.Name] = v
	}
	doc["credentialSubject"] = subject
	return doc
}

func placeholder(p shape.PropertyShape) string {
	local, _ := xsd.Local(p.Datatype)
	switch local {
	case "integer", "int":
		return "<<INTEGER>>"
	case "decimal", "double", "float":
		return "<<DECIMAL>>"
	case "boolean":
		return "<<TRUE_OR_FALSE>>"
	case "date":
		return "<<YYYY-MM-DD>>"
	case "dateTime":
		return "<<ISO_8601_DATETIME>>"
	case "time":
		return "<<HH:MM:SS>>"
	case "anyURI":
		return "<<URI>>"
	}
	return "<<" + p.DisplayLabel() + ">>"
}

func exampleValue(p shape.PropertyShape, now time.Time) any {
	local, _ := xsd.Local(p.Datatype)
	switch local {
	case "integer", "int":
		return 1
	case "decimal", "double", "float":
		return 123.45
	case "boolean":
		return true
	case "date":
		return now.Format("2006-01-02")
	case "dateTime":
		return now.Format(time.RFC3339)
	case "time":
		return now.Format("15:04:05")
	case "anyURI":
		return "https://example.com/resource"
	}
	if len(p.In) > 0 {
		return p.In[0]
	}
	return "Example " + p.DisplayLabel()
}

func country() map[string]any {
	return map[string]any{"type": "Country", "countryCode": "FI"}
}

func quantity() map[string]any {
	return map[string]any{"type": "Quantity", "quantityValue": "10", "unitCode": "EA"}
}

func exampleObject(className string) map[string]any {
	switch className {
	case "Party":
		return map[string]any{
			"type":      "Party",
			"partyName": "Example Company Ltd",
			"hasAddress": map[string]any{
				"type":       "Address",
				"street":     "123 Example Street",
				"city":       "Example City",
				"postalCode": "12345",
				"country":    country(),
			},
		}
	case "MonetaryAmount":
		return map[string]any{"type": "MonetaryAmount", "amountValue": 1000.00, "currencyCode": "EUR"}
	case "Amount":
		return map[string]any{"type": "Amount", "value": 1000.00, "currencyCode": "EUR"}
	case "Quantity":
		return quantity()
	case "Location":
		return map[string]any{
			"type":         "Location",
			"locationName": "Example Location",
			"hasAddress": map[string]any{
				"type":    "Address",
				"city":    "Example City",
				"country": country(),
			},
		}
	case "GoodsItem":
		return map[string]any{
			"type":               "GoodsItem",
			"productDescription": "Example Product",
			"quantity":           quantity(),
		}
	case "Country":
		return country()
	}
	return map[string]any{
		"type":            className,
		"exampleProperty": "Example value for " + className,
	}
}
