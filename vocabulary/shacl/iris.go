package shacl

// Namespace IRIs for the vocabularies found in shape documents.
const (
	SH        = "http://www.w3.org/ns/shacl#"
	RDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS      = "http://www.w3.org/2000/01/rdf-schema#"
	OWL       = "http://www.w3.org/2002/07/owl#"
	XSD       = "http://www.w3.org/2001/XMLSchema#"
	DCTerms   = "http://purl.org/dc/terms/"
	DCAP      = "http://purl.org/ws-mmi-dc/terms/"
	SKOS      = "http://www.w3.org/2004/02/skos/core#"
	SuomiMeta = "http://iow.csc.fi/ns/suomi-meta/"

	// KTDDECV is the trade document core vocabulary.
	KTDDECV = "https://iri.suomi.fi/model/ktddecv/"

	// KTDDE is the trade document terminology (SKOS concepts).
	KTDDE = "https://iri.suomi.fi/terminology/ktdde/"
)

// SHACL terms.
const (
	SHNodeShape     = SH + "NodeShape"
	SHPropertyShape = SH + "PropertyShape"
	SHTargetClass   = SH + "targetClass"
	SHProperty      = SH + "property"
	SHPath          = SH + "path"
	SHName          = SH + "name"
	SHDescription   = SH + "description"
	SHDatatype      = SH + "datatype"
	SHClass         = SH + "class"
	SHMinCount      = SH + "minCount"
	SHMaxCount      = SH + "maxCount"
	SHIn            = SH + "in"
	SHPattern       = SH + "pattern"
)

// RDF, RDFS and OWL terms.
const (
	RDFType        = RDF + "type"
	RDFFirst       = RDF + "first"
	RDFRest        = RDF + "rest"
	RDFNil         = RDF + "nil"
	RDFSLabel      = RDFS + "label"
	RDFSComment    = RDFS + "comment"
	OWLOntology    = OWL + "Ontology"
	OWLVersionInfo = OWL + "versionInfo"
)

// Dublin Core and profile metadata terms.
const (
	DCTermsSubject     = DCTerms + "subject"
	DCTermsDescription = DCTerms + "description"
	DCTermsIdentifier  = DCTerms + "identifier"

	DCAPPreferredNamespace = DCAP + "preferredXMLNamespace"
	DCAPPreferredPrefix    = DCAP + "preferredXMLNamespacePrefix"

	SuomiMetaApplicationProfile = SuomiMeta + "ApplicationProfile"
)

// Verifiable Credential contexts and JSON Schema dialect.
const (
	// CredentialsV1 is the VC 1.1 base context. Emitted JSON Schemas require it
	// as the first @context entry.
	CredentialsV1 = "https://www.w3.org/2018/credentials/v1"

	// CredentialsV2 is the VC 2.0 base context used by the dual-track issuer.
	CredentialsV2 = "https://www.w3.org/ns/credentials/v2"

	// JSONSchemaDraft07 is the $schema value of every emitted schema.
	JSONSchemaDraft07 = "http://json-schema.org/draft-07/schema#"

	// VCDataModel2 and SDJWTDraft are referenced from dual-track output.
	VCDataModel2 = "https://www.w3.org/TR/vc-data-model-2.0/"
	SDJWTDraft   = "https://datatracker.ietf.org/doc/draft-ietf-oauth-selective-disclosure-jwt/"
)

// DefaultProfileVersion is assumed when a profile carries no owl:versionInfo.
const DefaultProfileVersion = "0.0.1"
