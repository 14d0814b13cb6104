// Package shacl provides the namespace IRIs and term constants used when
// reading SHACL application profiles and writing Verifiable Credentials.
//
// # Namespaces
//
// Shape documents mix several vocabularies:
//   - SHACL (sh:) for node and property shapes
//   - RDF, RDFS and OWL for typing, labels and version info
//   - Dublin Core terms (dcterms:) for descriptions and SKOS concept links
//   - DCAP (dcap:) for the preferred namespace of an application profile
//   - suomi-meta for the ApplicationProfile class
//   - ktddecv / ktdde for the trade document core vocabulary and its concepts
//
// # CURIEs
//
// Shape documents reference terms as compact IRIs ("sh:targetClass").
// A Prefixes value expands and compacts them. Well-known prefixes are always
// available; document prefixes override them.
//
//	p := shacl.DefaultPrefixes().With(map[string]string{"dsipo": "https://iri.suomi.fi/model/dsipo/"})
//	p.Expand("sh:path")  // http://www.w3.org/ns/shacl#path
//	p.Compact(shacl.SHPath) // sh:path
package shacl
