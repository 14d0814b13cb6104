package shacl

import (
	"sort"
	"strings"
)

// Prefixes maps CURIE prefixes to namespace IRIs.
type Prefixes map[string]string

// DefaultPrefixes returns the well-known prefixes. The returned map is a
// fresh copy and may be modified.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		"sh":         SH,
		"rdf":        RDF,
		"rdfs":       RDFS,
		"owl":        OWL,
		"xsd":        XSD,
		"dcterms":    DCTerms,
		"dcap":       DCAP,
		"skos":       SKOS,
		"suomi-meta": SuomiMeta,
		"ktddecv":    KTDDECV,
		"ktdde":      KTDDE,
	}
}

// With returns a copy of p extended with extra. Entries in extra win.
func (p Prefixes) With(extra map[string]string) Prefixes {
	out := make(Prefixes, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Expand turns a CURIE into a full IRI. Absolute IRIs, blank node ids and
// values with an unknown prefix are returned unchanged.
func (p Prefixes) Expand(s string) string {
	if s == "" || IsAbsolute(s) || strings.HasPrefix(s, "_:") {
		return s
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	if ns, found := p[prefix]; found {
		return ns + local
	}
	return s
}

// Compact turns a full IRI into a CURIE using the longest matching namespace.
// IRIs without a matching namespace are returned unchanged.
func (p Prefixes) Compact(iri string) string {
	bestPrefix, bestNS := "", ""
	for prefix, ns := range p {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			bestPrefix, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return iri
	}
	local := iri[len(bestNS):]
	if local == "" || strings.ContainsAny(local, "/#?") {
		return iri
	}
	return bestPrefix + ":" + local
}

// Sorted returns prefix names in lexical order.
func (p Prefixes) Sorted() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsAbsolute reports whether s looks like an absolute IRI (has a scheme
// followed by "//", or is a urn/did).
func IsAbsolute(s string) bool {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return false
	}
	switch strings.ToLower(scheme) {
	case "urn", "did", "mailto", "tag":
		return true
	}
	return strings.HasPrefix(rest, "//")
}
