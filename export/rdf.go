// Package export serializes shape graphs back to RDF.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/semcred/shape"
	"github.com/c360studio/semcred/vocabulary/shacl"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// RDFExporter serializes one shape graph. Named subjects are written in IRI
// order and predicates in first-seen order, so output is stable for a given
// input.
type RDFExporter struct {
	g     *shape.Graph
	names *namer
}

// NewRDFExporter creates an exporter for g.
func NewRDFExporter(g *shape.Graph) *RDFExporter {
	return &RDFExporter{g: g}
}

// Export serializes g in the given format.
func Export(g *shape.Graph, format Format) (string, error) {
	return NewRDFExporter(g).Export(format)
}

// Export serializes the graph to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	e.names = newNamer(e.g.Prefixes)
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// subjects returns the named nodes sorted by IRI. Blank nodes are written
// inline under the node that references them.
func (e *RDFExporter) subjects() []*shape.Node {
	var out []*shape.Node
	for _, n := range e.g.Nodes() {
		if !shape.IsBlankID(n.ID) && (len(n.Types) > 0 || len(n.Predicates()) > 0) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (e *RDFExporter) toTurtle() string {
	w := NewTurtleWriter()
	for _, n := range e.subjects() {
		parts := e.turtleParts(n, 1, map[string]bool{n.ID: true})
		w.WriteStatement(e.names.turtle(n.ID), parts)
	}
	for _, prefix := range e.names.usedPrefixes() {
		w.SetPrefix(prefix, e.g.Prefixes[prefix])
	}
	return w.String()
}

// turtleParts renders the predicate-object pairs of n. depth is the
// indentation level of the pairs.
func (e *RDFExporter) turtleParts(n *shape.Node, depth int, stack map[string]bool) []string {
	var parts []string
	for _, t := range n.Types {
		parts = append(parts, "a "+e.names.turtle(t))
	}
	for _, p := range n.Predicates() {
		for _, v := range n.Values(p) {
			parts = append(parts, e.names.turtle(p)+" "+e.turtleObject(v, depth, stack))
		}
	}
	return parts
}

func (e *RDFExporter) turtleObject(t shape.Term, depth int, stack map[string]bool) string {
	switch t.Kind {
	case shape.TermList:
		if len(t.Items) == 0 {
			return "()"
		}
		items := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, e.turtleObject(item, depth, stack))
		}
		return "( " + strings.Join(items, " ") + " )"
	case shape.TermLiteral:
		return e.turtleLiteral(t)
	}

	if !t.IsBlank() {
		return e.names.turtle(t.Value)
	}
	n, ok := e.g.Node(t.Value)
	if !ok || stack[t.Value] {
		return "[]"
	}
	stack[t.Value] = true
	defer delete(stack, t.Value)

	parts := e.turtleParts(n, depth+1, stack)
	if len(parts) == 0 {
		return "[]"
	}
	inner := indent(depth + 1)
	return "[\n" + inner + strings.Join(parts, " ;\n"+inner) + "\n" + indent(depth) + "]"
}

var bareNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

func (e *RDFExporter) turtleLiteral(t shape.Term) string {
	quoted := `"` + escapeString(t.Value) + `"`
	switch {
	case t.Language != "":
		return quoted + "@" + t.Language
	case t.Datatype == "" || t.Datatype == shacl.XSD+"string":
		return quoted
	case t.Datatype == shacl.XSD+"boolean" && (t.Value == "true" || t.Value == "false"):
		return t.Value
	case t.Datatype == shacl.XSD+"integer" && bareNumber.MatchString(t.Value) && !strings.Contains(t.Value, "."):
		return t.Value
	case t.Datatype == shacl.XSD+"decimal" && bareNumber.MatchString(t.Value) && strings.Contains(t.Value, "."):
		return t.Value
	}
	return quoted + "^^" + e.names.turtle(t.Datatype)
}

func (e *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()
	nodes := e.g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	lists := 0
	var object func(t shape.Term) string
	object = func(t shape.Term) string {
		switch t.Kind {
		case shape.TermLiteral:
			return formatLiteralNTriples(t)
		case shape.TermList:
			head := "<" + shacl.RDF + "nil>"
			for i := len(t.Items) - 1; i >= 0; i-- {
				label := fmt.Sprintf("_:l%d", lists)
				lists++
				w.WriteTriple(label, "<"+shacl.RDF+"first>", object(t.Items[i]))
				w.WriteTriple(label, "<"+shacl.RDF+"rest>", head)
				head = label
			}
			return head
		}
		return ntriplesIRI(t.Value)
	}

	for _, n := range nodes {
		subject := ntriplesIRI(n.ID)
		for _, typ := range n.Types {
			w.WriteTypeTriple(subject, typ)
		}
		for _, p := range n.Predicates() {
			for _, v := range n.Values(p) {
				w.WriteTriple(subject, ntriplesIRI(p), object(v))
			}
		}
	}
	return w.String()
}

func ntriplesIRI(id string) string {
	if shape.IsBlankID(id) {
		return id
	}
	return "<" + id + ">"
}

// formatLiteralNTriples formats a literal for N-Triples output.
func formatLiteralNTriples(t shape.Term) string {
	quoted := `"` + escapeString(t.Value) + `"`
	switch {
	case t.Language != "":
		return quoted + "@" + t.Language
	case t.Datatype == "" || t.Datatype == shacl.XSD+"string":
		return quoted
	}
	return quoted + "^^<" + t.Datatype + ">"
}

func (e *RDFExporter) toJSONLD() (string, error) {
	w := NewJSONLDWriter()
	for _, n := range e.subjects() {
		w.AddNode(e.jsonldNode(n, map[string]bool{n.ID: true}))
	}
	ctx := make(map[string]string)
	for _, prefix := range e.names.usedPrefixes() {
		ctx[prefix] = e.g.Prefixes[prefix]
	}
	w.SetContext(ctx)
	return w.Render()
}

func (e *RDFExporter) jsonldNode(n *shape.Node, stack map[string]bool) JSONLDNode {
	node := JSONLDNode{Properties: make(map[string]any)}
	if !shape.IsBlankID(n.ID) {
		node.ID = e.names.jsonld(n.ID)
	}
	for _, t := range n.Types {
		node.Type = append(node.Type, e.names.jsonld(t))
	}
	for _, p := range n.Predicates() {
		values := n.Values(p)
		out := make([]any, 0, len(values))
		for _, v := range values {
			out = append(out, e.jsonldValue(v, stack))
		}
		if len(out) == 1 {
			node.Properties[e.names.jsonld(p)] = out[0]
		} else {
			node.Properties[e.names.jsonld(p)] = out
		}
	}
	return node
}

func (e *RDFExporter) jsonldValue(t shape.Term, stack map[string]bool) any {
	switch t.Kind {
	case shape.TermList:
		items := make([]any, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, e.jsonldValue(item, stack))
		}
		return map[string]any{"@list": items}
	case shape.TermLiteral:
		return e.jsonldLiteral(t)
	}

	if t.IsBlank() && !stack[t.Value] {
		if n, ok := e.g.Node(t.Value); ok {
			stack[t.Value] = true
			defer delete(stack, t.Value)
			return e.jsonldNode(n, stack)
		}
	}
	return map[string]any{"@id": e.names.jsonld(t.Value)}
}

func (e *RDFExporter) jsonldLiteral(t shape.Term) any {
	switch {
	case t.Language != "":
		return map[string]any{"@value": t.Value, "@language": t.Language}
	case t.Datatype == "" || t.Datatype == shacl.XSD+"string":
		return t.Value
	case t.Datatype == shacl.XSD+"boolean" && (t.Value == "true" || t.Value == "false"):
		return t.Value == "true"
	case t.Datatype == shacl.XSD+"integer" && bareNumber.MatchString(t.Value) && !strings.Contains(t.Value, "."):
		return jsonNumber(t.Value)
	case t.Datatype == shacl.XSD+"decimal" && bareNumber.MatchString(t.Value) && strings.Contains(t.Value, "."):
		return jsonNumber(t.Value)
	}
	return map[string]any{"@value": t.Value, "@type": e.names.jsonld(t.Datatype)}
}

// localName matches prefixed-name locals the Turtle loader accepts.
var localName = regexp.MustCompile(`^[A-Za-z0-9_](?:[A-Za-z0-9_\-.]*[A-Za-z0-9_\-])?$`)

// namer compacts IRIs and remembers which prefixes were used.
type namer struct {
	prefixes shacl.Prefixes
	used     map[string]bool
}

func newNamer(prefixes shacl.Prefixes) *namer {
	return &namer{prefixes: prefixes, used: make(map[string]bool)}
}

func (n *namer) curie(iri string) (string, bool) {
	c := n.prefixes.Compact(iri)
	if c == iri {
		return "", false
	}
	prefix, local, _ := strings.Cut(c, ":")
	if !localName.MatchString(local) {
		return "", false
	}
	n.used[prefix] = true
	return c, true
}

func (n *namer) turtle(iri string) string {
	if c, ok := n.curie(iri); ok {
		return c
	}
	return "<" + iri + ">"
}

func (n *namer) jsonld(iri string) string {
	if shape.IsBlankID(iri) {
		return iri
	}
	if c, ok := n.curie(iri); ok {
		return c
	}
	return iri
}

func (n *namer) usedPrefixes() []string {
	out := make([]string, 0, len(n.used))
	for p := range n.used {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func indent(depth int) string {
	return strings.Repeat("    ", depth)
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
