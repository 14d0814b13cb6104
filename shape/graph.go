package shape

import (
	"fmt"
	"strings"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

// TermKind distinguishes the three kinds of object values.
type TermKind int

const (
	TermIRI TermKind = iota
	TermLiteral
	TermList
)

// Term is an object value: an IRI (including blank node ids), a literal or
// an RDF collection.
type Term struct {
	Kind     TermKind
	Value    string // IRI or lexical form
	Datatype string // expanded datatype IRI, literals only
	Language string
	Items    []Term // collection members
}

// IRI returns an IRI term.
func IRI(v string) Term {
	return Term{Kind: TermIRI, Value: v}
}

// Literal returns a typed literal term.
func Literal(lexical, datatype string) Term {
	return Term{Kind: TermLiteral, Value: lexical, Datatype: datatype}
}

// LangLiteral returns a language-tagged string literal.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: TermLiteral, Value: lexical, Datatype: shacl.RDF + "langString", Language: lang}
}

// List returns a collection term.
func List(items ...Term) Term {
	return Term{Kind: TermList, Items: items}
}

// IsBlank reports whether the term references a blank node.
func (t Term) IsBlank() bool {
	return t.Kind == TermIRI && IsBlankID(t.Value)
}

// IsBlankID reports whether id is a blank node identifier.
func IsBlankID(id string) bool {
	return strings.HasPrefix(id, "_:")
}

// Node is a subject with its types and predicate values. Predicates keep
// first-seen order and values keep document order.
type Node struct {
	ID    string
	Types []string

	predicates []string
	values     map[string][]Term
}

func newNode(id string) *Node {
	return &Node{ID: id, values: make(map[string][]Term)}
}

// Add appends a value. rdf:type IRIs are recorded in Types.
func (n *Node) Add(predicate string, t Term) {
	if predicate == shacl.RDFType && t.Kind == TermIRI {
		if !n.HasType(t.Value) {
			n.Types = append(n.Types, t.Value)
		}
		return
	}
	if _, ok := n.values[predicate]; !ok {
		n.predicates = append(n.predicates, predicate)
	}
	n.values[predicate] = append(n.values[predicate], t)
}

// HasType reports whether the node is typed with iri.
func (n *Node) HasType(iri string) bool {
	for _, t := range n.Types {
		if t == iri {
			return true
		}
	}
	return false
}

// Predicates returns predicates in first-seen order, excluding rdf:type.
func (n *Node) Predicates() []string {
	return n.predicates
}

// Values returns all values of a predicate.
func (n *Node) Values(predicate string) []Term {
	return n.values[predicate]
}

// First returns the first value of a predicate.
func (n *Node) First(predicate string) (Term, bool) {
	vals := n.values[predicate]
	if len(vals) == 0 {
		return Term{}, false
	}
	return vals[0], true
}

// Graph is a document-ordered set of nodes plus the prefixes used to read it.
type Graph struct {
	Source   string
	Prefixes shacl.Prefixes

	order    []string
	nodes    map[string]*Node
	blankSeq int
}

// NewGraph creates an empty graph. Document prefixes are layered over the
// well-known prefixes.
func NewGraph(source string, prefixes map[string]string) *Graph {
	return &Graph{
		Source:   source,
		Prefixes: shacl.DefaultPrefixes().With(prefixes),
		nodes:    make(map[string]*Node),
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Ensure returns the node with the given id, creating it if needed.
func (g *Graph) Ensure(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := newNode(id)
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// NewBlank allocates a fresh blank node.
func (g *Graph) NewBlank() *Node {
	for {
		id := fmt.Sprintf("_:b%d", g.blankSeq)
		g.blankSeq++
		if _, taken := g.nodes[id]; !taken {
			return g.Ensure(id)
		}
	}
}

// Nodes returns all nodes in document order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesOfType returns the nodes typed with iri, in document order.
func (g *Graph) NodesOfType(iri string) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.HasType(iri) {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Expand expands a CURIE with the graph prefixes.
func (g *Graph) Expand(s string) string {
	return g.Prefixes.Expand(s)
}
