package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/c360studio/semcred/naming"
	"github.com/c360studio/semcred/vocabulary/shacl"
)

// Profile describes the application profile a shape file belongs to.
type Profile struct {
	ID        string
	Label     string
	Namespace string
	Prefix    string
	Version   *semver.Version
}

// NodeShape is the typed view of a sh:NodeShape node.
type NodeShape struct {
	ID          string
	Name        string
	Label       string
	Description string
	TargetClass string
	Concept     string
	Properties  []string // referenced property shape ids, document order
}

// ClassName is the local name of the target class.
func (s NodeShape) ClassName() string {
	return naming.LocalName(s.TargetClass)
}

// PropertyKind classifies how a property's values are typed.
type PropertyKind int

const (
	KindOpaque PropertyKind = iota
	KindDatatype
	KindClass
)

func (k PropertyKind) String() string {
	switch k {
	case KindDatatype:
		return "datatype"
	case KindClass:
		return "class"
	default:
		return "opaque"
	}
}

// PropertyShape is the typed view of a property shape node.
type PropertyShape struct {
	ID          string
	Name        string
	Path        string
	Label       string
	Description string
	Datatype    string
	Class       string
	MinCount    int
	MaxCount    *int // nil means unbounded
	In          []string
	Pattern     string
	Concept     string
}

// Kind reports whether the property is datatype, class or opaque typed.
func (p PropertyShape) Kind() PropertyKind {
	switch {
	case p.Datatype != "":
		return KindDatatype
	case p.Class != "":
		return KindClass
	default:
		return KindOpaque
	}
}

// Mandatory reports whether at least one value is required.
func (p PropertyShape) Mandatory() bool {
	return p.MinCount >= 1
}

// Multi reports whether more than one value is allowed.
func (p PropertyShape) Multi() bool {
	return p.MaxCount == nil || *p.MaxCount > 1
}

// ClassName is the local name of the referenced class.
func (p PropertyShape) ClassName() string {
	return naming.LocalName(p.Class)
}

// DisplayLabel returns the label, falling back to the name.
func (p PropertyShape) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Profile returns the application profile of the graph. A graph without a
// profile node gets a profile derived from its first shape's target class.
func (g *Graph) Profile() (Profile, error) {
	var node *Node
	if nodes := g.NodesOfType(shacl.SuomiMetaApplicationProfile); len(nodes) > 0 {
		node = nodes[0]
	} else if nodes := g.NodesOfType(shacl.OWLOntology); len(nodes) > 0 {
		node = nodes[0]
	}

	p := Profile{}
	version := shacl.DefaultProfileVersion
	if node != nil {
		p.ID = node.ID
		p.Label = g.text(node, shacl.RDFSLabel, shacl.SHName)
		p.Namespace = g.text(node, shacl.DCAPPreferredNamespace)
		p.Prefix = g.text(node, shacl.DCAPPreferredPrefix)
		if v := g.text(node, shacl.OWLVersionInfo); v != "" {
			version = v
		}
	}

	ver, err := semver.NewVersion(version)
	if err != nil {
		subject := ""
		if node != nil {
			subject = node.ID
		}
		return Profile{}, &SchemaViolation{
			Source:  g.Source,
			Subject: subject,
			Msg:     fmt.Sprintf("owl:versionInfo %q is not a semantic version", version),
		}
	}
	p.Version = ver

	if p.Namespace == "" {
		if shapes := g.NodesOfType(shacl.SHNodeShape); len(shapes) > 0 {
			if tc := g.iri(shapes[0], shacl.SHTargetClass); tc != "" {
				p.Namespace = namespaceOf(tc)
			}
		}
	}
	if p.Prefix == "" && p.Namespace != "" {
		for _, name := range g.Prefixes.Sorted() {
			if g.Prefixes[name] == p.Namespace {
				p.Prefix = name
				break
			}
		}
	}
	return p, nil
}

// Validate checks the profile, every node shape and every referenced
// property shape present in the graph. Missing references are not checked
// here; ResolveShape applies the unresolved policy to them.
func (g *Graph) Validate() error {
	if _, err := g.Profile(); err != nil {
		return err
	}
	shapes, err := g.NodeShapes()
	if err != nil {
		return err
	}
	for _, ns := range shapes {
		for _, ref := range ns.Properties {
			if err := Resolve(g, ref).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// NodeShapes returns all node shapes in document order.
func (g *Graph) NodeShapes() ([]NodeShape, error) {
	nodes := g.NodesOfType(shacl.SHNodeShape)
	out := make([]NodeShape, 0, len(nodes))
	for _, n := range nodes {
		s, err := g.nodeShape(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (g *Graph) nodeShape(n *Node) (NodeShape, error) {
	s := NodeShape{
		ID:          n.ID,
		Name:        naming.LocalName(n.ID),
		Label:       g.text(n, shacl.SHName, shacl.RDFSLabel),
		Description: g.text(n, shacl.SHDescription, shacl.DCTermsDescription, shacl.RDFSComment),
		TargetClass: g.iri(n, shacl.SHTargetClass),
		Concept:     g.iri(n, shacl.DCTermsSubject),
	}
	if s.TargetClass == "" {
		return NodeShape{}, &SchemaViolation{Source: g.Source, Subject: n.ID, Msg: "node shape has no sh:targetClass"}
	}
	if s.Label == "" {
		s.Label = s.Name
	}
	for _, t := range n.Values(shacl.SHProperty) {
		s.Properties = append(s.Properties, g.refs(t)...)
	}
	return s, nil
}

func (g *Graph) propertyShape(n *Node) (PropertyShape, error) {
	p := PropertyShape{
		ID:          n.ID,
		Path:        g.iri(n, shacl.SHPath),
		Label:       g.text(n, shacl.SHName, shacl.RDFSLabel),
		Description: g.text(n, shacl.SHDescription, shacl.DCTermsDescription, shacl.RDFSComment),
		Datatype:    g.iri(n, shacl.SHDatatype),
		Class:       g.iri(n, shacl.SHClass),
		Pattern:     g.text(n, shacl.SHPattern),
		Concept:     g.iri(n, shacl.DCTermsSubject),
	}
	violation := func(msg string) error {
		return &SchemaViolation{Source: g.Source, Subject: n.ID, Msg: msg}
	}

	if p.Path == "" {
		return PropertyShape{}, violation("property shape has no sh:path")
	}
	if IsBlankID(n.ID) {
		p.Name = naming.LocalName(p.Path)
	} else {
		p.Name = naming.LocalName(n.ID)
	}
	if p.Datatype != "" && p.Class != "" {
		return PropertyShape{}, violation("property shape sets both sh:datatype and sh:class")
	}

	minCount, hasMin, err := g.count(n, shacl.SHMinCount)
	if err != nil {
		return PropertyShape{}, violation(err.Error())
	}
	if hasMin {
		p.MinCount = minCount
	}
	maxCount, hasMax, err := g.count(n, shacl.SHMaxCount)
	if err != nil {
		return PropertyShape{}, violation(err.Error())
	}
	if hasMax {
		if maxCount < p.MinCount {
			return PropertyShape{}, violation(fmt.Sprintf("sh:minCount %d exceeds sh:maxCount %d", p.MinCount, maxCount))
		}
		p.MaxCount = &maxCount
	}

	if t, ok := n.First(shacl.SHIn); ok {
		for _, item := range g.listItems(t) {
			p.In = append(p.In, item.Value)
		}
	}
	return p, nil
}

func (g *Graph) count(n *Node, predicate string) (int, bool, error) {
	t, ok := n.First(predicate)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(t.Value))
	if err != nil {
		return 0, false, fmt.Errorf("%s %q is not an integer", g.Prefixes.Compact(predicate), t.Value)
	}
	if v < 0 {
		return 0, false, fmt.Errorf("%s %d is negative", g.Prefixes.Compact(predicate), v)
	}
	return v, true, nil
}

// text returns the first literal of the first predicate that has one,
// preferring English and untagged values.
func (g *Graph) text(n *Node, predicates ...string) string {
	for _, pred := range predicates {
		vals := n.Values(pred)
		if len(vals) == 0 {
			continue
		}
		for _, v := range vals {
			if v.Language == "" || v.Language == "en" {
				return strings.TrimSpace(v.Value)
			}
		}
		return strings.TrimSpace(vals[0].Value)
	}
	return ""
}

// iri returns the first value of predicate as an expanded IRI. String
// literals are accepted and expanded as CURIEs.
func (g *Graph) iri(n *Node, predicate string) string {
	t, ok := n.First(predicate)
	if !ok || t.Kind == TermList {
		return ""
	}
	return g.Expand(t.Value)
}

// refs flattens a sh:property value into node ids.
func (g *Graph) refs(t Term) []string {
	switch t.Kind {
	case TermList:
		var out []string
		for _, item := range t.Items {
			out = append(out, g.refs(item)...)
		}
		return out
	case TermLiteral:
		return []string{g.Expand(t.Value)}
	default:
		return []string{t.Value}
	}
}

// listItems returns collection members. rdf:first/rdf:rest chains are
// followed when the collection was written out as nodes.
func (g *Graph) listItems(t Term) []Term {
	if t.Kind == TermList {
		return t.Items
	}
	if t.Kind != TermIRI {
		return []Term{t}
	}
	var out []Term
	seen := map[string]bool{}
	for id := t.Value; id != "" && id != shacl.RDFNil && !seen[id]; {
		seen[id] = true
		n, ok := g.Node(id)
		if !ok {
			break
		}
		first, ok := n.First(shacl.RDFFirst)
		if !ok {
			break
		}
		out = append(out, first)
		rest, ok := n.First(shacl.RDFRest)
		if !ok {
			break
		}
		id = rest.Value
	}
	return out
}

func namespaceOf(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 {
		return iri[:i+1]
	}
	return ""
}
