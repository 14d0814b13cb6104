package shape

// Resolution is the outcome of looking up one property reference. A missing
// node is an ordinary outcome, reported by Found.
type Resolution struct {
	Ref   string
	prop  PropertyShape
	found bool
	err   error
}

// Get returns the property shape and whether it was found.
func (r Resolution) Get() (PropertyShape, bool) {
	return r.prop, r.found
}

// Found reports whether the reference resolved to a node.
func (r Resolution) Found() bool {
	return r.found
}

// Err is non-nil when the referenced node exists but is not a valid
// property shape.
func (r Resolution) Err() error {
	return r.err
}

// Resolve looks up a property shape by id.
func Resolve(g *Graph, ref string) Resolution {
	n, ok := g.Node(g.Expand(ref))
	if !ok {
		return Resolution{Ref: ref}
	}
	p, err := g.propertyShape(n)
	if err != nil {
		return Resolution{Ref: ref, found: true, err: err}
	}
	return Resolution{Ref: ref, prop: p, found: true}
}

// ResolvedShape is a node shape with its property references resolved.
type ResolvedShape struct {
	Source     string
	Profile    Profile
	Shape      NodeShape
	Properties []PropertyShape
	Unresolved []UnresolvedReference
}

// ResolveShape resolves every property reference of ns in document order.
// Under PolicySkip unresolved references are collected in the result; under
// PolicyFail the first one is returned as a LoadError.
func ResolveShape(g *Graph, ns NodeShape, policy UnresolvedPolicy) (*ResolvedShape, error) {
	profile, err := g.Profile()
	if err != nil {
		return nil, err
	}

	rs := &ResolvedShape{
		Source:  g.Source,
		Profile: profile,
		Shape:   ns,
	}
	for _, ref := range ns.Properties {
		res := Resolve(g, ref)
		if res.Err() != nil {
			return nil, res.Err()
		}
		p, ok := res.Get()
		if !ok {
			missing := UnresolvedReference{Shape: ns.ID, Ref: ref}
			if policy == PolicyFail {
				return nil, NewLoadError(g.Source, &missing)
			}
			rs.Unresolved = append(rs.Unresolved, missing)
			continue
		}
		rs.Properties = append(rs.Properties, p)
	}
	return rs, nil
}

// ResolveAll resolves every node shape in the graph.
func ResolveAll(g *Graph, policy UnresolvedPolicy) ([]*ResolvedShape, error) {
	shapes, err := g.NodeShapes()
	if err != nil {
		return nil, err
	}
	out := make([]*ResolvedShape, 0, len(shapes))
	for _, ns := range shapes {
		rs, err := ResolveShape(g, ns, policy)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, nil
}
