package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

// JSONLDLoader reads flattened or lightly nested JSON-LD documents: an
// object with @context and @graph, or a bare array of nodes.
type JSONLDLoader struct{}

// NewJSONLDLoader creates a JSON-LD loader.
func NewJSONLDLoader() *JSONLDLoader {
	return &JSONLDLoader{}
}

// MimeType implements Loader.
func (l *JSONLDLoader) MimeType() string {
	return MimeJSONLD
}

// CanLoad implements Loader.
func (l *JSONLDLoader) CanLoad(mimeType string) bool {
	return mimeType == MimeJSONLD || mimeType == "application/json"
}

// Load implements Loader.
func (l *JSONLDLoader) Load(name string, content []byte) (*Graph, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, jsonParseError(name, content, err)
	}

	var nodes []any
	prefixes := map[string]string{}
	switch v := doc.(type) {
	case []any:
		nodes = v
	case map[string]any:
		if ctx, ok := v["@context"].(map[string]any); ok {
			for k, val := range ctx {
				if s, ok := val.(string); ok && !strings.HasPrefix(k, "@") {
					prefixes[k] = s
				}
			}
		}
		switch g := v["@graph"].(type) {
		case []any:
			nodes = g
		case nil:
			if _, hasID := v["@id"]; hasID {
				nodes = []any{v}
			}
		default:
			return nil, &ParseError{Source: name, Msg: "@graph must be an array"}
		}
	default:
		return nil, &ParseError{Source: name, Msg: "top-level value must be an object or an array"}
	}

	r := &jsonldReader{g: NewGraph(name, prefixes)}
	for i, raw := range nodes {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, &ParseError{Source: name, Msg: fmt.Sprintf("@graph[%d] is not an object", i)}
		}
		if _, err := r.node(obj); err != nil {
			return nil, &ParseError{Source: name, Msg: err.Error(), err: err}
		}
	}
	return r.g, nil
}

type jsonldReader struct {
	g *Graph
}

// node adds obj to the graph and returns its id.
func (r *jsonldReader) node(obj map[string]any) (string, error) {
	var n *Node
	if id, ok := obj["@id"].(string); ok && id != "" {
		n = r.g.Ensure(r.g.Expand(id))
	} else {
		n = r.g.NewBlank()
	}

	switch t := obj["@type"].(type) {
	case string:
		n.Add(shacl.RDFType, IRI(r.g.Expand(t)))
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				n.Add(shacl.RDFType, IRI(r.g.Expand(s)))
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !strings.HasPrefix(k, "@") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		predicate := r.g.Expand(k)
		values := obj[k]
		list, isArray := values.([]any)
		if !isArray {
			list = []any{values}
		}
		for _, v := range list {
			t, ok, err := r.term(v)
			if err != nil {
				return "", fmt.Errorf("%s %s: %w", n.ID, k, err)
			}
			if ok {
				n.Add(predicate, t)
			}
		}
	}
	return n.ID, nil
}

func (r *jsonldReader) term(v any) (Term, bool, error) {
	switch val := v.(type) {
	case nil:
		return Term{}, false, nil
	case string:
		return Literal(val, shacl.XSD+"string"), true, nil
	case bool:
		if val {
			return Literal("true", shacl.XSD+"boolean"), true, nil
		}
		return Literal("false", shacl.XSD+"boolean"), true, nil
	case json.Number:
		s := val.String()
		switch {
		case strings.ContainsAny(s, "eE"):
			return Literal(s, shacl.XSD+"double"), true, nil
		case strings.Contains(s, "."):
			return Literal(s, shacl.XSD+"decimal"), true, nil
		default:
			return Literal(s, shacl.XSD+"integer"), true, nil
		}
	case []any:
		return Term{}, false, fmt.Errorf("nested arrays are not supported")
	case map[string]any:
		return r.objectTerm(val)
	}
	return Term{}, false, fmt.Errorf("unsupported value %T", v)
}

func (r *jsonldReader) objectTerm(obj map[string]any) (Term, bool, error) {
	if value, ok := obj["@value"]; ok {
		lexical := fmt.Sprint(value)
		if lang, ok := obj["@language"].(string); ok {
			return LangLiteral(lexical, lang), true, nil
		}
		if dt, ok := obj["@type"].(string); ok {
			return Literal(lexical, r.g.Expand(dt)), true, nil
		}
		t, _, err := r.term(value)
		return t, true, err
	}

	if items, ok := obj["@list"].([]any); ok {
		var terms []Term
		for _, item := range items {
			t, ok, err := r.term(item)
			if err != nil {
				return Term{}, false, err
			}
			if ok {
				terms = append(terms, t)
			}
		}
		return List(terms...), true, nil
	}

	// A bare reference.
	if id, ok := obj["@id"].(string); ok && len(obj) == 1 {
		return IRI(r.g.Expand(id)), true, nil
	}

	// Embedded node.
	id, err := r.node(obj)
	if err != nil {
		return Term{}, false, err
	}
	return IRI(id), true, nil
}

func jsonParseError(name string, content []byte, err error) error {
	pe := &ParseError{Source: name, Msg: err.Error(), err: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Offset <= int64(len(content)) {
		prefix := content[:syntaxErr.Offset]
		pe.Line = bytes.Count(prefix, []byte("\n")) + 1
		pe.Column = len(prefix) - bytes.LastIndexByte(prefix, '\n')
	}
	return pe
}
