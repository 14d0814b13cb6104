package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/c360studio/semcred/vocabulary/shacl"
)

// The Turtle subset covers what hand-written application profiles use:
// prefix directives, subject blocks with ';'-separated predicates, literals,
// blank node property lists and collections. Object lists (','), @base,
// named blank nodes and numeric exponents are rejected.

type turtleDoc struct {
	Statements []*turtleStatement `@@*`
}

type turtleStatement struct {
	Prefix  *turtlePrefix  `  @@`
	Triples *turtleTriples `| @@`
}

type turtlePrefix struct {
	Pos  lexer.Position
	Name string `("@prefix" | "PREFIX") @PName`
	IRI  string `@IRIRef "."?`
}

type turtleTriples struct {
	Pos     lexer.Position
	Subject string           `@(IRIRef | PName)`
	Preds   []*turtlePredObj `@@ ( ";" @@? )* "."`
}

type turtlePredObj struct {
	Pos    lexer.Position
	Verb   string        `@(IRIRef | PName | "a")`
	Object *turtleObject `@@`
}

type turtleObject struct {
	Pos        lexer.Position
	IRI        string            `  @(IRIRef | PName)`
	Literal    *turtleLiteral    `| @@`
	Blank      *turtleBlank      `| @@`
	Collection *turtleCollection `| @@`
}

type turtleBlank struct {
	Preds []*turtlePredObj `"[" ( @@ ( ";" @@? )* )? "]"`
}

type turtleCollection struct {
	Items []*turtleObject `"(" @@* ")"`
}

type turtleLiteral struct {
	String   *string `(  @(LongString | String)`
	Lang     string  `   ( @LangTag`
	Datatype string  `   | "^^" @(IRIRef | PName) )? )`
	Number   *string `| @Number`
	Bool     *string `| @("true" | "false")`
}

var turtleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "LongString", Pattern: `"""[\s\S]*?"""`},
	{Name: "String", Pattern: `"(?:[^"\\\n]|\\.)*"`},
	{Name: "Directive", Pattern: `@(?:prefix|base)\b`},
	{Name: "LangTag", Pattern: `@[a-zA-Z]+(?:-[a-zA-Z0-9]+)*`},
	{Name: "IRIRef", Pattern: `<[^<>"{}|^\x60\\\s]*>`},
	{Name: "DatatypeMark", Pattern: `\^\^`},
	{Name: "BlankLabel", Pattern: `_:[A-Za-z0-9_\-]+`},
	{Name: "PName", Pattern: `(?:[A-Za-z][A-Za-z0-9_\-]*)?:(?:[A-Za-z0-9_](?:[A-Za-z0-9_\-.]*[A-Za-z0-9_\-])?)?`},
	{Name: "Number", Pattern: `[+-]?(?:\d+\.\d+|\.\d+|\d+)`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[;,.\[\]()]`},
})

var turtleParser = participle.MustBuild[turtleDoc](
	participle.Lexer(turtleLexer),
	participle.Elide("Comment", "Whitespace"),
)

// TurtleLoader reads the Turtle subset used by shape files. A file may hold
// at most one node shape.
type TurtleLoader struct{}

// NewTurtleLoader creates a Turtle loader.
func NewTurtleLoader() *TurtleLoader {
	return &TurtleLoader{}
}

// MimeType implements Loader.
func (l *TurtleLoader) MimeType() string {
	return MimeTurtle
}

// CanLoad implements Loader.
func (l *TurtleLoader) CanLoad(mimeType string) bool {
	return mimeType == MimeTurtle || mimeType == "application/x-turtle"
}

// Load implements Loader.
func (l *TurtleLoader) Load(name string, content []byte) (*Graph, error) {
	doc, err := turtleParser.ParseBytes(name, content)
	if err != nil {
		return nil, turtleParseError(name, err)
	}

	b := &turtleBuilder{name: name, prefixes: map[string]string{}}
	b.g = NewGraph(name, nil)
	for _, st := range doc.Statements {
		if st.Prefix != nil {
			prefix := strings.TrimSuffix(st.Prefix.Name, ":")
			ns := unwrapIRI(st.Prefix.IRI)
			b.prefixes[prefix] = ns
			b.g.Prefixes[prefix] = ns
			continue
		}
		if err := b.triples(st.Triples); err != nil {
			return nil, err
		}
	}

	if shapes := b.g.NodesOfType(shacl.SHNodeShape); len(shapes) > 1 {
		return nil, &SchemaViolation{
			Source:  name,
			Subject: shapes[1].ID,
			Msg:     fmt.Sprintf("turtle shape files hold one sh:NodeShape, found %d", len(shapes)),
		}
	}
	return b.g, nil
}

type turtleBuilder struct {
	name     string
	g        *Graph
	prefixes map[string]string
}

func (b *turtleBuilder) triples(t *turtleTriples) error {
	subject, err := b.resolve(t.Subject, t.Pos)
	if err != nil {
		return err
	}
	return b.predicates(b.g.Ensure(subject), t.Preds)
}

func (b *turtleBuilder) predicates(n *Node, preds []*turtlePredObj) error {
	for _, po := range preds {
		predicate := shacl.RDFType
		if po.Verb != "a" {
			var err error
			if predicate, err = b.resolve(po.Verb, po.Pos); err != nil {
				return err
			}
		}
		term, err := b.object(po.Object)
		if err != nil {
			return err
		}
		n.Add(predicate, term)
	}
	return nil
}

func (b *turtleBuilder) object(o *turtleObject) (Term, error) {
	switch {
	case o.IRI != "":
		iri, err := b.resolve(o.IRI, o.Pos)
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	case o.Literal != nil:
		return b.literal(o.Literal, o.Pos)
	case o.Blank != nil:
		blank := b.g.NewBlank()
		if err := b.predicates(blank, o.Blank.Preds); err != nil {
			return Term{}, err
		}
		return IRI(blank.ID), nil
	case o.Collection != nil:
		items := make([]Term, 0, len(o.Collection.Items))
		for _, item := range o.Collection.Items {
			t, err := b.object(item)
			if err != nil {
				return Term{}, err
			}
			items = append(items, t)
		}
		return List(items...), nil
	}
	return Term{}, &ParseError{Source: b.name, Line: o.Pos.Line, Column: o.Pos.Column, Msg: "empty object"}
}

func (b *turtleBuilder) literal(l *turtleLiteral, pos lexer.Position) (Term, error) {
	switch {
	case l.String != nil:
		lexical := unquote(*l.String)
		if l.Lang != "" {
			return LangLiteral(lexical, strings.TrimPrefix(l.Lang, "@")), nil
		}
		if l.Datatype != "" {
			dt, err := b.resolve(l.Datatype, pos)
			if err != nil {
				return Term{}, err
			}
			return Literal(lexical, dt), nil
		}
		return Literal(lexical, shacl.XSD+"string"), nil
	case l.Number != nil:
		if strings.Contains(*l.Number, ".") {
			return Literal(*l.Number, shacl.XSD+"decimal"), nil
		}
		return Literal(strings.TrimPrefix(*l.Number, "+"), shacl.XSD+"integer"), nil
	case l.Bool != nil:
		return Literal(*l.Bool, shacl.XSD+"boolean"), nil
	}
	return Term{}, &ParseError{Source: b.name, Line: pos.Line, Column: pos.Column, Msg: "empty literal"}
}

// resolve turns an IRIRef or prefixed name into an absolute IRI. Prefixes
// must be declared in the file unless they are well known.
func (b *turtleBuilder) resolve(token string, pos lexer.Position) (string, error) {
	if strings.HasPrefix(token, "<") {
		return unwrapIRI(token), nil
	}
	prefix, local, _ := strings.Cut(token, ":")
	ns, ok := b.prefixes[prefix]
	if !ok {
		ns, ok = shacl.DefaultPrefixes()[prefix]
	}
	if !ok {
		return "", &ParseError{
			Source: b.name,
			Line:   pos.Line,
			Column: pos.Column,
			Msg:    fmt.Sprintf("undeclared prefix %q", prefix),
		}
	}
	return ns + local, nil
}

func unwrapIRI(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}

var turtleEscapes = strings.NewReplacer(
	`\"`, `"`,
	`\'`, `'`,
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
)

func unquote(s string) string {
	switch {
	case strings.HasPrefix(s, `"""`) && len(s) >= 6:
		s = s[3 : len(s)-3]
	case len(s) >= 2:
		s = s[1 : len(s)-1]
	}
	return turtleEscapes.Replace(s)
}

func turtleParseError(name string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return &ParseError{Source: name, Line: pos.Line, Column: pos.Column, Msg: perr.Message(), err: err}
	}
	return &ParseError{Source: name, Msg: err.Error(), err: err}
}
