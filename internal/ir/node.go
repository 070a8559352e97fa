package ir

import (
	"strings"
)

// NodeKind identifies RDF node variants.
type NodeKind uint8

const (
	// KindURI is a URI node.
	KindURI NodeKind = iota
	// KindLiteral is a literal node.
	KindLiteral
	// KindBlank is a blank node.
	KindBlank
	// KindWildcard matches any node in a pattern. It never appears in a triple.
	KindWildcard
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	case KindWildcard:
		return "any"
	default:
		return "unknown"
	}
}

// Node is a sealed interface for RDF terms.
// Only URI, Literal, BlankNode and Wildcard implement it.
//
// All variants are comparable structs, so two nodes are equal
// exactly when == reports them equal.
type Node interface {
	Kind() NodeKind
	// String renders the node in N-Triples syntax.
	String() string
	rdfNode() // Sealed
}

// URI is an RDF URI reference.
type URI struct {
	Value string
}

func (URI) rdfNode() {}

// Kind returns KindURI.
func (URI) Kind() NodeKind { return KindURI }

// String renders <value>.
func (u URI) String() string {
	return "<" + escapeNTriples(u.Value, true) + ">"
}

// NewURI creates a URI node.
func NewURI(value string) URI {
	return URI{Value: value}
}

// Literal is an RDF literal. At most one of Lang and Datatype is set.
type Literal struct {
	Lexical  string
	Lang     string
	Datatype string
}

func (Literal) rdfNode() {}

// Kind returns KindLiteral.
func (Literal) Kind() NodeKind { return KindLiteral }

// String renders "lexical", "lexical"@lang or "lexical"^^<datatype>.
func (l Literal) String() string {
	s := `"` + escapeNTriples(l.Lexical, false) + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^<" + escapeNTriples(l.Datatype, true) + ">"
	default:
		return s
	}
}

// NewLiteral creates a plain or language-tagged literal.
// The lexical form is kept byte for byte; the language tag is lower-cased.
func NewLiteral(lexical, lang string) Literal {
	return Literal{
		Lexical: lexical,
		Lang:    strings.ToLower(lang),
	}
}

// NewTypedLiteral creates a datatyped literal.
func NewTypedLiteral(lexical, datatype string) Literal {
	return Literal{
		Lexical:  lexical,
		Datatype: datatype,
	}
}

// BlankNode is an RDF blank node identified by a label.
type BlankNode struct {
	ID string
}

func (BlankNode) rdfNode() {}

// Kind returns KindBlank.
func (BlankNode) Kind() NodeKind { return KindBlank }

// String renders _:label. Characters outside [A-Za-z0-9] are hex escaped
// so the rendered label stays a valid N-Triples blank node label.
func (b BlankNode) String() string {
	var sb strings.Builder
	sb.WriteString("_:")
	for _, r := range b.ID {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString("x")
		sb.WriteString(strings.ToUpper(hexRune(r)))
	}
	return sb.String()
}

// NewBlankNode creates a blank node.
func NewBlankNode(id string) BlankNode {
	return BlankNode{ID: id}
}

// Wildcard matches any node in a Pattern.
type Wildcard struct{}

func (Wildcard) rdfNode() {}

// Kind returns KindWildcard.
func (Wildcard) Kind() NodeKind { return KindWildcard }

// String renders ANY.
func (Wildcard) String() string { return "ANY" }

// Any is the wildcard node.
var Any Node = Wildcard{}

// Well-known vocabulary URIs.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFType      = RDFNamespace + "type"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// IsConcrete reports whether n is a bound term (not nil and not the wildcard).
func IsConcrete(n Node) bool {
	if n == nil {
		return false
	}
	return n.Kind() != KindWildcard
}

// Triple is an RDF triple. All three positions are concrete nodes.
type Triple struct {
	S Node
	P Node
	O Node
}

// NewTriple creates a triple.
func NewTriple(s, p, o Node) Triple {
	return Triple{S: s, P: p, O: o}
}

// String renders the triple as one N-Triples line without the trailing newline.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}

// Pattern is a triple whose positions may be the wildcard.
// A nil position is treated as the wildcard.
type Pattern struct {
	S Node
	P Node
	O Node
}

// NewPattern creates a pattern. Pass Any (or nil) for unbound positions.
func NewPattern(s, p, o Node) Pattern {
	return Pattern{S: s, P: p, O: o}
}

// Matches reports whether t agrees with every concrete position of p.
func (p Pattern) Matches(t Triple) bool {
	return matchNode(p.S, t.S) && matchNode(p.P, t.P) && matchNode(p.O, t.O)
}

// String renders the pattern with ANY for unbound positions.
func (p Pattern) String() string {
	return patternTerm(p.S) + " " + patternTerm(p.P) + " " + patternTerm(p.O)
}

func matchNode(pattern, n Node) bool {
	if !IsConcrete(pattern) {
		return true
	}
	return pattern == n
}

func patternTerm(n Node) string {
	if !IsConcrete(n) {
		return Any.String()
	}
	return n.String()
}

// escapeNTriples escapes a string for N-Triples output.
// URIs additionally escape characters that are illegal inside <>.
func escapeNTriples(s string, uri bool) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			if uri {
				sb.WriteString(`"`)
			} else {
				sb.WriteString(`\"`)
			}
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '<', '>', '{', '}', '|', '^', '`', ' ':
			if uri {
				sb.WriteString(`\u00`)
				sb.WriteString(strings.ToUpper(hexRune(r)))
			} else {
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func hexRune(r rune) string {
	const digits = "0123456789abcdef"
	if r == 0 {
		return "00"
	}
	var buf []byte
	for r > 0 {
		buf = append([]byte{digits[r&0xf]}, buf...)
		r >>= 4
	}
	if len(buf)%2 == 1 {
		buf = append([]byte{'0'}, buf...)
	}
	return string(buf)
}
