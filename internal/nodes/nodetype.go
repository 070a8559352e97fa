package nodes

import (
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// NodeType converts between value strings and RDF terms of one kind.
type NodeType interface {
	// MakeNode builds a term from a value. ok is false when the value
	// cannot form a term of this type.
	MakeNode(value string) (n ir.Node, ok bool)
	// ExtractValue returns the value MakeNode would need to produce n.
	// ok is false when this type never produces n.
	ExtractValue(n ir.Node) (value string, ok bool)
	String() string
}

// URIType builds URI references.
type URIType struct{}

// MakeNode returns a URI. The empty string is not a URI.
func (URIType) MakeNode(value string) (ir.Node, bool) {
	if value == "" {
		return nil, false
	}
	return ir.NewURI(value), true
}

// ExtractValue returns the URI string.
func (URIType) ExtractValue(n ir.Node) (string, bool) {
	u, ok := n.(ir.URI)
	if !ok || u.Value == "" {
		return "", false
	}
	return u.Value, true
}

func (URIType) String() string { return "URI" }

// BlankType builds blank nodes labelled with the value.
type BlankType struct{}

// MakeNode returns a blank node.
func (BlankType) MakeNode(value string) (ir.Node, bool) {
	if value == "" {
		return nil, false
	}
	return ir.NewBlankNode(value), true
}

// ExtractValue returns the blank node label.
func (BlankType) ExtractValue(n ir.Node) (string, bool) {
	b, ok := n.(ir.BlankNode)
	if !ok || b.ID == "" {
		return "", false
	}
	return b.ID, true
}

func (BlankType) String() string { return "Blank" }

// LiteralType builds literals with a fixed language tag or datatype.
// At most one of Lang and Datatype is set.
type LiteralType struct {
	Lang     string
	Datatype string
}

// NewLiteralType creates a literal type. The language tag is lower-cased
// to match ir.NewLiteral.
func NewLiteralType(lang, datatype string) LiteralType {
	return LiteralType{Lang: strings.ToLower(lang), Datatype: datatype}
}

// MakeNode returns a literal with the value as its lexical form.
func (t LiteralType) MakeNode(value string) (ir.Node, bool) {
	if t.Datatype != "" {
		return ir.NewTypedLiteral(value, t.Datatype), true
	}
	return ir.NewLiteral(value, t.Lang), true
}

// ExtractValue returns the lexical form of a literal with the same
// language tag and datatype.
func (t LiteralType) ExtractValue(n ir.Node) (string, bool) {
	l, ok := n.(ir.Literal)
	if !ok || l.Lang != t.Lang || l.Datatype != t.Datatype {
		return "", false
	}
	return l.Lexical, true
}

func (t LiteralType) String() string {
	switch {
	case t.Lang != "":
		return "Literal@" + t.Lang
	case t.Datatype != "":
		return "Literal^^<" + t.Datatype + ">"
	default:
		return "Literal"
	}
}
