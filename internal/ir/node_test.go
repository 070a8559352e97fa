package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeSealed(t *testing.T) {
	var _ Node = URI{}
	var _ Node = Literal{}
	var _ Node = BlankNode{}
	var _ Node = Wildcard{}
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{name: "uri", node: NewURI("http://example.org/a"), want: "<http://example.org/a>"},
		{name: "uri with space", node: NewURI("http://example.org/a b"), want: `<http://example.org/a\u0020b>`},
		{name: "plain literal", node: NewLiteral("Alice", ""), want: `"Alice"`},
		{name: "lang literal", node: NewLiteral("Alice", "EN"), want: `"Alice"@en`},
		{name: "typed literal", node: NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"), want: `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{name: "escaped literal", node: NewLiteral("say \"hi\"\n", ""), want: `"say \"hi\"\n"`},
		{name: "blank", node: NewBlankNode("b1"), want: "_:b1"},
		{name: "blank with separator", node: NewBlankNode("Dept@@7"), want: "_:Deptx40x407"},
		{name: "wildcard", node: Any, want: "ANY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestNodeEquality(t *testing.T) {
	// Nodes are comparable values; == is node equality.
	assert.True(t, Node(NewURI("http://x")) == Node(NewURI("http://x")))
	assert.False(t, Node(NewURI("http://x")) == Node(NewLiteral("http://x", "")))
	assert.False(t, Node(NewLiteral("a", "en")) == Node(NewLiteral("a", "")))
}

func TestNewLiteral_KeepsLexicalBytes(t *testing.T) {
	// "é" as e + combining acute accent stays distinct from the precomposed form.
	decomposed := NewLiteral("e\u0301", "EN")
	precomposed := NewLiteral("\u00e9", "en")
	assert.NotEqual(t, precomposed, decomposed)
	assert.Equal(t, "e\u0301", decomposed.Lexical)
	assert.Equal(t, "en", decomposed.Lang)
	assert.Equal(t, "e\u0301", NewTypedLiteral("e\u0301", XSDNamespace+"string").Lexical)
}

func TestIsConcrete(t *testing.T) {
	assert.False(t, IsConcrete(nil))
	assert.False(t, IsConcrete(Any))
	assert.True(t, IsConcrete(NewURI("http://x")))
	assert.True(t, IsConcrete(NewLiteral("", "")))
}

func TestPattern_Matches(t *testing.T) {
	s := NewURI("http://example.org/person/1")
	p := NewURI("http://xmlns.com/foaf/0.1/name")
	o := NewLiteral("Alice", "")
	triple := NewTriple(s, p, o)

	tests := []struct {
		name    string
		pattern Pattern
		want    bool
	}{
		{name: "all wildcards", pattern: NewPattern(Any, Any, Any), want: true},
		{name: "nil positions", pattern: Pattern{}, want: true},
		{name: "subject bound", pattern: NewPattern(s, Any, Any), want: true},
		{name: "fully bound", pattern: NewPattern(s, p, o), want: true},
		{name: "object mismatch", pattern: NewPattern(Any, Any, NewLiteral("Bob", "")), want: false},
		{name: "kind mismatch", pattern: NewPattern(Any, Any, NewURI("Alice")), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pattern.Matches(triple))
		})
	}
}

func TestTriple_String(t *testing.T) {
	triple := NewTriple(NewURI("http://a"), NewURI("http://b"), NewLiteral("c", ""))
	assert.Equal(t, `<http://a> <http://b> "c" .`, triple.String())
}

func TestPattern_String(t *testing.T) {
	p := NewPattern(NewURI("http://a"), Any, nil)
	assert.Equal(t, "<http://a> ANY ANY", p.String())
}
