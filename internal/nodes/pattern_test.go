package nodes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

func TestNewPattern_Invalid(t *testing.T) {
	tests := []struct {
		template string
		errMsg   string
	}{
		{"http://example.org/", "no column references"},
		{"http://example.org/{people.id", "unterminated"},
		{"http://example.org/}{people.id}", "unmatched"},
		{"http://example.org/{people.id}}", "unmatched"},
		{"http://example.org/{id}", "invalid attribute"},
		{"http://example.org/{people.id|sha1}", "unknown function"},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			_, err := NewPattern(tt.template, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPattern_Template(t *testing.T) {
	for _, tmpl := range []string{
		"http://example.org/person/{people.id}",
		"{people.id}",
		"http://example.org/{depts.code}/{people.id}#me",
		"http://example.org/tag/{tags.label|urlencode}",
	} {
		p := MustPattern(tmpl, nil)
		assert.Equal(t, tmpl, p.Template())
		assert.Equal(t, "Pattern("+tmpl+")", p.String())
	}
}

func TestPattern_MakeValue(t *testing.T) {
	p := MustPattern("http://example.org/{depts.code}/{people.id}", nil)
	code := ir.MustParseAttribute("depts.code")

	v, ok := p.MakeValue(ir.MapRow{code: "hr", peopleID: "4"})
	require.True(t, ok)
	assert.Equal(t, "http://example.org/hr/4", v)

	_, ok = p.MakeValue(ir.MapRow{code: "hr"})
	assert.False(t, ok, "NULL column gives no value")

	assert.Equal(t, []ir.Attribute{code, peopleID}, p.ProjectionColumns())
}

func TestPattern_URLEncode(t *testing.T) {
	label := ir.MustParseAttribute("tags.label")
	p := MustPattern("http://example.org/tag/{tags.label|urlencode}", nil)

	v, ok := p.MakeValue(ir.MapRow{label: "go lang/rdf"})
	require.True(t, ok)
	assert.Equal(t, "http://example.org/tag/go%20lang%2Frdf", v)

	assert.Equal(t, `tags.label = "go lang/rdf"`, exactExpr(t, p, v).String())

	// Non-canonical encodings are never produced.
	assert.Equal(t, queryir.False{}, exactExpr(t, p, "http://example.org/tag/go%2blang"))
	assert.Equal(t, queryir.False{}, exactExpr(t, p, "http://example.org/tag/%zz"))
}

func TestPattern_ValueExpression(t *testing.T) {
	code := ir.MustParseAttribute("depts.code")
	p := MustPattern("http://example.org/{depts.code}/{people.id}", intTypes)

	tests := []struct {
		value string
		want  string
	}{
		{"http://example.org/hr/4", `(depts.code = "hr" AND people.id = 4)`},
		{"http://example.org/hr/x", "FALSE"},
		{"http://example.org/hr", "FALSE"},
		{"http://other.org/hr/4", "FALSE"},
		{"http://example.org/hr/4/extra", "FALSE"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, exactExpr(t, p, tt.value).String())
		})
	}

	assert.Equal(t, []ir.Attribute{code, peopleID}, p.ProjectionColumns())
}

func TestPattern_ValueExpressionRoundTrip(t *testing.T) {
	p := MustPattern("urn:x:{people.name}:{people.id}", intTypes)
	row := ir.MapRow{peopleName: "Ann", peopleID: "12"}

	v, ok := p.MakeValue(row)
	require.True(t, ok)
	assert.Equal(t, `(people.name = "Ann" AND people.id = 12)`, exactExpr(t, p, v).String())
}

func TestPattern_RegexMetacharacters(t *testing.T) {
	p := MustPattern("http://example.org/a.b?c=({people.id})", intTypes)

	assert.Equal(t, "people.id = 5", exactExpr(t, p, "http://example.org/a.b?c=(5)").String())
	assert.Equal(t, queryir.False{}, exactExpr(t, p, "http://example.org/aXb?c=(5)"))
}

func TestPattern_RenameColumns(t *testing.T) {
	p := MustPattern("http://example.org/person/{people.id}", intTypes)
	renamed := p.RenameColumns(queryir.ColumnRenamerMap{
		peopleID: ir.MustParseAttribute("staff.id"),
	})

	assert.Equal(t, "Pattern(http://example.org/person/{staff.id})", renamed.String())
	assert.Equal(t, "staff.id = 9", exactExpr(t, renamed, "http://example.org/person/9").String())
	assert.Equal(t, "Pattern(http://example.org/person/{people.id})", p.String())
}

// exactExpr returns the condition vm selects value with, which must be exact.
func exactExpr(t *testing.T, vm ValueMaker, value string) queryir.Expression {
	t.Helper()
	cond, exact := vm.ValueExpression(value)
	require.True(t, exact, "condition for %q is not exact", value)
	return cond
}

func TestPattern_ValueExpressionEverySplit(t *testing.T) {
	a := ir.MustParseAttribute("tags.a")
	b := ir.MustParseAttribute("tags.b")
	p := MustPattern("http://ex/{tags.a}-{tags.b}", nil)

	// Both rows render the same value.
	for _, row := range []ir.MapRow{{a: "1-2", b: "3"}, {a: "1", b: "2-3"}} {
		v, ok := p.MakeValue(row)
		require.True(t, ok)
		assert.Equal(t, "http://ex/1-2-3", v)
	}

	assert.Equal(t,
		`((tags.a = "1" AND tags.b = "2-3") OR (tags.a = "1-2" AND tags.b = "3"))`,
		exactExpr(t, p, "http://ex/1-2-3").String())
	assert.Equal(t, `(tags.a = "1" AND tags.b = "2")`, exactExpr(t, p, "http://ex/1-2").String())
	assert.Equal(t, `(tags.a = "" AND tags.b = "")`, exactExpr(t, p, "http://ex/-").String())
	assert.Equal(t, queryir.False{}, exactExpr(t, p, "http://ex/12"))
}

func TestPattern_ValueExpressionSplitsTyped(t *testing.T) {
	p := MustPattern("urn:{people.name}-{people.id}", intTypes)

	// Only one split leaves an integer for people.id.
	assert.Equal(t, `(people.name = "a-b" AND people.id = 3)`, exactExpr(t, p, "urn:a-b-3").String())
}

func TestPattern_ValueExpressionSplitsKeepRunes(t *testing.T) {
	a := ir.MustParseAttribute("t.a")
	b := ir.MustParseAttribute("t.b")
	p := MustPattern("urn:{t.a}{t.b}", nil)

	cond := exactExpr(t, p, "urn:é")
	assert.Equal(t, `((t.a = "" AND t.b = "é") OR (t.a = "é" AND t.b = ""))`, cond.String())
	assert.Equal(t, []ir.Attribute{a, b}, cond.Columns())
}

func TestPattern_ValueExpressionTooManySplits(t *testing.T) {
	p := MustPattern("urn:{t.a}{t.b}", nil)

	cond, exact := p.ValueExpression("urn:" + strings.Repeat("x", maxSplits))
	assert.False(t, exact)
	assert.Equal(t, "(t.a IS NOT NULL AND t.b IS NOT NULL)", cond.String())

	_, exact = p.ValueExpression("urn:" + strings.Repeat("x", maxSplits-2))
	assert.True(t, exact)
}
