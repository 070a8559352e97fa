package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/ir"
)

var (
	peopleID   = ir.MustParseAttribute("people.id")
	peopleName = ir.MustParseAttribute("people.name")
	peopleDept = ir.MustParseAttribute("people.dept")
	deptsID    = ir.MustParseAttribute("depts.id")
)

func TestExpression_ImplementsInterface(t *testing.T) {
	exprs := []Expression{
		True{},
		False{},
		Equals{Attr: peopleID, Value: ir.IRInt(1)},
		AttributeEquals{Left: peopleDept, Right: deptsID},
		NotNull{Attr: peopleName},
		And{},
		Or{},
	}
	for _, e := range exprs {
		assert.NotEmpty(t, e.String())
		assert.NotNil(t, e.Columns())
	}
}

func TestExpression_String(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"true", True{}, "TRUE"},
		{"false", False{}, "FALSE"},
		{"equals string", Equals{Attr: peopleName, Value: ir.IRString("Alice")}, `people.name = "Alice"`},
		{"equals int", Equals{Attr: peopleID, Value: ir.IRInt(7)}, "people.id = 7"},
		{"attribute equals", AttributeEquals{Left: peopleDept, Right: deptsID}, "people.dept = depts.id"},
		{"not null", NotNull{Attr: peopleName}, "people.name IS NOT NULL"},
		{"empty and", And{}, "TRUE"},
		{
			"and",
			And{Exprs: []Expression{NotNull{Attr: peopleName}, Equals{Attr: peopleID, Value: ir.IRInt(1)}}},
			"(people.name IS NOT NULL AND people.id = 1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestExpression_Columns(t *testing.T) {
	e := And{Exprs: []Expression{
		Equals{Attr: peopleName, Value: ir.IRString("x")},
		AttributeEquals{Left: peopleDept, Right: deptsID},
		NotNull{Attr: peopleName},
	}}
	assert.Equal(t, []ir.Attribute{deptsID, peopleDept, peopleName}, e.Columns())
	assert.Empty(t, True{}.Columns())
	assert.Empty(t, False{}.Columns())
}

func TestConjunction(t *testing.T) {
	eq := Equals{Attr: peopleID, Value: ir.IRInt(1)}
	nn := NotNull{Attr: peopleName}

	t.Run("no operands is true", func(t *testing.T) {
		assert.Equal(t, True{}, Conjunction())
	})

	t.Run("true and nil are dropped", func(t *testing.T) {
		assert.Equal(t, eq, Conjunction(True{}, nil, eq))
	})

	t.Run("false wins", func(t *testing.T) {
		assert.Equal(t, False{}, Conjunction(eq, False{}, nn))
	})

	t.Run("nested and is flattened", func(t *testing.T) {
		got := Conjunction(And{Exprs: []Expression{eq, nn}}, eq)
		require.IsType(t, And{}, got)
		assert.Equal(t, []Expression{eq, nn}, got.(And).Exprs)
	})

	t.Run("false nested in and wins", func(t *testing.T) {
		assert.Equal(t, False{}, Conjunction(And{Exprs: []Expression{eq, False{}}}))
	})

	t.Run("duplicates are dropped", func(t *testing.T) {
		assert.Equal(t, eq, Conjunction(eq, eq))
	})
}

func TestDisjunction(t *testing.T) {
	eq := Equals{Attr: peopleID, Value: ir.IRInt(1)}
	nn := NotNull{Attr: peopleName}

	t.Run("no operands is false", func(t *testing.T) {
		assert.Equal(t, False{}, Disjunction())
	})

	t.Run("false operands are dropped", func(t *testing.T) {
		assert.Equal(t, eq, Disjunction(False{}, eq))
	})

	t.Run("true and nil win", func(t *testing.T) {
		assert.Equal(t, True{}, Disjunction(eq, True{}))
		assert.Equal(t, True{}, Disjunction(eq, nil))
	})

	t.Run("nested or is flattened", func(t *testing.T) {
		got := Disjunction(Or{Exprs: []Expression{eq, nn}}, eq)
		require.IsType(t, Or{}, got)
		assert.Equal(t, []Expression{eq, nn}, got.(Or).Exprs)
	})

	t.Run("and operands are kept whole", func(t *testing.T) {
		and := Conjunction(eq, nn)
		got := Disjunction(and, nn)
		assert.Equal(t, `((people.id = 1 AND people.name IS NOT NULL) OR people.name IS NOT NULL)`, got.String())
		assert.Equal(t, []ir.Attribute{peopleID, peopleName}, got.Columns())
	})
}

func TestOr_RenameColumns(t *testing.T) {
	renamer := ColumnRenamerMap{peopleName: ir.MustParseAttribute("people.full_name")}
	e := Disjunction(
		Equals{Attr: peopleName, Value: ir.IRString("Alice")},
		NotNull{Attr: peopleID},
	)

	assert.Equal(t, `(people.full_name = "Alice" OR people.id IS NOT NULL)`, e.RenameColumns(renamer).String())
	assert.Equal(t, "FALSE", Or{}.String())
}

func TestIsTrueIsFalse(t *testing.T) {
	assert.True(t, IsTrue(True{}))
	assert.True(t, IsTrue(nil))
	assert.True(t, IsTrue(And{}))
	assert.False(t, IsTrue(False{}))
	assert.False(t, IsTrue(NotNull{Attr: peopleName}))

	assert.True(t, IsFalse(False{}))
	assert.False(t, IsFalse(True{}))
	assert.False(t, IsFalse(nil))
	assert.True(t, IsFalse(Or{}))
}

func TestExpression_RenameColumns(t *testing.T) {
	renamer := ColumnRenamerMap{peopleName: ir.MustParseAttribute("people.full_name")}

	e := Conjunction(
		Equals{Attr: peopleName, Value: ir.IRString("Alice")},
		NotNull{Attr: peopleID},
	)
	renamed := e.RenameColumns(renamer)

	assert.Equal(t, `(people.full_name = "Alice" AND people.id IS NOT NULL)`, renamed.String())
	// The original is untouched.
	assert.Equal(t, `(people.name = "Alice" AND people.id IS NOT NULL)`, e.String())
}

func TestExpression_RenameColumnsToConstantIsStable(t *testing.T) {
	assert.Equal(t, True{}, True{}.RenameColumns(IdentityRenamer{}))
	assert.Equal(t, False{}, False{}.RenameColumns(IdentityRenamer{}))
}
