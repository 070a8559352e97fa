package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

var (
	peopleID   = ir.MustParseAttribute("people.id")
	peopleName = ir.MustParseAttribute("people.name")
	peopleDept = ir.MustParseAttribute("people.dept")
	deptsID    = ir.MustParseAttribute("depts.id")
	deptsName  = ir.MustParseAttribute("depts.name")
)

func TestCompile_SingleTable(t *testing.T) {
	compiler := NewSQLCompiler()

	rel := queryir.NewRelation(queryir.AliasMap{}, nil, queryir.Equals{
		Attr:  peopleName,
		Value: ir.IRString("Alice"),
	})

	sql, params, err := compiler.Compile(rel, []ir.Attribute{peopleName, peopleID})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "people"."id", "people"."name" FROM "people" WHERE "people"."name" = ? `+
			`ORDER BY "people"."id" COLLATE BINARY ASC, "people"."name" COLLATE BINARY ASC`,
		sql)

	// Verify parameterized query (no interpolation)
	assert.NotContains(t, sql, "Alice")
	assert.Equal(t, []any{"Alice"}, params)
}

func TestCompile_TrueRelation(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(queryir.TrueRelation, []ir.Attribute{peopleID})
	require.NoError(t, err)

	assert.Equal(t, `SELECT "people"."id" FROM "people" ORDER BY "people"."id" COLLATE BINARY ASC`, sql)
	assert.Empty(t, params)
}

func TestCompile_Join(t *testing.T) {
	compiler := NewSQLCompiler()

	j, err := queryir.ParseJoin("people.dept = depts.id")
	require.NoError(t, err)
	rel := queryir.NewRelation(queryir.AliasMap{}, []queryir.Join{j}, queryir.NotNull{Attr: deptsName})

	sql, params, err := compiler.Compile(rel, []ir.Attribute{peopleID, deptsName})
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM "depts", "people"`)
	assert.Contains(t, sql, `WHERE "people"."dept" = "depts"."id" AND "depts"."name" IS NOT NULL`)
	assert.Empty(t, params)
}

func TestCompile_Alias(t *testing.T) {
	compiler := NewSQLCompiler()

	j, err := queryir.ParseJoin("people.manager = boss.id")
	require.NoError(t, err)
	aliases := queryir.NewAliasMap(queryir.Alias{
		Original: ir.RelationName{Table: "people"},
		Alias:    ir.RelationName{Table: "boss"},
	})
	rel := queryir.NewRelation(aliases, []queryir.Join{j}, nil)

	sql, _, err := compiler.Compile(rel, []ir.Attribute{peopleID, ir.MustParseAttribute("boss.name")})
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM "people" AS "boss", "people"`)
}

func TestCompile_MultipleParamsInOrder(t *testing.T) {
	compiler := NewSQLCompiler()

	rel := queryir.NewRelation(queryir.AliasMap{}, nil, queryir.Conjunction(
		queryir.Equals{Attr: peopleID, Value: ir.IRInt(7)},
		queryir.Equals{Attr: peopleName, Value: ir.IRString("Bob")},
		queryir.Equals{Attr: ir.MustParseAttribute("people.active"), Value: ir.IRBool(true)},
	))

	sql, params, err := compiler.Compile(rel, []ir.Attribute{peopleID})
	require.NoError(t, err)

	assert.Contains(t, sql, `"people"."id" = ? AND "people"."name" = ? AND "people"."active" = ?`)
	assert.Equal(t, []any{int64(7), "Bob", true}, params)
}

func TestCompile_EmptyRelation(t *testing.T) {
	compiler := NewSQLCompiler()

	_, _, err := compiler.Compile(queryir.EmptyRelation, []ir.Attribute{peopleID})
	assert.ErrorIs(t, err, ErrEmptyRelation)
}

func TestCompile_NilRelation(t *testing.T) {
	_, _, err := NewSQLCompiler().Compile(nil, nil)
	assert.Error(t, err)
}

func TestCompile_EmptyProjection(t *testing.T) {
	compiler := NewSQLCompiler()

	rel := queryir.NewRelation(queryir.AliasMap{}, nil, queryir.NotNull{Attr: peopleName})
	sql, _, err := compiler.Compile(rel, nil)
	require.NoError(t, err)

	assert.Equal(t, `SELECT 1 FROM "people" WHERE "people"."name" IS NOT NULL`, sql)
}

func TestCompile_DistinctAndLimit(t *testing.T) {
	compiler := &SQLCompiler{Distinct: true, Limit: 10}

	sql, _, err := compiler.Compile(queryir.TrueRelation, []ir.Attribute{peopleDept})
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT DISTINCT ")
	assert.Contains(t, sql, " LIMIT 10")
}

func TestCompile_NullEqualsNeverMatches(t *testing.T) {
	compiler := NewSQLCompiler()

	rel := queryir.NewRelation(queryir.AliasMap{}, nil, queryir.Equals{Attr: peopleName, Value: ir.IRNull{}})
	sql, params, err := compiler.Compile(rel, []ir.Attribute{peopleID})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE 1 = 0")
	assert.Empty(t, params)
}

func TestCompile_DuplicateProjection(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, _, err := compiler.Compile(queryir.TrueRelation, []ir.Attribute{peopleID, peopleID})
	require.NoError(t, err)

	assert.Equal(t, `SELECT "people"."id" FROM "people" ORDER BY "people"."id" COLLATE BINARY ASC`, sql)
}

func TestCompile_Deterministic(t *testing.T) {
	compiler := NewSQLCompiler()

	j, _ := queryir.ParseJoin("people.dept = depts.id")
	rel := queryir.NewRelation(queryir.AliasMap{}, []queryir.Join{j}, nil)

	first, _, err := compiler.Compile(rel, []ir.Attribute{deptsName, peopleID})
	require.NoError(t, err)
	for range 10 {
		again, _, err := compiler.Compile(rel, []ir.Attribute{peopleID, deptsName})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
	assert.Equal(t, `"hr"."people"`, QuoteRelation(ir.RelationName{Schema: "hr", Table: "people"}))
	assert.Equal(t, `"hr"."people"."id"`, QuoteAttribute(ir.MustParseAttribute("hr.people.id")))
}

func TestCompile_Disjunction(t *testing.T) {
	compiler := NewSQLCompiler()

	cond := queryir.Conjunction(
		queryir.NotNull{Attr: peopleID},
		queryir.Disjunction(
			queryir.Conjunction(
				queryir.Equals{Attr: peopleName, Value: ir.IRString("1")},
				queryir.Equals{Attr: peopleDept, Value: ir.IRString("2-3")},
			),
			queryir.Conjunction(
				queryir.Equals{Attr: peopleName, Value: ir.IRString("1-2")},
				queryir.Equals{Attr: peopleDept, Value: ir.IRString("3")},
			),
		),
	)
	rel := queryir.NewRelation(queryir.AliasMap{}, nil, cond)

	sql, params, err := compiler.Compile(rel, []ir.Attribute{peopleID})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "people"."id" FROM "people" WHERE "people"."id" IS NOT NULL AND `+
			`(("people"."name" = ? AND "people"."dept" = ?) OR ("people"."name" = ? AND "people"."dept" = ?)) `+
			`ORDER BY "people"."id" COLLATE BINARY ASC`,
		sql)
	assert.Equal(t, []any{"1", "2-3", "1-2", "3"}, params)
}

func TestCompile_EmptyOrIsFalse(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, _, err := compiler.compileExpression(queryir.Or{})
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", sql)
}
