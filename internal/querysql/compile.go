package querysql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

// ErrEmptyRelation is returned when compiling a relation that can never
// produce rows. Callers skip such relations instead of querying them.
var ErrEmptyRelation = errors.New("relation is empty")

// SQLCompiler compiles relations to parameterized SQL for SQLite.
//
// CRITICAL: Every query with a projection has an ORDER BY over the projected
// columns so results are deterministic.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	// Distinct adds DISTINCT to the SELECT clause.
	Distinct bool

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a relation and the columns to fetch from it into
// parameterized SQL. Returns (sql, params, error) tuple.
//
// The FROM clause lists every table referenced by the projection, the join
// conditions and the condition. Aliased tables render as "table" AS "alias".
func (c *SQLCompiler) Compile(rel *queryir.Relation, projection []ir.Attribute) (string, []any, error) {
	if rel == nil {
		return "", nil, fmt.Errorf("cannot compile nil relation")
	}
	if rel.IsEmpty() {
		return "", nil, ErrEmptyRelation
	}

	projection = ir.UnionAttributes(projection)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if c.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(c.compileProjection(projection))

	from := c.compileFrom(rel, projection)
	if from != "" {
		sb.WriteString(" FROM ")
		sb.WriteString(from)
	}

	conds := make([]queryir.Expression, 0, len(rel.JoinConditions())+1)
	for _, j := range rel.JoinConditions() {
		conds = append(conds, j.Condition())
	}
	conds = append(conds, rel.Condition())
	where := queryir.Conjunction(conds...)

	var params []any
	if !queryir.IsTrue(where) {
		whereSQL, whereParams, err := c.compileExpression(where)
		if err != nil {
			return "", nil, fmt.Errorf("compile condition: %w", err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(whereSQL)
		params = whereParams
	}

	// MANDATORY: deterministic row order.
	if len(projection) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(c.stableOrderKey(projection))
	}

	if c.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(c.Limit))
	}

	return sb.String(), params, nil
}

// compileProjection renders the SELECT list. An empty projection selects
// the constant 1 so the query still reports whether rows exist.
func (c *SQLCompiler) compileProjection(projection []ir.Attribute) string {
	if len(projection) == 0 {
		return "1"
	}
	parts := make([]string, len(projection))
	for i, a := range projection {
		parts[i] = QuoteAttribute(a)
	}
	return strings.Join(parts, ", ")
}

// compileFrom renders the FROM list in table name order.
func (c *SQLCompiler) compileFrom(rel *queryir.Relation, projection []ir.Attribute) string {
	tables := rel.Tables()
	seen := make(map[ir.RelationName]bool, len(tables))
	for _, t := range tables {
		seen[t] = true
	}
	for _, a := range projection {
		if !seen[a.Relation] {
			seen[a.Relation] = true
			tables = append(tables, a.Relation)
		}
	}
	ir.SortRelationNames(tables)

	aliases := rel.AliasMap()
	parts := make([]string, len(tables))
	for i, t := range tables {
		if aliases.IsAlias(t) {
			parts[i] = QuoteRelation(aliases.OriginalOf(t)) + " AS " + QuoteRelation(t)
		} else {
			parts[i] = QuoteRelation(t)
		}
	}
	return strings.Join(parts, ", ")
}

// stableOrderKey returns the ORDER BY terms for a projection.
// COLLATE BINARY ensures deterministic text ordering across SQLite versions.
func (c *SQLCompiler) stableOrderKey(projection []ir.Attribute) string {
	parts := make([]string, len(projection))
	for i, a := range projection {
		parts[i] = QuoteAttribute(a) + " COLLATE BINARY ASC"
	}
	return strings.Join(parts, ", ")
}

// compileExpression compiles an expression to a WHERE clause fragment.
// Returns (sql, params, error).
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compileExpression(e queryir.Expression) (string, []any, error) {
	switch expr := e.(type) {
	case nil, queryir.True:
		return "1 = 1", nil, nil
	case queryir.False:
		return "1 = 0", nil, nil
	case queryir.Equals:
		return c.compileEquals(expr)
	case queryir.AttributeEquals:
		return QuoteAttribute(expr.Left) + " = " + QuoteAttribute(expr.Right), nil, nil
	case queryir.NotNull:
		return QuoteAttribute(expr.Attr) + " IS NOT NULL", nil, nil
	case queryir.And:
		return c.compileAnd(expr)
	case queryir.Or:
		return c.compileOr(expr)
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

// compileEquals compiles an Equals expression to "attr = ?".
func (c *SQLCompiler) compileEquals(eq queryir.Equals) (string, []any, error) {
	if _, isNull := eq.Value.(ir.IRNull); isNull {
		// NULL never equals anything.
		return "1 = 0", nil, nil
	}
	param, err := ir.ValueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("convert value: %w", err)
	}
	return QuoteAttribute(eq.Attr) + " = ?", []any{param}, nil
}

// compileAnd compiles an And expression to a conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Exprs) == 0 {
		return "1 = 1", nil, nil
	}

	sqlParts := make([]string, 0, len(and.Exprs))
	var allParams []any
	for _, sub := range and.Exprs {
		sql, params, err := c.compileExpression(sub)
		if err != nil {
			return "", nil, err
		}
		if _, nested := sub.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// compileOr compiles an Or expression to a parenthesized disjunction.
func (c *SQLCompiler) compileOr(or queryir.Or) (string, []any, error) {
	if len(or.Exprs) == 0 {
		return "1 = 0", nil, nil
	}

	sqlParts := make([]string, 0, len(or.Exprs))
	var allParams []any
	for _, sub := range or.Exprs {
		sql, params, err := c.compileExpression(sub)
		if err != nil {
			return "", nil, err
		}
		if _, nested := sub.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return "(" + strings.Join(sqlParts, " OR ") + ")", allParams, nil
}

// QuoteIdent quotes an SQL identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteRelation quotes a possibly schema-qualified table name.
func QuoteRelation(r ir.RelationName) string {
	if r.Schema == "" {
		return QuoteIdent(r.Table)
	}
	return QuoteIdent(r.Schema) + "." + QuoteIdent(r.Table)
}

// QuoteAttribute quotes a table-qualified column.
func QuoteAttribute(a ir.Attribute) string {
	return QuoteRelation(a.Relation) + "." + QuoteIdent(a.Column)
}
