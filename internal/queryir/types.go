package queryir

import (
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// Expression represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// Expression types:
//   - True, False: constant conditions
//   - Equals: attribute = constant
//   - AttributeEquals: attribute = attribute
//   - NotNull: attribute IS NOT NULL
//   - And: all expressions must be true
//   - Or: at least one expression must be true
//
// Build conjunctions with Conjunction and disjunctions with Disjunction
// rather than And{} and Or{} so that constant and nested conditions are
// simplified.
type Expression interface {
	// Columns returns the attributes referenced by the expression, sorted.
	Columns() []ir.Attribute
	// RenameColumns applies the renamer to every referenced attribute.
	RenameColumns(r ColumnRenamer) Expression
	String() string
	expressionNode() // Marker method - seals interface to this package
}

// True is the condition that holds for every row.
type True struct{}

func (True) expressionNode() {}

// Columns returns no attributes.
func (True) Columns() []ir.Attribute { return []ir.Attribute{} }

// RenameColumns returns True.
func (t True) RenameColumns(ColumnRenamer) Expression { return t }

func (True) String() string { return "TRUE" }

// False is the condition that holds for no row.
type False struct{}

func (False) expressionNode() {}

// Columns returns no attributes.
func (False) Columns() []ir.Attribute { return []ir.Attribute{} }

// RenameColumns returns False.
func (f False) RenameColumns(ColumnRenamer) Expression { return f }

func (False) String() string { return "FALSE" }

// Equals compares an attribute with a constant.
//
// Semantics:
//
//	<attr> = <value>
//
// NULL never equals anything, so rows where the attribute is NULL
// never satisfy Equals.
type Equals struct {
	Attr  ir.Attribute
	Value ir.IRValue
}

func (Equals) expressionNode() {}

// Columns returns the compared attribute.
func (e Equals) Columns() []ir.Attribute { return []ir.Attribute{e.Attr} }

// RenameColumns renames the compared attribute.
func (e Equals) RenameColumns(r ColumnRenamer) Expression {
	return Equals{Attr: r.RenameAttribute(e.Attr), Value: e.Value}
}

func (e Equals) String() string {
	return e.Attr.QualifiedName() + " = " + ir.FormatValue(e.Value)
}

// AttributeEquals compares two attributes.
//
// Semantics:
//
//	<left> = <right>
type AttributeEquals struct {
	Left  ir.Attribute
	Right ir.Attribute
}

func (AttributeEquals) expressionNode() {}

// Columns returns both attributes.
func (e AttributeEquals) Columns() []ir.Attribute {
	return ir.UnionAttributes([]ir.Attribute{e.Left, e.Right})
}

// RenameColumns renames both attributes.
func (e AttributeEquals) RenameColumns(r ColumnRenamer) Expression {
	return AttributeEquals{Left: r.RenameAttribute(e.Left), Right: r.RenameAttribute(e.Right)}
}

func (e AttributeEquals) String() string {
	return e.Left.QualifiedName() + " = " + e.Right.QualifiedName()
}

// NotNull requires an attribute to have a value.
type NotNull struct {
	Attr ir.Attribute
}

func (NotNull) expressionNode() {}

// Columns returns the tested attribute.
func (n NotNull) Columns() []ir.Attribute { return []ir.Attribute{n.Attr} }

// RenameColumns renames the tested attribute.
func (n NotNull) RenameColumns(r ColumnRenamer) Expression {
	return NotNull{Attr: r.RenameAttribute(n.Attr)}
}

func (n NotNull) String() string {
	return n.Attr.QualifiedName() + " IS NOT NULL"
}

// And represents a conjunction of expressions (all must be true).
// An empty And is true.
type And struct {
	Exprs []Expression
}

func (And) expressionNode() {}

// Columns returns the union of the operands' attributes.
func (a And) Columns() []ir.Attribute {
	sets := make([][]ir.Attribute, len(a.Exprs))
	for i, e := range a.Exprs {
		sets[i] = e.Columns()
	}
	return ir.UnionAttributes(sets...)
}

// RenameColumns renames every operand.
func (a And) RenameColumns(r ColumnRenamer) Expression {
	renamed := make([]Expression, len(a.Exprs))
	for i, e := range a.Exprs {
		renamed[i] = e.RenameColumns(r)
	}
	return Conjunction(renamed...)
}

func (a And) String() string {
	if len(a.Exprs) == 0 {
		return True{}.String()
	}
	parts := make([]string, len(a.Exprs))
	for i, e := range a.Exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// Conjunction combines expressions with AND.
//
//   - nested And operands are flattened
//   - True operands and duplicates are dropped
//   - any False operand makes the result False
//   - zero remaining operands yield True, one yields that operand
func Conjunction(exprs ...Expression) Expression {
	var flat []Expression
	seen := make(map[string]bool)
	var add func(e Expression) bool
	add = func(e Expression) bool {
		switch v := e.(type) {
		case nil, True:
			return true
		case False:
			return false
		case And:
			for _, sub := range v.Exprs {
				if !add(sub) {
					return false
				}
			}
			return true
		default:
			key := e.String()
			if !seen[key] {
				seen[key] = true
				flat = append(flat, e)
			}
			return true
		}
	}

	for _, e := range exprs {
		if !add(e) {
			return False{}
		}
	}

	switch len(flat) {
	case 0:
		return True{}
	case 1:
		return flat[0]
	default:
		return And{Exprs: flat}
	}
}

// Or represents a disjunction of expressions (at least one must be true).
// An empty Or is false.
type Or struct {
	Exprs []Expression
}

func (Or) expressionNode() {}

// Columns returns the union of the operands' attributes.
func (o Or) Columns() []ir.Attribute {
	sets := make([][]ir.Attribute, len(o.Exprs))
	for i, e := range o.Exprs {
		sets[i] = e.Columns()
	}
	return ir.UnionAttributes(sets...)
}

// RenameColumns renames every operand.
func (o Or) RenameColumns(r ColumnRenamer) Expression {
	renamed := make([]Expression, len(o.Exprs))
	for i, e := range o.Exprs {
		renamed[i] = e.RenameColumns(r)
	}
	return Disjunction(renamed...)
}

func (o Or) String() string {
	if len(o.Exprs) == 0 {
		return False{}.String()
	}
	parts := make([]string, len(o.Exprs))
	for i, e := range o.Exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Disjunction combines expressions with OR.
//
//   - nested Or operands are flattened
//   - False operands and duplicates are dropped
//   - any True operand makes the result True
//   - zero remaining operands yield False, one yields that operand
func Disjunction(exprs ...Expression) Expression {
	var flat []Expression
	seen := make(map[string]bool)
	var add func(e Expression) bool
	add = func(e Expression) bool {
		switch v := e.(type) {
		case False:
			return true
		case nil, True:
			return false
		case Or:
			for _, sub := range v.Exprs {
				if !add(sub) {
					return false
				}
			}
			return true
		default:
			key := e.String()
			if !seen[key] {
				seen[key] = true
				flat = append(flat, e)
			}
			return true
		}
	}

	for _, e := range exprs {
		if !add(e) {
			return True{}
		}
	}

	switch len(flat) {
	case 0:
		return False{}
	case 1:
		return flat[0]
	default:
		return Or{Exprs: flat}
	}
}

// IsTrue reports whether e is the constant True (or nil, or an empty And).
func IsTrue(e Expression) bool {
	switch v := e.(type) {
	case nil, True:
		return true
	case And:
		return len(v.Exprs) == 0
	default:
		return false
	}
}

// IsFalse reports whether e is the constant False (or an empty Or).
func IsFalse(e Expression) bool {
	switch v := e.(type) {
	case False:
		return true
	case Or:
		return len(v.Exprs) == 0
	default:
		return false
	}
}
