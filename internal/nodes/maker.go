package nodes

import (
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

// NodeMaker produces the RDF term of one triple position from a row.
//
// This is a sealed interface - only Empty, Fixed, Typed and Checked
// implement it.
type NodeMaker interface {
	// MakeNode returns the term for row. ok is false when the row has
	// no term for this position (a NULL column, a value the node type
	// cannot represent, or the Empty maker).
	MakeNode(row ir.ResultRow) (n ir.Node, ok bool)

	// ProjectionColumns returns the columns MakeNode reads, sorted.
	ProjectionColumns() []ir.Attribute

	// IsUnique reports whether no two distinct rows produce the same term.
	IsUnique() bool

	// SelectNode restricts the maker so that it only produces target.
	// It adds the conditions this requires to rel and returns the
	// restricted maker, or Empty when no row can produce target.
	// A wildcard (or nil) target leaves the maker unchanged.
	SelectNode(target ir.Node, rel *queryir.MutableRelation) NodeMaker

	// RenameColumns returns the maker reading renamed columns.
	RenameColumns(r queryir.ColumnRenamer) NodeMaker

	String() string

	nodeMaker() // Sealed
}

// emptyMaker is the type of Empty.
type emptyMaker struct{}

// Empty is the maker that never produces a term.
// SelectNode and RenameColumns on it return Empty.
var Empty NodeMaker = emptyMaker{}

func (emptyMaker) nodeMaker() {}

// MakeNode never produces a term.
func (emptyMaker) MakeNode(ir.ResultRow) (ir.Node, bool) { return nil, false }

// ProjectionColumns returns no columns.
func (emptyMaker) ProjectionColumns() []ir.Attribute { return []ir.Attribute{} }

// IsUnique returns false.
func (emptyMaker) IsUnique() bool { return false }

// SelectNode returns Empty.
func (emptyMaker) SelectNode(ir.Node, *queryir.MutableRelation) NodeMaker { return Empty }

// RenameColumns returns Empty.
func (emptyMaker) RenameColumns(queryir.ColumnRenamer) NodeMaker { return Empty }

func (emptyMaker) String() string { return "Empty" }

// IsEmpty reports whether m is the Empty maker.
func IsEmpty(m NodeMaker) bool {
	_, ok := m.(emptyMaker)
	return ok
}

// Fixed produces the same term for every row.
type Fixed struct {
	Node ir.Node
	// Unique is set when the maker stands for a restricted unique maker:
	// the rows that remain still carry one distinct value each.
	Unique bool
}

// NewFixed creates a constant maker.
func NewFixed(n ir.Node) Fixed {
	return Fixed{Node: n}
}

func (Fixed) nodeMaker() {}

// MakeNode returns the constant.
func (f Fixed) MakeNode(ir.ResultRow) (ir.Node, bool) { return f.Node, true }

// ProjectionColumns returns no columns.
func (Fixed) ProjectionColumns() []ir.Attribute { return []ir.Attribute{} }

// IsUnique returns the Unique flag.
func (f Fixed) IsUnique() bool { return f.Unique }

// SelectNode keeps the maker when target is its constant and returns Empty
// otherwise. No condition is needed either way.
func (f Fixed) SelectNode(target ir.Node, _ *queryir.MutableRelation) NodeMaker {
	if !ir.IsConcrete(target) || target == f.Node {
		return f
	}
	return Empty
}

// RenameColumns returns f; a constant reads no columns.
func (f Fixed) RenameColumns(queryir.ColumnRenamer) NodeMaker { return f }

func (f Fixed) String() string {
	return "Fixed(" + f.Node.String() + ")"
}

// Typed builds terms of one NodeType from the values of a ValueMaker.
type Typed struct {
	Type   NodeType
	Values ValueMaker
	// Unique declares that Values is injective over the rows of the
	// relation, typically because it reads a primary key.
	Unique bool
}

// NewTyped creates a typed maker.
func NewTyped(t NodeType, values ValueMaker, unique bool) Typed {
	return Typed{Type: t, Values: values, Unique: unique}
}

func (Typed) nodeMaker() {}

// MakeNode builds the term from the row's value.
func (t Typed) MakeNode(row ir.ResultRow) (ir.Node, bool) {
	v, ok := t.Values.MakeValue(row)
	if !ok {
		return nil, false
	}
	return t.Type.MakeNode(v)
}

// ProjectionColumns returns the columns of the value maker.
func (t Typed) ProjectionColumns() []ir.Attribute {
	return t.Values.ProjectionColumns()
}

// IsUnique returns the Unique flag.
func (t Typed) IsUnique() bool { return t.Unique }

// SelectNode adds the condition under which the value maker produces the
// value behind target, and returns a Fixed maker for target. When the
// condition is not exact it returns a Checked maker instead.
func (t Typed) SelectNode(target ir.Node, rel *queryir.MutableRelation) NodeMaker {
	if !ir.IsConcrete(target) {
		return t
	}
	value, ok := t.Type.ExtractValue(target)
	if !ok {
		return Empty
	}
	cond, exact := t.Values.ValueExpression(value)
	if queryir.IsFalse(cond) {
		return Empty
	}
	rel.AddCondition(cond)
	if !exact {
		return Checked{Maker: t, Target: target}
	}
	return Fixed{Node: target, Unique: t.Unique}
}

// RenameColumns renames the value maker's columns.
func (t Typed) RenameColumns(r queryir.ColumnRenamer) NodeMaker {
	return Typed{Type: t.Type, Values: t.Values.RenameColumns(r), Unique: t.Unique}
}

func (t Typed) String() string {
	s := "Typed(" + t.Type.String() + ", " + t.Values.String()
	if t.Unique {
		s += ", unique"
	}
	return s + ")"
}

// Checked produces Target for the rows where Maker produces it and
// nothing for the others. Typed.SelectNode returns it when the selected
// rows could not be narrowed down exactly in SQL.
type Checked struct {
	Maker  Typed
	Target ir.Node
}

func (Checked) nodeMaker() {}

// MakeNode returns Target when the row's term equals it.
func (c Checked) MakeNode(row ir.ResultRow) (ir.Node, bool) {
	n, ok := c.Maker.MakeNode(row)
	if !ok || n != c.Target {
		return nil, false
	}
	return n, true
}

// ProjectionColumns returns the columns of the checked maker.
func (c Checked) ProjectionColumns() []ir.Attribute { return c.Maker.ProjectionColumns() }

// IsUnique returns the checked maker's Unique flag.
func (c Checked) IsUnique() bool { return c.Maker.Unique }

// SelectNode keeps the maker when target is Target and returns Empty
// otherwise.
func (c Checked) SelectNode(target ir.Node, _ *queryir.MutableRelation) NodeMaker {
	if !ir.IsConcrete(target) || target == c.Target {
		return c
	}
	return Empty
}

// RenameColumns renames the checked maker's columns.
func (c Checked) RenameColumns(r queryir.ColumnRenamer) NodeMaker {
	return Checked{Maker: Typed{Type: c.Maker.Type, Values: c.Maker.Values.RenameColumns(r), Unique: c.Maker.Unique}, Target: c.Target}
}

func (c Checked) String() string {
	return "Checked(" + c.Maker.String() + ", " + c.Target.String() + ")"
}
