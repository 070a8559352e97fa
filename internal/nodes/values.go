package nodes

import (
	"strings"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

// ValueMaker produces the string a NodeType turns into a term.
type ValueMaker interface {
	// MakeValue returns the value for row. ok is false when a column it
	// reads is NULL.
	MakeValue(row ir.ResultRow) (value string, ok bool)

	// ProjectionColumns returns the columns MakeValue reads, sorted.
	ProjectionColumns() []ir.Attribute

	// ValueExpression returns the condition selecting the rows for which
	// MakeValue returns value. It returns queryir.False when no row can
	// produce value. When exact is false the condition only narrows the
	// rows down and the caller must compare the made values itself.
	ValueExpression(value string) (cond queryir.Expression, exact bool)

	// RenameColumns returns the value maker reading renamed columns.
	RenameColumns(r queryir.ColumnRenamer) ValueMaker

	String() string
}

// Column takes the value of a single column.
type Column struct {
	Attr ir.Attribute
	Type ir.ColumnType
}

// NewColumn creates a text column value maker.
func NewColumn(attr ir.Attribute) Column {
	return Column{Attr: attr, Type: ir.ColumnText}
}

// MakeValue returns the column's text.
func (c Column) MakeValue(row ir.ResultRow) (string, bool) {
	return row.Get(c.Attr)
}

// ProjectionColumns returns the column.
func (c Column) ProjectionColumns() []ir.Attribute {
	return []ir.Attribute{c.Attr}
}

// ValueExpression compares the column with value converted to the
// column's type.
func (c Column) ValueExpression(value string) (queryir.Expression, bool) {
	return c.equals(value), true
}

func (c Column) equals(value string) queryir.Expression {
	v, ok := ir.ValueFromLexical(value, c.Type)
	if !ok {
		return queryir.False{}
	}
	return queryir.Equals{Attr: c.Attr, Value: v}
}

// RenameColumns renames the column.
func (c Column) RenameColumns(r queryir.ColumnRenamer) ValueMaker {
	return Column{Attr: r.RenameAttribute(c.Attr), Type: c.Type}
}

func (c Column) String() string {
	if c.Type == ir.ColumnText {
		return "Column(" + c.Attr.QualifiedName() + ")"
	}
	return "Column(" + c.Attr.QualifiedName() + " " + c.Type.String() + ")"
}

// BlankNodeIDSeparator joins the parts of a blank node label.
const BlankNodeIDSeparator = "@@"

// BlankNodeID labels blank nodes with the class map id followed by the
// values of identifying columns:
//
//	Dept@@7
//	Employee@@acme@@42
type BlankNodeID struct {
	ClassMapID string
	Columns    []Column
}

// NewBlankNodeID creates a blank node id maker.
func NewBlankNodeID(classMapID string, columns ...Column) BlankNodeID {
	return BlankNodeID{ClassMapID: classMapID, Columns: columns}
}

// MakeValue joins the class map id and the column values.
func (b BlankNodeID) MakeValue(row ir.ResultRow) (string, bool) {
	parts := make([]string, 0, len(b.Columns)+1)
	parts = append(parts, b.ClassMapID)
	for _, c := range b.Columns {
		v, ok := c.MakeValue(row)
		if !ok {
			return "", false
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, BlankNodeIDSeparator), true
}

// ProjectionColumns returns the identifying columns.
func (b BlankNodeID) ProjectionColumns() []ir.Attribute {
	attrs := make([]ir.Attribute, len(b.Columns))
	for i, c := range b.Columns {
		attrs[i] = c.Attr
	}
	return ir.UnionAttributes(attrs)
}

// ValueExpression splits value back into column values. Column values
// may themselves contain the separator, so every split is selected.
// Labels of another class map never match.
func (b BlankNodeID) ValueExpression(value string) (queryir.Expression, bool) {
	return splitsExpression(b.parts(), value)
}

// parts describes the label as a template: ClassMapID@@{col}@@{col}.
func (b BlankNodeID) parts() []patternPart {
	if len(b.Columns) == 0 {
		return []patternPart{{literal: b.ClassMapID}}
	}
	parts := make([]patternPart, 0, 2*len(b.Columns))
	for i, c := range b.Columns {
		lit := BlankNodeIDSeparator
		if i == 0 {
			lit = b.ClassMapID + BlankNodeIDSeparator
		}
		parts = append(parts, patternPart{literal: lit}, patternPart{isColumn: true, column: c})
	}
	return parts
}

// RenameColumns renames the identifying columns.
func (b BlankNodeID) RenameColumns(r queryir.ColumnRenamer) ValueMaker {
	cols := make([]Column, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = Column{Attr: r.RenameAttribute(c.Attr), Type: c.Type}
	}
	return BlankNodeID{ClassMapID: b.ClassMapID, Columns: cols}
}

func (b BlankNodeID) String() string {
	names := make([]string, len(b.Columns))
	for i, c := range b.Columns {
		names[i] = c.Attr.QualifiedName()
	}
	return "BlankNodeID(" + b.ClassMapID + ", " + strings.Join(names, ", ") + ")"
}
