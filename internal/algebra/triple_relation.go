package algebra

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/nodes"
	"github.com/roach88/relrdf/internal/queryir"
)

// Slot addresses a triple position.
type Slot int

const (
	// Subject is the subject position.
	Subject Slot = iota
	// Predicate is the predicate position.
	Predicate
	// Object is the object position.
	Object
)

// slotNames are the symbolic names of the slots, in slot order.
var slotNames = [3]string{"S", "P", "O"}

// String returns the symbolic slot name.
func (s Slot) String() string {
	if s < Subject || s > Object {
		return "Slot(" + strconv.Itoa(int(s)) + ")"
	}
	return slotNames[s]
}

// TripleRelation derives triples from the rows of a relation.
//
// INVARIANTS:
//   - projection is the union of the three makers' projection columns
//   - unique is computed once by New and never recomputed
//   - values are never mutated after New returns
type TripleRelation struct {
	base       *queryir.Relation
	makers     [3]nodes.NodeMaker
	projection []ir.Attribute
	unique     bool
}

// Empty is the triple relation that produces no triples.
//
// New, SelectTriple, WithPrefix and RenameColumns return this exact value
// whenever their result is unsatisfiable, so callers may compare with ==.
var Empty = &TripleRelation{
	base:       queryir.EmptyRelation,
	makers:     [3]nodes.NodeMaker{nodes.Empty, nodes.Empty, nodes.Empty},
	projection: []ir.Attribute{},
}

// New creates a triple relation from a base relation and three makers.
//
// It returns Empty when the base relation is empty or any maker is
// nodes.Empty. A nil argument is a contract violation.
func New(base *queryir.Relation, subject, predicate, object nodes.NodeMaker) *TripleRelation {
	if base == nil {
		contractViolation("New", "nil base relation")
	}
	makers := [3]nodes.NodeMaker{subject, predicate, object}
	for i, m := range makers {
		if m == nil {
			contractViolation("New", "nil %s node maker", slotNames[i])
		}
	}
	if base.IsEmpty() || nodes.IsEmpty(subject) || nodes.IsEmpty(predicate) || nodes.IsEmpty(object) {
		return Empty
	}

	t := &TripleRelation{
		base:   base,
		makers: makers,
		projection: ir.UnionAttributes(
			subject.ProjectionColumns(),
			predicate.ProjectionColumns(),
			object.ProjectionColumns(),
		),
	}
	t.unique = t.determineIsUnique()
	return t
}

// determineIsUnique reports whether no two rows can yield the same triple.
//
// Without joins each row of the base table yields at most one triple, so a
// single injective maker is enough. With joins one row may fan out, and the
// answer is conservatively false.
func (t *TripleRelation) determineIsUnique() bool {
	if len(t.base.JoinConditions()) > 0 {
		return false
	}
	for _, m := range t.makers {
		if m.IsUnique() {
			return true
		}
	}
	return false
}

// BaseRelation returns the relation the triples are derived from.
func (t *TripleRelation) BaseRelation() *queryir.Relation {
	return t.base
}

// IsUnique reports whether the relation never yields duplicate triples.
// Consumers must deduplicate when it returns false.
func (t *TripleRelation) IsUnique() bool {
	return t.unique
}

// ProjectionColumns returns the columns the makers read, sorted.
// The result is a copy.
func (t *TripleRelation) ProjectionColumns() []ir.Attribute {
	return slices.Clone(t.projection)
}

// NodeMaker returns the maker of a slot. Any slot other than Subject,
// Predicate or Object is a contract violation.
func (t *TripleRelation) NodeMaker(slot Slot) nodes.NodeMaker {
	if slot < Subject || slot > Object {
		contractViolation("NodeMaker", "slot %d out of range [0, 2]", int(slot))
	}
	return t.makers[slot]
}

// Names returns the symbolic slot names {"S", "P", "O"}.
func (t *TripleRelation) Names() []string {
	return Names()
}

// Names returns the symbolic slot names {"S", "P", "O"}.
// The result is a fresh slice.
func Names() []string {
	return slices.Clone(slotNames[:])
}

// NamedNodeMaker returns the maker for "S", "P" or "O".
// ok is false for any other name.
func (t *TripleRelation) NamedNodeMaker(name string) (m nodes.NodeMaker, ok bool) {
	for i, n := range slotNames {
		if n == name {
			return t.makers[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether t is Empty.
func (t *TripleRelation) IsEmpty() bool {
	return t == Empty
}

// MakeTriples evaluates the makers on row. The result holds the triple, or
// nothing when any maker has no term for the row.
func (t *TripleRelation) MakeTriples(row ir.ResultRow) []ir.Triple {
	var terms [3]ir.Node
	for i, m := range t.makers {
		n, ok := m.MakeNode(row)
		if !ok {
			return nil
		}
		terms[i] = n
	}
	return []ir.Triple{{S: terms[0], P: terms[1], O: terms[2]}}
}

// SelectTriple restricts the relation to rows whose triple matches pattern.
//
// Concrete pattern terms are pushed into the relation by the maker of
// their slot, in subject, predicate, object order. Wildcard positions
// leave their maker unchanged. The result is Empty as soon as one
// position cannot match.
func (t *TripleRelation) SelectTriple(pattern ir.Pattern) *TripleRelation {
	if t.IsEmpty() {
		return Empty
	}

	rel := queryir.NewMutableRelation(t.base)
	terms := [3]ir.Node{pattern.S, pattern.P, pattern.O}
	var selected [3]nodes.NodeMaker
	for i, m := range t.makers {
		if !ir.IsConcrete(terms[i]) {
			selected[i] = m
			continue
		}
		selected[i] = m.SelectNode(terms[i], rel)
		if nodes.IsEmpty(selected[i]) {
			return Empty
		}
	}
	return New(rel.Snapshot(), selected[0], selected[1], selected[2])
}

// Tables returns every table name the relation references: those of the
// projection columns, both sides of every join, and the condition's
// columns. Sorted, without duplicates.
func (t *TripleRelation) Tables() []ir.RelationName {
	seen := make(map[ir.RelationName]bool)
	var tables []ir.RelationName
	add := func(r ir.RelationName) {
		if !seen[r] {
			seen[r] = true
			tables = append(tables, r)
		}
	}
	for _, a := range t.projection {
		add(a.Relation)
	}
	for _, j := range t.base.JoinConditions() {
		for _, a := range j.Attributes1 {
			add(a.Relation)
		}
		for _, a := range j.Attributes2 {
			add(a.Relation)
		}
	}
	for _, a := range t.base.Condition().Columns() {
		add(a.Relation)
	}
	if tables == nil {
		return []ir.RelationName{}
	}
	return ir.SortRelationNames(tables)
}

// WithPrefix aliases every referenced table as T<index>_<table>, so that
// several occurrences of one mapping can share a SQL query without
// ambiguous column references. index is the occurrence number.
func (t *TripleRelation) WithPrefix(index int) *TripleRelation {
	if t.IsEmpty() {
		return Empty
	}
	tables := t.Tables()
	aliases := make([]queryir.Alias, len(tables))
	for i, table := range tables {
		aliases[i] = queryir.Alias{Original: table, Alias: table.WithPrefix(index)}
	}
	return t.RenameColumns(queryir.NewAliasMap(aliases...))
}

// RenameColumns applies renamer to the base relation and all three makers.
func (t *TripleRelation) RenameColumns(renamer queryir.ColumnRenamer) *TripleRelation {
	if t.IsEmpty() {
		return Empty
	}
	return New(
		t.base.RenameColumns(renamer),
		t.makers[Subject].RenameColumns(renamer),
		t.makers[Predicate].RenameColumns(renamer),
		t.makers[Object].RenameColumns(renamer),
	)
}

func (t *TripleRelation) String() string {
	if t.IsEmpty() {
		return "TripleRelation(EMPTY)"
	}
	var sb strings.Builder
	sb.WriteString("TripleRelation(\n")
	for i, m := range t.makers {
		sb.WriteString("    ")
		sb.WriteString(slotNames[i])
		sb.WriteString(": ")
		sb.WriteString(m.String())
		sb.WriteString("\n")
	}
	sb.WriteString("    ")
	sb.WriteString(t.base.String())
	sb.WriteString("\n)")
	return sb.String()
}
