package queryir

import (
	"slices"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// Relation is an immutable SQL query fragment.
//
// Semantics:
//
//	FROM <tables, with aliases> WHERE <join conditions> AND <condition>
//
// The tables of the fragment are those referenced by its joins and its
// condition, plus whatever columns the consumer projects. A Relation does
// not carry a projection list; triple relations compute it from their
// node makers.
type Relation struct {
	aliases   AliasMap
	joins     []Join
	condition Expression
}

// TrueRelation is the relation without joins or conditions.
var TrueRelation = NewRelation(AliasMap{}, nil, True{})

// EmptyRelation is the relation that produces no rows.
var EmptyRelation = NewRelation(AliasMap{}, nil, False{})

// NewRelation creates a relation. A nil condition means True.
// Duplicate joins are dropped.
func NewRelation(aliases AliasMap, joins []Join, condition Expression) *Relation {
	if condition == nil {
		condition = True{}
	}
	return &Relation{
		aliases:   aliases,
		joins:     dedupJoins(joins),
		condition: condition,
	}
}

// AliasMap returns the alias declarations.
func (r *Relation) AliasMap() AliasMap {
	return r.aliases
}

// JoinConditions returns a copy of the join conditions.
func (r *Relation) JoinConditions() []Join {
	return slices.Clone(r.joins)
}

// Condition returns the filter condition.
func (r *Relation) Condition() Expression {
	return r.condition
}

// IsEmpty reports whether the relation can never produce a row.
func (r *Relation) IsEmpty() bool {
	return IsFalse(r.condition)
}

// Tables returns every table name referenced by the joins and the
// condition, sorted. Aliased tables are reported under their alias.
func (r *Relation) Tables() []ir.RelationName {
	seen := make(map[ir.RelationName]bool)
	var tables []ir.RelationName
	add := func(t ir.RelationName) {
		if !seen[t] {
			seen[t] = true
			tables = append(tables, t)
		}
	}
	for _, j := range r.joins {
		add(j.Table1())
		add(j.Table2())
	}
	for _, a := range r.condition.Columns() {
		add(a.Relation)
	}
	if tables == nil {
		return []ir.RelationName{}
	}
	return ir.SortRelationNames(tables)
}

// RenameColumns returns the relation with renamer applied to its aliases,
// joins and condition.
func (r *Relation) RenameColumns(renamer ColumnRenamer) *Relation {
	joins := make([]Join, len(r.joins))
	for i, j := range r.joins {
		joins[i] = j.RenameColumns(renamer)
	}
	return NewRelation(
		renamer.RenameAliases(r.aliases),
		joins,
		r.condition.RenameColumns(renamer),
	)
}

func (r *Relation) String() string {
	var sb strings.Builder
	sb.WriteString("Relation(")
	if r.aliases.Len() > 0 {
		sb.WriteString(r.aliases.String())
		sb.WriteString(", ")
	}
	for _, j := range r.joins {
		sb.WriteString(j.String())
		sb.WriteString(", ")
	}
	sb.WriteString(r.condition.String())
	sb.WriteString(")")
	return sb.String()
}
