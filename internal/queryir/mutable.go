package queryir

import "slices"

// MutableRelation accumulates conditions on top of a base relation.
//
// It exists for the duration of one restriction call: node makers write
// the conditions they need into it, then Snapshot freezes the result.
// A MutableRelation is not safe for concurrent use and must not be stored.
type MutableRelation struct {
	aliases    AliasMap
	joins      []Join
	conditions []Expression
}

// NewMutableRelation starts a builder from base.
func NewMutableRelation(base *Relation) *MutableRelation {
	return &MutableRelation{
		aliases:    base.aliases,
		joins:      slices.Clone(base.joins),
		conditions: []Expression{base.condition},
	}
}

// AddCondition adds a conjunct to the filter condition.
func (m *MutableRelation) AddCondition(e Expression) {
	if e == nil {
		return
	}
	m.conditions = append(m.conditions, e)
}

// AddJoins adds join conditions.
func (m *MutableRelation) AddJoins(joins ...Join) {
	m.joins = append(m.joins, joins...)
}

// AddAliases adds alias declarations.
func (m *MutableRelation) AddAliases(aliases AliasMap) {
	m.aliases = m.aliases.Merge(aliases)
}

// Condition returns the conjunction of the conditions added so far.
func (m *MutableRelation) Condition() Expression {
	return Conjunction(m.conditions...)
}

// IsEmpty reports whether the accumulated condition is unsatisfiable.
func (m *MutableRelation) IsEmpty() bool {
	return IsFalse(m.Condition())
}

// Snapshot returns the accumulated state as an immutable Relation.
// Later changes to the builder do not affect the snapshot.
func (m *MutableRelation) Snapshot() *Relation {
	return NewRelation(m.aliases, slices.Clone(m.joins), m.Condition())
}
