package queryir

import (
	"fmt"

	"github.com/roach88/relrdf/internal/ir"
)

// ValidationResult contains the structural analysis of a relation.
//
// Relations that fail validation still compile to SQL. Warnings point at
// shapes that are almost always mapping mistakes: tables nothing joins,
// joins that compare a table with itself, aliases that shadow nothing.
type ValidationResult struct {
	// Valid is true when no warnings were produced.
	Valid bool

	// Warnings lists the problems found, in traversal order.
	// Empty when Valid is true.
	Warnings []string
}

// Validate checks a relation together with the columns a consumer will
// project from it.
//
// Rules:
//  1. Every join has the same number of attributes on each side, and each
//     side names a single table.
//  2. A join does not compare a table with itself under the same name.
//  3. An alias differs from the table it stands for.
//  4. All referenced tables are connected by joins (no cartesian products).
//
// Validate is a pure function with no side effects.
func Validate(rel *Relation, projection []ir.Attribute) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateRelation(rel, projection)

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateRelation(rel *Relation, projection []ir.Attribute) {
	if rel == nil {
		v.addWarning("nil relation")
		return
	}
	if rel.IsEmpty() {
		// An empty relation is never queried.
		return
	}

	for _, a := range rel.aliases.Aliases() {
		v.validateAlias(a)
	}
	for _, j := range rel.joins {
		v.validateJoin(j)
	}
	v.validateConnected(rel, projection)
}

// validateAlias checks rule 3.
func (v *validator) validateAlias(a Alias) {
	if a.Alias == a.Original {
		v.addWarning("Alias %s shadows nothing - alias and table are the same name", a)
	}
}

// validateJoin checks rules 1 and 2.
func (v *validator) validateJoin(j Join) {
	if len(j.Attributes1) == 0 || len(j.Attributes1) != len(j.Attributes2) {
		v.addWarning("Join with %d and %d attributes - both sides need the same non-zero count",
			len(j.Attributes1), len(j.Attributes2))
		return
	}
	for _, side := range [][]ir.Attribute{j.Attributes1, j.Attributes2} {
		for _, a := range side[1:] {
			if a.Relation != side[0].Relation {
				v.addWarning("%s mixes tables %s and %s on one side", j, side[0].Relation, a.Relation)
			}
		}
	}
	if j.Table1() == j.Table2() {
		v.addWarning("%s joins table %s with itself - use an alias for self-joins", j, j.Table1())
	}
}

// validateConnected checks rule 4 with a union-find over table names.
func (v *validator) validateConnected(rel *Relation, projection []ir.Attribute) {
	parent := make(map[ir.RelationName]ir.RelationName)
	var find func(t ir.RelationName) ir.RelationName
	find = func(t ir.RelationName) ir.RelationName {
		p, ok := parent[t]
		if !ok {
			parent[t] = t
			return t
		}
		if p == t {
			return t
		}
		root := find(p)
		parent[t] = root
		return root
	}
	union := func(a, b ir.RelationName) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, t := range rel.Tables() {
		find(t)
	}
	for _, a := range projection {
		find(a.Relation)
	}
	for _, j := range rel.joins {
		union(j.Table1(), j.Table2())
	}
	// Attribute equalities in the condition connect tables too.
	var walk func(e Expression)
	walk = func(e Expression) {
		switch x := e.(type) {
		case AttributeEquals:
			union(x.Left.Relation, x.Right.Relation)
		case And:
			for _, sub := range x.Exprs {
				walk(sub)
			}
		}
	}
	walk(rel.condition)

	var tables []ir.RelationName
	for t := range parent {
		tables = append(tables, t)
	}
	ir.SortRelationNames(tables)
	if len(tables) < 2 {
		return
	}
	root := find(tables[0])
	for _, t := range tables[1:] {
		if find(t) != root {
			v.addWarning("Table %s is not joined to %s - the query is a cartesian product", t, tables[0])
		}
	}
}
