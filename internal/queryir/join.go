package queryir

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// Join is an inner equi-join between two tables.
//
// Semantics:
//
//	Attributes1[0] = Attributes2[0] AND Attributes1[1] = Attributes2[1] ...
//
// All of Attributes1 belong to one table and all of Attributes2 to another
// (or to the same table under two aliases).
type Join struct {
	Attributes1 []ir.Attribute
	Attributes2 []ir.Attribute
}

// NewJoin creates a join and checks its shape.
func NewJoin(attrs1, attrs2 []ir.Attribute) (Join, error) {
	if len(attrs1) == 0 || len(attrs1) != len(attrs2) {
		return Join{}, fmt.Errorf("join needs the same non-zero number of attributes on both sides, got %d and %d", len(attrs1), len(attrs2))
	}
	for _, side := range [][]ir.Attribute{attrs1, attrs2} {
		for _, a := range side[1:] {
			if a.Relation != side[0].Relation {
				return Join{}, fmt.Errorf("join side mixes tables %s and %s", side[0].Relation, a.Relation)
			}
		}
	}
	return Join{
		Attributes1: slices.Clone(attrs1),
		Attributes2: slices.Clone(attrs2),
	}, nil
}

// ParseJoin parses "table1.col = table2.col".
func ParseJoin(s string) (Join, error) {
	left, right, ok := strings.Cut(s, "=")
	if !ok {
		return Join{}, fmt.Errorf("invalid join %q: expected table1.column = table2.column", s)
	}
	// Accept "==" as well.
	right = strings.TrimPrefix(right, "=")
	a1, err := ir.ParseAttribute(left)
	if err != nil {
		return Join{}, fmt.Errorf("invalid join %q: %w", s, err)
	}
	a2, err := ir.ParseAttribute(right)
	if err != nil {
		return Join{}, fmt.Errorf("invalid join %q: %w", s, err)
	}
	return NewJoin([]ir.Attribute{a1}, []ir.Attribute{a2})
}

// Table1 returns the table of the first side.
func (j Join) Table1() ir.RelationName {
	if len(j.Attributes1) == 0 {
		return ir.RelationName{}
	}
	return j.Attributes1[0].Relation
}

// Table2 returns the table of the second side.
func (j Join) Table2() ir.RelationName {
	if len(j.Attributes2) == 0 {
		return ir.RelationName{}
	}
	return j.Attributes2[0].Relation
}

// Columns returns every attribute on both sides, sorted.
func (j Join) Columns() []ir.Attribute {
	return ir.UnionAttributes(j.Attributes1, j.Attributes2)
}

// Condition returns the join as an expression over attribute equalities.
func (j Join) Condition() Expression {
	n := min(len(j.Attributes1), len(j.Attributes2))
	exprs := make([]Expression, n)
	for i := range n {
		exprs[i] = AttributeEquals{Left: j.Attributes1[i], Right: j.Attributes2[i]}
	}
	return Conjunction(exprs...)
}

// RenameColumns renames the attributes on both sides.
func (j Join) RenameColumns(r ColumnRenamer) Join {
	renamed := Join{
		Attributes1: make([]ir.Attribute, len(j.Attributes1)),
		Attributes2: make([]ir.Attribute, len(j.Attributes2)),
	}
	for i, a := range j.Attributes1 {
		renamed.Attributes1[i] = r.RenameAttribute(a)
	}
	for i, a := range j.Attributes2 {
		renamed.Attributes2[i] = r.RenameAttribute(a)
	}
	return renamed
}

// Key returns a canonical string identifying the join regardless of the
// order of its sides or of its attribute pairs.
func (j Join) Key() string {
	n := min(len(j.Attributes1), len(j.Attributes2))
	pairs := make([]string, n)
	for i := range n {
		l, r := j.Attributes1[i].QualifiedName(), j.Attributes2[i].QualifiedName()
		if r < l {
			l, r = r, l
		}
		pairs[i] = l + "=" + r
	}
	slices.Sort(pairs)
	return strings.Join(pairs, ",")
}

func (j Join) String() string {
	return "Join(" + j.Key() + ")"
}

// dedupJoins removes joins with equal keys, keeping first occurrences.
func dedupJoins(joins []Join) []Join {
	seen := make(map[string]bool, len(joins))
	result := make([]Join, 0, len(joins))
	for _, j := range joins {
		key := j.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, j)
	}
	return result
}
