package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// RelationName identifies a table (or a table alias) in the source database.
// Schema is optional. Two names are equal when their qualified names are equal.
type RelationName struct {
	Schema string
	Table  string
}

// NewRelationName creates a RelationName.
func NewRelationName(schema, table string) RelationName {
	return RelationName{Schema: schema, Table: table}
}

// ParseRelationName parses "table" or "schema.table".
func ParseRelationName(s string) (RelationName, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return RelationName{Table: parts[0]}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return RelationName{Schema: parts[0], Table: parts[1]}, nil
	default:
		return RelationName{}, fmt.Errorf("invalid relation name %q: expected table or schema.table", s)
	}
}

// QualifiedName returns schema.table, or table when no schema is set.
func (r RelationName) QualifiedName() string {
	if r.Schema == "" {
		return r.Table
	}
	return r.Schema + "." + r.Table
}

// String returns the qualified name.
func (r RelationName) String() string {
	return r.QualifiedName()
}

// WithPrefix returns the alias used for the index-th occurrence of r in a
// combined query: T<index>_<qualified name with '.' replaced by '_'>.
// The alias has no schema.
func (r RelationName) WithPrefix(index int) RelationName {
	return RelationName{
		Table: "T" + strconv.Itoa(index) + "_" + strings.ReplaceAll(r.QualifiedName(), ".", "_"),
	}
}

// Compare orders relation names by qualified name.
func (r RelationName) Compare(other RelationName) int {
	return strings.Compare(r.QualifiedName(), other.QualifiedName())
}

// Attribute is a table-qualified column.
type Attribute struct {
	Relation RelationName
	Column   string
}

// NewAttribute creates an Attribute.
func NewAttribute(relation RelationName, column string) Attribute {
	return Attribute{Relation: relation, Column: column}
}

// ParseAttribute parses "table.column" or "schema.table.column".
func ParseAttribute(s string) (Attribute, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return Attribute{}, fmt.Errorf("invalid attribute %q: expected table.column or schema.table.column", s)
	}
	rel, err := ParseRelationName(s[:idx])
	if err != nil {
		return Attribute{}, fmt.Errorf("invalid attribute %q: %w", s, err)
	}
	return Attribute{Relation: rel, Column: s[idx+1:]}, nil
}

// MustParseAttribute is ParseAttribute for literals known to be valid.
// Panics on malformed input.
func MustParseAttribute(s string) Attribute {
	a, err := ParseAttribute(s)
	if err != nil {
		panic(err)
	}
	return a
}

// QualifiedName returns relation.column.
func (a Attribute) QualifiedName() string {
	return a.Relation.QualifiedName() + "." + a.Column
}

// String returns the qualified name.
func (a Attribute) String() string {
	return a.QualifiedName()
}

// Compare orders attributes by qualified name.
func (a Attribute) Compare(other Attribute) int {
	return strings.Compare(a.QualifiedName(), other.QualifiedName())
}

// SortAttributes sorts attributes in place by qualified name and returns them.
func SortAttributes(attrs []Attribute) []Attribute {
	slices.SortFunc(attrs, Attribute.Compare)
	return attrs
}

// UnionAttributes returns the sorted, duplicate-free union of the given sets.
// The result is never nil.
func UnionAttributes(sets ...[]Attribute) []Attribute {
	seen := make(map[Attribute]struct{})
	result := []Attribute{}
	for _, set := range sets {
		for _, a := range set {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			result = append(result, a)
		}
	}
	return SortAttributes(result)
}

// SortRelationNames sorts relation names in place and returns them.
func SortRelationNames(names []RelationName) []RelationName {
	slices.SortFunc(names, RelationName.Compare)
	return names
}
