package queryir

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/relrdf/internal/ir"
)

// ColumnRenamer rewrites the column references of a query fragment.
//
// Renamers must be applied uniformly: every structure of one triple-producing
// unit (its relation and all of its node makers) is renamed with the same
// renamer, in any order.
type ColumnRenamer interface {
	// RenameAttribute returns the attribute to reference instead of a.
	RenameAttribute(a ir.Attribute) ir.Attribute
	// RenameAliases returns the alias declarations of a relation after renaming.
	RenameAliases(m AliasMap) AliasMap
}

// Alias declares that Alias refers to the physical table Original.
type Alias struct {
	Original ir.RelationName
	Alias    ir.RelationName
}

func (a Alias) String() string {
	return a.Original.QualifiedName() + " AS " + a.Alias.QualifiedName()
}

// ParseAlias parses "table AS alias" (case-insensitive AS).
func ParseAlias(s string) (Alias, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 || !strings.EqualFold(fields[1], "AS") {
		return Alias{}, fmt.Errorf("invalid alias %q: expected \"table AS alias\"", s)
	}
	original, err := ir.ParseRelationName(fields[0])
	if err != nil {
		return Alias{}, fmt.Errorf("invalid alias %q: %w", s, err)
	}
	alias, err := ir.ParseRelationName(fields[2])
	if err != nil {
		return Alias{}, fmt.Errorf("invalid alias %q: %w", s, err)
	}
	return Alias{Original: original, Alias: alias}, nil
}

// AliasMap maps table aliases to the physical tables they stand for.
//
// An AliasMap plays two roles. Inside a Relation it declares the aliases the
// relation's columns use. As a ColumnRenamer it rewrites references to an
// original table into references to its alias; used that way, each original
// must be mapped at most once.
//
// The zero value is an empty map. AliasMap is immutable.
type AliasMap struct {
	byAlias    map[ir.RelationName]ir.RelationName
	byOriginal map[ir.RelationName]ir.RelationName
}

// NewAliasMap creates an alias map. Later declarations of the same alias win.
func NewAliasMap(aliases ...Alias) AliasMap {
	m := AliasMap{
		byAlias:    make(map[ir.RelationName]ir.RelationName, len(aliases)),
		byOriginal: make(map[ir.RelationName]ir.RelationName, len(aliases)),
	}
	for _, a := range aliases {
		m.byAlias[a.Alias] = a.Original
		m.byOriginal[a.Original] = a.Alias
	}
	return m
}

// Len returns the number of aliases.
func (m AliasMap) Len() int {
	return len(m.byAlias)
}

// IsAlias reports whether name is a declared alias.
func (m AliasMap) IsAlias(name ir.RelationName) bool {
	_, ok := m.byAlias[name]
	return ok
}

// OriginalOf returns the physical table behind name, or name itself when
// it is not an alias.
func (m AliasMap) OriginalOf(name ir.RelationName) ir.RelationName {
	if original, ok := m.byAlias[name]; ok {
		return original
	}
	return name
}

// ApplyTo returns the alias of original, or original itself when it is not aliased.
func (m AliasMap) ApplyTo(original ir.RelationName) ir.RelationName {
	if alias, ok := m.byOriginal[original]; ok {
		return alias
	}
	return original
}

// Aliases returns the declarations sorted by alias name.
func (m AliasMap) Aliases() []Alias {
	result := make([]Alias, 0, len(m.byAlias))
	for alias, original := range m.byAlias {
		result = append(result, Alias{Original: original, Alias: alias})
	}
	slices.SortFunc(result, func(a, b Alias) int { return a.Alias.Compare(b.Alias) })
	return result
}

// Merge returns a map holding the declarations of m and other.
// Declarations in other win on conflict.
func (m AliasMap) Merge(other AliasMap) AliasMap {
	return NewAliasMap(append(m.Aliases(), other.Aliases()...)...)
}

// RenameAttribute implements ColumnRenamer by moving the attribute to the
// alias of its table.
func (m AliasMap) RenameAttribute(a ir.Attribute) ir.Attribute {
	return ir.Attribute{Relation: m.ApplyTo(a.Relation), Column: a.Column}
}

// RenameAliases implements ColumnRenamer by composing m with the alias
// declarations of a relation.
//
// An alias declared by other that m renames keeps pointing at the same
// physical table under its new name. A table m renames that other does not
// alias becomes a new alias of that table.
func (m AliasMap) RenameAliases(other AliasMap) AliasMap {
	var result []Alias
	for _, a := range other.Aliases() {
		result = append(result, Alias{Original: a.Original, Alias: m.ApplyTo(a.Alias)})
	}
	for _, a := range m.Aliases() {
		if other.IsAlias(a.Original) {
			continue
		}
		result = append(result, a)
	}
	return NewAliasMap(result...)
}

func (m AliasMap) String() string {
	aliases := m.Aliases()
	parts := make([]string, len(aliases))
	for i, a := range aliases {
		parts[i] = a.String()
	}
	return "AliasMap(" + strings.Join(parts, ", ") + ")"
}

// ColumnRenamerMap renames individual attributes. Unlisted attributes are
// left unchanged and alias declarations are not touched.
type ColumnRenamerMap map[ir.Attribute]ir.Attribute

// RenameAttribute implements ColumnRenamer.
func (m ColumnRenamerMap) RenameAttribute(a ir.Attribute) ir.Attribute {
	if renamed, ok := m[a]; ok {
		return renamed
	}
	return a
}

// RenameAliases implements ColumnRenamer.
func (m ColumnRenamerMap) RenameAliases(aliases AliasMap) AliasMap {
	return aliases
}

// IdentityRenamer renames nothing.
type IdentityRenamer struct{}

// RenameAttribute implements ColumnRenamer.
func (IdentityRenamer) RenameAttribute(a ir.Attribute) ir.Attribute { return a }

// RenameAliases implements ColumnRenamer.
func (IdentityRenamer) RenameAliases(aliases AliasMap) AliasMap { return aliases }
