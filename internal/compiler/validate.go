package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/relrdf/internal/algebra"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

// Validation error codes (E200-E299)
const (
	// Mapping errors (E201-E203)
	ErrClassMapNoTriples = "E201" // class map has neither classes nor properties
	ErrRelationShape     = "E202" // tables left unconnected, self-joins, aliases shadowing nothing
	ErrUnusedColumnType  = "E203" // column_types names a column no relation uses

	// Schema errors (E204-E206)
	ErrUnknownTable      = "E204" // table missing from the database
	ErrUnknownColumn     = "E205" // column missing from its table
	ErrSchemaUnavailable = "E206" // table metadata could not be read
)

// ValidationError represents a mapping validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ColumnLister reports the columns of a table, or an empty list when the
// table does not exist. Implemented by *store.Store.
type ColumnLister interface {
	TableColumns(ctx context.Context, table ir.RelationName) ([]string, error)
}

// fieldRelation is a triple relation with the mapping field it came from.
type fieldRelation struct {
	field string
	rel   *algebra.TripleRelation
}

func (m *Mapping) fieldRelations() []fieldRelation {
	var out []fieldRelation
	for _, cm := range m.ClassMaps {
		for i, rel := range cm.typeRelations {
			out = append(out, fieldRelation{fmt.Sprintf("classes.%s.class[%d]", cm.Name, i), rel})
		}
		for _, b := range cm.Bridges {
			out = append(out, fieldRelation{fmt.Sprintf("classes.%s.properties.%s", cm.Name, b.Name), b.Relation})
		}
	}
	return out
}

// ValidateMapping checks a compiled mapping without a database.
// Returns all errors found (does not fail-fast).
func ValidateMapping(m *Mapping) []ValidationError {
	var errs []ValidationError

	for _, cm := range m.ClassMaps {
		// E201: class map produces nothing
		if len(cm.Classes) == 0 && len(cm.Bridges) == 0 {
			errs = append(errs, ValidationError{
				Field:   "classes." + cm.Name,
				Message: "class map has no class and no properties, so it produces no triples",
				Code:    ErrClassMapNoTriples,
			})
		}
	}

	used := make(map[ir.Attribute]bool)
	for _, fr := range m.fieldRelations() {
		// E202: relation shape
		result := queryir.Validate(fr.rel.BaseRelation(), fr.rel.ProjectionColumns())
		for _, w := range result.Warnings {
			errs = append(errs, ValidationError{
				Field:   fr.field,
				Message: w,
				Code:    ErrRelationShape,
			})
		}
		aliases := fr.rel.BaseRelation().AliasMap()
		for _, a := range relationColumns(fr.rel) {
			used[ir.Attribute{Relation: aliases.OriginalOf(a.Relation), Column: a.Column}] = true
			used[a] = true
		}
	}

	// E203: declared types nothing uses
	for _, a := range sortedAttributes(m.ColumnTypes) {
		if !used[a] {
			errs = append(errs, ValidationError{
				Field:   "column_types." + a.QualifiedName(),
				Message: "column is not used by any class map or property",
				Code:    ErrUnusedColumnType,
			})
		}
	}

	return errs
}

// ValidateSchema checks that every table and column the mapping references
// exists in the database. Aliases are resolved to their physical tables.
//
// The error return is reserved for context cancellation; unreadable table
// metadata is reported as E206.
func ValidateSchema(ctx context.Context, m *Mapping, lister ColumnLister) ([]ValidationError, error) {
	var errs []ValidationError

	tables := make(map[ir.RelationName][]string)
	columnsOf := func(t ir.RelationName) ([]string, error) {
		if cols, ok := tables[t]; ok {
			return cols, nil
		}
		cols, err := lister.TableColumns(ctx, t)
		if err != nil {
			return nil, err
		}
		tables[t] = cols
		return cols, nil
	}

	reported := make(map[string]bool)
	report := func(e ValidationError) {
		key := e.Code + "|" + e.Field + "|" + e.Message
		if !reported[key] {
			reported[key] = true
			errs = append(errs, e)
		}
	}

	for _, fr := range m.fieldRelations() {
		aliases := fr.rel.BaseRelation().AliasMap()
		for _, a := range relationColumns(fr.rel) {
			if err := ctx.Err(); err != nil {
				return errs, err
			}
			table := aliases.OriginalOf(a.Relation)
			cols, err := columnsOf(table)
			if err != nil {
				report(ValidationError{
					Field:   fr.field,
					Message: fmt.Sprintf("cannot read columns of %s: %v", table, err),
					Code:    ErrSchemaUnavailable,
				})
				continue
			}
			// E204: unknown table
			if len(cols) == 0 {
				report(ValidationError{
					Field:   fr.field,
					Message: fmt.Sprintf("table %s does not exist", table),
					Code:    ErrUnknownTable,
				})
				continue
			}
			// E205: unknown column
			if !containsFold(cols, a.Column) {
				report(ValidationError{
					Field:   fr.field,
					Message: fmt.Sprintf("column %s.%s does not exist", table.QualifiedName(), a.Column),
					Code:    ErrUnknownColumn,
				})
			}
		}
	}

	return errs, nil
}

// relationColumns returns every column a triple relation references.
func relationColumns(rel *algebra.TripleRelation) []ir.Attribute {
	base := rel.BaseRelation()
	sets := [][]ir.Attribute{rel.ProjectionColumns(), base.Condition().Columns()}
	for _, j := range base.JoinConditions() {
		sets = append(sets, j.Columns())
	}
	return ir.UnionAttributes(sets...)
}

func sortedAttributes(m map[ir.Attribute]ir.ColumnType) []ir.Attribute {
	attrs := make([]ir.Attribute, 0, len(m))
	for a := range m {
		attrs = append(attrs, a)
	}
	return ir.SortAttributes(attrs)
}

// containsFold reports whether name is in cols. SQLite identifiers are
// case-insensitive.
func containsFold(cols []string, name string) bool {
	for _, c := range cols {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
