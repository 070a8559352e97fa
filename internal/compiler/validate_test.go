package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/testutil"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateMapping_Staff(t *testing.T) {
	m := compileMapping(t, staffMapping)

	errs := ValidateMapping(m)

	// Boss exists only as a refers_to target.
	require.Len(t, errs, 1)
	assert.Equal(t, ErrClassMapNoTriples, errs[0].Code)
	assert.Equal(t, "classes.Boss", errs[0].Field)
}

func TestValidateMapping_Valid(t *testing.T) {
	m := compileMapping(t, `
		mapping: {
			column_types: "people.id": "int"
			classes: Person: {
				uri_pattern: "http://example.org/person/{people.id}"
				class: "http://xmlns.com/foaf/0.1/Person"
			}
		}
	`)
	assert.Empty(t, ValidateMapping(m), "valid mapping should have no errors")
}

func TestValidateMapping_CartesianProduct(t *testing.T) {
	m := compileMapping(t, `
		mapping: classes: Person: {
			uri_column: "people.uri"
			properties: dept: {
				property: "http://example.org/dept"
				column: "depts.name"
			}
		}
	`)

	errs := ValidateMapping(m)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRelationShape, errs[0].Code)
	assert.Equal(t, "classes.Person.properties.dept", errs[0].Field)
	assert.Contains(t, errs[0].Message, "cartesian product")
}

func TestValidateMapping_UnusedColumnType(t *testing.T) {
	m := compileMapping(t, `
		mapping: {
			column_types: {"people.id": "int", "people.age": "int", "boss.id": "int"}
			classes: {
				Person: {
					uri_pattern: "http://example.org/person/{people.id}"
					class: "http://xmlns.com/foaf/0.1/Person"
				}
			}
		}
	`)

	errs := ValidateMapping(m)
	assert.Equal(t, []string{ErrUnusedColumnType, ErrUnusedColumnType}, codes(errs))
	assert.Equal(t, "column_types.boss.id", errs[0].Field)
	assert.Equal(t, "column_types.people.age", errs[1].Field)
}

func TestValidateSchema_Store(t *testing.T) {
	s := testutil.OpenStore(t, testutil.StaffSchema)

	m := compileMapping(t, staffMapping)
	errs, err := ValidateSchema(context.Background(), m, s)
	require.NoError(t, err)
	assert.Empty(t, errs, "aliases resolve to their physical tables")
}

func TestValidateSchema_Missing(t *testing.T) {
	s := testutil.OpenStore(t, `CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, active BOOLEAN)`)

	m := compileMapping(t, staffMapping)
	errs, err := ValidateSchema(context.Background(), m, s)
	require.NoError(t, err)

	var unknownTable, unknownColumn []ValidationError
	for _, e := range errs {
		switch e.Code {
		case ErrUnknownTable:
			unknownTable = append(unknownTable, e)
		case ErrUnknownColumn:
			unknownColumn = append(unknownColumn, e)
		}
	}
	require.NotEmpty(t, unknownTable)
	assert.Contains(t, unknownTable[0].Message, "table depts does not exist")

	fields := make(map[string]bool)
	for _, e := range unknownColumn {
		fields[e.Field+": "+e.Message] = true
	}
	assert.True(t, fields["classes.Person.properties.dept: column people.dept does not exist"])
	assert.True(t, fields["classes.Person.properties.boss: column people.boss does not exist"])
}

type failingLister struct{}

func (failingLister) TableColumns(context.Context, ir.RelationName) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func TestValidateSchema_ListerError(t *testing.T) {
	m := compileMapping(t, `
		mapping: classes: Person: {
			uri_column: "people.uri"
			class: "http://xmlns.com/foaf/0.1/Person"
		}
	`)

	errs, err := ValidateSchema(context.Background(), m, failingLister{})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSchemaUnavailable, errs[0].Code)
	assert.Contains(t, errs[0].Message, "disk on fire")
}

func TestValidateSchema_Canceled(t *testing.T) {
	m := compileMapping(t, staffMapping)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateSchema(ctx, m, failingLister{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "classes.A", Message: "bad", Code: ErrClassMapNoTriples}
	assert.Equal(t, "[E201] classes.A: bad", e.Error())
}
