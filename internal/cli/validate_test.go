package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/compiler"
	"github.com/roach88/relrdf/internal/store"
)

const brokenMapping = `
mapping: {
	column_types: {"people.id": "int", "people.age": "int"}
	classes: {
		Person: {
			uri_pattern: "http://example.org/person/{people.id}"
			class: "http://xmlns.com/foaf/0.1/Person"
		}
		Ghost: uri_column: "ghosts.uri"
	}
}
`

func TestValidateStaffMapping(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), staffMappingDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Mapping valid (2 class map(s), 5 relation(s))")
}

func TestValidateStaffMappingAgainstDatabase(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), staffMappingDir, "--db", staffDB(t))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.ClassMaps)
	assert.Equal(t, 5, resp.Data.Relations)
}

func TestValidateReportsMappingProblems(t *testing.T) {
	dir := writeMapping(t, brokenMapping)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "classes.Ghost\n  "+compiler.ErrClassMapNoTriples)
	assert.Contains(t, out, "column_types.people.age\n  "+compiler.ErrUnusedColumnType)
}

func TestValidateReportsSchemaProblemsJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), staffMappingDir, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrUnknownTable, resp.Error.Code)
	for _, e := range resp.Data.Errors {
		assert.Equal(t, compiler.ErrUnknownTable, e.Code)
	}
}

func TestValidateMissingDatabase(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", "/nonexistent/x.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]: database not found")
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateCompileErrorJSON(t *testing.T) {
	dir := writeMapping(t, `
mapping: classes: Person: {
	uri_column: "people.uri"
	uri_pattern: "http://example.org/{people.id}"
}
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCompile, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "classes.Person")
}
