package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByPredicate(t *testing.T) {
	out, err := execute(t, NewFindCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", staffDB(t), "--p", "foaf:name")
	require.NoError(t, err)
	assert.Equal(t, aliceName+"\n"+bobName+"\n", out)
}

func TestFindBySubject(t *testing.T) {
	out, err := execute(t, NewFindCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", staffDB(t), "--s", "<http://example.org/person/2>")
	require.NoError(t, err)

	want := []string{
		"<http://example.org/person/2> <http://example.org/dept> <http://example.org/dept/2> .",
		"<http://example.org/person/2> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://xmlns.com/foaf/0.1/Person> .",
		bobName,
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out)
}

func TestFindLanguageLiteralJSON(t *testing.T) {
	out, err := execute(t, NewFindCommand(&RootOptions{Format: "json"}), staffMappingDir, "--db", staffDB(t), "--o", `"Research"@en`)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TripleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `ANY ANY "Research"@en`, resp.Data.Pattern)
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, []string{
		`<http://example.org/dept/1> <http://www.w3.org/2000/01/rdf-schema#label> "Research"@en .`,
	}, resp.Data.Triples)
}

func TestFindNoMatchJSON(t *testing.T) {
	out, err := execute(t, NewFindCommand(&RootOptions{Format: "json"}), staffMappingDir, "--db", staffDB(t), "--s", "ex:person/4")
	require.NoError(t, err)

	var resp struct {
		Data TripleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0, resp.Data.Count)
	assert.NotNil(t, resp.Data.Triples, "an empty result is [] not null")
	assert.Empty(t, resp.Data.Triples)
}

func TestFindRequiresDB(t *testing.T) {
	_, err := execute(t, NewFindCommand(&RootOptions{Format: "text"}), staffMappingDir, "--p", "foaf:name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestFindMissingDatabase(t *testing.T) {
	out, err := execute(t, NewFindCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", "/nonexistent/staff.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]")
}

func TestFindQueryFailure(t *testing.T) {
	dir := writeMapping(t, `
mapping: classes: Robot: {
	uri_column: "robots.uri"
	class: "http://example.org/Robot"
}
`)

	out, err := execute(t, NewFindCommand(&RootOptions{Format: "text"}), dir, "--db", staffDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E303]: QUERY_FAILED")
}

func TestDump(t *testing.T) {
	out, err := execute(t, NewDumpCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", staffDB(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// 3 people types, 2 names, 3 departments, 2 dept types, 2 labels.
	assert.Len(t, lines, 12)
	assert.Contains(t, lines, aliceName)
	assert.True(t, slicesSorted(lines), "dump output is sorted")
}

func TestDumpLimit(t *testing.T) {
	out, err := execute(t, NewDumpCommand(&RootOptions{Format: "json"}), staffMappingDir, "--db", staffDB(t), "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Data TripleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 5, resp.Data.Count, "one row from each of the five relations")
}

func TestDumpMaxTriples(t *testing.T) {
	db := staffDB(t)

	_, err := execute(t, NewDumpCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", db, "--max-triples", "12")
	require.NoError(t, err)

	out, err := execute(t, NewDumpCommand(&RootOptions{Format: "text"}), staffMappingDir, "--db", db, "--max-triples", "11")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E304]: query ")
	assert.Contains(t, out, "exceeded max triples quota: 12 triples > 11 limit")
}

func slicesSorted(lines []string) bool {
	for i := 1; i < len(lines); i++ {
		if lines[i-1] > lines[i] {
			return false
		}
	}
	return true
}
