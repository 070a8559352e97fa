package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_StaffDirectory(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "staff_directory.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "staff_directory", s.Name)
	assert.Equal(t, filepath.Join("testdata", "staff"), s.Mapping, "mapping resolved against the scenario file")
	assert.Equal(t, "staff", s.QueryIDPrefix)
	require.Len(t, s.Setup, 2)
	assert.Contains(t, s.Setup[0], "CREATE TABLE depts")

	require.Len(t, s.Queries, 6)
	assert.Equal(t, PatternSpec{P: "foaf:name"}, s.Queries[0].Pattern)
	assert.Len(t, s.Queries[0].Expect, 2)

	inactive := s.Queries[3]
	assert.Equal(t, "inactive", inactive.Name)
	assert.NotNil(t, inactive.Expect, "expect: [] means no triples, not no check")
	assert.Empty(t, inactive.Expect)

	research := s.Queries[2]
	assert.Nil(t, research.Expect)
	require.Len(t, research.Assertions, 2)
	require.NotNil(t, research.Assertions[0].Count)
	assert.Equal(t, 2, *research.Assertions[0].Count)
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: based
description: "mapping relative to a base path"
mapping: staff
queries:
  - name: all
`)

	s, err := LoadScenarioWithBasePath(path, "testdata")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "staff"), s.Mapping)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingMappingDir(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: lost
description: "mapping does not exist"
mapping: nowhere
queries:
  - name: all
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping directory not found")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
mapping: m
querys: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	count := func(n int) *int { return &n }
	valid := func() *Scenario {
		return &Scenario{
			Name:        "ok",
			Description: "valid",
			Mapping:     "m",
			Queries:     []Query{{Name: "q"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{name: "valid", mutate: func(*Scenario) {}},
		{name: "no name", mutate: func(s *Scenario) { s.Name = "" }, wantErr: "name is required"},
		{name: "no description", mutate: func(s *Scenario) { s.Description = "" }, wantErr: "description is required"},
		{name: "no mapping", mutate: func(s *Scenario) { s.Mapping = "" }, wantErr: "mapping is required"},
		{name: "negative limit", mutate: func(s *Scenario) { s.Limit = -1 }, wantErr: "limit must be non-negative"},
		{name: "no queries", mutate: func(s *Scenario) { s.Queries = nil }, wantErr: "queries list is required"},
		{name: "unnamed query", mutate: func(s *Scenario) { s.Queries[0].Name = "" }, wantErr: "queries[0]: name is required"},
		{
			name:    "duplicate query",
			mutate:  func(s *Scenario) { s.Queries = append(s.Queries, Query{Name: "q"}) },
			wantErr: `queries[1]: duplicate query name "q"`,
		},
		{
			name:    "assertion without type",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{}} },
			wantErr: "queries[0].assertions[0]: type is required",
		},
		{
			name:    "contains without triple",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{Type: AssertTripleContains}} },
			wantErr: "triple is required for triple_contains",
		},
		{
			name:    "absent without triple",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{Type: AssertTripleAbsent, Triple: "  "}} },
			wantErr: "triple is required for triple_absent",
		},
		{
			name:    "count without count",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{Type: AssertTripleCount}} },
			wantErr: "count is required for triple_count",
		},
		{
			name:    "negative count",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{Type: AssertTripleCount, Count: count(-1)}} },
			wantErr: "count must be non-negative",
		},
		{
			name:    "unknown type",
			mutate:  func(s *Scenario) { s.Queries[0].Assertions = []Assertion{{Type: "trace_order"}} },
			wantErr: `unknown assertion type "trace_order"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
