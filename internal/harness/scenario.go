package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario loads a mapping over a freshly built database and checks the
// triples that pattern queries return.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mapping is the directory of the CUE mapping package.
	// Relative paths are resolved against the scenario file's directory.
	Mapping string `yaml:"mapping"`

	// Setup contains SQL scripts run in order before any query.
	Setup []string `yaml:"setup,omitempty"`

	// QueryIDPrefix prefixes the query IDs in engine logs. Defaults to "q".
	QueryIDPrefix string `yaml:"query_id_prefix,omitempty"`

	// Limit caps the rows read per relation. Zero means no limit.
	Limit int `yaml:"limit,omitempty"`

	// Queries run in order against the mapped database.
	Queries []Query `yaml:"queries"`
}

// Query is one triple pattern lookup with its expectations.
type Query struct {
	// Name identifies the query in results and golden files.
	Name string `yaml:"name"`

	// Pattern holds the subject, predicate and object terms.
	Pattern PatternSpec `yaml:"pattern"`

	// Expect is the exact sorted result as N-Triples lines.
	// If nil, only assertions are checked. An empty list expects no triples.
	Expect []string `yaml:"expect,omitempty"`

	// Assertions validate the result.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// PatternSpec is a triple pattern in term syntax. Missing positions match anything.
type PatternSpec struct {
	S string `yaml:"s"`
	P string `yaml:"p"`
	O string `yaml:"o"`
}

// Assertion types.
const (
	AssertTripleContains = "triple_contains"
	AssertTripleAbsent   = "triple_absent"
	AssertTripleCount    = "triple_count"
)

// Assertion validates a query result.
type Assertion struct {
	// Type is one of triple_contains, triple_absent or triple_count.
	Type string `yaml:"type"`

	// Triple is an N-Triples line (used by triple_contains and triple_absent).
	Triple string `yaml:"triple,omitempty"`

	// Count is the expected number of triples (used by triple_count).
	Count *int `yaml:"count,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// A relative mapping path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative mapping path against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Mapping != "" && !filepath.IsAbs(scenario.Mapping) && basePath != "" {
		scenario.Mapping = filepath.Join(basePath, scenario.Mapping)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(scenario.Mapping); err != nil {
		return nil, fmt.Errorf("invalid scenario: mapping directory not found: %s", scenario.Mapping)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML without resolving or checking the
// mapping path.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Mapping == "" {
		return fmt.Errorf("mapping is required")
	}

	if s.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if names[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate query name %q", i, q.Name)
		}
		names[q.Name] = true

		for j, a := range q.Assertions {
			if err := validateAssertion(fmt.Sprintf("queries[%d].assertions[%d]", i, j), &a); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(field string, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("%s: type is required", field)
	case AssertTripleContains, AssertTripleAbsent:
		if strings.TrimSpace(a.Triple) == "" {
			return fmt.Errorf("%s: triple is required for %s", field, a.Type)
		}
	case AssertTripleCount:
		if a.Count == nil {
			return fmt.Errorf("%s: count is required for triple_count", field)
		}
		if *a.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative for triple_count", field)
		}
	default:
		return fmt.Errorf("%s: unknown assertion type %q", field, a.Type)
	}
	return nil
}
