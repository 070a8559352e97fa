package harness

import (
	"bytes"
	"fmt"
)

// QueryResult is the outcome of one scenario query.
type QueryResult struct {
	Name    string   `json:"name"`
	Pattern string   `json:"pattern"`
	Triples []string `json:"triples"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every expect list and assertion held.
	Pass bool `json:"pass"`

	// Queries holds each query's sorted triples in scenario order.
	// Used for golden comparison.
	Queries []QueryResult `json:"queries"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Queries: []QueryResult{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot renders the query results for golden comparison:
//
//	# scenario: <name>
//
//	# query: <name>
//	# pattern: <pattern>
//	<triple>
//	...
func (r *Result) Snapshot(scenarioName string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# scenario: %s\n", scenarioName)
	for _, q := range r.Queries {
		fmt.Fprintf(&buf, "\n# query: %s\n# pattern: %s\n", q.Name, q.Pattern)
		for _, t := range q.Triples {
			buf.WriteString(t)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}
