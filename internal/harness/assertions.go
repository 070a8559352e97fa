package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the query's triples to help debug the failure.
type AssertionError struct {
	Query    string   // Query name
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Triples  []string // Full result for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (query %s)\n", e.Type, e.Query)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nResult:\n")
	for i, t := range e.Triples {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, t)
	}

	return buf.String()
}

// EvaluateQuery checks a query result against its expect list and
// assertions. Returns error messages, empty if all held.
func EvaluateQuery(q Query, qr QueryResult) []string {
	var errs []string

	if q.Expect != nil {
		if err := assertExpect(q, qr); err != nil {
			errs = append(errs, err.Error())
		}
	}

	for _, a := range q.Assertions {
		if err := evaluateAssertion(q.Name, qr.Triples, a); err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

// assertExpect requires the result to equal the expect list, ignoring order.
func assertExpect(q Query, qr QueryResult) error {
	want := normalizeTriples(q.Expect)
	got := slices.Clone(qr.Triples)
	slices.Sort(got)

	if slices.Equal(want, got) {
		return nil
	}

	var missing, extra []string
	for _, t := range want {
		if !slices.Contains(got, t) {
			missing = append(missing, t)
		}
	}
	for _, t := range got {
		if !slices.Contains(want, t) {
			extra = append(extra, t)
		}
	}
	return &AssertionError{
		Query:    q.Name,
		Type:     "expect",
		Expected: fmt.Sprintf("%d triple(s)", len(want)),
		Actual:   fmt.Sprintf("%d triple(s), missing %v, unexpected %v", len(got), missing, extra),
		Triples:  qr.Triples,
	}
}

func evaluateAssertion(query string, triples []string, a Assertion) error {
	switch a.Type {
	case AssertTripleContains:
		want := normalizeTriple(a.Triple)
		if slices.Contains(triples, want) {
			return nil
		}
		return &AssertionError{
			Query:    query,
			Type:     a.Type,
			Expected: want,
			Actual:   "not found in result",
			Triples:  triples,
		}

	case AssertTripleAbsent:
		unwanted := normalizeTriple(a.Triple)
		if !slices.Contains(triples, unwanted) {
			return nil
		}
		return &AssertionError{
			Query:    query,
			Type:     a.Type,
			Expected: "no " + unwanted,
			Actual:   "found in result",
			Triples:  triples,
		}

	case AssertTripleCount:
		if a.Count != nil && len(triples) == *a.Count {
			return nil
		}
		want := -1
		if a.Count != nil {
			want = *a.Count
		}
		return &AssertionError{
			Query:    query,
			Type:     a.Type,
			Expected: fmt.Sprintf("%d triple(s)", want),
			Actual:   fmt.Sprintf("%d triple(s)", len(triples)),
			Triples:  triples,
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// normalizeTriple trims a hand-written N-Triples line and makes sure it ends
// with " .", as ir.Triple.String renders it.
func normalizeTriple(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "."))
	return s + " ."
}

func normalizeTriples(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = normalizeTriple(l)
	}
	slices.Sort(out)
	return out
}
