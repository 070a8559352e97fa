// Package harness runs mapping conformance scenarios.
//
// A scenario creates a database, loads a CUE mapping, runs triple pattern
// queries through the engine and checks the triples that come back.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	mapping: ../mappings/staff        # CUE package dir, relative to this file
//	setup:
//	  - CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT);
//	  - INSERT INTO people VALUES (1, 'Alice');
//	queries:
//	  - name: names
//	    pattern: { s: "?", p: "foaf:name", o: "?" }
//	    expect:
//	      - <http://example.org/person/1> <http://xmlns.com/foaf/0.1/name> "Alice" .
//	    assertions:
//	      - type: triple_count
//	        count: 1
//
// Pattern terms use the mapping's prefixes; see compiler.ParseTerm.
//
// # Assertion Types
//
//   - triple_contains: the N-Triples line appears in the result
//   - triple_absent: the N-Triples line does not appear in the result
//   - triple_count: the result has exactly count triples
//
// An expect list is an exact match against the sorted result.
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite database and numbers
// its queries with testutil.SequentialQueryIDs, so golden snapshots and
// logs are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/staff.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
