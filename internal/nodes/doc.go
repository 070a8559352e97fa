// Package nodes turns SQL result rows into RDF terms.
//
// A NodeMaker produces the term for one position of a triple (subject,
// predicate or object) from a row, reports the columns it reads, and can
// restrict itself to a single target term by adding conditions to a
// queryir.MutableRelation.
//
// The set of makers is closed:
//
//	Empty   never produces a term; the algebraic zero
//	Fixed   always produces the same term
//	Typed   a NodeType (URI, blank node, literal) over a ValueMaker
//	Checked a Typed maker restricted to one term by comparing its output
//
// and the set of value makers likewise:
//
//	Column       the text of one column
//	Pattern      a template such as http://example.org/person/{people.id}
//	BlankNodeID  a blank node label built from a class map id and columns
//
// Empty is a comparable value. Code that needs to know whether a maker can
// still produce anything compares against it (or calls IsEmpty) instead of
// checking for nil.
package nodes
