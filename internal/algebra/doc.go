// Package algebra implements triple relations: the unit that derives
// virtual RDF triples from the rows of one SQL query fragment.
//
// A TripleRelation couples a queryir.Relation with three node makers, one
// per triple position. Evaluating it on a row yields zero or one triples.
// Its composition operators return new values and never mutate:
//
//	SelectTriple  pushes the concrete terms of a pattern into the relation
//	WithPrefix    gives every referenced table an occurrence-specific alias
//	RenameColumns applies one renamer to the relation and all three makers
//
// UNSATISFIABILITY:
//
// A restriction that no row can satisfy is not an error. It yields Empty,
// the canonical zero value: it makes no triples, projects no columns, and
// every composition operator returns it unchanged.
//
// CONTRACT VIOLATIONS:
//
// Caller bugs (a nil maker or relation, an out-of-range slot) panic with a
// *ContractError. They are never recovered inside the module.
//
// CONCURRENCY:
//
// TripleRelation values are immutable and safe for concurrent use.
// The only mutable value, the queryir.MutableRelation built inside
// SelectTriple, never leaves that call.
package algebra
