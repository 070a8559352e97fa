// Package queryir provides the relational intermediate representation (IR)
// that relrdf pushes triple patterns into.
//
// A Relation describes one SQL query fragment: the tables it reads (with
// their aliases), the join conditions between them, and a filter condition.
// Relations are immutable. The only mutable value in this package is
// MutableRelation, a builder that accumulates conditions while a triple
// pattern is pushed down and is then frozen with Snapshot.
//
// ARCHITECTURE:
//
//	[mapping] → [NodeMaker + Relation] → [Query IR] → [SQL Backend]
//
// The IR is independent of SQL syntax. The querysql package renders it.
//
// SEALED INTERFACES:
//
// Expression is a sealed interface using the marker method pattern.
// Only types in this package implement it, which enables exhaustive type
// switches in backends:
//
//	switch e := expr.(type) {
//	case True, False:
//	case Equals:
//	case AttributeEquals:
//	case NotNull:
//	case And:
//	case Or:
//	}
//
// RENAMING:
//
// Every structure that references columns (Expression, Join, Relation)
// supports RenameColumns(ColumnRenamer). AliasMap is the renamer used to
// give each occurrence of a table its own SQL alias when several
// occurrences are combined into one query.
//
// EMPTINESS:
//
// A relation whose condition is False can never produce a row. It is the
// algebraic zero of the IR: restricting it further leaves it empty, and
// backends refuse to render it instead of issuing a query.
package queryir
