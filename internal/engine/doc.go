// Package engine evaluates triple patterns against a relational database.
//
// The engine holds the triple relations compiled from a mapping. For each
// pattern it:
//
//  1. Narrows every relation with SelectTriple; relations that cannot
//     produce a matching triple drop out without touching the database
//  2. Compiles each remaining relation to one SQL statement, with DISTINCT
//     only where the relation may produce duplicate rows
//  3. Streams the rows through MakeTriples and drops duplicates across
//     relations
//
// Patterns are evaluated one at a time. Joining the results of several
// patterns is left to the caller; Plan with a prefix renders statements
// whose tables cannot collide when combined.
//
// Every Find call is tagged with a query ID (UUIDv7 by default) so the
// log records of one evaluation can be correlated.
package engine
