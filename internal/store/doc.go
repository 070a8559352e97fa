// Package store provides access to the SQLite database that relrdf exposes
// as RDF.
//
// The store is read-mostly: relrdf never writes to the source database
// except through Exec, which loads fixtures and setup scripts.
//
// # Rows
//
// QueryRows streams the rows of a compiled query as ir.ResultRow values.
// Every value is delivered in its text form, which is the form node makers
// build terms from:
//   - TEXT values as stored
//   - INTEGER values in canonical decimal form ("42")
//   - BOOLEAN columns as "true" or "false"
//   - SQL NULL as absence
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
