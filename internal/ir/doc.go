// Package ir provides the foundational value types for relrdf.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Every RDF node variant is a comparable value, so nodes, triples and
//     patterns can be compared with == and used as map keys
//   - Literal lexical forms are kept byte for byte, so a term made from a
//     column value compares equal to that value in SQL
//   - RelationName and Attribute compare by qualified name
//   - SQL constants are IRValue types only (no floats)
package ir
