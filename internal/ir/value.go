package ir

import (
	"fmt"
	"strconv"
)

// IRValue is a sealed interface representing constrained SQL constant types.
// Only IRNull, IRString, IRInt and IRBool implement this.
// NO IRFloat - float equality is not a sound pushdown condition.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents SQL NULL.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a text value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value.
// Always int64, never float64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt value.
func NewIRInt(n int64) IRInt {
	return IRInt(n)
}

// NewIRBool creates an IRBool value.
func NewIRBool(b bool) IRBool {
	return IRBool(b)
}

// ColumnType declares how the values of a column are compared in SQL.
type ColumnType uint8

const (
	// ColumnText compares values as text.
	ColumnText ColumnType = iota
	// ColumnInt compares values as integers.
	ColumnInt
	// ColumnBool compares values as booleans. Use it for columns declared
	// BOOLEAN.
	ColumnBool
)

// String returns the type name used in mapping files.
func (t ColumnType) String() string {
	switch t {
	case ColumnInt:
		return "int"
	case ColumnBool:
		return "bool"
	default:
		return "text"
	}
}

// ParseColumnType parses "text", "int" or "bool". The empty string is text.
func ParseColumnType(s string) (ColumnType, error) {
	switch s {
	case "", "text", "string":
		return ColumnText, nil
	case "int", "integer":
		return ColumnInt, nil
	case "bool", "boolean":
		return ColumnBool, nil
	default:
		return ColumnText, fmt.Errorf("unsupported column type %q: must be text, int or bool", s)
	}
}

// ValueFromLexical converts the lexical form of a node value into the SQL
// constant used to compare it against a column of the given type.
// ok is false when the lexical form cannot appear in such a column.
func ValueFromLexical(lexical string, t ColumnType) (IRValue, bool) {
	switch t {
	case ColumnInt:
		n, err := strconv.ParseInt(lexical, 10, 64)
		if err != nil {
			return nil, false
		}
		// Only the canonical form round-trips from the database.
		if strconv.FormatInt(n, 10) != lexical {
			return nil, false
		}
		return IRInt(n), true
	case ColumnBool:
		// The SQLite driver hands BOOLEAN columns back as Go bools,
		// which read as "true" and "false".
		switch lexical {
		case "true":
			return IRBool(true), true
		case "false":
			return IRBool(false), true
		default:
			return nil, false
		}
	default:
		return IRString(lexical), true
	}
}

// ValueToParam converts an IRValue to a Go native type for a SQL parameter.
func ValueToParam(v IRValue) (any, error) {
	switch val := v.(type) {
	case IRString:
		return string(val), nil
	case IRInt:
		return int64(val), nil
	case IRBool:
		return bool(val), nil
	case IRNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}

// FormatValue renders an IRValue for diagnostics.
func FormatValue(v IRValue) string {
	switch val := v.(type) {
	case IRString:
		return strconv.Quote(string(val))
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case IRBool:
		return strconv.FormatBool(bool(val))
	case IRNull:
		return "NULL"
	default:
		return fmt.Sprintf("%v", v)
	}
}
