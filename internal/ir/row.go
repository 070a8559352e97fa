package ir

// ResultRow is one fetched SQL row, addressable by attribute.
//
// Get returns the value of the attribute in its text form. ok is false
// when the value is SQL NULL or the attribute is not part of the row.
type ResultRow interface {
	Get(a Attribute) (value string, ok bool)
}

// MapRow is a ResultRow backed by a map. Absent keys are SQL NULL.
type MapRow map[Attribute]string

// Get implements ResultRow.
func (r MapRow) Get(a Attribute) (string, bool) {
	v, ok := r[a]
	return v, ok
}
