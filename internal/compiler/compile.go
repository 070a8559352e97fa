package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relrdf/internal/algebra"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/nodes"
	"github.com/roach88/relrdf/internal/queryir"
)

// Keys naming the term a subject or object is made from.
var (
	subjectKeys = []string{"uri_pattern", "uri_column", "bnode_columns"}
	objectKeys  = []string{"column", "pattern", "uri_column", "uri_pattern", "value", "refers_to"}
)

// CompileMapping parses a CUE mapping struct into class maps and their
// triple relations. Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the mapping struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`mapping: { classes: ... }`)
//	m, err := CompileMapping(v.LookupPath(cue.ParsePath("mapping")))
//
// Compilation stops at the first error.
func CompileMapping(v cue.Value) (*Mapping, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "mapping", Message: "mapping is required", Pos: v.Pos()}
	}

	c := &mappingCompiler{
		m: &Mapping{
			Prefixes:    defaultPrefixes(),
			ColumnTypes: make(map[ir.Attribute]ir.ColumnType),
		},
	}
	if err := c.parsePrefixes(v); err != nil {
		return nil, err
	}
	if err := c.parseColumnTypes(v); err != nil {
		return nil, err
	}

	classesVal := v.LookupPath(cue.ParsePath("classes"))
	if !classesVal.Exists() {
		return nil, &CompileError{Field: "classes", Message: "at least one class map is required", Pos: v.Pos()}
	}
	iter, err := classesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	// Class maps first, so refers_to can name any class map.
	var classVals []cue.Value
	for iter.Next() {
		name := iter.Selector().Unquoted()
		cm, err := c.parseClassMap(name, iter.Value())
		if err != nil {
			return nil, err
		}
		c.m.ClassMaps = append(c.m.ClassMaps, cm)
		classVals = append(classVals, iter.Value())
	}
	if len(c.m.ClassMaps) == 0 {
		return nil, &CompileError{Field: "classes", Message: "at least one class map is required", Pos: classesVal.Pos()}
	}

	for i, cm := range c.m.ClassMaps {
		if err := c.parseBridges(cm, classVals[i]); err != nil {
			return nil, err
		}
	}

	return c.m, nil
}

type mappingCompiler struct {
	m *Mapping
}

// parsePrefixes adds the prefixes declared in the mapping to the built-ins.
func (c *mappingCompiler) parsePrefixes(v cue.Value) error {
	prefixesVal := v.LookupPath(cue.ParsePath("prefixes"))
	if !prefixesVal.Exists() {
		return nil
	}
	iter, err := prefixesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		ns, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		c.m.Prefixes[iter.Selector().Unquoted()] = ns
	}
	return nil
}

// parseColumnTypes reads column_types: {"table.column": "int"}.
func (c *mappingCompiler) parseColumnTypes(v cue.Value) error {
	typesVal := v.LookupPath(cue.ParsePath("column_types"))
	if !typesVal.Exists() {
		return nil
	}
	iter, err := typesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		field := "column_types." + name
		attr, err := ir.ParseAttribute(name)
		if err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		typeName, err := iter.Value().String()
		if err != nil {
			return formatCUEError(err)
		}
		ct, err := ir.ParseColumnType(typeName)
		if err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: iter.Value().Pos()}
		}
		c.m.ColumnTypes[attr] = ct
	}
	return nil
}

// parseClassMap compiles everything of a class map except its bridges.
func (c *mappingCompiler) parseClassMap(name string, v cue.Value) (*ClassMap, error) {
	field := "classes." + name

	duplicates := false
	if dupVal := v.LookupPath(cue.ParsePath("contains_duplicates")); dupVal.Exists() {
		b, err := dupVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		duplicates = b
	}

	subject, err := c.parseSubject(field, name, v, !duplicates)
	if err != nil {
		return nil, err
	}

	rel := queryir.NewMutableRelation(queryir.TrueRelation)
	if err := c.parseRelationParts(field, v, rel); err != nil {
		return nil, err
	}

	cm := &ClassMap{
		Name:     name,
		Subject:  subject,
		Relation: rel.Snapshot(),
	}

	classes, err := c.parseURIList(field+".class", v.LookupPath(cue.ParsePath("class")))
	if err != nil {
		return nil, err
	}
	cm.Classes = classes
	rdfType := nodes.NewFixed(ir.NewURI(ir.RDFType))
	for _, class := range classes {
		cm.typeRelations = append(cm.typeRelations,
			algebra.New(cm.Relation, cm.Subject, rdfType, nodes.NewFixed(class)))
	}

	return cm, nil
}

// parseSubject compiles uri_pattern, uri_column or bnode_columns.
func (c *mappingCompiler) parseSubject(field, name string, v cue.Value, unique bool) (nodes.NodeMaker, error) {
	key, val, err := exactlyOne(field, v, subjectKeys)
	if err != nil {
		return nil, err
	}
	field += "." + key

	switch key {
	case "uri_pattern":
		p, err := c.pattern(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(nodes.URIType{}, p, unique), nil
	case "uri_column":
		col, err := c.column(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(nodes.URIType{}, col, unique), nil
	default:
		names, err := stringList(val)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, &CompileError{Field: field, Message: "at least one column is required", Pos: val.Pos()}
		}
		cols := make([]nodes.Column, len(names))
		for i, n := range names {
			attr, err := ir.ParseAttribute(n)
			if err != nil {
				return nil, &CompileError{Field: field, Message: err.Error(), Pos: val.Pos()}
			}
			cols[i] = c.typedColumn(attr)
		}
		return nodes.NewTyped(nodes.BlankType{}, nodes.NewBlankNodeID(name, cols...), unique), nil
	}
}

// parseBridges compiles the properties of a class map.
func (c *mappingCompiler) parseBridges(cm *ClassMap, v cue.Value) error {
	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if !propsVal.Exists() {
		return nil
	}
	iter, err := propsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		b, err := c.parseBridge(cm, iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return err
		}
		cm.Bridges = append(cm.Bridges, b)
	}
	return nil
}

func (c *mappingCompiler) parseBridge(cm *ClassMap, name string, v cue.Value) (*PropertyBridge, error) {
	field := fmt.Sprintf("classes.%s.properties.%s", cm.Name, name)

	propVal := v.LookupPath(cue.ParsePath("property"))
	if !propVal.Exists() {
		return nil, &CompileError{Field: field + ".property", Message: "property is required", Pos: v.Pos()}
	}
	property, err := c.uri(field+".property", propVal)
	if err != nil {
		return nil, err
	}

	rel := queryir.NewMutableRelation(cm.Relation)
	if err := c.parseRelationParts(field, v, rel); err != nil {
		return nil, err
	}

	object, err := c.parseObject(field, v, rel)
	if err != nil {
		return nil, err
	}

	return &PropertyBridge{
		Name:     name,
		ClassMap: cm.Name,
		Property: property,
		Object:   object,
		Relation: algebra.New(rel.Snapshot(), cm.Subject, nodes.NewFixed(property), object),
	}, nil
}

// parseObject compiles the object term of a bridge. refers_to adds the
// target class map's relation to rel.
func (c *mappingCompiler) parseObject(field string, v cue.Value, rel *queryir.MutableRelation) (nodes.NodeMaker, error) {
	key, val, err := exactlyOne(field, v, objectKeys)
	if err != nil {
		return nil, err
	}

	literal, err := c.literalType(field, v)
	if err != nil {
		return nil, err
	}
	if literal != (nodes.LiteralType{}) && key != "column" && key != "pattern" && key != "value" {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("lang and datatype apply to literals, not %s", key),
			Pos:     v.Pos(),
		}
	}

	field += "." + key
	switch key {
	case "column":
		col, err := c.column(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(literal, col, false), nil
	case "pattern":
		p, err := c.pattern(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(literal, p, false), nil
	case "uri_column":
		col, err := c.column(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(nodes.URIType{}, col, false), nil
	case "uri_pattern":
		p, err := c.pattern(field, val)
		if err != nil {
			return nil, err
		}
		return nodes.NewTyped(nodes.URIType{}, p, false), nil
	case "value":
		return c.constant(field, val, literal)
	default:
		target, err := val.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cm, ok := c.m.ClassMap(target)
		if !ok {
			return nil, &CompileError{Field: field, Message: fmt.Sprintf("unknown class map %q", target), Pos: val.Pos()}
		}
		rel.AddAliases(cm.Relation.AliasMap())
		rel.AddJoins(cm.Relation.JoinConditions()...)
		rel.AddCondition(cm.Relation.Condition())
		return cm.Subject, nil
	}
}

// literalType reads the optional lang and datatype of a bridge.
func (c *mappingCompiler) literalType(field string, v cue.Value) (nodes.LiteralType, error) {
	langVal := v.LookupPath(cue.ParsePath("lang"))
	dtVal := v.LookupPath(cue.ParsePath("datatype"))
	if langVal.Exists() && dtVal.Exists() {
		return nodes.LiteralType{}, &CompileError{Field: field, Message: "lang and datatype are mutually exclusive", Pos: v.Pos()}
	}
	switch {
	case langVal.Exists():
		lang, err := langVal.String()
		if err != nil {
			return nodes.LiteralType{}, formatCUEError(err)
		}
		tag, err := languageTag(lang)
		if err != nil {
			return nodes.LiteralType{}, &CompileError{Field: field + ".lang", Message: err.Error(), Pos: langVal.Pos()}
		}
		return nodes.NewLiteralType(tag, ""), nil
	case dtVal.Exists():
		dt, err := c.uri(field+".datatype", dtVal)
		if err != nil {
			return nodes.LiteralType{}, err
		}
		return nodes.NewLiteralType("", dt.Value), nil
	default:
		return nodes.LiteralType{}, nil
	}
}

// constant compiles value: a string, int or bool literal.
func (c *mappingCompiler) constant(field string, v cue.Value, literal nodes.LiteralType) (nodes.NodeMaker, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, _ := v.String()
		n, ok := literal.MakeNode(s)
		if !ok {
			return nil, &CompileError{Field: field, Message: "invalid literal", Pos: v.Pos()}
		}
		return nodes.NewFixed(n), nil
	case cue.IntKind:
		if literal != (nodes.LiteralType{}) {
			return nil, &CompileError{Field: field, Message: "lang and datatype apply to string values only", Pos: v.Pos()}
		}
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return nodes.NewFixed(ir.NewTypedLiteral(strconv.FormatInt(i, 10), ir.XSDNamespace+"integer")), nil
	case cue.BoolKind:
		if literal != (nodes.LiteralType{}) {
			return nil, &CompileError{Field: field, Message: "lang and datatype apply to string values only", Pos: v.Pos()}
		}
		b, _ := v.Bool()
		return nodes.NewFixed(ir.NewTypedLiteral(strconv.FormatBool(b), ir.XSDNamespace+"boolean")), nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("value must be a string, int or bool, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// parseRelationParts adds aliases, joins and conditions to rel.
func (c *mappingCompiler) parseRelationParts(field string, v cue.Value, rel *queryir.MutableRelation) error {
	if aliasVal := v.LookupPath(cue.ParsePath("aliases")); aliasVal.Exists() {
		names, err := stringList(aliasVal)
		if err != nil {
			return err
		}
		aliases := make([]queryir.Alias, len(names))
		for i, s := range names {
			a, err := queryir.ParseAlias(s)
			if err != nil {
				return &CompileError{Field: field + ".aliases", Message: err.Error(), Pos: aliasVal.Pos()}
			}
			aliases[i] = a
		}
		rel.AddAliases(queryir.NewAliasMap(aliases...))
	}

	if joinVal := v.LookupPath(cue.ParsePath("joins")); joinVal.Exists() {
		specs, err := stringList(joinVal)
		if err != nil {
			return err
		}
		for _, s := range specs {
			j, err := queryir.ParseJoin(s)
			if err != nil {
				return &CompileError{Field: field + ".joins", Message: err.Error(), Pos: joinVal.Pos()}
			}
			rel.AddJoins(j)
		}
	}

	condVal := v.LookupPath(cue.ParsePath("conditions"))
	if !condVal.Exists() {
		return nil
	}
	iter, err := condVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		cond, err := c.condition(fmt.Sprintf("%s.conditions[%d]", field, i), iter.Value())
		if err != nil {
			return err
		}
		rel.AddCondition(cond)
	}
	return nil
}

// condition compiles {column, value} or {column, not_null: true}.
func (c *mappingCompiler) condition(field string, v cue.Value) (queryir.Expression, error) {
	colVal := v.LookupPath(cue.ParsePath("column"))
	if !colVal.Exists() {
		return nil, &CompileError{Field: field + ".column", Message: "column is required", Pos: v.Pos()}
	}
	col, err := c.column(field+".column", colVal)
	if err != nil {
		return nil, err
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	notNullVal := v.LookupPath(cue.ParsePath("not_null"))
	switch {
	case valueVal.Exists() && notNullVal.Exists():
		return nil, &CompileError{Field: field, Message: "value and not_null are mutually exclusive", Pos: v.Pos()}
	case notNullVal.Exists():
		b, err := notNullVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !b {
			return queryir.True{}, nil
		}
		return queryir.NotNull{Attr: col.Attr}, nil
	case !valueVal.Exists():
		return nil, &CompileError{Field: field, Message: "value or not_null is required", Pos: v.Pos()}
	}

	value, err := conditionValue(col.Type, valueVal)
	if err != nil {
		return nil, &CompileError{Field: field + ".value", Message: err.Error(), Pos: valueVal.Pos()}
	}
	return queryir.Equals{Attr: col.Attr, Value: value}, nil
}

// conditionValue converts a CUE constant to a value of the column's type.
func conditionValue(t ir.ColumnType, v cue.Value) (ir.IRValue, error) {
	switch {
	case t == ir.ColumnText && v.Kind() == cue.StringKind:
		s, _ := v.String()
		return ir.NewIRString(s), nil
	case t == ir.ColumnInt && v.Kind() == cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, err
		}
		return ir.NewIRInt(i), nil
	case t == ir.ColumnBool && v.Kind() == cue.BoolKind:
		b, _ := v.Bool()
		return ir.NewIRBool(b), nil
	default:
		return nil, fmt.Errorf("%v value does not match column type %s", v.IncompleteKind(), t)
	}
}

func (c *mappingCompiler) typedColumn(attr ir.Attribute) nodes.Column {
	return nodes.Column{Attr: attr, Type: c.m.ColumnTypes[attr]}
}

// column parses a "table.column" string.
func (c *mappingCompiler) column(field string, v cue.Value) (nodes.Column, error) {
	s, err := v.String()
	if err != nil {
		return nodes.Column{}, formatCUEError(err)
	}
	attr, err := ir.ParseAttribute(s)
	if err != nil {
		return nodes.Column{}, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return c.typedColumn(attr), nil
}

// pattern parses a "{table.column}" template.
func (c *mappingCompiler) pattern(field string, v cue.Value) (nodes.Pattern, error) {
	s, err := v.String()
	if err != nil {
		return nodes.Pattern{}, formatCUEError(err)
	}
	p, err := nodes.NewPattern(s, c.m.ColumnTypes)
	if err != nil {
		return nodes.Pattern{}, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return p, nil
}

// uri parses a URI or prefixed name.
func (c *mappingCompiler) uri(field string, v cue.Value) (ir.URI, error) {
	s, err := v.String()
	if err != nil {
		return ir.URI{}, formatCUEError(err)
	}
	u, err := expandURI(c.m.Prefixes, s)
	if err != nil {
		return ir.URI{}, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return u, nil
}

// parseURIList parses an optional URI or list of URIs.
func (c *mappingCompiler) parseURIList(field string, v cue.Value) ([]ir.URI, error) {
	if !v.Exists() {
		return nil, nil
	}
	names, err := stringList(v)
	if err != nil {
		return nil, err
	}
	uris := make([]ir.URI, len(names))
	for i, s := range names {
		u, err := expandURI(c.m.Prefixes, s)
		if err != nil {
			return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
		}
		uris[i] = u
	}
	return uris, nil
}

// exactlyOne finds the single key of keys present in v.
func exactlyOne(field string, v cue.Value, keys []string) (string, cue.Value, error) {
	var (
		found    string
		foundVal cue.Value
	)
	for _, k := range keys {
		kv := v.LookupPath(cue.ParsePath(k))
		if !kv.Exists() {
			continue
		}
		if found != "" {
			return "", cue.Value{}, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("%s and %s are mutually exclusive", found, k),
				Pos:     kv.Pos(),
			}
		}
		found, foundVal = k, kv
	}
	if found == "" {
		return "", cue.Value{}, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("one of %v is required", keys),
			Pos:     v.Pos(),
		}
	}
	return found, foundVal, nil
}

// stringList reads a string or a list of strings.
func stringList(v cue.Value) ([]string, error) {
	if s, err := v.String(); err == nil {
		return []string{s}, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
