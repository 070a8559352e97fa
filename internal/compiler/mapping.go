package compiler

import (
	"github.com/roach88/relrdf/internal/algebra"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/nodes"
	"github.com/roach88/relrdf/internal/queryir"
)

// Mapping is a compiled mapping definition: the class maps describing how
// rows become resources, and the triple relations they produce.
type Mapping struct {
	// Prefixes maps prefix names to namespace URIs, built-ins included.
	Prefixes map[string]string

	// ColumnTypes declares non-text columns. Unlisted columns are text.
	ColumnTypes map[ir.Attribute]ir.ColumnType

	// ClassMaps in declaration order.
	ClassMaps []*ClassMap
}

// ClassMap describes the resources made from the rows of one relation.
type ClassMap struct {
	Name string

	// Subject makes the resource of each row.
	Subject nodes.NodeMaker

	// Relation holds the class map's aliases, joins and conditions; every
	// property bridge of the class map starts from it.
	Relation *queryir.Relation

	// Classes are the rdf:type values of every resource.
	Classes []ir.URI

	// Bridges in declaration order.
	Bridges []*PropertyBridge

	typeRelations []*algebra.TripleRelation
}

// PropertyBridge relates the resources of a class map to the values of one
// property.
type PropertyBridge struct {
	Name     string
	ClassMap string
	Property ir.URI

	// Object makes the property value of each row.
	Object nodes.NodeMaker

	// Relation is the compiled triple relation of the bridge.
	Relation *algebra.TripleRelation
}

// TypeRelations returns one rdf:type triple relation per class.
func (cm *ClassMap) TypeRelations() []*algebra.TripleRelation {
	return cm.typeRelations
}

// Relations returns every triple relation of the mapping: for each class
// map in order, its rdf:type relations followed by its property bridges.
func (m *Mapping) Relations() []*algebra.TripleRelation {
	var rels []*algebra.TripleRelation
	for _, cm := range m.ClassMaps {
		rels = append(rels, cm.typeRelations...)
		for _, b := range cm.Bridges {
			rels = append(rels, b.Relation)
		}
	}
	return rels
}

// ClassMap returns the class map with the given name.
func (m *Mapping) ClassMap(name string) (*ClassMap, bool) {
	for _, cm := range m.ClassMaps {
		if cm.Name == name {
			return cm, true
		}
	}
	return nil, false
}
