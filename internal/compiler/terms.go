package compiler

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/roach88/relrdf/internal/ir"
)

var builtinPrefixes = map[string]string{
	"rdf":  ir.RDFNamespace,
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":  ir.XSDNamespace,
}

func defaultPrefixes() map[string]string {
	return maps.Clone(builtinPrefixes)
}

// expandURI resolves a mapping term to a URI. Accepted forms:
//
//	<http://example.org/x>   bracketed URI
//	http://example.org/x     absolute URI
//	foaf:name                prefixed name
func expandURI(prefixes map[string]string, s string) (ir.URI, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = s[1 : len(s)-1]
		if s == "" {
			return ir.URI{}, fmt.Errorf("empty URI")
		}
		return ir.NewURI(s), nil
	}
	if strings.Contains(s, "://") || strings.HasPrefix(s, "urn:") {
		return ir.NewURI(s), nil
	}

	prefix, local, ok := strings.Cut(s, ":")
	if !ok {
		return ir.URI{}, fmt.Errorf("%q is neither a URI nor a prefixed name", s)
	}
	ns, known := prefixes[prefix]
	if !known {
		return ir.URI{}, fmt.Errorf("unknown prefix %q in %q", prefix, s)
	}
	return ir.NewURI(ns + local), nil
}

// ParseTerm parses one position of a triple pattern. Accepted forms:
//
//	ANY  ?  *  (or empty)            wildcard
//	<http://example.org/x>           URI
//	foaf:name                        prefixed name
//	a                                rdf:type
//	_:label                          blank node
//	"text"  "text"@en  "1"^^xsd:int  literal
func ParseTerm(prefixes map[string]string, s string) (ir.Node, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "", s == "?", s == "*", strings.EqualFold(s, "ANY"):
		return ir.Any, nil
	case s == "a":
		return ir.NewURI(ir.RDFType), nil
	case strings.HasPrefix(s, "_:"):
		if len(s) == 2 {
			return nil, fmt.Errorf("empty blank node label")
		}
		return ir.NewBlankNode(s[2:]), nil
	case strings.HasPrefix(s, `"`):
		return parseLiteral(prefixes, s)
	}
	return expandURI(prefixes, s)
}

func parseLiteral(prefixes map[string]string, s string) (ir.Node, error) {
	end := closingQuote(s)
	if end < 0 {
		return nil, fmt.Errorf("unterminated literal %s", s)
	}
	lexical, err := strconv.Unquote(s[:end+1])
	if err != nil {
		return nil, fmt.Errorf("literal %s: %w", s[:end+1], err)
	}

	rest := s[end+1:]
	switch {
	case rest == "":
		return ir.NewLiteral(lexical, ""), nil
	case strings.HasPrefix(rest, "@"):
		if len(rest) == 1 {
			return nil, fmt.Errorf("empty language tag in %s", s)
		}
		tag, err := languageTag(rest[1:])
		if err != nil {
			return nil, fmt.Errorf("literal %s: %w", s, err)
		}
		return ir.NewLiteral(lexical, tag), nil
	case strings.HasPrefix(rest, "^^"):
		dt, err := expandURI(prefixes, rest[2:])
		if err != nil {
			return nil, fmt.Errorf("datatype of %s: %w", s, err)
		}
		return ir.NewTypedLiteral(lexical, dt.Value), nil
	}
	return nil, fmt.Errorf("unexpected %q after literal", rest)
}

// languageTag checks that tag is a well-formed BCP 47 language tag and
// returns it lower-cased. Well-formed tags with unregistered subtags are
// accepted.
func languageTag(tag string) (string, error) {
	if _, err := language.Parse(tag); err != nil {
		var unknown language.ValueError
		if !errors.As(err, &unknown) {
			return "", fmt.Errorf("invalid language tag %q", tag)
		}
	}
	return strings.ToLower(tag), nil
}

// closingQuote returns the index of the quote ending the string that opens s.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
