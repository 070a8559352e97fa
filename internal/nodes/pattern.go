package nodes

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/queryir"
)

// Pattern builds values from a template with column references:
//
//	http://example.org/person/{people.id}
//	http://example.org/tag/{tags.label|urlencode}
//
// The urlencode function percent-encodes the column value as a URI path
// segment.
//
// A value can split across the column references in more than one way
// when a literal separator also occurs inside a column value:
// http://ex/{t.a}-{t.b} renders both a=1-2,b=3 and a=1,b=2-3 as
// http://ex/1-2-3. ValueExpression selects the rows of every split.
type Pattern struct {
	parts []patternPart
}

type patternPart struct {
	literal  string
	isColumn bool
	column   Column
	encode   bool
}

const urlencodeFunc = "urlencode"

// NewPattern parses a template. types gives the column type of
// referenced columns; unlisted columns are text. types may be nil.
func NewPattern(template string, types map[ir.Attribute]ir.ColumnType) (Pattern, error) {
	var parts []patternPart
	rest := template
	columns := 0
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return Pattern{}, fmt.Errorf("invalid pattern %q: unmatched '}'", template)
			}
			parts = append(parts, patternPart{literal: rest})
			break
		}
		if open > 0 {
			if strings.IndexByte(rest[:open], '}') >= 0 {
				return Pattern{}, fmt.Errorf("invalid pattern %q: unmatched '}'", template)
			}
			parts = append(parts, patternPart{literal: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return Pattern{}, fmt.Errorf("invalid pattern %q: unterminated '{'", template)
		}
		ref := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		name, fn, hasFn := strings.Cut(ref, "|")
		if hasFn && fn != urlencodeFunc {
			return Pattern{}, fmt.Errorf("invalid pattern %q: unknown function %q", template, fn)
		}
		attr, err := ir.ParseAttribute(name)
		if err != nil {
			return Pattern{}, fmt.Errorf("invalid pattern %q: %w", template, err)
		}
		parts = append(parts, patternPart{
			isColumn: true,
			column:   Column{Attr: attr, Type: types[attr]},
			encode:   hasFn,
		})
		columns++
	}
	if columns == 0 {
		return Pattern{}, fmt.Errorf("invalid pattern %q: no column references", template)
	}
	return Pattern{parts: parts}, nil
}

// MustPattern is NewPattern for templates known to be valid.
func MustPattern(template string, types map[ir.Attribute]ir.ColumnType) Pattern {
	p, err := NewPattern(template, types)
	if err != nil {
		panic(err)
	}
	return p
}

// MakeValue fills the template from row.
func (p Pattern) MakeValue(row ir.ResultRow) (string, bool) {
	var sb strings.Builder
	for _, part := range p.parts {
		if !part.isColumn {
			sb.WriteString(part.literal)
			continue
		}
		v, ok := part.column.MakeValue(row)
		if !ok {
			return "", false
		}
		if part.encode {
			v = url.PathEscape(v)
		}
		sb.WriteString(v)
	}
	return sb.String(), true
}

// ProjectionColumns returns the referenced columns.
func (p Pattern) ProjectionColumns() []ir.Attribute {
	var attrs []ir.Attribute
	for _, part := range p.parts {
		if part.isColumn {
			attrs = append(attrs, part.column.Attr)
		}
	}
	return ir.UnionAttributes(attrs)
}

// ValueExpression selects the rows whose columns render value: the
// disjunction, over every split of value across the column references,
// of each column compared with its part.
func (p Pattern) ValueExpression(value string) (queryir.Expression, bool) {
	return splitsExpression(p.parts, value)
}

// RenameColumns renames the referenced columns.
func (p Pattern) RenameColumns(r queryir.ColumnRenamer) ValueMaker {
	parts := make([]patternPart, len(p.parts))
	for i, part := range p.parts {
		if part.isColumn {
			part.column = Column{Attr: r.RenameAttribute(part.column.Attr), Type: part.column.Type}
		}
		parts[i] = part
	}
	return Pattern{parts: parts}
}

// Template returns the template text.
func (p Pattern) Template() string {
	var sb strings.Builder
	for _, part := range p.parts {
		if !part.isColumn {
			sb.WriteString(part.literal)
			continue
		}
		sb.WriteString("{")
		sb.WriteString(part.column.Attr.QualifiedName())
		if part.encode {
			sb.WriteString("|" + urlencodeFunc)
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func (p Pattern) String() string {
	return "Pattern(" + p.Template() + ")"
}

// maxSplits bounds the splits ValueExpression enumerates for one value.
const maxSplits = 64

// splitsExpression builds the condition for value over parts. Past
// maxSplits it gives up on exactness and returns the NOT NULL condition
// on every column with exact set to false.
func splitsExpression(parts []patternPart, value string) (queryir.Expression, bool) {
	splits, complete := splitValue(parts, value)
	if !complete {
		var exprs []queryir.Expression
		for _, part := range parts {
			if part.isColumn {
				exprs = append(exprs, queryir.NotNull{Attr: part.column.Attr})
			}
		}
		return queryir.Conjunction(exprs...), false
	}

	alts := make([]queryir.Expression, 0, len(splits))
	for _, split := range splits {
		alts = append(alts, splitExpression(parts, split))
	}
	return queryir.Disjunction(alts...), true
}

// splitExpression compares each column with its raw part of a split.
func splitExpression(parts []patternPart, split []string) queryir.Expression {
	exprs := make([]queryir.Expression, 0, len(split))
	i := 0
	for _, part := range parts {
		if !part.isColumn {
			continue
		}
		raw := split[i]
		i++
		if part.encode {
			decoded, err := url.PathUnescape(raw)
			// Only the canonical encoding is ever produced.
			if err != nil || url.PathEscape(decoded) != raw {
				return queryir.False{}
			}
			raw = decoded
		}
		exprs = append(exprs, part.column.equals(raw))
	}
	return queryir.Conjunction(exprs...)
}

// splitValue returns every assignment of substrings of value to the
// column parts that reproduces value together with the literal parts.
// complete is false when there are more than maxSplits.
func splitValue(parts []patternPart, value string) (splits [][]string, complete bool) {
	complete = true
	cur := make([]string, 0, len(parts))

	var walk func(i int, rest string)
	walk = func(i int, rest string) {
		if !complete {
			return
		}
		if i == len(parts) {
			if rest != "" {
				return
			}
			if len(splits) == maxSplits {
				complete = false
				return
			}
			splits = append(splits, slices.Clone(cur))
			return
		}

		part := parts[i]
		if !part.isColumn {
			if strings.HasPrefix(rest, part.literal) {
				walk(i+1, rest[len(part.literal):])
			}
			return
		}

		first := 0
		if i == len(parts)-1 {
			first = len(rest)
		}
		for end := first; end <= len(rest); end++ {
			if end < len(rest) && !utf8.RuneStart(rest[end]) {
				continue
			}
			cur = append(cur, rest[:end])
			walk(i+1, rest[end:])
			cur = cur[:len(cur)-1]
		}
	}
	walk(0, value)
	return splits, complete
}
