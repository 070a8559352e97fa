package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/relrdf/internal/algebra"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/querysql"
	"github.com/roach88/relrdf/internal/store"
)

// QueryIDGenerator generates IDs correlating the log records of one Find call.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type QueryIDGenerator interface {
	Generate() string
}

// NoPrefix disables table aliasing in Plan.
const NoPrefix = -1

// Engine evaluates triple patterns against a fixed set of triple relations.
//
// Each relation is narrowed to the pattern with SelectTriple, compiled to
// one SQL statement and executed; rows are turned into triples with
// MakeTriples. Relations the pattern cannot match never reach the database.
//
// Thread-safety: the relation set never changes after construction, so
// Find, FindFunc and Plan may be called from any goroutine. Concurrent
// queries are serialized by the store's single connection.
type Engine struct {
	store      *store.Store
	relations  []*algebra.TripleRelation
	idGen      QueryIDGenerator
	limit      int
	maxTriples int
	logger     *slog.Logger
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithQueryIDGenerator sets the generator for query IDs.
// Default: UUIDv7Generator.
func WithQueryIDGenerator(gen QueryIDGenerator) EngineOption {
	return func(e *Engine) {
		e.idGen = gen
	}
}

// WithLimit caps the number of rows fetched per relation.
// Zero (the default) means no limit.
func WithLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.limit = limit
	}
}

// WithMaxTriples fails a Find call with TriplesExceededError once it
// produces more than max distinct triples. Zero (the default) means no quota.
func WithMaxTriples(max int) EngineOption {
	return func(e *Engine) {
		e.maxTriples = max
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine over the given store and relations.
//
// The relations slice is copied; evaluation visits relations in the given
// order, which is the order statements are planned and executed in.
func New(s *store.Store, relations []*algebra.TripleRelation, opts ...EngineOption) *Engine {
	e := &Engine{
		store:     s,
		relations: slices.Clone(relations),
		idGen:     UUIDv7Generator{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Relations returns the engine's triple relations in evaluation order.
func (e *Engine) Relations() []*algebra.TripleRelation {
	return slices.Clone(e.relations)
}

// Statement is the SQL evaluating one relation against a pattern.
type Statement struct {
	// Relation is the index of the source relation in the engine.
	Relation int

	// Selected is the relation narrowed to the pattern.
	Selected *algebra.TripleRelation

	// Columns are the selected columns in SELECT order.
	Columns []ir.Attribute

	SQL    string
	Params []any
}

// Plan narrows every relation to the pattern and compiles the survivors.
//
// Relations that cannot produce a matching triple are left out. When
// prefix is not NoPrefix, each selected relation is renamed with
// WithPrefix(prefix) before compiling, as a caller combining several
// statements into one query would.
//
// DISTINCT is requested only for relations that are not known to produce
// each triple at most once.
func (e *Engine) Plan(pattern ir.Pattern, prefix int) ([]Statement, error) {
	return e.plan("", pattern, prefix)
}

func (e *Engine) plan(queryID string, pattern ir.Pattern, prefix int) ([]Statement, error) {
	var stmts []Statement
	for i, rel := range e.relations {
		sel := rel.SelectTriple(pattern)
		if sel.IsEmpty() {
			continue
		}
		if prefix != NoPrefix {
			sel = sel.WithPrefix(prefix)
		}

		cols := ir.UnionAttributes(sel.ProjectionColumns())
		c := querysql.SQLCompiler{Distinct: !sel.IsUnique(), Limit: e.limit}
		query, params, err := c.Compile(sel.BaseRelation(), cols)
		if err != nil {
			return nil, NewCompileError(queryID, i, err)
		}
		stmts = append(stmts, Statement{
			Relation: i,
			Selected: sel,
			Columns:  cols,
			SQL:      query,
			Params:   params,
		})
	}
	return stmts, nil
}

// FindFunc streams the triples matching pattern to fn.
//
// Triples arrive grouped by relation, in each statement's row order, and
// each distinct triple is delivered once. Evaluation stops at the first
// error returned by fn, which FindFunc returns unwrapped, or when the
// triple quota is exceeded.
func (e *Engine) FindFunc(ctx context.Context, pattern ir.Pattern, fn func(ir.Triple) error) error {
	queryID := e.idGen.Generate()
	log := e.logger.With("query_id", queryID)

	stmts, err := e.plan(queryID, pattern, NoPrefix)
	if err != nil {
		return err
	}
	log.Debug("pattern planned",
		"pattern", pattern.String(),
		"relations", len(e.relations),
		"statements", len(stmts),
	)

	var quota *TripleQuota
	if e.maxTriples > 0 {
		quota = NewTripleQuota(e.maxTriples)
	}

	seen := make(map[ir.Triple]struct{})
	total := 0
	for _, stmt := range stmts {
		rows, produced := 0, 0
		var stopErr error
		err := e.store.QueryRows(ctx, stmt.SQL, stmt.Params, stmt.Columns, func(row ir.ResultRow) error {
			rows++
			for _, t := range stmt.Selected.MakeTriples(row) {
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				if quota != nil {
					if err := quota.Check(queryID); err != nil {
						log.Warn("triple quota exceeded", "relation", stmt.Relation, "limit", quota.Max())
						stopErr = err
						return err
					}
				}
				produced++
				if err := fn(t); err != nil {
					stopErr = err
					return err
				}
			}
			return nil
		})
		if stopErr != nil {
			return stopErr
		}
		if err != nil {
			if errors.Is(err, store.ErrScan) {
				return NewScanError(queryID, stmt.Relation, err)
			}
			return NewQueryError(queryID, stmt.Relation, err)
		}
		log.Debug("relation evaluated",
			"relation", stmt.Relation,
			"rows", rows,
			"triples", produced,
		)
		total += produced
	}

	log.Info("find complete", "pattern", pattern.String(), "triples", total)
	return nil
}

// Find returns the distinct triples matching pattern, sorted by their
// N-Triples text. The result is never nil.
func (e *Engine) Find(ctx context.Context, pattern ir.Pattern) ([]ir.Triple, error) {
	triples := []ir.Triple{}
	err := e.FindFunc(ctx, pattern, func(t ir.Triple) error {
		triples = append(triples, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortTriples(triples)
	return triples, nil
}

// Dump returns every triple the relations produce.
func (e *Engine) Dump(ctx context.Context) ([]ir.Triple, error) {
	return e.Find(ctx, ir.NewPattern(ir.Any, ir.Any, ir.Any))
}

// SortTriples sorts triples in place by their N-Triples text.
func SortTriples(triples []ir.Triple) {
	slices.SortFunc(triples, func(a, b ir.Triple) int {
		return strings.Compare(a.String(), b.String())
	})
}
