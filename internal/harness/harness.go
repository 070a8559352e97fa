package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/relrdf/internal/compiler"
	"github.com/roach88/relrdf/internal/engine"
	"github.com/roach88/relrdf/internal/ir"
	"github.com/roach88/relrdf/internal/store"
	"github.com/roach88/relrdf/internal/testutil"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	mapping *compiler.Mapping
	engine  *engine.Engine
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sends engine logs to logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Execute setup scripts
// 3. Load and compile the mapping
// 4. Run each query and check its expectations
//
// A returned error means the scenario could not run. Failed expectations
// are reported in Result.Errors instead.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	for i, script := range scenario.Setup {
		if err := st.Exec(ctx, script); err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
	}

	m, err := compiler.LoadDir(scenario.Mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping %s: %w", scenario.Mapping, err)
	}

	engineOpts := []engine.EngineOption{
		engine.WithQueryIDGenerator(testutil.NewSequentialQueryIDs(scenario.QueryIDPrefix)),
		engine.WithLogger(cfg.logger),
	}
	if scenario.Limit > 0 {
		engineOpts = append(engineOpts, engine.WithLimit(scenario.Limit))
	}

	h := &Harness{
		mapping: m,
		engine:  engine.New(st, m.Relations(), engineOpts...),
	}

	result := NewResult()
	for _, q := range scenario.Queries {
		qr, err := h.runQuery(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		result.Queries = append(result.Queries, qr)
		for _, msg := range EvaluateQuery(q, qr) {
			result.AddError(msg)
		}
	}

	return result, nil
}

func (h *Harness) runQuery(ctx context.Context, q Query) (QueryResult, error) {
	pattern, err := h.pattern(q.Pattern)
	if err != nil {
		return QueryResult{}, err
	}

	triples, err := h.engine.Find(ctx, pattern)
	if err != nil {
		return QueryResult{}, err
	}

	lines := make([]string, len(triples))
	for i, t := range triples {
		lines[i] = t.String()
	}
	return QueryResult{
		Name:    q.Name,
		Pattern: pattern.String(),
		Triples: lines,
	}, nil
}

// pattern parses the query terms with the mapping's prefixes.
func (h *Harness) pattern(spec PatternSpec) (ir.Pattern, error) {
	var terms [3]ir.Node
	for i, s := range []string{spec.S, spec.P, spec.O} {
		n, err := compiler.ParseTerm(h.mapping.Prefixes, s)
		if err != nil {
			return ir.Pattern{}, fmt.Errorf("pattern %s: %w", [...]string{"s", "p", "o"}[i], err)
		}
		terms[i] = n
	}
	return ir.NewPattern(terms[0], terms[1], terms[2]), nil
}
