package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relrdf/internal/engine"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	PatternOptions
	Prefix int
	Limit  int
}

// StatementOutput is one planned statement in JSON output.
type StatementOutput struct {
	Relation int      `json:"relation"`
	Unique   bool     `json:"unique"`
	Columns  []string `json:"columns"`
	SQL      string   `json:"sql"`
	Params   []any    `json:"params"`
}

// SQLResult holds the statements planned for a pattern.
type SQLResult struct {
	Pattern    string            `json:"pattern"`
	Statements []StatementOutput `json:"statements"`
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql <mapping-dir>",
		Short: "Show the SQL a pattern compiles to",
		Long: `Show the SQL statements a triple pattern compiles to, without a database.

Relations the pattern cannot match are left out. --prefix aliases every
table as T<n>_<table>, the way one occurrence in a larger query would be.

Terms: ANY (or omitted), <uri>, prefix:name, a, _:label, "text",
"text"@lang, "text"^^datatype.

Examples:
  relrdf sql ./mapping --p foaf:name
  relrdf sql ./mapping --s '<http://example.org/person/1>' --prefix 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, args[0], cmd)
		},
	}

	opts.PatternOptions.register(cmd.Flags())
	cmd.Flags().IntVar(&opts.Prefix, "prefix", engine.NoPrefix, "alias tables with this occurrence index")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "add LIMIT to each statement (0 = none)")

	return cmd
}

func runSQL(opts *SQLOptions, mappingDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Prefix < engine.NoPrefix {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid --prefix %d", opts.Prefix))
	}

	loaded, err := LoadMapping(mappingDir)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.Fail(ExitCommandError, code, msg)
	}

	pattern, err := opts.PatternOptions.Pattern(loaded.Mapping)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodePattern, err.Error())
	}

	// Planning never touches the database.
	eng := engine.New(nil, loaded.Mapping.Relations(), engine.WithLimit(opts.Limit))
	stmts, err := eng.Plan(pattern, opts.Prefix)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeQuery, err.Error())
	}
	formatter.VerboseLog("%d of %d relation(s) can match %s", len(stmts), len(eng.Relations()), pattern)

	result := SQLResult{
		Pattern:    pattern.String(),
		Statements: make([]StatementOutput, len(stmts)),
	}
	for i, st := range stmts {
		cols := make([]string, len(st.Columns))
		for j, c := range st.Columns {
			cols[j] = c.QualifiedName()
		}
		params := st.Params
		if params == nil {
			params = []any{}
		}
		result.Statements[i] = StatementOutput{
			Relation: st.Relation,
			Unique:   st.Selected.IsUnique(),
			Columns:  cols,
			SQL:      st.SQL,
			Params:   params,
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Statements) == 0 {
		fmt.Fprintf(w, "-- no relation can match %s\n", result.Pattern)
		return nil
	}
	for i, st := range result.Statements {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "-- relation %d\n", st.Relation)
		fmt.Fprintf(w, "%s;\n", st.SQL)
		if len(st.Params) > 0 {
			fmt.Fprintf(w, "-- params: %v\n", st.Params)
		}
	}
	return nil
}
