package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/relrdf/internal/engine"
)

// FindOptions holds flags for the find and dump commands.
type FindOptions struct {
	*RootOptions
	PatternOptions
	Database   string
	Limit      int
	MaxTriples int
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <mapping-dir>",
		Short: "Find triples matching a pattern",
		Long: `Find the virtual triples matching a pattern and print them as N-Triples.

Bound terms are pushed down into the SQL, so only rows that can match are
read. Output is sorted and free of duplicates.

Examples:
  relrdf find ./mapping --db ./company.db --p foaf:name
  relrdf find ./mapping --db ./company.db --s ex:person/1
  relrdf find ./mapping --db ./company.db --o '"Sales"@en' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	opts.PatternOptions.register(cmd.Flags())
	registerFindFlags(cmd, opts)

	return cmd
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <mapping-dir>",
		Short: "Dump every triple the mapping produces",
		Long: `Print the whole virtual graph as sorted N-Triples.

Examples:
  relrdf dump ./mapping --db ./company.db > graph.nt
  relrdf dump ./mapping --db ./company.db --max-triples 100000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	registerFindFlags(cmd, opts)

	return cmd
}

func registerFindFlags(cmd *cobra.Command, opts *FindOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "max rows read per relation (0 = none)")
	cmd.Flags().IntVar(&opts.MaxTriples, "max-triples", 0, "fail when more triples match (0 = no quota)")
	_ = cmd.MarkFlagRequired("db")
}

func runFind(opts *FindOptions, mappingDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := LoadMapping(mappingDir)
	if err != nil {
		code, msg := loadErrorCode(err)
		return formatter.Fail(ExitCommandError, code, msg)
	}

	// Unset terms are wildcards, so dump is find with no pattern flags.
	pattern, err := opts.PatternOptions.Pattern(loaded.Mapping)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodePattern, err.Error())
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error())
	}
	defer st.Close()

	eng := engine.New(st, loaded.Mapping.Relations(),
		engine.WithLimit(opts.Limit),
		engine.WithMaxTriples(opts.MaxTriples),
	)
	triples, err := eng.Find(cmd.Context(), pattern)
	if engine.IsTriplesExceededError(err) {
		return formatter.Fail(ExitFailure, ErrCodeQuota, err.Error())
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeQuery, err.Error())
	}

	return formatter.Triples(pattern, triples)
}
