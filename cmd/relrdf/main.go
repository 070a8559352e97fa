// Command relrdf exposes a relational database as RDF triples through a
// CUE mapping.
//
// Usage:
//
//	relrdf validate <mapping-dir> [--db file]
//	relrdf sql      <mapping-dir> [--s term] [--p term] [--o term]
//	relrdf find     <mapping-dir> --db file [--s term] [--p term] [--o term]
//	relrdf dump     <mapping-dir> --db file
//	relrdf test     <scenarios-dir> [--update]
package main

import (
	"fmt"
	"os"

	"github.com/roach88/relrdf/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "relrdf:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
