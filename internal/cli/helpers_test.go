package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/store"
	"github.com/roach88/relrdf/internal/testutil"
)

var (
	staffMappingDir = filepath.Join("..", "harness", "testdata", "staff")
	scenariosDir    = filepath.Join("..", "harness", "testdata", "scenarios")
	goldenDir       = filepath.Join("..", "harness", "testdata", "golden")
)

const (
	aliceName = `<http://example.org/person/1> <http://xmlns.com/foaf/0.1/name> "Alice" .`
	bobName   = `<http://example.org/person/2> <http://xmlns.com/foaf/0.1/name> "Bob" .`
)

// staffDB writes the staff fixture to a database file and returns its path.
func staffDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staff.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Exec(context.Background(), testutil.StaffSchema+testutil.StaffData))
	require.NoError(t, s.Close())
	return path
}

// writeMapping writes src as a one-file CUE package and returns its dir.
func writeMapping(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	src = "package mapping\n" + src
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mapping.cue"), []byte(src), 0644))
	return dir
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
