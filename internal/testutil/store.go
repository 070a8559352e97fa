package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relrdf/internal/store"
)

// StaffSchema is a small personnel database shared by tests across packages.
const StaffSchema = `
CREATE TABLE depts (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE people (
	id INTEGER PRIMARY KEY,
	name TEXT,
	dept INTEGER REFERENCES depts(id),
	boss INTEGER REFERENCES people(id),
	active BOOLEAN NOT NULL DEFAULT 1
);
`

// StaffData fills StaffSchema. Carol has no name and Dave is inactive.
const StaffData = `
INSERT INTO depts (id, name) VALUES (1, 'Research'), (2, 'Sales');
INSERT INTO people (id, name, dept, boss, active) VALUES
	(1, 'Alice', 1, NULL, 1),
	(2, 'Bob',   2, 1,    1),
	(3, NULL,    1, 1,    1),
	(4, 'Dave',  2, 2,    0);
`

// OpenStore opens an in-memory store, runs each script in order and closes
// the store when the test ends.
func OpenStore(t testing.TB, scripts ...string) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, script := range scripts {
		require.NoError(t, s.Exec(context.Background(), script))
	}
	return s
}
