package store

import (
	"context"
	"path/filepath"
	"testing"
)

const peopleFixture = `
CREATE TABLE depts (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE people (
	id INTEGER PRIMARY KEY,
	name TEXT,
	dept INTEGER REFERENCES depts(id),
	active BOOLEAN NOT NULL DEFAULT 1,
	score REAL
);
INSERT INTO depts (id, name) VALUES (1, 'Research'), (2, 'Sales');
INSERT INTO people (id, name, dept, active, score) VALUES
	(1, 'Alice', 1, 1, 4.5),
	(2, 'Bob', 2, 0, NULL),
	(3, NULL, 1, 1, NULL);
`

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createPeopleStore creates an in-memory store loaded with peopleFixture.
func createPeopleStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Exec(context.Background(), peopleFixture); err != nil {
		t.Fatalf("Exec() fixture failed: %v", err)
	}
	return s
}
