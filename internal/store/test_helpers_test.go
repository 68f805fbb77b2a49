package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/testutil"
)

// createTestStore creates a new store in a temp dir with deterministic IDs
// and seq values.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(testutil.NewSequentialIDGenerator()),
		WithClock(testutil.NewDeterministicClock()),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const scenarioCSV = "name,option,,code/x,code/y\n\"Bob\",\"yes\",\"\",\"5\",\"7\"\n"

// createTestResult ingests csv against the Person and Coded test types.
func createTestResult(t *testing.T, csv string) *ingest.Result {
	t.Helper()
	in, err := ingest.New(testutil.PersonType(), testutil.CodeType(), ingest.Options{})
	if err != nil {
		t.Fatalf("ingest.New() failed: %v", err)
	}
	res, err := in.Read("test.csv", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	return res
}

// createTestInput describes csv as the only input file.
func createTestInput(csv string) Input {
	return Input{
		Types:      []byte(testutil.TypesCUE),
		SourceType: "Person",
		TargetType: "Coded",
		Files:      []FileInput{{Path: "people.csv", Content: []byte(csv)}},
	}
}
