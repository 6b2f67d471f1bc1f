package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temp directory.
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

// createTestJob creates a job with minimal required fields. Jobs with the
// same paramsHash share parameters.
func createTestJob(id, paramsHash string, n int) Job {
	return Job{
		ID:          id,
		Name:        "resin",
		ParamsHash:  paramsHash,
		Params:      fmt.Sprintf(`{"loop_count":%d}`, 30+n),
		LoopCount:   30 + n,
		Motion:      "four-segment",
		Output:      fmt.Sprintf("/tmp/stir-%d.gcode", n),
		ProgramHash: fmt.Sprintf("program-%d", n),
		SizeBytes:   int64(1000 + n),
		CreatedAt:   testEpoch.Add(time.Duration(n) * time.Minute),
	}
}
