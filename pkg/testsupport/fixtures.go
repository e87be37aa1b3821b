package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadFixture reads a fixture file, failing the test when it is missing.
func LoadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	if err := json.Unmarshal(LoadFixture(tb, path), v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}
