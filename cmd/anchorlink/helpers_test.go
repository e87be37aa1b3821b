package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
