package filex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "a", "b")

	dir, err := EnsureDir(target)
	if err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", dir)
	}

	// second call is a no-op
	if _, err := EnsureDir(target); err != nil {
		t.Fatalf("EnsureDir repeat error: %v", err)
	}
}
