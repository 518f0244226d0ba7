package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesArtifact(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := store.Save(context.Background(), "executive_summary.txt", []byte("summary body"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Fatalf("path %q is not absolute", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "summary body" {
		t.Fatalf("data = %q", data)
	}
}

func TestSaveSanitizesName(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := store.Save(context.Background(), "../../etc/pass wd?.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != mustAbs(t, dir) {
		t.Fatalf("artifact escaped base dir: %q", path)
	}
	name := filepath.Base(path)
	if strings.ContainsAny(name, "/? ") {
		t.Fatalf("name not sanitized: %q", name)
	}
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	absolute, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return absolute
}
