package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListRegularFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.eml", "a.eml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "c.eml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "a.eml"), filepath.Join(dir, "link.eml")); err != nil {
		t.Fatal(err)
	}

	files, err := ListRegularFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.eml"), filepath.Join(dir, "b.eml")}
	if len(files) != len(want) {
		t.Fatalf("files=%v", files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v want %v", files[i], want[i])
		}
	}
}

func TestListRegularFilesMissingDir(t *testing.T) {
	if _, err := ListRegularFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error")
	}
}
