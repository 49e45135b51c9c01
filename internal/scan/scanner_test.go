package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, "a.TXT"))
	touch(t, filepath.Join(root, "nested", "c.txt"))
	touch(t, filepath.Join(root, "notes.md"))
	touch(t, filepath.Join(root, ".hidden", "d.txt"))

	files, err := ScanDir(root, []string{".txt"})
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	got := Paths(files)
	want := []string{
		filepath.Join(root, "a.TXT"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "nested", "c.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("paths=%q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d]=%q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "dir", "a.txt"))
	touch(t, filepath.Join(root, "export.log"))

	files, err := Collect([]string{
		filepath.Join(root, "dir"),
		filepath.Join(root, "export.log"),
		filepath.Join(root, "dir", "a.txt"),
	}, []string{".txt"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files=%+v, want 2 (explicit file kept, duplicate dropped)", files)
	}

	if _, err := Collect([]string{filepath.Join(root, "missing")}, nil); err == nil {
		t.Error("expected error for missing path")
	}
}
