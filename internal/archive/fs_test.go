package archive

import (
	"os"
	"path/filepath"
	"testing"
)

func testFS(t *testing.T) (*FS, string) {
	t.Helper()
	root := t.TempDir()
	fs, err := NewFS(root)
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	return fs, root
}

func TestNewFSRequiresDirectory(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing root should fail")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(file); err == nil {
		t.Error("plain file as root should fail")
	}
}

func TestEnsurePathCreatesChain(t *testing.T) {
	fs, root := testFS(t)

	rel, err := fs.EnsurePath([]string{"広告レギュラー", "入稿データ", "2025_12"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if rel != filepath.Join("広告レギュラー", "入稿データ", "2025_12") {
		t.Errorf("rel = %q", rel)
	}
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil || !info.IsDir() {
		t.Errorf("folder chain not created: %v", err)
	}
}

func TestEnsurePathIdempotent(t *testing.T) {
	fs, _ := testFS(t)
	segs := []string{"タウン情報", "店舗写真", "2025_12"}
	if _, err := fs.EnsurePath(segs); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if _, err := fs.EnsurePath(segs); err != nil {
		t.Errorf("second ensure must be a no-op success: %v", err)
	}
}

func TestEnsurePathRejectsBadSegments(t *testing.T) {
	fs, _ := testFS(t)
	for _, segs := range [][]string{
		nil,
		{""},
		{"a", ""},
		{"a/b"},
		{`a\b`},
		{".."},
	} {
		if _, err := fs.EnsurePath(segs); err == nil {
			t.Errorf("EnsurePath(%v) should fail", segs)
		}
	}
}

func TestSafePathRejectsEscape(t *testing.T) {
	fs, _ := testFS(t)
	for _, rel := range []string{"..", "../x", "a/../../x", "/etc"} {
		if _, err := fs.safePath(rel); err == nil {
			t.Errorf("safePath(%q) should fail", rel)
		}
	}
	if _, err := fs.safePath("a/b"); err != nil {
		t.Errorf("safePath(a/b): %v", err)
	}
}

func TestListChildren(t *testing.T) {
	fs, _ := testFS(t)
	if _, err := fs.EnsurePath([]string{"求人広告", "求人原稿", "2025_12"}); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.EnsurePath([]string{"求人広告", "求人原稿", "2026_01"}); err != nil {
		t.Fatal(err)
	}

	names, err := fs.ListChildren(filepath.Join("求人広告", "求人原稿"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("children = %v, want two issue folders", names)
	}

	if _, err := fs.ListChildren("存在しない"); err == nil {
		t.Error("listing a missing folder should fail")
	}
}
