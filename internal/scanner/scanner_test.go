package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

// ---------------------------------------------------------------------------
// Scan
// ---------------------------------------------------------------------------

func TestScan_FindsSourceFilesSorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/b.py", "x = 1\n")
	writeFile(t, root, "src/a.go", "package a\n")
	writeFile(t, root, "README.md", "# readme\n")

	files, err := Scan(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(files)
	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %v", got)
	}
	if got[0] != "src/a.go" || got[1] != "src/b.py" {
		t.Errorf("expected sorted [src/a.go src/b.py], got %v", got)
	}
	if files[0].Language != "Go" {
		t.Errorf("expected Go, got %q", files[0].Language)
	}
	if files[1].SizeBytes != 6 {
		t.Errorf("expected size 6, got %d", files[1].SizeBytes)
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestScan_SkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/lib/index.js", "module.exports = 1\n")
	writeFile(t, root, ".hidden/x.py", "x = 1\n")
	writeFile(t, root, "Pods/Thing.swift", "let x = 1\n")
	writeFile(t, root, "src/main.go", "package main\n")

	files, err := Scan(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "src/main.go" {
		t.Errorf("expected only src/main.go, got %v", got)
	}
}

func TestScan_SkipsIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.min.js", "var a=1\n")
	writeFile(t, root, ".eslintrc.js", "module.exports = {}\n")
	writeFile(t, root, "app.js", "var a = 1\n")

	files, err := Scan(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(files)
	if len(got) != 1 || got[0] != "app.js" {
		t.Errorf("expected only app.js, got %v", got)
	}
}

func TestScan_ExtraIgnoresCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "generated/api.go", "package api\n")
	writeFile(t, root, "main.go", "package main\n")

	files, err := Scan(root, Options{ExtraIgnores: []string{"Generated"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Errorf("expected only main.go, got %v", relPaths(files))
	}
}

func TestScan_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "gen/\n*.pb.go\n")
	writeFile(t, root, "gen/x.go", "package gen\n")
	writeFile(t, root, "api.pb.go", "package api\n")
	writeFile(t, root, "main.go", "package main\n")

	files, err := Scan(root, Options{UseGitignore: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Errorf("expected only main.go, got %v", relPaths(files))
	}

	files, err = Scan(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Errorf("expected 3 files without gitignore, got %v", relPaths(files))
	}
}

func TestScan_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "migrations/001.sql", "select 1;\n")
	writeFile(t, root, "main.go", "package main\n")

	files, err := Scan(root, Options{IgnorePatterns: []string{"migrations"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %v", relPaths(files))
	}
}

func TestScan_FollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, outside, "shared.py", "x = 1\n")
	writeFile(t, outside, "lib/inner.go", "package lib\n")
	writeFile(t, root, "main.go", "package main\n")

	if err := os.Symlink(filepath.Join(outside, "shared.py"), filepath.Join(root, "shared.py")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "lib"), filepath.Join(root, "lib")); err != nil {
		t.Fatal(err)
	}

	files, err := Scan(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := relPaths(files)
	if len(got) != 2 || got[0] != "main.go" || got[1] != "shared.py" {
		t.Fatalf("expected [main.go shared.py], got %v", got)
	}
	if files[1].SizeBytes != 6 {
		t.Errorf("expected target size 6, got %d", files[1].SizeBytes)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	_, err := Scan(filepath.Join(root, "main.go"), Options{})
	if !errors.Is(err, ErrNotDir) {
		t.Errorf("expected ErrNotDir, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"main.go":      "Go",
		"App.TSX":      "TypeScript",
		"lib.rs":       "Rust",
		"script.R":     "R",
		"Rakefile":     "",
		"notes.txt":    "",
		"header.hpp":   "C++",
		"build.gradle": "",
	}
	for name, want := range tests {
		if got := DetectLanguage(name); got != want {
			t.Errorf("DetectLanguage(%q): expected %q, got %q", name, want, got)
		}
	}
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"tests/conftest.py", true},
		{"pkg/__tests__/app.js", true},
		{"test_models.py", true},
		{"handler_test.go", true},
		{"button.spec.ts", true},
		{"src/handler.go", false},
		{"src/models.py", false},
	}
	for _, tc := range tests {
		if got := IsTestFile(tc.path); got != tc.want {
			t.Errorf("IsTestFile(%q): expected %v, got %v", tc.path, tc.want, got)
		}
	}
}

func TestLanguageBreakdown(t *testing.T) {
	files := []SourceFile{
		{Language: "Go", SizeBytes: 10},
		{Language: "Go", SizeBytes: 5, IsTest: true},
		{Language: "Python", SizeBytes: 3},
	}
	got := LanguageBreakdown(files)
	if got["Go"].Files != 2 || got["Go"].TestFiles != 1 || got["Go"].TotalBytes != 15 {
		t.Errorf("unexpected Go stats: %+v", got["Go"])
	}
	if got["Python"].Files != 1 {
		t.Errorf("expected 1 Python file, got %d", got["Python"].Files)
	}
}
