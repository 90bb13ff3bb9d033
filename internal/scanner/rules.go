package scanner

import (
	"path"
	"path/filepath"
	"strings"
)

// extensionsByLanguage lists the recognised extensions for each language.
var extensionsByLanguage = map[string][]string{
	"Python":     {".py", ".pyw", ".pyi"},
	"JavaScript": {".js", ".mjs", ".cjs", ".jsx"},
	"TypeScript": {".ts", ".tsx", ".mts", ".cts"},
	"Go":         {".go"},
	"Rust":       {".rs"},
	"Java":       {".java"},
	"Kotlin":     {".kt", ".kts"},
	"Swift":      {".swift"},
	"C#":         {".cs"},
	"PHP":        {".php"},
	"Ruby":       {".rb", ".rake"},
	"Dart":       {".dart"},
	"C":          {".c", ".h"},
	"C++":        {".cpp", ".hpp", ".cc", ".cxx"},
	"Scala":      {".scala", ".sc"},
	"Elixir":     {".ex", ".exs"},
	"Lua":        {".lua"},
	"Perl":       {".pl", ".pm"},
	"R":          {".r"},
	"Shell":      {".sh", ".bash", ".zsh"},
	"Vue":        {".vue"},
	"Svelte":     {".svelte"},
	"SQL":        {".sql"},
	"Haskell":    {".hs"},
	"OCaml":      {".ml", ".mli"},
	"F#":         {".fs", ".fsx"},
	"Clojure":    {".clj", ".cljs", ".cljc"},
	"Erlang":     {".erl", ".hrl"},
	"Zig":        {".zig"},
	"Nim":        {".nim"},
	"Crystal":    {".cr"},
	"Groovy":     {".groovy", ".gvy"},
}

// languageByExt is the inverse of extensionsByLanguage.
var languageByExt = func() map[string]string {
	m := make(map[string]string)
	for lang, exts := range extensionsByLanguage {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}()

var testDirectories = setOf(
	"test", "tests", "spec", "specs", "__tests__", "__test__",
	"test_", "_test", "testing",
)

var testFilePatterns = []string{
	"test_", "_test.", ".test.", ".spec.", "_spec.", "spec_",
	"tests.", "test.", "_tests.",
}

// ignoreDirectories is stored lowercased; directory names are lowercased
// before lookup.
var ignoreDirectories = setOf(
	".git", ".svn", ".hg", ".bzr",
	"node_modules", "vendor", "vendors", ".vendor", "bower_components", "jspm_packages",
	"venv", ".venv", "env", ".env",
	"__pycache__", ".pytest_cache", ".mypy_cache", ".ruff_cache",
	"site-packages", "dist-packages", ".eggs", "*.egg-info", ".tox", ".nox",
	"build", "dist", "out", "output", "target", "bin", ".build", "_build",
	".idea", ".vscode", ".vs", ".eclipse", ".settings",
	"coverage", ".coverage", "htmlcov", ".nyc_output",
	".cache", ".tmp", "tmp", "temp", ".temp", "logs",
	".next", ".nuxt", ".output", ".vercel", ".netlify", ".serverless", ".terraform",
	"pods", "deriveddata", ".gradle", ".m2", ".cargo", "pkg",
)

var ignoreFilePatterns = []string{
	".min.js", ".min.css", ".bundle.js", ".chunk.js", "-lock.json", ".lock", ".map",
}

func setOf(items ...string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[strings.ToLower(it)] = true
	}
	return s
}

// DetectLanguage returns the language for name's extension, or "" when the
// extension is not a supported source type.
func DetectLanguage(name string) string {
	return languageByExt[strings.ToLower(filepath.Ext(name))]
}

// IsTestFile reports whether relPath names a test file: any path segment is a
// test directory name, or the file name contains a test marker.
func IsTestFile(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, part := range strings.Split(slashed, "/") {
		if testDirectories[strings.ToLower(part)] {
			return true
		}
	}
	name := strings.ToLower(path.Base(slashed))
	for _, p := range testFilePatterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

func ignoreDir(name string, extra map[string]bool) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(name, ".") || ignoreDirectories[lower] || extra[lower]
}

func ignoreFile(relPath string) bool {
	lower := strings.ToLower(filepath.ToSlash(relPath))
	for _, p := range ignoreFilePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return strings.HasPrefix(path.Base(lower), ".")
}
