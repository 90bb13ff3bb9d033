// Package scanner discovers source files under a codebase root and classifies
// them by language and test status.
package scanner

import "errors"

var (
	// ErrNotExist is returned when the scan root does not exist.
	ErrNotExist = errors.New("path does not exist")

	// ErrNotDir is returned when the scan root is not a directory.
	ErrNotDir = errors.New("path is not a directory")
)

// SourceFile is a file recognised as source code in a supported language.
type SourceFile struct {
	// Path is the absolute filesystem path.
	Path string `json:"path"`

	// RelPath is Path relative to the scan root, using forward slashes.
	RelPath string `json:"relative_path"`

	// Language is the display name from the extension table, e.g. "Go".
	Language string `json:"language"`

	// IsTest is true when the path or file name marks the file as a test.
	IsTest bool `json:"is_test"`

	// SizeBytes is the file size at discovery time; 0 if stat failed.
	SizeBytes int64 `json:"size_bytes"`
}

// Options tunes a scan. The zero value scans with the built-in ignore rules
// only.
type Options struct {
	// ExtraIgnores are additional directory names to skip, compared
	// case-insensitively.
	ExtraIgnores []string

	// IgnorePatterns are gitignore-style patterns matched against paths
	// relative to the root.
	IgnorePatterns []string

	// UseGitignore also reads <root>/.gitignore into the pattern set.
	UseGitignore bool
}

// LanguageStats summarises the files of one language.
type LanguageStats struct {
	Files      int   `json:"files"`
	TestFiles  int   `json:"test_files"`
	TotalBytes int64 `json:"total_bytes"`
}
