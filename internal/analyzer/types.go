// Package analyzer computes per-file line counts, structure and content
// signals from source text using the pattern registry.
package analyzer

import (
	"errors"

	"github.com/blackwell-systems/revibe/internal/scanner"
)

// LongFunctionLines is the span length above which a function is long.
const LongFunctionLines = 80

// ErrBinary is returned for files that contain a NUL byte.
var ErrBinary = errors.New("binary content")

// Function is a detected function span. Lines are 1-based and inclusive.
type Function struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	LineCount int    `json:"line_count"`

	// Sensitive is true when the name suggests payments, auth or
	// destructive operations.
	Sensitive bool `json:"is_sensitive"`
}

// IsLong reports whether the span exceeds LongFunctionLines.
func (f Function) IsLong() bool {
	return f.LineCount > LongFunctionLines
}

// Class is a detected class, struct or type span.
type Class struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`

	// MethodCount is reserved and always 0.
	MethodCount int `json:"method_count"`
}

// Todo is a task marker found in a comment.
type Todo struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// FileAnalysis holds everything measured for one source file.
// TotalLines always equals CodeLines + CommentLines + BlankLines.
type FileAnalysis struct {
	File scanner.SourceFile `json:"file"`

	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`

	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`

	// Imports are the stripped text of each import line.
	Imports []string `json:"imports"`

	Todos          []Todo   `json:"todos"`
	StringLiterals []string `json:"-"`

	HasErrorHandling bool    `json:"has_error_handling"`
	Complexity       float64 `json:"complexity_score"`

	// ContentHash is the hex SHA-256 of the raw file bytes.
	ContentHash string `json:"content_hash"`

	// FeatureMatches counts route and endpoint declarations in the file.
	FeatureMatches int `json:"feature_matches"`
}

// FunctionCount returns the number of detected functions.
func (a *FileAnalysis) FunctionCount() int { return len(a.Functions) }

// ClassCount returns the number of detected classes.
func (a *FileAnalysis) ClassCount() int { return len(a.Classes) }

// ImportCount returns the number of import lines.
func (a *FileAnalysis) ImportCount() int { return len(a.Imports) }

// TodoCount returns the number of task markers.
func (a *FileAnalysis) TodoCount() int { return len(a.Todos) }

// SensitiveFunctions returns the functions flagged as sensitive.
func (a *FileAnalysis) SensitiveFunctions() []Function {
	var out []Function
	for _, f := range a.Functions {
		if f.Sensitive {
			out = append(out, f)
		}
	}
	return out
}

// LongFunctions returns the functions longer than LongFunctionLines.
func (a *FileAnalysis) LongFunctions() []Function {
	var out []Function
	for _, f := range a.Functions {
		if f.IsLong() {
			out = append(out, f)
		}
	}
	return out
}

// Options adjusts analysis behaviour.
type Options struct {
	// StructureInComments also runs function and class detection on lines
	// classified as comments.
	StructureInComments bool

	// Workers bounds concurrent file reads in AnalyzeAll; <= 0 means 8.
	Workers int

	// OnSkip, if set, is called for each file AnalyzeAll leaves out.
	OnSkip func(f scanner.SourceFile, err error)
}
