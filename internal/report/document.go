// Package report renders scan results as JSON, YAML, HTML or a terminal
// summary.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/revibe/internal/duplicates"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// ToolName identifies the generator in report metadata.
const ToolName = "Revibe Code Quality Scanner"

// complexFileScore is the complexity above which a file is listed as complex.
const complexFileScore = 10

// Document is the machine-readable report.
type Document struct {
	Meta          Meta                             `json:"meta" yaml:"meta"`
	Summary       Summary                          `json:"summary" yaml:"summary"`
	Languages     map[string]metrics.LanguageStats `json:"languages" yaml:"languages"`
	AISmellScores map[string]float64               `json:"ai_smell_scores" yaml:"ai_smell_scores"`
	Smells        []smells.Result                  `json:"smells" yaml:"smells"`
	Files         []FileEntry                      `json:"files" yaml:"files"`
	Issues        Issues                           `json:"issues" yaml:"issues"`
	Duplicates    []duplicates.Group               `json:"duplicates" yaml:"duplicates"`
}

type Meta struct {
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
	CodebasePath string    `json:"codebase_path" yaml:"codebase_path"`
	Tool         string    `json:"tool" yaml:"tool"`
	Version      string    `json:"version" yaml:"version"`
	ScanID       string    `json:"scan_id" yaml:"scan_id"`
}

type Summary struct {
	HealthScore      int     `json:"health_score" yaml:"health_score"`
	RiskLevel        string  `json:"risk_level" yaml:"risk_level"`
	TotalFiles       int     `json:"total_files" yaml:"total_files"`
	SourceFiles      int     `json:"source_files" yaml:"source_files"`
	TestFiles        int     `json:"test_files" yaml:"test_files"`
	TotalLOC         int     `json:"total_loc" yaml:"total_loc"`
	SourceLOC        int     `json:"source_loc" yaml:"source_loc"`
	TestLOC          int     `json:"test_loc" yaml:"test_loc"`
	TestToCodeRatio  float64 `json:"test_to_code_ratio" yaml:"test_to_code_ratio"`
	EstimatedDefects int     `json:"estimated_defects" yaml:"estimated_defects"`
}

type FileEntry struct {
	Path         string     `json:"path" yaml:"path"`
	Language     string     `json:"language" yaml:"language"`
	Lines        int        `json:"lines" yaml:"lines"`
	CodeLines    int        `json:"code_lines" yaml:"code_lines"`
	CommentLines int        `json:"comment_lines" yaml:"comment_lines"`
	Complexity   float64    `json:"complexity" yaml:"complexity"`
	Functions    int        `json:"functions" yaml:"functions"`
	Classes      int        `json:"classes" yaml:"classes"`
	Issues       FileIssues `json:"issues" yaml:"issues"`
}

type FileIssues struct {
	Todos              int `json:"todos" yaml:"todos"`
	SensitiveFunctions int `json:"sensitive_functions" yaml:"sensitive_functions"`
	LongFunctions      int `json:"long_functions" yaml:"long_functions"`
}

type Issues struct {
	ComplexFiles       []ComplexFile      `json:"complex_files" yaml:"complex_files"`
	LongFunctions      []LongFunction     `json:"long_functions" yaml:"long_functions"`
	SensitiveFunctions []SensitiveFunc    `json:"sensitive_functions" yaml:"sensitive_functions"`
	Todos              []metrics.TodoItem `json:"todos" yaml:"todos"`
}

type ComplexFile struct {
	File  string  `json:"file" yaml:"file"`
	Score float64 `json:"score" yaml:"score"`
}

type LongFunction struct {
	File  string `json:"file" yaml:"file"`
	Name  string `json:"name" yaml:"name"`
	Lines int    `json:"lines" yaml:"lines"`
}

type SensitiveFunc struct {
	File string `json:"file" yaml:"file"`
	Name string `json:"name" yaml:"name"`
	Line int    `json:"line" yaml:"line"`
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Build assembles the report document for res.
func Build(res *pipeline.Result, version string) *Document {
	m := res.Metrics
	doc := &Document{
		Meta: Meta{
			GeneratedAt:  res.StartedAt,
			CodebasePath: res.Root,
			Tool:         ToolName,
			Version:      version,
			ScanID:       res.ScanID,
		},
		Summary: Summary{
			HealthScore:      m.HealthScore,
			RiskLevel:        m.RiskLevel.String(),
			TotalFiles:       m.TotalFiles,
			SourceFiles:      m.SourceFiles,
			TestFiles:        m.TestFiles,
			TotalLOC:         m.SourceLOC + m.TestLOC,
			SourceLOC:        m.SourceLOC,
			TestLOC:          m.TestLOC,
			TestToCodeRatio:  round(m.TestToCodeRatio, 2),
			EstimatedDefects: m.EstimatedDefects,
		},
		Languages:     m.Languages,
		AISmellScores: m.SmellScores.Map(),
		Smells:        res.Smells[:],
		Files:         []FileEntry{},
		Duplicates:    res.Duplicates,
		Issues: Issues{
			ComplexFiles:       []ComplexFile{},
			LongFunctions:      []LongFunction{},
			SensitiveFunctions: []SensitiveFunc{},
			Todos:              []metrics.TodoItem{},
		},
	}
	if doc.Duplicates == nil {
		doc.Duplicates = []duplicates.Group{}
	}

	for _, a := range res.Analyses {
		path := a.File.RelPath
		sensitive := a.SensitiveFunctions()
		long := a.LongFunctions()

		doc.Files = append(doc.Files, FileEntry{
			Path:         path,
			Language:     a.File.Language,
			Lines:        a.TotalLines,
			CodeLines:    a.CodeLines,
			CommentLines: a.CommentLines,
			Complexity:   round(a.Complexity, 1),
			Functions:    a.FunctionCount(),
			Classes:      a.ClassCount(),
			Issues: FileIssues{
				Todos:              a.TodoCount(),
				SensitiveFunctions: len(sensitive),
				LongFunctions:      len(long),
			},
		})

		for _, td := range a.Todos {
			doc.Issues.Todos = append(doc.Issues.Todos, metrics.TodoItem{File: path, Line: td.Line, Content: td.Content})
		}
		for _, fn := range sensitive {
			doc.Issues.SensitiveFunctions = append(doc.Issues.SensitiveFunctions, SensitiveFunc{File: path, Name: fn.Name, Line: fn.StartLine})
		}
		for _, fn := range long {
			doc.Issues.LongFunctions = append(doc.Issues.LongFunctions, LongFunction{File: path, Name: fn.Name, Lines: fn.LineCount})
		}
		if a.Complexity > complexFileScore {
			doc.Issues.ComplexFiles = append(doc.Issues.ComplexFiles, ComplexFile{File: path, Score: round(a.Complexity, 1)})
		}
	}
	sort.SliceStable(doc.Issues.ComplexFiles, func(i, j int) bool {
		return doc.Issues.ComplexFiles[i].Score > doc.Issues.ComplexFiles[j].Score
	})
	return doc
}
