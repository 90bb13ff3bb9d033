// Package metrics folds per-file analyses, smell scores and duplicate groups
// into codebase totals, a defect estimate and the 0-100 health score.
package metrics

import (
	"github.com/blackwell-systems/revibe/internal/analyzer"
	"github.com/blackwell-systems/revibe/internal/duplicates"
	"github.com/blackwell-systems/revibe/internal/scanner"
	"github.com/blackwell-systems/revibe/internal/smells"
)

const (
	// DefaultBaseDefectDensity is defects per KLOC for an average codebase.
	DefaultBaseDefectDensity = 25.0

	// AIDefectMultiplier scales the base density for generated code.
	AIDefectMultiplier = 1.7

	maxFeatureExponent = 20
)

// TodoItem is a task marker tagged with its file.
type TodoItem struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Content string `json:"content" yaml:"content"`
}

// FunctionRef is a function tagged with its file.
type FunctionRef struct {
	File     string            `json:"file"`
	Function analyzer.Function `json:"function"`
}

// LanguageStats is the per-language row of the breakdown table.
type LanguageStats struct {
	Files     int `json:"files" yaml:"files"`
	Lines     int `json:"lines" yaml:"lines"`
	TestFiles int `json:"test_files" yaml:"test_files"`
}

// Config controls the defect estimate.
type Config struct {
	BaseDefectDensity float64
	AIGenerated       bool
}

// DefaultConfig applies the AI multiplier to the average density.
func DefaultConfig() Config {
	return Config{BaseDefectDensity: DefaultBaseDefectDensity, AIGenerated: true}
}

// CodebaseMetrics is the aggregate result of one scan. It is not modified
// after Aggregate returns.
type CodebaseMetrics struct {
	TotalFiles  int `json:"total_files"`
	SourceFiles int `json:"source_files"`
	TestFiles   int `json:"test_files"`

	TotalLines   int `json:"total_lines"`
	SourceLOC    int `json:"source_loc"`
	TestLOC      int `json:"test_loc"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	BlankLines   int `json:"blank_lines"`

	TotalFunctions int `json:"total_functions"`
	TotalClasses   int `json:"total_classes"`
	TotalImports   int `json:"total_imports"`

	Todos              []TodoItem         `json:"todos"`
	DuplicateGroups    []duplicates.Group `json:"duplicate_groups"`
	LongFunctions      []FunctionRef      `json:"long_functions"`
	SensitiveUnhandled []FunctionRef      `json:"sensitive_functions_without_error_handling"`

	// FunctionsByFile maps relative path to that file's functions.
	FunctionsByFile map[string][]analyzer.Function `json:"-"`

	Languages   map[string]LanguageStats `json:"languages"`
	SmellScores smells.Scores            `json:"ai_smell_scores"`

	FeatureCount     int       `json:"feature_count"`
	DefectDensity    float64   `json:"defect_density_estimate"`
	EstimatedDefects int       `json:"estimated_defects"`
	TestToCodeRatio  float64   `json:"test_to_code_ratio"`
	HealthScore      int       `json:"health_score"`
	RiskLevel        RiskLevel `json:"risk_level"`

	// Analyses are the per-file records the totals were built from.
	Analyses []*analyzer.FileAnalysis `json:"-"`
}

// Aggregate builds CodebaseMetrics. File counts and the language table come
// from files; line and structure totals come from analyses, so unreadable
// files count as files but contribute no lines.
func Aggregate(files []scanner.SourceFile, analyses []*analyzer.FileAnalysis, scores smells.Scores, groups []duplicates.Group, cfg Config) *CodebaseMetrics {
	m := &CodebaseMetrics{
		TotalFiles:      len(files),
		FunctionsByFile: make(map[string][]analyzer.Function, len(analyses)),
		Languages:       make(map[string]LanguageStats),
		SmellScores:     scores,
		DuplicateGroups: groups,
		Analyses:        analyses,
	}

	for _, f := range files {
		ls := m.Languages[f.Language]
		ls.Files++
		if f.IsTest {
			m.TestFiles++
			ls.TestFiles++
		} else {
			m.SourceFiles++
		}
		m.Languages[f.Language] = ls
	}

	for _, a := range analyses {
		path := a.File.RelPath

		m.TotalLines += a.TotalLines
		m.CodeLines += a.CodeLines
		m.CommentLines += a.CommentLines
		m.BlankLines += a.BlankLines
		if a.File.IsTest {
			m.TestLOC += a.CodeLines
		} else {
			m.SourceLOC += a.CodeLines
		}
		if ls, ok := m.Languages[a.File.Language]; ok {
			ls.Lines += a.CodeLines
			m.Languages[a.File.Language] = ls
		}

		m.TotalFunctions += a.FunctionCount()
		m.TotalClasses += a.ClassCount()
		m.TotalImports += a.ImportCount()
		m.FeatureCount += a.FeatureMatches

		for _, td := range a.Todos {
			m.Todos = append(m.Todos, TodoItem{File: path, Line: td.Line, Content: td.Content})
		}
		for _, fn := range a.LongFunctions() {
			m.LongFunctions = append(m.LongFunctions, FunctionRef{File: path, Function: fn})
		}
		if !a.HasErrorHandling {
			for _, fn := range a.SensitiveFunctions() {
				m.SensitiveUnhandled = append(m.SensitiveUnhandled, FunctionRef{File: path, Function: fn})
			}
		}
		m.FunctionsByFile[path] = a.Functions
	}

	if m.SourceLOC > 0 {
		m.TestToCodeRatio = float64(m.TestLOC) / float64(m.SourceLOC)
	}
	m.DefectDensity, m.EstimatedDefects = EstimateDefects(m.SourceLOC, cfg.AIGenerated, cfg.BaseDefectDensity)
	m.HealthScore = HealthScore(m)
	m.RiskLevel = RiskFor(m.HealthScore)
	return m
}

// EstimateDefects returns the defect density per KLOC and the expected
// number of defects in loc lines, truncated toward zero.
func EstimateDefects(loc int, aiGenerated bool, baseDensity float64) (float64, int) {
	density := baseDensity
	if aiGenerated {
		density *= AIDefectMultiplier
	}
	return density, int(float64(loc) / 1000 * density)
}

// FeatureInteractions is 2^n - 1 - n, the number of feature subsets of size
// two or more, with n capped at 20.
func FeatureInteractions(n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, maxFeatureExponent)
	return (1 << n) - 1 - n
}

// FeatureInteractions applies FeatureInteractions to the feature count.
func (m *CodebaseMetrics) FeatureInteractions() int {
	return FeatureInteractions(m.FeatureCount)
}

// Summary is the flat view of the headline numbers.
type Summary struct {
	TotalFiles          int                      `json:"total_files" yaml:"total_files"`
	SourceFiles         int                      `json:"source_files" yaml:"source_files"`
	TestFiles           int                      `json:"test_files" yaml:"test_files"`
	SourceLOC           int                      `json:"source_loc" yaml:"source_loc"`
	TestLOC             int                      `json:"test_loc" yaml:"test_loc"`
	TestToCodeRatio     float64                  `json:"test_to_code_ratio" yaml:"test_to_code_ratio"`
	TotalFunctions      int                      `json:"total_functions" yaml:"total_functions"`
	TotalClasses        int                      `json:"total_classes" yaml:"total_classes"`
	FeatureCount        int                      `json:"feature_count" yaml:"feature_count"`
	FeatureInteractions int                      `json:"feature_interactions" yaml:"feature_interactions"`
	EstimatedDefects    int                      `json:"estimated_defects" yaml:"estimated_defects"`
	HealthScore         int                      `json:"health_score" yaml:"health_score"`
	RiskLevel           string                   `json:"risk_level" yaml:"risk_level"`
	DuplicateGroups     int                      `json:"duplicate_groups" yaml:"duplicate_groups"`
	SmellScores         map[string]float64       `json:"ai_smell_scores" yaml:"ai_smell_scores"`
	TodosCount          int                      `json:"todos_count" yaml:"todos_count"`
	LongFunctions       int                      `json:"long_functions" yaml:"long_functions"`
	Languages           map[string]LanguageStats `json:"languages" yaml:"languages"`
}

// Summary returns the headline numbers.
func (m *CodebaseMetrics) Summary() Summary {
	return Summary{
		TotalFiles:          m.TotalFiles,
		SourceFiles:         m.SourceFiles,
		TestFiles:           m.TestFiles,
		SourceLOC:           m.SourceLOC,
		TestLOC:             m.TestLOC,
		TestToCodeRatio:     m.TestToCodeRatio,
		TotalFunctions:      m.TotalFunctions,
		TotalClasses:        m.TotalClasses,
		FeatureCount:        m.FeatureCount,
		FeatureInteractions: m.FeatureInteractions(),
		EstimatedDefects:    m.EstimatedDefects,
		HealthScore:         m.HealthScore,
		RiskLevel:           m.RiskLevel.String(),
		DuplicateGroups:     len(m.DuplicateGroups),
		SmellScores:         m.SmellScores.Map(),
		TodosCount:          len(m.Todos),
		LongFunctions:       len(m.LongFunctions),
		Languages:           m.Languages,
	}
}
