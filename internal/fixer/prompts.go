package fixer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/revibe/internal/analyzer"
	"github.com/blackwell-systems/revibe/internal/duplicates"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/output"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// Thresholds at which the rules fire.
const (
	criticalTestRatio = 0.1
	lowTestRatio      = 0.5
	targetTestRatio   = 0.8
	smellThreshold    = 0.5
	todoThreshold     = 5
	largeCodebaseLOC  = 10000
	todoPreviewRunes  = 60
)

func testCoverageRule(m *metrics.CodebaseMetrics) *Fix {
	switch {
	case m.TestToCodeRatio < criticalTestRatio:
		return criticalTestFix(m)
	case m.TestToCodeRatio < lowTestRatio:
		return lowTestFix(m)
	}
	return nil
}

type untestedFile struct {
	path  string
	names []string
}

func criticalTestFix(m *metrics.CodebaseMetrics) *Fix {
	var files []untestedFile
	for _, a := range m.Analyses {
		if a.File.IsTest || len(a.Functions) == 0 {
			continue
		}
		names := make([]string, len(a.Functions))
		for i, fn := range a.Functions {
			names[i] = fn.Name
		}
		files = append(files, untestedFile{path: a.File.RelPath, names: names})
	}
	if len(files) == 0 {
		return nil
	}
	sort.SliceStable(files, func(i, j int) bool {
		return len(files[i].names) > len(files[j].names)
	})
	files = files[:min(len(files), 5)]

	var list []string
	affected := make([]string, len(files))
	for i, f := range files {
		focus := f.names[:min(len(f.names), 3)]
		list = append(list, fmt.Sprintf("- %s (%d functions, 0 tests) — Focus on: %s",
			f.path, len(f.names), strings.Join(focus, ", ")))
		affected[i] = f.path
	}

	prompt := fmt.Sprintf(`Analyze this codebase and generate comprehensive test files for the following
critical modules that currently have ZERO test coverage:

%s

For each module, create a test file in tests/ that:
1. Tests happy path for each function
2. Tests edge cases (null inputs, invalid data, boundary values)
3. Tests error conditions
4. Uses pytest fixtures for shared setup
5. Includes at least 3 test cases per function

Start with %s as it has the most untested functions.`, strings.Join(list, "\n"), files[0].path)

	return &Fix{
		Priority: PriorityCritical,
		Title:    "Add Tests (you have almost none)",
		Description: fmt.Sprintf("Your codebase has %d lines of source code and only %d lines of tests (%.1f%% ratio). The recommended minimum is 80%%.",
			m.SourceLOC, m.TestLOC, m.TestToCodeRatio*100),
		Prompt:        prompt,
		AffectedFiles: affected,
		Verification:  "After applying, run: pytest --cov to verify coverage improved",
	}
}

func lowTestFix(m *metrics.CodebaseMetrics) *Fix {
	var funcs []metrics.FunctionRef
	for _, a := range m.Analyses {
		if a.File.IsTest {
			continue
		}
		for _, fn := range a.Functions {
			funcs = append(funcs, metrics.FunctionRef{File: a.File.RelPath, Function: fn})
		}
	}
	if len(funcs) == 0 {
		return nil
	}
	sort.SliceStable(funcs, func(i, j int) bool {
		return funcs[i].Function.LineCount > funcs[j].Function.LineCount
	})
	funcs = funcs[:min(len(funcs), 10)]

	pct := m.TestToCodeRatio * 100
	target := int(float64(m.SourceLOC)*targetTestRatio) - m.TestLOC

	list := make([]string, len(funcs))
	for i, f := range funcs {
		list[i] = fmt.Sprintf("- %s: %s() (%d lines)", f.File, f.Function.Name, f.Function.LineCount)
	}

	prompt := fmt.Sprintf(`Improve test coverage for this codebase. Current coverage is %.1f%%.
Target is 80%%. You need approximately %d more lines of test code.

Priority functions to test (longest/most complex):

%s

For each function:
1. Create a test file if one doesn't exist
2. Add tests for normal operation
3. Add tests for edge cases
4. Add tests for error handling`, pct, target, strings.Join(list, "\n"))

	return &Fix{
		Priority:      PriorityHigh,
		Title:         "Improve Test Coverage",
		Description:   fmt.Sprintf("Test coverage is %.1f%%. Target is 80%%. Add ~%d lines of test code.", pct, target),
		Prompt:        prompt,
		AffectedFiles: refFiles(funcs),
		Verification:  "Run: pytest --cov to check coverage percentage",
	}
}

func sensitiveRule(m *metrics.CodebaseMetrics) *Fix {
	if len(m.SensitiveUnhandled) == 0 {
		return nil
	}
	funcs := m.SensitiveUnhandled[:min(len(m.SensitiveUnhandled), 5)]

	list := make([]string, len(funcs))
	for i, f := range funcs {
		list[i] = fmt.Sprintf("- %s: %s() (lines %d-%d)", f.File, f.Function.Name, f.Function.StartLine, f.Function.EndLine)
	}
	first := funcs[0]

	prompt := fmt.Sprintf(`The following functions handle sensitive operations but have NO error handling.
This is a security and reliability risk.

%s

For each function, add:
1. Input validation (check for null/empty/invalid inputs)
2. Try/except blocks around risky operations
3. Logging of errors for debugging
4. User-friendly error messages
5. Proper error response codes (if applicable)

Start with %s() in %s — this handles sensitive operations
and MUST have comprehensive error handling.`, strings.Join(list, "\n"), first.Function.Name, first.File)

	return &Fix{
		Priority:      PriorityCritical,
		Title:         fmt.Sprintf("%d sensitive functions lack error handling", len(funcs)),
		Description:   "Functions handling payments, auth, or sensitive data have no try/catch or input validation. This is a security risk.",
		Prompt:        prompt,
		AffectedFiles: refFiles(funcs),
		Verification:  "Review each function for try/except blocks and input validation",
	}
}

func duplicateRule(m *metrics.CodebaseMetrics) *Fix {
	if len(m.DuplicateGroups) == 0 {
		return nil
	}

	var exact, near []duplicates.Group
	for _, g := range m.DuplicateGroups {
		if g.Exact {
			exact = append(exact, g)
		} else {
			near = append(near, g)
		}
	}

	var blocks []string
	for i, g := range exact[:min(len(exact), 3)] {
		blocks = append(blocks, fmt.Sprintf("Exact copy group %d:\n  - %s", i+1, strings.Join(g.Files, "\n  - ")))
	}
	for _, g := range near[:min(len(near), 2)] {
		blocks = append(blocks, fmt.Sprintf("Near-duplicate (%.0f%% similar):\n  - %s\n  - %s",
			g.Similarity*100, g.Files[0], g.Files[1]))
	}

	prompt := fmt.Sprintf(`The following files are duplicates or near-duplicates of each other.
Consolidate them to reduce maintenance burden and potential bugs.

%s

For each group:
1. Identify the most complete/canonical version
2. Delete the duplicate files
3. Update all imports/references to point to the canonical file
4. Verify no functionality is lost
5. Run tests to confirm nothing broke`, strings.Join(blocks, "\n\n"))

	var all []string
	for _, g := range m.DuplicateGroups {
		all = append(all, g.Files...)
	}
	all = unique(all)

	return &Fix{
		Priority:      PriorityHigh,
		Title:         fmt.Sprintf("Remove %d duplicate file groups", len(m.DuplicateGroups)),
		Description:   "These files are copies of each other. Consolidate to reduce confusion.",
		Prompt:        prompt,
		AffectedFiles: all[:min(len(all), 10)],
		Verification:  "Search for any broken imports after consolidating",
	}
}

func longFunctionRule(m *metrics.CodebaseMetrics) *Fix {
	if len(m.LongFunctions) == 0 {
		return nil
	}
	funcs := m.LongFunctions[:min(len(m.LongFunctions), 5)]

	list := make([]string, len(funcs))
	for i, f := range funcs {
		list[i] = fmt.Sprintf("- %s: %s() — %d lines (lines %d-%d)",
			f.File, f.Function.Name, f.Function.LineCount, f.Function.StartLine, f.Function.EndLine)
	}
	first := funcs[0]

	prompt := fmt.Sprintf(`The following functions are too long and should be refactored.
Long functions are harder to test, maintain, and debug.

%s

For each function:
1. Identify logical sections that can be extracted into helper functions
2. Create well-named helper functions for each section
3. Keep the original function as a coordinator that calls the helpers
4. Ensure each new function does ONE thing
5. Add docstrings to new functions
6. Keep each function under 50 lines

Start with %s() in %s — it's %d lines long.`, strings.Join(list, "\n"), first.Function.Name, first.File, first.Function.LineCount)

	return &Fix{
		Priority:      PriorityMedium,
		Title:         fmt.Sprintf("Refactor %d long functions", len(funcs)),
		Description:   fmt.Sprintf("Functions over %d lines are hard to test and maintain. Break them up.", analyzer.LongFunctionLines),
		Prompt:        prompt,
		AffectedFiles: refFiles(funcs),
		Verification:  "Each function should be under 50 lines after refactoring",
	}
}

const smellGuidance = `For each smell:

1. **excessive_comments**: Remove obvious/redundant comments. Keep only comments that
   explain WHY, not WHAT.

2. **verbose_naming**: Shorten overly long names while keeping them descriptive.
   Example: handleUserAuthenticationWithPasswordAndTwoFactorVerification -> authenticateUser

3. **boilerplate_heavy**: Remove unused imports. Consolidate similar imports.

4. **inconsistent_patterns**: Pick one naming convention per language and apply consistently.
   Python: snake_case. JavaScript: camelCase.

5. **dead_code_indicators**: Find and consolidate duplicate function implementations.

6. **over_engineering**: Simplify class hierarchies. Not everything needs to be a class.

7. **missing_error_handling**: Add try/except blocks to functions that do I/O or API calls.

8. **copy_paste_artifacts**: Extract repeated strings into constants or config files.`

func smellRule(m *metrics.CodebaseMetrics) *Fix {
	var high []smells.Kind
	for _, k := range smells.Kinds() {
		if m.SmellScores.Get(k) > smellThreshold {
			high = append(high, k)
		}
	}
	if len(high) == 0 {
		return nil
	}
	sort.SliceStable(high, func(i, j int) bool {
		return m.SmellScores.Get(high[i]) > m.SmellScores.Get(high[j])
	})

	list := make([]string, len(high))
	for i, k := range high {
		list[i] = fmt.Sprintf("- %s (%.0f%%): %s", k, m.SmellScores.Get(k)*100, k.Description())
	}

	prompt := fmt.Sprintf(`This codebase has patterns commonly found in AI-generated code that may
indicate quality issues. Review and address these patterns:

%s

%s`, strings.Join(list, "\n"), smellGuidance)

	return &Fix{
		Priority:      PriorityMedium,
		Title:         fmt.Sprintf("Address %d AI code smell patterns", len(high)),
		Description:   "The code shows patterns commonly found in AI-generated code. Review and clean up these areas.",
		Prompt:        prompt,
		AffectedFiles: []string{},
		Verification:  "Run `revibe scan .` again and check if smell scores decreased",
	}
}

func todoRule(m *metrics.CodebaseMetrics) *Fix {
	if len(m.Todos) <= todoThreshold {
		return nil
	}
	todos := m.Todos[:min(len(m.Todos), 15)]

	list := make([]string, len(todos))
	files := make([]string, len(todos))
	for i, td := range todos {
		content := td.Content
		if r := []rune(content); len(r) > todoPreviewRunes {
			content = string(r[:todoPreviewRunes]) + "..."
		}
		list[i] = fmt.Sprintf("- %s:%d: %s", td.File, td.Line, content)
		files[i] = td.File
	}

	prompt := fmt.Sprintf(`This codebase has %d TODO/FIXME markers that need triage.
Here are the first %d:

%s

For each TODO:
1. Determine if it's still relevant
2. If relevant: create an issue or fix it now
3. If not relevant: delete the comment
4. If it's a FIXME or BUG: prioritize fixing it immediately

Address critical TODOs (FIXME, BUG, HACK) first.`, len(m.Todos), len(todos), strings.Join(list, "\n"))

	return &Fix{
		Priority:      PriorityLow,
		Title:         fmt.Sprintf("Triage %d TODO/FIXME markers", len(m.Todos)),
		Description:   "These markers indicate unfinished or problematic code. Review and address or remove them.",
		Prompt:        prompt,
		AffectedFiles: unique(files),
		Verification:  "Run `grep -r 'TODO\\|FIXME' .` to verify reduction",
	}
}

func sizeRule(m *metrics.CodebaseMetrics) *Fix {
	if m.SourceLOC <= largeCodebaseLOC {
		return nil
	}
	loc := output.Thousands(m.SourceLOC)

	prompt := fmt.Sprintf(`This codebase has %s lines of code across %d files.
Consider these optimizations:

1. **Remove dead code**: Search for functions/classes that are never called
2. **Consolidate utilities**: Merge similar utility functions
3. **Extract shared code**: If multiple files have similar code, create a shared module
4. **Review dependencies**: Are there large libraries being used for small tasks?
5. **Remove generated/bundled code**: Ensure build artifacts aren't committed

Run these commands to find candidates:
- Dead exports: Look for exported functions with no imports
- Large files: Find files over 500 lines that could be split
- Duplicate code: Use the Revibe duplicate detection results`, loc, m.SourceFiles)

	return &Fix{
		Priority:      PriorityLow,
		Title:         "Consider codebase size optimization",
		Description:   fmt.Sprintf("At %s LOC, consider removing dead code and consolidating.", loc),
		Prompt:        prompt,
		AffectedFiles: []string{},
		Verification:  "Track LOC over time. Aim for smaller but complete codebase.",
	}
}

func refFiles(refs []metrics.FunctionRef) []string {
	files := make([]string, len(refs))
	for i, r := range refs {
		files[i] = r.File
	}
	return unique(files)
}

// unique drops repeated entries, keeping first-seen order.
func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
