package smells

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blackwell-systems/revibe/internal/analyzer"
)

const (
	excessiveCommentRatio   = 0.5
	verboseNameLength       = 35
	boilerplateImportRatio  = 3.0
	copyPasteMinOccurrences = 5
	maxDetails              = 5
)

// deadCodeWhitelist names functions that are expected in many files.
var deadCodeWhitelist = map[string]bool{
	"__init__": true, "main": true, "setup": true, "teardown": true, "run": true,
}

type detector func(analyses []*analyzer.FileAnalysis) (score float64, description string, details []string)

var detectors = [NumKinds]detector{
	ExcessiveComments:    excessiveComments,
	VerboseNaming:        verboseNaming,
	BoilerplateHeavy:     boilerplateHeavy,
	InconsistentPatterns: inconsistentPatterns,
	DeadCodeIndicators:   deadCodeIndicators,
	OverEngineering:      overEngineering,
	MissingErrorHandling: missingErrorHandling,
	CopyPasteArtifacts:   copyPasteArtifacts,
}

// Detect runs the detector for k.
func Detect(k Kind, analyses []*analyzer.FileAnalysis) Result {
	score, desc, details := detectors[k](analyses)
	if details == nil {
		details = []string{}
	}
	return Result{
		Kind:        k,
		Name:        k.String(),
		Score:       clamp(score),
		Description: desc,
		Details:     details,
	}
}

// DetectAll runs every detector in Kind order.
func DetectAll(analyses []*analyzer.FileAnalysis) Report {
	var r Report
	for k := range NumKinds {
		r[k] = Detect(k, analyses)
	}
	return r
}

func clamp(x float64) float64 {
	return max(0, min(1, x))
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// ranked is a label with a sort weight, used to order detail lines.
type ranked struct {
	label  string
	weight float64
}

// topDetails sorts items by weight, highest first, keeping the input order
// among equal weights, and returns at most maxDetails labels.
func topDetails(items []ranked) []string {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].weight > items[j].weight
	})
	var out []string
	for i, it := range items {
		if i == maxDetails {
			break
		}
		out = append(out, it.label)
	}
	return out
}

func excessiveComments(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var code, comments int
	for _, a := range analyses {
		code += a.CodeLines
		comments += a.CommentLines
	}
	if code == 0 {
		return 0, "Comment-to-code ratio analysis", nil
	}

	ratio := float64(comments) / float64(code)
	score := clamp(ratio / excessiveCommentRatio)

	var details []string
	if score > 0.5 {
		var heavy []ranked
		for _, a := range analyses {
			if a.CodeLines == 0 {
				continue
			}
			r := float64(a.CommentLines) / float64(a.CodeLines)
			if r > excessiveCommentRatio {
				heavy = append(heavy, ranked{
					label:  fmt.Sprintf("%s: %s comments", a.File.RelPath, percent(r)),
					weight: r,
				})
			}
		}
		details = topDetails(heavy)
	}
	return score, "Comment-to-code ratio: " + percent(ratio), details
}

func verboseNaming(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var verbose []string
	total := 0
	for _, a := range analyses {
		for _, f := range a.Functions {
			total++
			if utf8.RuneCountInString(f.Name) > verboseNameLength {
				verbose = append(verbose, a.File.RelPath+": "+f.Name)
			}
		}
		for _, c := range a.Classes {
			total++
			if utf8.RuneCountInString(c.Name) > verboseNameLength {
				verbose = append(verbose, a.File.RelPath+": "+c.Name)
			}
		}
	}
	if total == 0 {
		return 0, "Verbose naming analysis", nil
	}

	ratio := float64(len(verbose)) / float64(total)
	desc := fmt.Sprintf("%d names exceed %d chars", len(verbose), verboseNameLength)
	return ratio * 2, desc, verbose[:min(len(verbose), maxDetails)]
}

func boilerplateHeavy(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var imports, functions int
	for _, a := range analyses {
		imports += a.ImportCount()
		functions += a.FunctionCount()
	}
	if functions == 0 {
		return 0, "Import-to-function ratio analysis", nil
	}

	ratio := float64(imports) / float64(functions)
	score := clamp(ratio / boilerplateImportRatio)

	var details []string
	if score > 0.3 {
		for _, a := range analyses {
			if a.FunctionCount() == 0 {
				continue
			}
			if float64(a.ImportCount())/float64(a.FunctionCount()) > boilerplateImportRatio {
				details = append(details, fmt.Sprintf("%s: %d imports, %d functions",
					a.File.RelPath, a.ImportCount(), a.FunctionCount()))
			}
		}
		details = details[:min(len(details), maxDetails)]
	}
	return score, fmt.Sprintf("Import-to-function ratio: %.1f", ratio), details
}

type namingStyle int

const (
	styleOther namingStyle = iota
	styleSnake
	styleCamel
	stylePascal
)

func classifyName(name string) namingStyle {
	if name == "" {
		return styleOther
	}
	hasUnderscore := strings.Contains(name, "_")
	var cased, upper bool
	for _, r := range name {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased, upper = true, true
		} else if unicode.IsLower(r) {
			cased = true
		}
	}
	first, _ := utf8.DecodeRuneInString(name)

	switch {
	case hasUnderscore && cased && !upper:
		return styleSnake
	case unicode.IsUpper(first) && !hasUnderscore:
		return stylePascal
	case unicode.IsLower(first) && upper:
		return styleCamel
	}
	return styleOther
}

func inconsistentPatterns(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var snake, camel, pascal int
	for _, a := range analyses {
		for _, f := range a.Functions {
			switch classifyName(f.Name) {
			case styleSnake:
				snake++
			case styleCamel:
				camel++
			case stylePascal:
				pascal++
			}
		}
	}
	total := snake + camel + pascal
	if total < 5 {
		return 0, "Naming convention analysis", nil
	}

	consistency := float64(max(snake, camel, pascal)) / float64(total)
	details := []string{
		fmt.Sprintf("snake_case: %d", snake),
		fmt.Sprintf("camelCase: %d", camel),
		fmt.Sprintf("PascalCase: %d", pascal),
	}
	return 1 - consistency, "Naming consistency: " + percent(consistency), details
}

func deadCodeIndicators(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var order []string
	locations := make(map[string]int)
	total := 0
	for _, a := range analyses {
		for _, f := range a.Functions {
			total++
			if _, ok := locations[f.Name]; !ok {
				order = append(order, f.Name)
			}
			locations[f.Name]++
		}
	}
	if total == 0 {
		return 0, "Duplicate function detection", nil
	}

	var dups []ranked
	defined := 0
	for _, name := range order {
		n := locations[name]
		if n < 2 || deadCodeWhitelist[name] {
			continue
		}
		defined += n
		dups = append(dups, ranked{
			label:  fmt.Sprintf("%s: defined in %d files", name, n),
			weight: float64(n),
		})
	}

	score := float64(defined) / float64(total) * 5
	desc := fmt.Sprintf("%d functions have duplicate definitions", len(dups))
	return score, desc, topDetails(dups)
}

func overEngineering(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var classes, code int
	for _, a := range analyses {
		classes += a.ClassCount()
		code += a.CodeLines
	}
	if code < 100 {
		return 0, "Class density analysis", nil
	}

	density := float64(classes) / float64(code) * 1000
	score := clamp((density - 10) / 20)

	var details []string
	if score > 0.3 {
		for _, a := range analyses {
			if a.ClassCount() > 3 && a.CodeLines < 200 {
				details = append(details, fmt.Sprintf("%s: %d classes in %d lines",
					a.File.RelPath, a.ClassCount(), a.CodeLines))
			}
		}
		details = details[:min(len(details), maxDetails)]
	}
	return score, fmt.Sprintf("Class density: %.1f per KLOC", density), details
}

func missingErrorHandling(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var handled, total int
	var unhandledFiles []ranked
	for _, a := range analyses {
		n := a.FunctionCount()
		total += n
		if a.HasErrorHandling {
			handled += n
		} else if n > 0 {
			unhandledFiles = append(unhandledFiles, ranked{
				label:  fmt.Sprintf("%s: %d functions, no error handling", a.File.RelPath, n),
				weight: float64(n),
			})
		}
	}
	if total == 0 {
		return 0, "Error handling analysis", nil
	}

	unhandled := 1 - float64(handled)/float64(total)
	return unhandled, percent(unhandled) + " of functions lack error handling", topDetails(unhandledFiles)
}

func copyPasteArtifacts(analyses []*analyzer.FileAnalysis) (float64, string, []string) {
	var order []string
	counts := make(map[string]int)
	total := 0
	for _, a := range analyses {
		for _, s := range a.StringLiterals {
			total++
			if _, ok := counts[s]; !ok {
				order = append(order, s)
			}
			counts[s]++
		}
	}
	if total < 10 {
		return 0, "Copy-paste detection", nil
	}

	var repeated []ranked
	repeatedCount := 0
	for _, s := range order {
		n := counts[s]
		if n < copyPasteMinOccurrences || utf8.RuneCountInString(s) <= 20 {
			continue
		}
		repeatedCount += n
		repeated = append(repeated, ranked{
			label:  fmt.Sprintf("\"%s...\" appears %d times", truncateRunes(s, 40), n),
			weight: float64(n),
		})
	}

	score := float64(repeatedCount) / float64(total) * 2
	return score, fmt.Sprintf("%d repeated string patterns", len(repeated)), topDetails(repeated)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
