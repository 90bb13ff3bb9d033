// Package duplicates finds files that are exact byte copies of each other and
// pairs of files whose structure is similar enough to suggest copy-paste.
package duplicates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/revibe/internal/analyzer"
)

const (
	// DefaultThreshold is the minimum similarity for a near-duplicate pair.
	DefaultThreshold = 0.5

	// MinCodeLines excludes small files from near-duplicate comparison.
	MinCodeLines = 10
)

// Group is a set of duplicated files. Exact groups hold two or more files
// sorted by path with Similarity 1. Near groups hold exactly two files.
type Group struct {
	Files      []string `json:"files" yaml:"files"`
	Exact      bool     `json:"is_exact" yaml:"is_exact"`
	Similarity float64  `json:"similarity" yaml:"similarity"`
}

// FindExact groups files by content hash. Groups appear in the order their
// hash was first seen; files without a hash are ignored.
func FindExact(analyses []*analyzer.FileAnalysis) []Group {
	var order []string
	byHash := make(map[string][]string)
	for _, a := range analyses {
		if a.ContentHash == "" {
			continue
		}
		if _, ok := byHash[a.ContentHash]; !ok {
			order = append(order, a.ContentHash)
		}
		byHash[a.ContentHash] = append(byHash[a.ContentHash], a.File.RelPath)
	}

	var groups []Group
	for _, h := range order {
		files := byHash[h]
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		groups = append(groups, Group{Files: files, Exact: true, Similarity: 1})
	}
	return groups
}

// FindNear compares every pair of same-language files with at least
// MinCodeLines code lines and returns the pairs at or above threshold, most
// similar first.
func FindNear(analyses []*analyzer.FileAnalysis, threshold float64) []Group {
	var langs []string
	byLang := make(map[string][]*analyzer.FileAnalysis)
	for _, a := range analyses {
		if a.CodeLines < MinCodeLines {
			continue
		}
		lang := a.File.Language
		if _, ok := byLang[lang]; !ok {
			langs = append(langs, lang)
		}
		byLang[lang] = append(byLang[lang], a)
	}

	var groups []Group
	seen := make(map[[2]string]bool)
	for _, lang := range langs {
		bucket := byLang[lang]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				p1, p2 := bucket[i].File.RelPath, bucket[j].File.RelPath
				key := [2]string{p1, p2}
				if p2 < p1 {
					key = [2]string{p2, p1}
				}
				if seen[key] {
					continue
				}
				seen[key] = true

				sim := Similarity(bucket[i], bucket[j])
				if sim >= threshold {
					groups = append(groups, Group{Files: []string{p1, p2}, Similarity: sim})
				}
			}
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Similarity > groups[j].Similarity
	})
	return groups
}

// FindAll returns exact groups followed by near pairs, minus near pairs whose
// file set is already an exact group.
func FindAll(analyses []*analyzer.FileAnalysis, threshold float64) []Group {
	exact := FindExact(analyses)
	near := FindNear(analyses, threshold)

	exactSets := make(map[string]bool, len(exact))
	for _, g := range exact {
		exactSets[setKey(g.Files)] = true
	}

	out := exact
	for _, g := range near {
		if !exactSets[setKey(g.Files)] {
			out = append(out, g)
		}
	}
	return out
}

func setKey(files []string) string {
	uniq := make(map[string]bool, len(files))
	var keys []string
	for _, f := range files {
		if !uniq[f] {
			uniq[f] = true
			keys = append(keys, f)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x00")
}

// Similarity scores two files in [0, 1]: code line ratio weighted 0.3,
// function name Jaccard 0.5 and class name Jaccard 0.2.
func Similarity(a, b *analyzer.FileAnalysis) float64 {
	var lineSim float64
	switch {
	case a.CodeLines == 0 && b.CodeLines == 0:
		lineSim = 1
	case a.CodeLines == 0 || b.CodeLines == 0:
		lineSim = 0
	default:
		lineSim = float64(min(a.CodeLines, b.CodeLines)) / float64(max(a.CodeLines, b.CodeLines))
	}

	fa, fb := make([]string, len(a.Functions)), make([]string, len(b.Functions))
	for i, f := range a.Functions {
		fa[i] = f.Name
	}
	for i, f := range b.Functions {
		fb[i] = f.Name
	}
	ca, cb := make([]string, len(a.Classes)), make([]string, len(b.Classes))
	for i, c := range a.Classes {
		ca[i] = c.Name
	}
	for i, c := range b.Classes {
		cb[i] = c.Name
	}

	return lineSim*0.3 + jaccard(fa, fb)*0.5 + jaccard(ca, cb)*0.2
}

// jaccard is |A∩B| / |A∪B| over the distinct names, or 0 when either side
// is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sa := make(map[string]bool, len(a))
	for _, n := range a {
		sa[n] = true
	}
	sb := make(map[string]bool, len(b))
	for _, n := range b {
		sb[n] = true
	}
	shared := 0
	for n := range sa {
		if sb[n] {
			shared++
		}
	}
	union := len(sa) + len(sb) - shared
	return float64(shared) / float64(union)
}

// FormatReport renders groups as plain text.
func FormatReport(groups []Group) string {
	if len(groups) == 0 {
		return "No duplicate files detected."
	}

	var exact, near []Group
	for _, g := range groups {
		if g.Exact {
			exact = append(exact, g)
		} else {
			near = append(near, g)
		}
	}

	var lines []string
	if len(exact) > 0 {
		lines = append(lines, fmt.Sprintf("Exact Duplicates (%d groups):", len(exact)))
		for i, g := range exact {
			lines = append(lines, fmt.Sprintf("  Group %d:", i+1))
			for _, f := range g.Files {
				lines = append(lines, "    - "+f)
			}
		}
	}
	if len(near) > 0 {
		lines = append(lines, fmt.Sprintf("\nNear Duplicates (%d pairs):", len(near)))
		for i, g := range near {
			if i == 10 {
				break
			}
			lines = append(lines, fmt.Sprintf("  %s <-> %s (%.0f%% similar)", g.Files[0], g.Files[1], g.Similarity*100))
		}
	}
	return strings.Join(lines, "\n")
}
