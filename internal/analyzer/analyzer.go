package analyzer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"

	"github.com/blackwell-systems/revibe/internal/patterns"
	"github.com/blackwell-systems/revibe/internal/scanner"
)

// Analyzer runs per-file analysis against a pattern registry.
type Analyzer struct {
	registry *patterns.Registry
	opts     Options
}

// New returns an Analyzer. A nil registry selects patterns.Default().
func New(reg *patterns.Registry, opts Options) *Analyzer {
	if reg == nil {
		reg = patterns.Default()
	}
	return &Analyzer{registry: reg, opts: opts}
}

// AnalyzeFile reads and analyzes f. Unreadable files return the read error;
// files containing a NUL byte return ErrBinary.
func (a *Analyzer) AnalyzeFile(f scanner.SourceFile) (*FileAnalysis, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
	}
	return a.Analyze(f, data)
}

// Analyze measures data as the contents of f. Invalid UTF-8 is replaced with
// U+FFFD, one per maximal invalid subsequence, before line processing.
func (a *Analyzer) Analyze(f scanner.SourceFile, data []byte) (*FileAnalysis, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%s: %w", f.RelPath, ErrBinary)
	}

	sum := sha256.Sum256(data)
	text := decodeUTF8(data)
	lines := splitLines(text)
	lang := a.registry.Lookup(f.Language)

	res := &FileAnalysis{
		File:        f,
		TotalLines:  len(lines),
		ContentHash: hex.EncodeToString(sum[:]),
	}

	a.scanLines(res, lines, lang)
	res.Complexity = complexity(res, lines)

	for _, re := range lang.Features {
		res.FeatureMatches += len(re.FindAllStringIndex(text, -1))
	}
	return res, nil
}

func (a *Analyzer) scanLines(res *FileAnalysis, lines []string, lang *patterns.Language) {
	var (
		inBlock   bool
		fn, class span
	)
	closeFunction := func(name string, start, end int) {
		res.Functions = append(res.Functions, Function{
			Name:      name,
			StartLine: start,
			EndLine:   end,
			LineCount: end - start + 1,
			Sensitive: IsSensitive(name),
		})
	}
	closeClass := func(name string, start, end int) {
		res.Classes = append(res.Classes, Class{Name: name, StartLine: start, EndLine: end})
	}

	todo := a.registry.TODO()
	literal := a.registry.StringLiteral()

	for i, line := range lines {
		num := i + 1
		stripped := trimSpace(line)

		var isComment bool
		isComment, inBlock = classifyComment(stripped, lang.Comment, inBlock)

		if stripped == "" {
			res.BlankLines++
			continue
		}

		if m := todo.FindStringSubmatch(line); m != nil {
			res.Todos = append(res.Todos, Todo{Line: num, Content: trimSpace(m[1])})
		}
		for _, re := range lang.Imports {
			if re.MatchString(line) {
				res.Imports = append(res.Imports, stripped)
				break
			}
		}
		if !res.HasErrorHandling {
			for _, re := range lang.ErrorHandling {
				if re.MatchString(line) {
					res.HasErrorHandling = true
					break
				}
			}
		}
		for _, m := range literal.FindAllStringSubmatch(line, -1) {
			res.StringLiterals = append(res.StringLiterals, m[1])
		}

		if isComment {
			res.CommentLines++
			if !a.opts.StructureInComments {
				continue
			}
		} else {
			res.CodeLines++
		}

		if name, ok := firstMatch(lang.Functions, line); ok {
			fn.openAt(name, num, closeFunction)
		}
		if name, ok := firstMatch(lang.Classes, line); ok {
			class.openAt(name, num, closeClass)
		}
	}

	fn.closeAt(len(lines), closeFunction)
	class.closeAt(len(lines), closeClass)
}

func firstMatch(res []*regexp.Regexp, line string) (string, bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(line); m != nil && len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}
