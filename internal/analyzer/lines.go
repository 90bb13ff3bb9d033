package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blackwell-systems/revibe/internal/patterns"
)

// splitLines breaks text on every line boundary a text editor recognises:
// \n, \r\n, \r, \v, \f, the file/group/record separators, NEL, and the
// Unicode line and paragraph separators. A trailing terminator does not
// produce an empty final line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '\r':
			lines = append(lines, text[start:i])
			i += size
			if i < len(text) && text[i] == '\n' {
				i++
			}
			start = i
			continue
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, text[start:i])
			i += size
			start = i
			continue
		}
		i += size
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// isSpace matches unicode.IsSpace plus the file, group, record and unit
// separators.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// decodeUTF8 converts data to a string, writing one U+FFFD for each maximal
// invalid subsequence. A truncated but otherwise well-formed multi-byte
// prefix counts as one subsequence; every other bad byte counts alone.
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data) + 8)
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			i += invalidPrefixLen(data[i:])
			continue
		}
		b.Write(data[i : i+size])
		i += size
	}
	return b.String()
}

// invalidPrefixLen returns how many bytes at the start of p form a
// truncated multi-byte sequence, or 1 when p[0] cannot start one.
func invalidPrefixLen(p []byte) int {
	var (
		conts  int
		lo, hi byte = 0x80, 0xBF
	)
	switch c := p[0]; {
	case c >= 0xC2 && c <= 0xDF:
		conts = 1
	case c == 0xE0:
		conts, lo = 2, 0xA0
	case c == 0xED:
		conts, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		conts = 2
	case c == 0xF0:
		conts, lo = 3, 0x90
	case c == 0xF4:
		conts, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		conts = 3
	default:
		return 1
	}
	n := 1
	for ; n <= conts && n < len(p); n++ {
		if p[n] < lo || p[n] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return n
}

// classifyComment reports whether stripped is a comment line and returns the
// block comment state for the next line.
//
// A line containing both delimiters is a comment and leaves the state
// unchanged. For languages whose start and end delimiters are identical this
// means a lone delimiter line never opens a block.
func classifyComment(stripped string, syntax patterns.CommentSyntax, inBlock bool) (comment, next bool) {
	if syntax.HasMulti() {
		hasStart := strings.Contains(stripped, syntax.MultiStart)
		hasEnd := strings.Contains(stripped, syntax.MultiEnd)
		switch {
		case hasStart && hasEnd:
			return true, inBlock
		case hasStart:
			return true, true
		case hasEnd:
			return true, false
		}
	}
	if inBlock {
		return true, true
	}
	if syntax.Single != "" && strings.HasPrefix(stripped, syntax.Single) {
		return true, false
	}
	return false, false
}

// span is an open function or class awaiting its end line.
type span struct {
	name  string
	start int
	open  bool
}

// openAt closes the current span at line-1 via closeFn and opens a new one.
func (s *span) openAt(name string, line int, closeFn func(name string, start, end int)) {
	if s.open {
		closeFn(s.name, s.start, line-1)
	}
	*s = span{name: name, start: line, open: true}
}

func (s *span) closeAt(end int, closeFn func(name string, start, end int)) {
	if s.open {
		closeFn(s.name, s.start, end)
		s.open = false
	}
}

var branchKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"switch": true, "case": true, "match": true, "try": true, "catch": true,
}

// complexity counts functions, classes and lines opening with a branching
// keyword, per hundred code lines. Comment lines are scanned for keywords as
// well.
func complexity(a *FileAnalysis, lines []string) float64 {
	if a.CodeLines == 0 {
		return 0
	}
	indicators := len(a.Functions) + len(a.Classes)
	for _, line := range lines {
		stripped := strings.ToLower(trimSpace(line))
		if stripped == "" {
			continue
		}
		word, _, _ := strings.Cut(stripped, " ")
		word, _, _ = strings.Cut(word, "(")
		if branchKeywords[word] {
			indicators++
		}
	}
	return float64(indicators) / float64(a.CodeLines) * 100
}
