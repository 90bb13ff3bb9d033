// Package patterns holds the per-language regular expression tables used by
// the file analyzer. A Registry is built once and is read-only afterwards; it
// is safe to share between goroutines.
package patterns

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// CommentSyntax describes how a language marks comments. MultiStart and
// MultiEnd are empty when the language has no block comment form.
type CommentSyntax struct {
	Single     string
	MultiStart string
	MultiEnd   string
}

// HasMulti reports whether the syntax defines a block comment delimiter pair.
func (c CommentSyntax) HasMulti() bool {
	return c.MultiStart != "" && c.MultiEnd != ""
}

// defaultComment applies to languages without an explicit comment entry.
var defaultComment = CommentSyntax{Single: "#"}

// Language is the compiled pattern set for one language. Slices are ordered;
// the first matching function or class pattern wins.
type Language struct {
	Name          string
	Functions     []*regexp.Regexp
	Classes       []*regexp.Regexp
	Imports       []*regexp.Regexp
	ErrorHandling []*regexp.Regexp
	Features      []*regexp.Regexp
	Comment       CommentSyntax
}

// Registry maps language names to their compiled patterns.
type Registry struct {
	languages     map[string]*Language
	todo          *regexp.Regexp
	stringLiteral *regexp.Regexp
}

// NewRegistry compiles the built-in tables into a fresh Registry.
func NewRegistry() *Registry {
	r := &Registry{
		languages:     make(map[string]*Language),
		todo:          compile(todoPattern),
		stringLiteral: compile(stringLiteralPattern),
	}

	lang := func(name string) *Language {
		l, ok := r.languages[name]
		if !ok {
			l = &Language{Name: name, Comment: defaultComment}
			r.languages[name] = l
		}
		return l
	}

	for name, exprs := range functionPatterns {
		lang(name).Functions = compileAll(exprs)
	}
	for name, exprs := range classPatterns {
		lang(name).Classes = compileAll(exprs)
	}
	for name, exprs := range importPatterns {
		lang(name).Imports = compileAll(exprs)
	}
	for name, exprs := range errorHandlingPatterns {
		lang(name).ErrorHandling = compileAll(exprs)
	}
	for name, exprs := range featurePatterns {
		lang(name).Features = compileAll(exprs)
	}
	for name, syntax := range commentSyntax {
		lang(name).Comment = syntax
	}

	return r
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Default returns the process-wide registry, compiling it on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Lookup returns the patterns for language. Unknown languages get an empty
// pattern set with "#" line comments, so analysis still counts lines.
func (r *Registry) Lookup(language string) *Language {
	if l, ok := r.languages[language]; ok {
		return l
	}
	return &Language{Name: language, Comment: defaultComment}
}

// Languages returns the names of every language with at least one pattern,
// sorted.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.languages))
	for name := range r.languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TODO matches a task marker in a comment; group 1 is the marker text.
func (r *Registry) TODO() *regexp.Regexp {
	return r.todo
}

// StringLiteral matches a quoted literal of 20 or more characters; group 1
// is the content between the quotes.
func (r *Registry) StringLiteral() *regexp.Regexp {
	return r.stringLiteral
}

func compileAll(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = compile(e)
	}
	return out
}

// compile is regexp.MustCompile with Unicode-aware \w, \s and \S.
func compile(expr string) *regexp.Regexp {
	return regexp.MustCompile(unicodeClasses(expr))
}

const (
	wordRanges  = `\p{L}\p{N}_`
	spaceRanges = `\s\v\p{Z}\x1c-\x1f\x{85}`
)

// unicodeClasses rewrites the ASCII-only Perl classes \w, \s and \S into
// their Unicode equivalents, inside and outside bracket expressions.
func unicodeClasses(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))

	inClass := false
	classStart := 0 // index just past '[' or '[^'
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '\\' && i+1 < len(expr) {
			i++
			switch next := expr[i]; {
			case next == 'w' && inClass:
				b.WriteString(wordRanges)
			case next == 'w':
				b.WriteString("[" + wordRanges + "]")
			case next == 's' && inClass:
				b.WriteString(spaceRanges)
			case next == 's':
				b.WriteString("[" + spaceRanges + "]")
			case next == 'S' && !inClass:
				b.WriteString("[^" + spaceRanges + "]")
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		}

		switch {
		case !inClass && c == '[':
			inClass = true
			classStart = i + 1
			if classStart < len(expr) && expr[classStart] == '^' {
				classStart++
			}
		case inClass && c == '[' && strings.HasPrefix(expr[i:], "[:"):
			// POSIX class such as [:alpha:]; copy through its closing ':]'.
			if end := strings.Index(expr[i+2:], ":]"); end >= 0 {
				b.WriteString(expr[i : i+2+end+2])
				i += 2 + end + 1
				continue
			}
		case inClass && c == ']' && i != classStart:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
