package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstName(res []*regexpMatch) string {
	if len(res) == 0 {
		return ""
	}
	return res[0].name
}

type regexpMatch struct{ name string }

func matchFunctions(l *Language, line string) []*regexpMatch {
	var out []*regexpMatch
	for _, re := range l.Functions {
		if m := re.FindStringSubmatch(line); m != nil {
			out = append(out, &regexpMatch{name: m[1]})
		}
	}
	return out
}

func TestRegistry_FunctionPatterns(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		lang, line, want string
	}{
		{"Python", "def process_payment(amount):", "process_payment"},
		{"Python", "    async def fetch(url):", "fetch"},
		{"Go", "func (s *Server) Handle(w http.ResponseWriter) {", "Handle"},
		{"Go", "func main() {", "main"},
		{"JavaScript", "const loadUser = async (id) => {", "loadUser"},
		{"TypeScript", "function parse<T>(raw: string): T {", "parse"},
		{"Rust", "pub async fn serve(addr: &str) {", "serve"},
		{"Kotlin", "suspend fun load(id: Int) {", "load"},
		{"Ruby", "def self.build", "build"},
		{"PHP", "public static function create($x)", "create"},
	}

	for _, tc := range cases {
		got := firstName(matchFunctions(r.Lookup(tc.lang), tc.line))
		if got != tc.want {
			t.Errorf("%s %q: expected %q, got %q", tc.lang, tc.line, tc.want, got)
		}
	}
}

func TestRegistry_ClassPatterns(t *testing.T) {
	r := NewRegistry()

	goLang := r.Lookup("Go")
	require.Len(t, goLang.Classes, 1)
	m := goLang.Classes[0].FindStringSubmatch("type Config struct {")
	require.NotNil(t, m)
	assert.Equal(t, "Config", m[1])
	assert.Nil(t, goLang.Classes[0].FindStringSubmatch("type ID string"))

	py := r.Lookup("Python")
	m = py.Classes[0].FindStringSubmatch("class Invoice(Base):")
	require.NotNil(t, m)
	assert.Equal(t, "Invoice", m[1])
}

func TestRegistry_UnicodeIdentifiers(t *testing.T) {
	r := NewRegistry()
	py := r.Lookup("Python")

	assert.Equal(t, "café", firstName(matchFunctions(py, "def café():")))
	assert.Equal(t, "ñame_func", firstName(matchFunctions(py, "def ñame_func(x):")))
	assert.Equal(t, "計算", firstName(matchFunctions(py, "def 計算(x):")))
	assert.Equal(t, "run", firstName(matchFunctions(py, "\u00a0\u3000def\u2003run():")))

	m := py.Classes[0].FindStringSubmatch("class Ünicode:")
	require.NotNil(t, m)
	assert.Equal(t, "Ünicode", m[1])
}

func TestUnicodeClasses(t *testing.T) {
	cases := []struct{ in, want string }{
		{`^\s*def\s+(\w+)`, `^[` + spaceRanges + `]*def[` + spaceRanges + `]+([` + wordRanges + `]+)`},
		{`import\s+(\S+)`, `import[` + spaceRanges + `]+([^` + spaceRanges + `]+)`},
		{`[\w.]+`, `[` + wordRanges + `.]+`},
		{`[^\s]`, `[^` + spaceRanges + `]`},
		{`[]\w]\w`, `[]` + wordRanges + `][` + wordRanges + `]`},
		{`[[:alpha:]\w]`, `[[:alpha:]` + wordRanges + `]`},
		{`\d\.\(`, `\d\.\(`},
	}
	for _, tc := range cases {
		got := unicodeClasses(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.NotPanics(t, func() { compile(tc.in) }, tc.in)
	}
}

func TestRegistry_CommentSyntax(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, CommentSyntax{Single: "#", MultiStart: `"""`, MultiEnd: `"""`}, r.Lookup("Python").Comment)
	assert.Equal(t, "//", r.Lookup("Go").Comment.Single)
	assert.True(t, r.Lookup("C++").Comment.HasMulti())
	assert.False(t, r.Lookup("Shell").Comment.HasMulti())
}

func TestRegistry_UnknownLanguage(t *testing.T) {
	l := NewRegistry().Lookup("Brainfuck")
	assert.Equal(t, "Brainfuck", l.Name)
	assert.Equal(t, "#", l.Comment.Single)
	assert.Empty(t, l.Functions)
	assert.Empty(t, l.Classes)
}

func TestRegistry_Languages(t *testing.T) {
	names := NewRegistry().Languages()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "Go")
	assert.Contains(t, names, "Shell")
	assert.Contains(t, names, "C++")
}

func TestRegistry_TODO(t *testing.T) {
	re := Default().TODO()

	m := re.FindStringSubmatch("    # TODO: handle refunds")
	require.NotNil(t, m)
	assert.Equal(t, "handle refunds", m[1])

	m = re.FindStringSubmatch("x := 1 // fixme broken on windows")
	require.NotNil(t, m)
	assert.Equal(t, "broken on windows", m[1])

	assert.Nil(t, re.FindStringSubmatch("todo list without marker"))
}

func TestRegistry_StringLiteral(t *testing.T) {
	re := Default().StringLiteral()

	all := re.FindAllStringSubmatch(`msg := "this string is long enough to count"; short := "tiny"`, -1)
	require.Len(t, all, 1)
	assert.Equal(t, "this string is long enough to count", all[0][1])
}

func TestRegistry_ErrorHandlingGo(t *testing.T) {
	l := Default().Lookup("Go")
	require.Len(t, l.ErrorHandling, 1)
	assert.True(t, l.ErrorHandling[0].MatchString("\tif err != nil {"))
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
