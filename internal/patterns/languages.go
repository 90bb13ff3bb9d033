package patterns

// Expressions are kept as source strings so the tables read like data and are
// compiled exactly once by NewRegistry.

const (
	todoPattern          = `(?i)(?:#|//|/\*|\*|<!--)\s*(?:TODO|FIXME|HACK|XXX|BUG)\s*:?\s*(.+)`
	stringLiteralPattern = `["']([^"']{20,})["']`
)

// Capture group 1 of every function pattern is the function name.
var functionPatterns = map[string][]string{
	"Python": {
		`^\s*def\s+(\w+)\s*\(`,
		`^\s*async\s+def\s+(\w+)\s*\(`,
	},
	"JavaScript": {
		`^\s*function\s+(\w+)\s*\(`,
		`^\s*async\s+function\s+(\w+)\s*\(`,
		`^\s*(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\(`,
		`^\s*(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?function`,
		`^\s*(\w+)\s*:\s*(?:async\s+)?function`,
		`^\s*(\w+)\s*\([^)]*\)\s*\{`,
	},
	"TypeScript": {
		`^\s*function\s+(\w+)\s*[<(]`,
		`^\s*async\s+function\s+(\w+)\s*[<(]`,
		`^\s*(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\(`,
		`^\s*(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?function`,
		`^\s*(?:public|private|protected)?\s*(?:async\s+)?(\w+)\s*\([^)]*\)\s*[:{]`,
	},
	"Go": {
		`^\s*func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`,
	},
	"Rust": {
		`^\s*(?:pub\s+)?(?:async\s+)?fn\s+(\w+)\s*[<(]`,
	},
	"Java": {
		`^\s*(?:public|private|protected)?\s*(?:static\s+)?(?:\w+\s+)+(\w+)\s*\([^)]*\)\s*(?:throws\s+\w+)?\s*\{`,
	},
	"Kotlin": {
		`^\s*(?:fun|suspend\s+fun)\s+(\w+)\s*[<(]`,
	},
	"Swift": {
		`^\s*(?:func|class\s+func|static\s+func)\s+(\w+)\s*[<(]`,
	},
	"C#": {
		`^\s*(?:public|private|protected|internal)?\s*(?:static\s+)?(?:async\s+)?(?:\w+\s+)+(\w+)\s*\([^)]*\)\s*\{`,
	},
	"PHP": {
		`^\s*(?:public|private|protected)?\s*(?:static\s+)?function\s+(\w+)\s*\(`,
	},
	"Ruby": {
		`^\s*def\s+(?:self\.)?(\w+)`,
	},
	"Dart": {
		`^\s*(?:\w+\s+)?(\w+)\s*\([^)]*\)\s*(?:async\s*)?\{`,
	},
}

var classPatterns = map[string][]string{
	"Python":     {`^\s*class\s+(\w+)`},
	"JavaScript": {`^\s*class\s+(\w+)`},
	"TypeScript": {`^\s*(?:export\s+)?(?:abstract\s+)?class\s+(\w+)`},
	"Go":         {`^\s*type\s+(\w+)\s+struct\s*\{`},
	"Rust":       {`^\s*(?:pub\s+)?struct\s+(\w+)`},
	"Java":       {`^\s*(?:public\s+)?(?:abstract\s+)?class\s+(\w+)`},
	"Kotlin":     {`^\s*(?:data\s+)?class\s+(\w+)`},
	"Swift":      {`^\s*(?:class|struct)\s+(\w+)`},
	"C#":         {`^\s*(?:public\s+)?(?:partial\s+)?class\s+(\w+)`},
	"PHP":        {`^\s*class\s+(\w+)`},
	"Ruby":       {`^\s*class\s+(\w+)`},
	"Dart":       {`^\s*class\s+(\w+)`},
}

var importPatterns = map[string][]string{
	"Python": {
		`^\s*import\s+(\S+)`,
		`^\s*from\s+(\S+)\s+import`,
	},
	"JavaScript": {
		`^\s*import\s+`,
		`^\s*(?:const|let|var)\s+\w+\s*=\s*require\(`,
	},
	"TypeScript": {`^\s*import\s+`},
	"Go":         {`^\s*import\s+`},
	"Rust":       {`^\s*use\s+`},
	"Java":       {`^\s*import\s+`},
	"Kotlin":     {`^\s*import\s+`},
	"Swift":      {`^\s*import\s+`},
	"C#":         {`^\s*using\s+`},
	"PHP":        {`^\s*(?:use|require|include)`},
	"Ruby":       {`^\s*require`},
	"Dart":       {`^\s*import\s+`},
}

var errorHandlingPatterns = map[string][]string{
	"Python":     {`^\s*try\s*:`, `^\s*except\s*`},
	"JavaScript": {`^\s*try\s*\{`, `\.catch\s*\(`},
	"TypeScript": {`^\s*try\s*\{`, `\.catch\s*\(`},
	"Go":         {`if\s+err\s*!=\s*nil`},
	"Rust":       {`\?\s*;`, `\.unwrap_or`},
	"Java":       {`^\s*try\s*\{`, `^\s*catch\s*\(`},
	"Kotlin":     {`^\s*try\s*\{`, `^\s*catch\s*\(`},
	"Swift":      {`^\s*do\s*\{`, `^\s*catch\s*`},
	"C#":         {`^\s*try\s*\{`, `^\s*catch\s*\(`},
	"PHP":        {`^\s*try\s*\{`, `^\s*catch\s*\(`},
	"Ruby":       {`^\s*begin\s*$`, `^\s*rescue\s*`},
	"Dart":       {`^\s*try\s*\{`, `^\s*catch\s*\(`},
}

// Route and endpoint declarations, matched against whole file contents.
var featurePatterns = map[string][]string{
	"Python": {
		`@app\.route\(`,
		`@router\.\w+\(`,
		`@api_view\(`,
		`path\(['"]`,
		`url\(['"]`,
		`def\s+\w+_view\(`,
	},
	"JavaScript": jsFeatures,
	"TypeScript": jsFeatures,
	"Go": {
		`http\.HandleFunc\(`,
		`r\.HandleFunc\(`,
		`router\.(GET|POST|PUT|PATCH|DELETE)\(`,
		`e\.(GET|POST|PUT|PATCH|DELETE)\(`,
	},
	"Ruby": {
		`get\s+['"]`,
		`post\s+['"]`,
		`put\s+['"]`,
		`patch\s+['"]`,
		`delete\s+['"]`,
		`resources\s+:`,
	},
	"PHP": {
		`Route::(get|post|put|patch|delete)\(`,
		`->get\(['"]`,
		`->post\(['"]`,
	},
}

var jsFeatures = []string{
	`app\.(get|post|put|patch|delete)\(`,
	`router\.(get|post|put|patch|delete)\(`,
	`export\s+(default\s+)?function\s+\w+Page`,
	`export\s+(default\s+)?function\s+\w+Route`,
	`getServerSideProps`,
	`getStaticProps`,
}

var cStyle = CommentSyntax{Single: "//", MultiStart: "/*", MultiEnd: "*/"}

var commentSyntax = map[string]CommentSyntax{
	"Python":     {Single: "#", MultiStart: `"""`, MultiEnd: `"""`},
	"JavaScript": cStyle,
	"TypeScript": cStyle,
	"Go":         cStyle,
	"Rust":       cStyle,
	"Java":       cStyle,
	"Kotlin":     cStyle,
	"Swift":      cStyle,
	"C#":         cStyle,
	"PHP":        cStyle,
	"Ruby":       {Single: "#", MultiStart: "=begin", MultiEnd: "=end"},
	"Dart":       cStyle,
	"C":          cStyle,
	"C++":        cStyle,
	"Shell":      {Single: "#"},
}
