package duplicates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/revibe/internal/analyzer"
	"github.com/blackwell-systems/revibe/internal/scanner"
)

func fa(path, lang, hash string, code int, funcs, classes []string) *analyzer.FileAnalysis {
	a := &analyzer.FileAnalysis{
		File:        scanner.SourceFile{RelPath: path, Language: lang},
		CodeLines:   code,
		ContentHash: hash,
	}
	for _, f := range funcs {
		a.Functions = append(a.Functions, analyzer.Function{Name: f})
	}
	for _, c := range classes {
		a.Classes = append(a.Classes, analyzer.Class{Name: c})
	}
	return a
}

func TestFindExact(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		fa("b/copy.py", "Python", "h1", 5, nil, nil),
		fa("a/orig.py", "Python", "h1", 5, nil, nil),
		fa("unique.py", "Python", "h2", 5, nil, nil),
		fa("nohash.py", "Python", "", 5, nil, nil),
		fa("nohash2.py", "Python", "", 5, nil, nil),
	}

	groups := FindExact(analyses)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a/orig.py", "b/copy.py"}, groups[0].Files)
	assert.True(t, groups[0].Exact)
	assert.Equal(t, 1.0, groups[0].Similarity)
}

func TestSimilarity_Identical(t *testing.T) {
	a := fa("x.go", "Go", "1", 40, []string{"Load", "Save"}, []string{"Store"})
	b := fa("y.go", "Go", "2", 40, []string{"Save", "Load"}, []string{"Store"})
	assert.InDelta(t, 1.0, Similarity(a, b), 1e-9)
}

func TestSimilarity_Components(t *testing.T) {
	a := fa("x.go", "Go", "1", 20, []string{"A", "B"}, nil)
	b := fa("y.go", "Go", "2", 40, []string{"B", "C"}, nil)
	// line 0.5*0.3 + funcs 1/3*0.5 + classes 0
	assert.InDelta(t, 0.15+0.5/3, Similarity(a, b), 1e-9)

	empty1 := fa("e1.go", "Go", "3", 0, nil, nil)
	empty2 := fa("e2.go", "Go", "4", 0, nil, nil)
	assert.InDelta(t, 0.3, Similarity(empty1, empty2), 1e-9)

	assert.InDelta(t, 0.0, Similarity(empty1, b), 1e-9)
}

func TestFindNear(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		fa("svc/user.go", "Go", "1", 50, []string{"Get", "List", "Delete"}, []string{"Service"}),
		fa("svc/account.go", "Go", "2", 50, []string{"Get", "List", "Delete"}, []string{"Service"}),
		fa("svc/other.go", "Go", "3", 50, []string{"Render"}, nil),
		fa("tiny.go", "Go", "4", 9, []string{"Get", "List", "Delete"}, []string{"Service"}),
		fa("user.py", "Python", "5", 50, []string{"Get", "List", "Delete"}, []string{"Service"}),
	}

	groups := FindNear(analyses, DefaultThreshold)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"svc/user.go", "svc/account.go"}, groups[0].Files)
	assert.False(t, groups[0].Exact)
	assert.InDelta(t, 1.0, groups[0].Similarity, 1e-9)
}

func TestFindNear_SortedBySimilarity(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		fa("a.go", "Go", "1", 20, []string{"X", "Y"}, nil),
		fa("b.go", "Go", "2", 20, []string{"X"}, nil),
		fa("c.go", "Go", "3", 20, []string{"X", "Y"}, nil),
	}
	groups := FindNear(analyses, DefaultThreshold)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"a.go", "c.go"}, groups[0].Files)
	for i := 1; i < len(groups); i++ {
		assert.GreaterOrEqual(t, groups[i-1].Similarity, groups[i].Similarity)
	}
}

func TestFindAll_DropsNearPairsCoveredByExact(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		fa("a.go", "Go", "same", 30, []string{"Run"}, nil),
		fa("b.go", "Go", "same", 30, []string{"Run"}, nil),
	}
	groups := FindAll(analyses, DefaultThreshold)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Exact)
}

func TestFindAll_ExactFirst(t *testing.T) {
	analyses := []*analyzer.FileAnalysis{
		fa("a.go", "Go", "same", 30, []string{"Run"}, nil),
		fa("b.go", "Go", "same", 30, []string{"Run"}, nil),
		fa("c.go", "Go", "other", 30, []string{"Run"}, nil),
	}
	groups := FindAll(analyses, DefaultThreshold)
	require.Len(t, groups, 3)
	assert.True(t, groups[0].Exact)
	assert.False(t, groups[1].Exact)
	assert.False(t, groups[2].Exact)
}

func TestFindAll_Empty(t *testing.T) {
	assert.Empty(t, FindAll(nil, DefaultThreshold))
}

func TestFormatReport(t *testing.T) {
	assert.Equal(t, "No duplicate files detected.", FormatReport(nil))

	got := FormatReport([]Group{
		{Files: []string{"a.py", "b.py"}, Exact: true, Similarity: 1},
		{Files: []string{"c.py", "d.py"}, Similarity: 0.734},
	})
	want := "Exact Duplicates (1 groups):\n" +
		"  Group 1:\n" +
		"    - a.py\n" +
		"    - b.py\n" +
		"\nNear Duplicates (1 pairs):\n" +
		"  c.py <-> d.py (73% similar)"
	assert.Equal(t, want, got)
}
