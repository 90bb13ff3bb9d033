package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/revibe/internal/pipeline"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// fixture writes a small Python project with one duplicated file and an
// unprotected payment function.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	body := "def process_payment(amount):\n    total = amount * 2\n    return total\n"
	writeFile(t, root, "app/billing.py", body)
	writeFile(t, root, "app/billing_copy.py", body)
	writeFile(t, root, "app/util.py", "def helper():\n    return 1\n")
	return root
}

func callTool(t *testing.T, s *Server, name string, args string) (any, error) {
	t.Helper()
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool.Handler(context.Background(), json.RawMessage(args))
		}
	}
	t.Fatalf("tool %q not registered", name)
	return nil, nil
}

func TestAddTools_Registered(t *testing.T) {
	s := NewServer(pipeline.Options{}, "dev", "")
	var names []string
	for _, tool := range s.tools {
		names = append(names, tool.Name)
		assert.JSONEq(t, string(pathSchema), string(tool.InputSchema))
	}
	assert.Equal(t, []string{"get_health_summary", "get_fix_plan", "get_smells", "get_duplicates"}, names)
}

func TestGetHealthSummary(t *testing.T) {
	root := fixture(t)
	s := NewServer(pipeline.Options{}, "dev", "")

	got, err := callTool(t, s, "get_health_summary", `{"path":`+jsonString(root)+`}`)
	require.NoError(t, err)

	sum, ok := got.(HealthSummaryResult)
	require.True(t, ok, "expected HealthSummaryResult, got %T", got)
	assert.Equal(t, 3, sum.SourceFiles)
	assert.Equal(t, 1, sum.DuplicateGroups)
	assert.NotEmpty(t, sum.ScanID)
	assert.Len(t, sum.SmellScores, 8)

	data, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"health_score":`)
	assert.Contains(t, string(data), `"root":`)
}

func TestGetHealthSummary_DefaultRoot(t *testing.T) {
	root := fixture(t)
	s := NewServer(pipeline.Options{}, "dev", root)

	got, err := callTool(t, s, "get_health_summary", `{}`)
	require.NoError(t, err)
	assert.Equal(t, 3, got.(HealthSummaryResult).SourceFiles)
}

func TestGetFixPlan(t *testing.T) {
	root := fixture(t)
	s := NewServer(pipeline.Options{}, "dev", root)

	got, err := callTool(t, s, "get_fix_plan", `null`)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"priority":"CRITICAL"`)
	assert.Contains(t, string(data), "sensitive functions lack error handling")
}

func TestGetSmells(t *testing.T) {
	s := NewServer(pipeline.Options{}, "dev", fixture(t))

	got, err := callTool(t, s, "get_smells", `{}`)
	require.NoError(t, err)

	res := got.(SmellsResult)
	require.Len(t, res.Smells, 8)
	assert.Equal(t, "excessive_comments", res.Smells[0].Name)
	assert.Equal(t, "copy_paste_artifacts", res.Smells[7].Name)
}

func TestGetDuplicates(t *testing.T) {
	s := NewServer(pipeline.Options{}, "dev", fixture(t))

	got, err := callTool(t, s, "get_duplicates", `{}`)
	require.NoError(t, err)

	res := got.(DuplicatesResult)
	require.Len(t, res.Duplicates, 1)
	assert.True(t, res.Duplicates[0].Exact)
	assert.Equal(t, []string{"app/billing.py", "app/billing_copy.py"}, res.Duplicates[0].Files)
}

func TestTools_ScanError(t *testing.T) {
	s := NewServer(pipeline.Options{}, "dev", "")
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := callTool(t, s, "get_smells", `{"path":`+jsonString(missing)+`}`)
	require.Error(t, err)
}

func TestTools_InvalidArguments(t *testing.T) {
	s := NewServer(pipeline.Options{}, "dev", "")

	_, err := callTool(t, s, "get_duplicates", `{"path":42}`)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid arguments"))
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
